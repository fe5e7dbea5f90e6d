package fatdir

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// FATType is the FAT variant of a volume.
type FATType uint8

const (
	FAT12 FATType = iota + 1
	FAT16
	FAT32
)

func (t FATType) String() string {
	switch t {
	case FAT12:
		return "FAT12"
	case FAT16:
		return "FAT16"
	case FAT32:
		return "FAT32"
	default:
		return "unknown"
	}
}

// These errors may occur while opening a volume.
var (
	ErrNoFAT             = errors.New("no valid jump instructions at the beginning")
	ErrInvalidSectorSize = errors.New("invalid sector size")
	ErrInvalidCluster    = errors.New("invalid sectors per cluster")
	ErrInvalidGeometry   = errors.New("invalid volume geometry")
)

// info contains all information about the whole filesystem.
type info struct {
	fatType           FATType
	sectorSize        uint32
	sectorsPerCluster uint32
	reservedSectors   uint32
	numFATs           uint32
	fatSize           uint32
	totalSectors      uint32
	firstDataSector   uint32
	countOfClusters   uint32

	// Only FAT12/16.
	rootDirOffset int64
	rootDirSize   int64
	// Only FAT32.
	rootCluster uint32

	label string
}

func (i info) clusterSize() int64 {
	return int64(i.sectorSize) * int64(i.sectorsPerCluster)
}

// clusterOffset returns the byte offset of the first byte of cluster.
func (i info) clusterOffset(cluster uint32) int64 {
	sector := int64(i.firstDataSector) + int64(cluster-2)*int64(i.sectorsPerCluster)
	return sector * int64(i.sectorSize)
}

// maxCluster is the highest valid cluster number.
func (i info) maxCluster() uint32 {
	return i.countOfClusters + 1
}

// sectorCache holds the last sector read from the FAT.
type sectorCache struct {
	current uint32
	valid   bool
	buffer  []byte
}

// Volume is a read only FAT12/16/32 volume. It implements Storage and is
// shared by all directories, entries and files opened from it.
type Volume struct {
	lock   sync.Mutex
	reader io.ReaderAt
	info   info
	sector sectorCache
	shared *shared
}

// Open reads the boot sector of the FAT volume in r.
func Open(r io.ReaderAt, opts ...Option) (*Volume, error) {
	v := &Volume{
		reader: r,
	}
	v.shared = &shared{storage: v, opts: newOptions(opts)}

	if err := v.initialize(v.shared.opts.skipChecks); err != nil {
		return nil, err
	}

	log.Debugf("[FAT] opened %s volume %q: sector size %d, cluster size %d, %d clusters, first data sector %d",
		v.info.fatType, v.info.label, v.info.sectorSize, v.info.clusterSize(), v.info.countOfClusters, v.info.firstDataSector)
	return v, nil
}

func (v *Volume) initialize(skipChecks bool) error {
	// The BPB is always in the first 512 bytes, regardless of the sector size.
	boot := make([]byte, 512)
	if _, err := v.reader.ReadAt(boot, 0); err != nil {
		return NewIoError(err)
	}

	b := bpb{}
	if err := binary.Read(bytes.NewReader(boot), binary.LittleEndian, &b); err != nil {
		return NewIoError(err)
	}

	// Check for valid jump instructions.
	if !(b.BSJumpBoot[0] == 0xEB && b.BSJumpBoot[2] == 0x90) && !(b.BSJumpBoot[0] == 0xE9) {
		return &Error{Kind: KindCorruptedFileSystem, Err: ErrNoFAT}
	}

	// FAT only supports 512, 1024, 2048 and 4096.
	switch b.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return &Error{Kind: KindCorruptedFileSystem, Err: fmt.Errorf("%w: %d", ErrInvalidSectorSize, b.BytesPerSector)}
	}

	// Sectors per cluster has to be a power of two and greater than 0.
	// Also the whole cluster size should not be more than 32K.
	if bits.OnesCount8(b.SectorsPerCluster) != 1 ||
		(!skipChecks && uint32(b.BytesPerSector)*uint32(b.SectorsPerCluster) > 32*1024) {
		return &Error{Kind: KindCorruptedFileSystem, Err: fmt.Errorf("%w: %d", ErrInvalidCluster, b.SectorsPerCluster)}
	}

	if b.ReservedSectorCount == 0 || b.NumFATs == 0 {
		return &Error{Kind: KindCorruptedFileSystem, Err: fmt.Errorf("%w: no reserved sectors or FATs", ErrInvalidGeometry)}
	}

	if !skipChecks {
		if b.Media != 0xF0 && b.Media < 0xF8 {
			return &Error{Kind: KindCorruptedFileSystem, Err: fmt.Errorf("%w: media 0x%02x", ErrInvalidGeometry, b.Media)}
		}
		if boot[510] != 0x55 || boot[511] != 0xAA {
			return &Error{Kind: KindCorruptedFileSystem, Err: fmt.Errorf("%w: missing boot signature", ErrInvalidGeometry)}
		}
	}

	var fat32 fat32SpecificData
	if err := binary.Read(bytes.NewReader(b.FATSpecificData[:]), binary.LittleEndian, &fat32); err != nil {
		return NewIoError(err)
	}

	i := info{
		sectorSize:        uint32(b.BytesPerSector),
		sectorsPerCluster: uint32(b.SectorsPerCluster),
		reservedSectors:   uint32(b.ReservedSectorCount),
		numFATs:           uint32(b.NumFATs),
		fatSize:           uint32(b.FATSize16),
		totalSectors:      uint32(b.TotalSectors16),
	}
	if i.fatSize == 0 {
		i.fatSize = fat32.FATSize32
	}
	if i.totalSectors == 0 {
		i.totalSectors = b.TotalSectors32
	}

	rootDirSectors := (uint32(b.RootEntryCount)*recordSize + i.sectorSize - 1) / i.sectorSize
	i.firstDataSector = i.reservedSectors + i.numFATs*i.fatSize + rootDirSectors
	if i.fatSize == 0 || i.totalSectors <= i.firstDataSector {
		return &Error{Kind: KindCorruptedFileSystem, Err: fmt.Errorf("%w: FAT size %d, total sectors %d", ErrInvalidGeometry, i.fatSize, i.totalSectors)}
	}
	i.countOfClusters = (i.totalSectors - i.firstDataSector) / i.sectorsPerCluster

	// The FAT type is determined by the count of clusters only.
	switch {
	case i.countOfClusters < 4085:
		i.fatType = FAT12
	case i.countOfClusters < 65525:
		i.fatType = FAT16
	default:
		i.fatType = FAT32
	}

	if i.fatType == FAT32 {
		if !skipChecks && b.RootEntryCount != 0 {
			return &Error{Kind: KindCorruptedFileSystem, Err: fmt.Errorf("%w: FAT32 with root entry count %d", ErrInvalidGeometry, b.RootEntryCount)}
		}
		i.rootCluster = fat32.RootCluster
		i.label = strings.TrimRight(string(fat32.BSVolumeLabel[:]), " ")
	} else {
		var fat16 fat16SpecificData
		if err := binary.Read(bytes.NewReader(b.FATSpecificData[:]), binary.LittleEndian, &fat16); err != nil {
			return NewIoError(err)
		}
		i.rootDirOffset = int64(i.reservedSectors+i.numFATs*i.fatSize) * int64(i.sectorSize)
		i.rootDirSize = int64(b.RootEntryCount) * recordSize
		i.label = strings.TrimRight(string(fat16.BSVolumeLabel[:]), " ")
	}

	v.info = i
	v.sector.buffer = make([]byte, i.sectorSize)
	return nil
}

// Label returns the volume label stored in the boot sector.
func (v *Volume) Label() string {
	return v.info.label
}

func (v *Volume) FATType() FATType {
	return v.info.fatType
}

// ClusterSize returns the size of one cluster in bytes.
func (v *Volume) ClusterSize() int64 {
	return v.info.clusterSize()
}

// Root opens the root directory.
func (v *Volume) Root() (*Dir, error) {
	region, err := v.rootRegion()
	if err != nil {
		return nil, err
	}
	return newDir(region, v.shared), nil
}

func (v *Volume) rootRegion() (Region, error) {
	if v.info.fatType == FAT32 {
		chain, err := v.openChain(v.info.rootCluster, -1)
		if err != nil {
			return nil, err
		}
		return chain, nil
	}
	return NewRootRegion(v.reader, v.info.rootDirOffset, v.info.rootDirSize), nil
}

// OpenChain implements Storage.
// Cluster 0 refers to the root directory when used for a directory, as
// stored in the ".." entry of the root's subdirectories.
func (v *Volume) OpenChain(cluster uint32, size int64) (Region, error) {
	if size == 0 {
		return io.NewSectionReader(v.reader, 0, 0), nil
	}
	if cluster == 0 && size < 0 {
		return v.rootRegion()
	}
	chain, err := v.openChain(cluster, size)
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// fetch loads a specific single sector of the filesystem into the sector cache.
// The caller must hold v.lock.
func (v *Volume) fetch(sector uint32) error {
	// Only load it once.
	if v.sector.valid && sector == v.sector.current {
		return nil
	}

	// ReadAt may return io.EOF together with a full sector at the end of the volume.
	n, err := v.reader.ReadAt(v.sector.buffer, int64(sector)*int64(v.info.sectorSize))
	if n < len(v.sector.buffer) {
		v.sector.valid = false
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return NewIoError(err)
	}

	v.sector.current = sector
	v.sector.valid = true
	return nil
}
