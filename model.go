// File model contains the structs which match the direct structures of the FAT filesystem.
// All of them are read using encoding/binary in little endian.

package fatdir

// bpb is the BIOS parameter block at the start of the volume.
type bpb struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FATSpecificData     [54]byte
}

type fat16SpecificData struct {
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

type fat32SpecificData struct {
	FATSize32        uint32
	ExtFlags         uint16
	FSVersion        uint16
	RootCluster      uint32
	FSInfo           uint16
	BkBootSector     uint16
	Reserved         [12]byte
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// ShortEntry is a 8.3 directory record.
type ShortEntry struct {
	Name            [11]byte
	Attr            Attr
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	AccessDate      uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

// FirstCluster combines the two halves of the cluster reference.
func (e ShortEntry) FirstCluster() uint32 {
	return uint32(e.FirstClusterHI)<<16 | uint32(e.FirstClusterLO)
}

// LFNFragment is a directory record carrying 13 UTF-16 code units of a long name.
type LFNFragment struct {
	Order     byte
	Name1     [5]uint16
	Attr      Attr
	EntryType byte
	Checksum  byte
	Name2     [6]uint16
	Reserved  uint16
	Name3     [2]uint16
}

// Slot returns the 0 based index of the fragment inside the long name.
// It is -1 for the (invalid) order 0.
func (f LFNFragment) Slot() int {
	return int(f.Order&lfnOrderMask) - 1
}

// Last reports whether the fragment is marked as the last one of its name.
func (f LFNFragment) Last() bool {
	return f.Order&lfnLastFragment != 0
}

// Deleted reports whether the fragment is a tombstone.
func (f LFNFragment) Deleted() bool {
	return f.Order == markerDeleted
}

// Units returns the 13 code units in name order.
func (f LFNFragment) Units() [lfnPartLen]uint16 {
	var u [lfnPartLen]uint16
	copy(u[0:5], f.Name1[:])
	copy(u[5:11], f.Name2[:])
	copy(u[11:13], f.Name3[:])
	return u
}
