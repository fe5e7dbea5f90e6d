package fatdir

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
)

// Dates used for all entries created by the helpers: 2021-03-04 05:06:08.
const (
	testDate uint16 = 41<<9 | 3<<5 | 4
	testTime uint16 = 5<<11 | 6<<5 | 4
)

// rawName converts a name like "README.TXT" into the space padded 8.3 form.
func rawName(name string) [11]byte {
	var raw [11]byte
	for i := range raw {
		raw[i] = ' '
	}
	if name == "." || name == ".." {
		copy(raw[:], name)
		return raw
	}
	base, ext, _ := strings.Cut(name, ".")
	copy(raw[:8], base)
	copy(raw[8:], ext)
	return raw
}

func fileRecord(name string, cluster uint32, size uint32) ShortEntry {
	return ShortEntry{
		Name:           rawName(name),
		Attr:           AttrArchive,
		CreateTime:     testTime,
		CreateDate:     testDate,
		AccessDate:     testDate,
		FirstClusterHI: uint16(cluster >> 16),
		WriteTime:      testTime,
		WriteDate:      testDate,
		FirstClusterLO: uint16(cluster),
		FileSize:       size,
	}
}

func dirRecord(name string, cluster uint32) ShortEntry {
	e := fileRecord(name, cluster, 0)
	e.Attr = AttrDirectory
	return e
}

// lfnChecksum computes the checksum of a short name stored in its LFN fragments.
func lfnChecksum(name [11]byte) byte {
	var sum byte
	for _, c := range name {
		sum = (sum>>1 | sum<<7) + c
	}
	return sum
}

// lfnFragments returns the fragments of long in on-disk order, which is the
// last slot first.
func lfnFragments(long string, checksum byte) []LFNFragment {
	units := utf16.Encode([]rune(long))
	n := (len(units) + lfnPartLen - 1) / lfnPartLen

	padded := make([]uint16, n*lfnPartLen)
	for i := range padded {
		padded[i] = 0xFFFF
	}
	copy(padded, units)
	if len(units) < len(padded) {
		padded[len(units)] = 0
	}

	frags := make([]LFNFragment, 0, n)
	for slot := n; slot >= 1; slot-- {
		part := padded[(slot-1)*lfnPartLen : slot*lfnPartLen]
		f := LFNFragment{Order: byte(slot), Attr: AttrLongName, Checksum: checksum}
		if slot == n {
			f.Order |= lfnLastFragment
		}
		copy(f.Name1[:], part[0:5])
		copy(f.Name2[:], part[5:11])
		copy(f.Name3[:], part[11:13])
		frags = append(frags, f)
	}
	return frags
}

// encodeRecords encodes ShortEntry, LFNFragment and []LFNFragment values.
func encodeRecords(t testing.TB, records ...interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, r := range records {
		switch v := r.(type) {
		case []LFNFragment:
			for _, f := range v {
				require.NoError(t, binary.Write(&buf, binary.LittleEndian, f))
			}
		default:
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
		}
	}
	return buf.Bytes()
}

// mapStorage serves cluster chains from memory.
type mapStorage map[uint32][]byte

func (s mapStorage) OpenChain(cluster uint32, size int64) (Region, error) {
	data, ok := s[cluster]
	if !ok {
		return nil, fmt.Errorf("no chain at cluster %d", cluster)
	}
	if size >= 0 && size < int64(len(data)) {
		data = data[:size]
	}
	return bytes.NewReader(data), nil
}

// newTestDir returns a directory over data without retrying.
func newTestDir(data []byte, storage Storage) *Dir {
	return NewDir(bytes.NewReader(data), storage, WithRetry(0, 0))
}

// testNode describes a file or directory of a test image.
type testNode struct {
	name     string
	dir      bool
	hidden   bool
	deleted  bool
	content  []byte
	children []testNode
}

// Geometry of the FAT16 test image: 4 MiB, one sector per cluster.
const (
	tiSectorSize   = 512
	tiTotalSectors = 8192
	tiReserved     = 1
	tiNumFATs      = 2
	tiFATSectors   = 32
	tiRootEntries  = 512
	tiRootSectors  = tiRootEntries * recordSize / tiSectorSize
	tiFirstData    = tiReserved + tiNumFATs*tiFATSectors + tiRootSectors
)

type imageBuilder struct {
	t    testing.TB
	data []byte
	fat  []uint16
	next uint32
}

// buildFAT16 creates a FAT16 image containing the given tree.
// Names which are no valid upper case 8.3 names get a long name.
func buildFAT16(t testing.TB, label string, root []testNode) []byte {
	t.Helper()
	b := &imageBuilder{
		t:    t,
		data: make([]byte, tiTotalSectors*tiSectorSize),
		fat:  make([]uint16, tiFATSectors*tiSectorSize/2),
		next: 2,
	}
	b.fat[0] = 0xFFF8
	b.fat[1] = 0xFFFF

	labelRecord := ShortEntry{Name: rawName(label), Attr: AttrVolumeID}
	rootData := append(encodeRecords(t, labelRecord), b.records(root, 0, 0, false)...)
	require.LessOrEqual(t, len(rootData), tiRootEntries*recordSize)
	copy(b.data[(tiReserved+tiNumFATs*tiFATSectors)*tiSectorSize:], rootData)

	b.writeBoot(label)
	b.writeFATs()
	return b.data
}

func (b *imageBuilder) clusterOffset(cluster uint32) int {
	return (tiFirstData + int(cluster) - 2) * tiSectorSize
}

func (b *imageBuilder) alloc(n int) uint32 {
	first := b.next
	for i := 0; i < n; i++ {
		b.fat[first+uint32(i)] = uint16(first + uint32(i) + 1)
	}
	b.fat[first+uint32(n)-1] = 0xFFFF
	b.next += uint32(n)
	return first
}

func clustersFor(size int) int {
	return (size + tiSectorSize - 1) / tiSectorSize
}

func (b *imageBuilder) writeData(content []byte) uint32 {
	if len(content) == 0 {
		return 0
	}
	first := b.alloc(clustersFor(len(content)))
	copy(b.data[b.clusterOffset(first):], content)
	return first
}

func (b *imageBuilder) writeDir(children []testNode, parent uint32) uint32 {
	size := (2 + recordCount(children)) * recordSize
	first := b.alloc(clustersFor(size))
	copy(b.data[b.clusterOffset(first):], b.records(children, first, parent, true))
	return first
}

func recordCount(nodes []testNode) int {
	n := 0
	for i, node := range nodes {
		n++
		if _, long := shortNameFor(node.name, i); long {
			n += (len(utf16.Encode([]rune(node.name))) + lfnPartLen - 1) / lfnPartLen
		}
	}
	return n
}

func (b *imageBuilder) records(nodes []testNode, self, parent uint32, withDots bool) []byte {
	var records []interface{}
	if withDots {
		records = append(records, dirRecord(".", self), dirRecord("..", parent))
	}

	for i, node := range nodes {
		short, long := shortNameFor(node.name, i)

		var entry ShortEntry
		switch {
		case node.deleted:
			entry = fileRecord("", 0, 0)
		case node.dir:
			entry = dirRecord("", b.writeDir(node.children, self))
		default:
			entry = fileRecord("", b.writeData(node.content), uint32(len(node.content)))
		}
		entry.Name = short
		if node.hidden {
			entry.Attr |= AttrHidden
		}

		if long {
			frags := lfnFragments(node.name, lfnChecksum(short))
			if node.deleted {
				for j := range frags {
					frags[j].Order = markerDeleted
				}
			}
			records = append(records, frags)
		}
		if node.deleted {
			entry.Name[0] = markerDeleted
		}
		records = append(records, entry)
	}
	return encodeRecords(b.t, records...)
}

// shortNameFor returns the 8.3 name of name and whether a long name is needed.
func shortNameFor(name string, index int) ([11]byte, bool) {
	upper := strings.ToUpper(name)
	base, ext, _ := strings.Cut(upper, ".")
	if upper == name && base != "" && len(base) <= 8 && len(ext) <= 3 && strings.Count(name, ".") <= 1 && isShortChars(upper) {
		return rawName(name), false
	}

	suffix := fmt.Sprintf("~%d", index+1)
	base = onlyAlnum(base)
	if len(base) > 8-len(suffix) {
		base = base[:8-len(suffix)]
	}
	ext = onlyAlnum(ext)
	if len(ext) > 3 {
		ext = ext[:3]
	}
	if ext == "" {
		return rawName(base + suffix), true
	}
	return rawName(base + suffix + "." + ext), true
}

func isShortChars(s string) bool {
	for _, c := range s {
		if !(c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' || c == '.') {
			return false
		}
	}
	return true
}

func onlyAlnum(s string) string {
	var out strings.Builder
	for _, c := range s {
		if c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			out.WriteRune(c)
		}
	}
	return out.String()
}

func (b *imageBuilder) writeBoot(label string) {
	var specific bytes.Buffer
	var volumeLabel [11]byte
	copy(volumeLabel[:], label+strings.Repeat(" ", 11))
	require.NoError(b.t, binary.Write(&specific, binary.LittleEndian, fat16SpecificData{
		BSDriveNumber:    0x80,
		BSBootSignature:  0x29,
		BSVolumeID:       0x12345678,
		BSVolumeLabel:    volumeLabel,
		BSFileSystemType: [8]byte{'F', 'A', 'T', '1', '6', ' ', ' ', ' '},
	}))

	boot := bpb{
		BSJumpBoot:          [3]byte{0xEB, 0x3C, 0x90},
		BSOEMName:           [8]byte{'M', 'S', 'W', 'I', 'N', '4', '.', '1'},
		BytesPerSector:      tiSectorSize,
		SectorsPerCluster:   1,
		ReservedSectorCount: tiReserved,
		NumFATs:             tiNumFATs,
		RootEntryCount:      tiRootEntries,
		TotalSectors16:      tiTotalSectors,
		Media:               0xF8,
		FATSize16:           tiFATSectors,
	}
	copy(boot.FATSpecificData[:], specific.Bytes())

	var buf bytes.Buffer
	require.NoError(b.t, binary.Write(&buf, binary.LittleEndian, boot))
	copy(b.data, buf.Bytes())
	b.data[510] = 0x55
	b.data[511] = 0xAA
}

func (b *imageBuilder) writeFATs() {
	var buf bytes.Buffer
	require.NoError(b.t, binary.Write(&buf, binary.LittleEndian, b.fat))
	for i := 0; i < tiNumFATs; i++ {
		copy(b.data[(tiReserved+i*tiFATSectors)*tiSectorSize:], buf.Bytes())
	}
}

// testTree is the tree used by the volume and adapter tests.
func testTree() []testNode {
	return []testNode{
		{name: "README.MD", content: []byte("# Hello FAT\n")},
		{name: "Docs", dir: true, children: []testNode{
			{name: "Report.txt", content: bytes.Repeat([]byte("0123456789"), 150)},
			{name: "A very long file name indeed.txt", content: []byte("x")},
		}},
		{name: "Old.txt", deleted: true},
		{name: "HIDDEN.SYS", hidden: true, content: []byte("secret")},
		{name: "EMPTY.TXT"},
		{name: "FULL", dir: true, children: fullDirChildren()},
	}
}

// fullDirChildren fills a one cluster directory completely, so it has no end marker.
func fullDirChildren() []testNode {
	nodes := make([]testNode, tiSectorSize/recordSize-2)
	for i := range nodes {
		nodes[i] = testNode{name: fmt.Sprintf("F%02d.TXT", i+1)}
	}
	return nodes
}

func openTestVolume(t testing.TB) *Volume {
	t.Helper()
	vol, err := Open(bytes.NewReader(buildFAT16(t, "TESTVOL", testTree())))
	require.NoError(t, err)
	return vol
}
