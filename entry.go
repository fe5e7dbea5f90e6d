package fatdir

import (
	"strings"
	"time"
	"unicode/utf16"
)

// DirEntry is one resolved entry of a directory: a short entry together with
// the long name of the fragments stored in front of it.
type DirEntry struct {
	short  ShortEntry
	lfn    []uint16
	shared *shared
}

// ShortName returns the 8.3 name, e.g. "README.TXT".
func (e *DirEntry) ShortName() string {
	base := strings.TrimRight(e.decodeShort(e.short.Name[:8]), " ")
	ext := strings.TrimRight(e.decodeShort(e.short.Name[8:11]), " ")
	if ext == "" {
		return base
	}
	return base + "." + ext
}

func (e *DirEntry) decodeShort(raw []byte) string {
	if e.shared == nil || e.shared.opts.codePage == nil {
		return string(raw)
	}
	decoded, err := e.shared.opts.codePage.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// Name returns the long name if the entry has one and the short name otherwise.
func (e *DirEntry) Name() string {
	if len(e.lfn) > 0 {
		return string(utf16.Decode(e.lfn))
	}
	return e.ShortName()
}

// LongName returns the UTF-16 long name, or nil if the entry has none.
func (e *DirEntry) LongName() []uint16 {
	if len(e.lfn) == 0 {
		return nil
	}
	name := make([]uint16, len(e.lfn))
	copy(name, e.lfn)
	return name
}

// Short returns the raw short entry.
func (e *DirEntry) Short() ShortEntry {
	return e.short
}

func (e *DirEntry) Attributes() Attr {
	return e.short.Attr
}

func (e *DirEntry) IsDir() bool {
	return e.short.Attr.Has(AttrDirectory)
}

func (e *DirEntry) IsFile() bool {
	return !e.IsDir()
}

// Size returns the size as stored in the entry. It is 0 for directories.
func (e *DirEntry) Size() int64 {
	return int64(e.short.FileSize)
}

// FirstCluster returns the first cluster of the entry's data.
func (e *DirEntry) FirstCluster() uint32 {
	return e.short.FirstCluster()
}

func (e *DirEntry) Created() time.Time {
	return ParseDateTime(e.short.CreateDate, e.short.CreateTime, e.short.CreateTimeTenth)
}

// Accessed returns the last access date. FAT does not store an access time.
func (e *DirEntry) Accessed() time.Time {
	return ParseDate(e.short.AccessDate)
}

func (e *DirEntry) Modified() time.Time {
	return ParseDateTime(e.short.WriteDate, e.short.WriteTime, 0)
}

// ToFile opens the entry as a file.
// It fails with KindInvalidInput if the entry is a directory.
func (e *DirEntry) ToFile() (*File, error) {
	if e.IsDir() {
		return nil, newError(KindInvalidInput, "%q is a directory", e.Name())
	}
	region, err := e.shared.storage.OpenChain(e.FirstCluster(), e.Size())
	if err != nil {
		return nil, NewIoError(err)
	}
	return newFile(e.Name(), e, e.shared.region(region), nil), nil
}

// ToDir opens the entry as a directory.
// It fails with KindInvalidInput if the entry is a file.
func (e *DirEntry) ToDir() (*Dir, error) {
	if !e.IsDir() {
		return nil, newError(KindInvalidInput, "%q is not a directory", e.Name())
	}
	region, err := e.shared.storage.OpenChain(e.FirstCluster(), -1)
	if err != nil {
		return nil, NewIoError(err)
	}
	return newDir(region, e.shared), nil
}
