package fatdir

import (
	"io/fs"
	"time"
)

// Info returns the entry as fs.FileInfo. Sys returns the raw ShortEntry.
func (e *DirEntry) Info() fs.FileInfo {
	return entryInfo{entry: e}
}

type entryInfo struct {
	entry *DirEntry
}

func (i entryInfo) Name() string {
	return i.entry.Name()
}

func (i entryInfo) Size() int64 {
	return i.entry.Size()
}

// Mode never grants write permissions as the volume is read only.
func (i entryInfo) Mode() fs.FileMode {
	if i.IsDir() {
		return fs.ModeDir | 0555
	}
	return 0444
}

// ModTime returns the time of the last modification, or time.Time{} if the
// stored date is invalid.
func (i entryInfo) ModTime() time.Time {
	return i.entry.Modified()
}

func (i entryInfo) IsDir() bool {
	return i.entry.IsDir()
}

func (i entryInfo) Sys() interface{} {
	return i.entry.short
}

// rootInfo describes the root directory which has no entry of its own.
type rootInfo struct{}

func (rootInfo) Name() string       { return "/" }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0555 }
func (rootInfo) ModTime() time.Time { return time.Time{} }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() interface{}   { return nil }
