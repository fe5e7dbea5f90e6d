package fatdir

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/aligator/fatdir/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while processing a file.
var (
	ErrReadFile = errors.New("could not read file completely")
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
)

// errReadOnly is returned by all operations which would modify the volume.
var errReadOnly = &Error{Kind: KindInvalidInput, Err: syscall.EROFS}

// File is a read only handle of a file or directory.
// It implements afero.File and billy.File.
type File struct {
	name string

	// entry is nil for the root directory.
	entry *DirEntry
	// region is set for files, dir for directories.
	region Region
	dir    *Dir

	// offset is the read position for files and the number of already
	// returned entries for directories.
	offset int64
	// infos holds the listing of a directory from the first Readdir until
	// the directory is seeked to 0.
	infos []os.FileInfo
}

func newFile(name string, entry *DirEntry, region Region, dir *Dir) *File {
	return &File{
		name:   name,
		entry:  entry,
		region: region,
		dir:    dir,
	}
}

func (f *File) size() int64 {
	if f.entry == nil {
		return 0
	}
	return f.entry.Size()
}

func (f *File) Close() error {
	f.name = ""
	f.entry = nil
	f.region = nil
	f.dir = nil
	f.offset = 0
	f.infos = nil

	return nil
}

func (f *File) Read(p []byte) (n int, err error) {
	if f.region == nil {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}
	if len(p) == 0 {
		return 0, nil
	}

	// Reading a file if the size has been already reached, makes no sense.
	if f.size() <= f.offset {
		return 0, io.EOF
	}

	n, err = f.region.Read(p)
	f.offset += int64(n)
	if err != nil && err != io.EOF {
		return n, checkpoint.Wrap(NewIoError(err), ErrReadFile)
	}
	return n, err
}

// ReadAt reads len(p) bytes at off without changing the offset used by Read.
// It may be called concurrently, also with Read, if the region of the file
// implements io.ReaderAt.
func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if f.region == nil {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}
	if off < 0 {
		return 0, checkpoint.Wrap(errors.New("negative offset"), ErrReadFile)
	}

	// Reading over the end makes no sense.
	if f.size() <= off {
		return 0, io.EOF
	}

	want := p
	if rest := f.size() - off; int64(len(want)) > rest {
		want = want[:rest]
	}

	if ra, ok := readerAt(f.region); ok {
		n, err = ra.ReadAt(want, off)
		if n == len(want) {
			err = nil
		}
	} else {
		n, err = f.readAtSeek(want, off)
	}

	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return n, checkpoint.Wrap(NewIoError(err), ErrReadFile)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// readAtSeek reads at off by seeking the region and restores the offset afterwards.
func (f *File) readAtSeek(p []byte, off int64) (int, error) {
	if _, err := f.region.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}

	n, err := io.ReadFull(f.region, p)

	// Restore the offset even if an error occurred, errors from reading are used even if seek also errors.
	_, seekErr := f.region.Seek(f.offset, io.SeekStart)
	if err != nil {
		return n, err
	}
	return n, seekErr
}

// Seek jumps to a specific offset in the file. This affects all Read operation except ReadAt.
// Directories may only be seeked to 0 which restarts Readdir.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the offset is out of range.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = f.size() + offset
	default:
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	if offset < 0 || offset > f.size() {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	if f.region != nil {
		if _, err := f.region.Seek(offset, io.SeekStart); err != nil {
			return 0, checkpoint.Wrap(NewIoError(err), ErrSeekFile)
		}
	}

	if offset == 0 {
		f.infos = nil
	}
	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, errReadOnly
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, errReadOnly
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}

func (f *File) Truncate(size int64) error {
	return errReadOnly
}

// Sync does nothing as a File never holds unwritten data.
func (f *File) Sync() error {
	return nil
}

func (f *File) Lock() error {
	return nil
}

func (f *File) Unlock() error {
	return nil
}

// Name returns the name as presented to Open.
func (f *File) Name() string {
	return f.name
}

func (f *File) Stat() (os.FileInfo, error) {
	if f.entry == nil {
		return rootInfo{}, nil
	}
	return f.entry.Info(), nil
}

// Readdir reads the contents of a directory like os.File.Readdir.
// The "." and ".." entries are left out.
// May return syscall.ENOTDIR if the current File is no directory.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if f.dir == nil {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}

	if f.infos == nil {
		entries, err := f.dir.List()
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrReadDir)
		}

		f.infos = make([]os.FileInfo, 0, len(entries))
		for _, e := range entries {
			if name := e.ShortName(); name == "." || name == ".." {
				continue
			}
			f.infos = append(f.infos, e.Info())
		}
	}

	infos := f.infos
	if f.offset > int64(len(infos)) {
		f.offset = int64(len(infos))
	}
	infos = infos[f.offset:]

	if count <= 0 || count > len(infos) {
		if count > 0 && len(infos) == 0 {
			return nil, io.EOF
		}
		count = len(infos)
	}
	f.offset += int64(count)

	// The caller owns the returned slice, the cache stays untouched.
	result := make([]os.FileInfo, count)
	copy(result, infos)
	return result, nil
}

func (f *File) Readdirnames(count int) ([]string, error) {
	content, err := f.Readdir(count)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(content))
	for i, entry := range content {
		names[i] = entry.Name()
	}

	return names, nil
}
