package fatdir

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
)

// Fs provides a read only afero.Fs for a FAT volume.
// All modifying operations fail with an error wrapping syscall.EROFS.
type Fs struct {
	vol *Volume
}

// New opens the FAT volume in reader as afero.Fs.
func New(reader io.ReaderAt, opts ...Option) (*Fs, error) {
	vol, err := Open(reader, opts...)
	if err != nil {
		return nil, err
	}
	return NewFs(vol), nil
}

// NewSkipChecks opens the volume like New but skips some filesystem validations.
// Use with caution!
func NewSkipChecks(reader io.ReaderAt, opts ...Option) (*Fs, error) {
	return New(reader, append(opts, WithSkipChecks())...)
}

// NewFs returns an afero.Fs for an already opened volume.
func NewFs(vol *Volume) *Fs {
	return &Fs{vol: vol}
}

// Volume returns the volume of the filesystem.
func (fs *Fs) Volume() *Volume {
	return fs.vol
}

// Label returns the label of the volume.
func (fs *Fs) Label() string {
	return fs.vol.Label()
}

// FSType returns the FAT variant of the volume.
func (fs *Fs) FSType() FATType {
	return fs.vol.FATType()
}

// cleanPath converts name to the slash separated form used by Dir.Find.
// It returns "" for the root directory.
func cleanPath(name string) string {
	name = strings.Trim(filepath.ToSlash(name), "/")
	if name == "." {
		return ""
	}
	return name
}

func pathError(op, name string, err error) error {
	return &os.PathError{Op: op, Path: name, Err: ToHost(err)}
}

func readOnly(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: syscall.EROFS}
}

func (fs *Fs) open(name string) (*File, error) {
	root, err := fs.vol.Root()
	if err != nil {
		return nil, err
	}

	p := cleanPath(name)
	if p == "" {
		return newFile(name, nil, nil, root), nil
	}

	entry, err := root.Find(p)
	if err != nil {
		return nil, err
	}

	if entry.IsDir() {
		dir, err := entry.ToDir()
		if err != nil {
			return nil, err
		}
		return newFile(name, entry, nil, dir), nil
	}

	f, err := entry.ToFile()
	if err != nil {
		return nil, err
	}
	f.name = name
	return f, nil
}

func (fs *Fs) Open(name string) (afero.File, error) {
	f, err := fs.open(name)
	if err != nil {
		return nil, pathError("open", name, err)
	}
	return f, nil
}

// OpenFile opens name for reading. Any flag requesting write access fails.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, readOnly("open", name)
	}
	return fs.Open(name)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	p := cleanPath(name)
	if p == "" {
		return rootInfo{}, nil
	}

	root, err := fs.vol.Root()
	if err != nil {
		return nil, pathError("stat", name, err)
	}
	entry, err := root.Find(p)
	if err != nil {
		return nil, pathError("stat", name, err)
	}
	return entry.Info(), nil
}

func (fs *Fs) Name() string {
	return "FAT"
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, readOnly("create", name)
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return readOnly("mkdir", name)
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return readOnly("mkdir", path)
}

func (fs *Fs) Remove(name string) error {
	return readOnly("remove", name)
}

func (fs *Fs) RemoveAll(path string) error {
	return readOnly("remove", path)
}

func (fs *Fs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.EROFS}
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return readOnly("chmod", name)
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return readOnly("chown", name)
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return readOnly("chtimes", name)
}
