package fatdir

import (
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/polyfill"
)

// BillyFs provides the basic read only go-billy interfaces for a FAT volume.
// Use NewBilly to get a complete billy.Filesystem.
type BillyFs struct {
	fs *Fs
}

// NewBilly returns a read only billy.Filesystem for vol.
// Operations which would modify the volume fail with billy.ErrReadOnly.
func NewBilly(vol *Volume) billy.Filesystem {
	return polyfill.New(&BillyFs{fs: NewFs(vol)})
}

func (b *BillyFs) Create(filename string) (billy.File, error) {
	return nil, billy.ErrReadOnly
}

func (b *BillyFs) Open(filename string) (billy.File, error) {
	f, err := b.fs.open(filename)
	if err != nil {
		return nil, pathError("open", filename, err)
	}
	return f, nil
}

func (b *BillyFs) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, billy.ErrReadOnly
	}
	return b.Open(filename)
}

func (b *BillyFs) Stat(filename string) (os.FileInfo, error) {
	return b.fs.Stat(filename)
}

func (b *BillyFs) Rename(oldpath, newpath string) error {
	return billy.ErrReadOnly
}

func (b *BillyFs) Remove(filename string) error {
	return billy.ErrReadOnly
}

func (b *BillyFs) Join(elem ...string) string {
	return path.Join(elem...)
}

// ReadDir returns the entries of the directory sorted by name.
func (b *BillyFs) ReadDir(dirname string) ([]os.FileInfo, error) {
	f, err := b.fs.open(dirname)
	if err != nil {
		return nil, pathError("readdir", dirname, err)
	}
	defer f.Close()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	return infos, nil
}

func (b *BillyFs) MkdirAll(filename string, perm os.FileMode) error {
	return billy.ErrReadOnly
}
