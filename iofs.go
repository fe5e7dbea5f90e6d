package fatdir

import (
	"io"
	"io/fs"

	"github.com/spf13/afero"
)

// NewIOFS opens the FAT volume in reader as fs.FS.
func NewIOFS(reader io.ReaderAt, opts ...Option) (fs.FS, error) {
	fatFs, err := New(reader, opts...)
	if err != nil {
		return nil, err
	}
	return fatFs.IOFS(), nil
}

// IOFS returns the filesystem as fs.FS using the afero.IOFS compatibility layer.
func (fs *Fs) IOFS() afero.IOFS {
	return afero.NewIOFS(fs)
}
