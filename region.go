package fatdir

import (
	"errors"
	"io"

	"github.com/avast/retry-go/v4"
)

// Region is a readable and seekable byte range holding a directory or file.
// It is either a fixed area of the volume (the root directory of FAT12/16)
// or a cluster chain.
// Regions which also implement io.ReaderAt allow File.ReadAt to be used
// concurrently; all regions of a Volume do.
type Region interface {
	io.Reader
	io.Seeker
}

// readerAt returns r as io.ReaderAt if it can read at an offset without
// moving its position.
func readerAt(r Region) (io.ReaderAt, bool) {
	if rr, ok := r.(*retryRegion); ok {
		if _, ok := rr.Region.(io.ReaderAt); !ok {
			return nil, false
		}
		return rr, true
	}
	ra, ok := r.(io.ReaderAt)
	return ra, ok
}

// NewRootRegion returns a Region over size bytes of r starting at off.
func NewRootRegion(r io.ReaderAt, off, size int64) Region {
	return io.NewSectionReader(r, off, size)
}

//go:generate mockgen -destination=storage_mock_test.go -package=fatdir -self_package=github.com/aligator/fatdir github.com/aligator/fatdir Region,Storage

// Storage is the filesystem wide collaborator shared by all directories and
// entries of one volume. It resolves cluster numbers to byte ranges.
type Storage interface {
	// OpenChain returns a Region over the cluster chain starting at cluster.
	// For files size is the file size; a negative size is used for
	// directories whose length is the length of the chain.
	OpenChain(cluster uint32, size int64) (Region, error)
}

// shared is referenced by every Dir and DirEntry of a volume.
// It is never modified after creation.
type shared struct {
	storage Storage
	opts    options
}

// region wraps r so that interrupted reads are retried.
func (s *shared) region(r Region) Region {
	if s.opts.retryAttempts <= 1 {
		return r
	}
	if _, ok := r.(*retryRegion); ok {
		return r
	}
	return &retryRegion{
		Region: r,
		opts: []retry.Option{
			retry.Attempts(s.opts.retryAttempts),
			retry.Delay(s.opts.retryDelay),
			retry.MaxDelay(10 * s.opts.retryDelay),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
		},
	}
}

// retryRegion retries reads and seeks which fail with an interrupted error
// without transferring any data.
type retryRegion struct {
	Region
	opts []retry.Option
}

func (r *retryRegion) Read(p []byte) (n int, err error) {
	retryErr := retry.Do(func() error {
		n, err = r.Region.Read(p)
		if n == 0 && Interrupted(NewIoError(err)) {
			return err
		}
		return nil
	}, r.opts...)
	if retryErr != nil {
		return 0, retryErr
	}
	return n, err
}

func (r *retryRegion) Seek(offset int64, whence int) (int64, error) {
	return retry.DoWithData(func() (int64, error) {
		return r.Region.Seek(offset, whence)
	}, append(r.opts[:len(r.opts):len(r.opts)], retry.RetryIf(func(err error) bool {
		return Interrupted(NewIoError(err))
	}))...)
}

// ReadAt retries like Read. It fails with errors.ErrUnsupported if the wrapped
// region is no io.ReaderAt.
func (r *retryRegion) ReadAt(p []byte, off int64) (n int, err error) {
	ra, ok := r.Region.(io.ReaderAt)
	if !ok {
		return 0, errors.ErrUnsupported
	}

	retryErr := retry.Do(func() error {
		n, err = ra.ReadAt(p, off)
		if n == 0 && Interrupted(NewIoError(err)) {
			return err
		}
		return nil
	}, r.opts...)
	if retryErr != nil {
		return 0, retryErr
	}
	return n, err
}
