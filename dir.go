package fatdir

import (
	"errors"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
)

// Dir iterates over the records of one directory and yields its entries.
// It reads lazily from its Region; Next consumes records until an entry is
// complete. A Dir is not safe for concurrent use.
type Dir struct {
	region Region
	shared *shared

	lfn  lfnBuffer
	done bool
	err  error
}

// NewDir returns a directory reading its records from region.
// storage is used to open the subdirectories and files of the directory.
func NewDir(region Region, storage Storage, opts ...Option) *Dir {
	return newDir(region, &shared{storage: storage, opts: newOptions(opts)})
}

func newDir(region Region, sh *shared) *Dir {
	return &Dir{
		region: sh.region(region),
		shared: sh,
	}
}

// Next returns the next entry of the directory.
// It returns io.EOF after the last entry. Once an error other than io.EOF
// occurred, every further call returns that error until Rewind is called.
func (d *Dir) Next() (*DirEntry, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.done {
		return nil, io.EOF
	}

	for {
		rec, err := decodeRecord(d.region)
		if err != nil {
			d.lfn.reset()
			// The region ended exactly on a record boundary.
			if errors.Is(err, io.EOF) {
				d.done = true
				return nil, io.EOF
			}
			d.err = err
			return nil, err
		}

		if rec.lfn != nil {
			if rec.lfn.Deleted() {
				log.Tracef("[DIR] deleted LFN fragment, dropping %d collected code units", len(d.lfn))
			}
			d.lfn.put(rec.lfn)
			continue
		}

		entry := rec.short
		switch {
		case entry.Name[0] == markerEnd:
			d.lfn.reset()
			d.done = true
			return nil, io.EOF
		case entry.Name[0] == markerDeleted:
			log.Tracef("[DIR] skipping deleted entry %q", entry.Name[1:])
			d.lfn.reset()
			continue
		case entry.Attr.Has(AttrVolumeID):
			log.Tracef("[DIR] skipping volume label %q", entry.Name[:])
			d.lfn.reset()
			continue
		}

		return &DirEntry{
			short:  *entry,
			lfn:    d.lfn.finish(),
			shared: d.shared,
		}, nil
	}
}

// Rewind moves the directory back to its first record.
func (d *Dir) Rewind() error {
	d.lfn.reset()
	d.done = false
	d.err = nil

	if _, err := d.region.Seek(0, io.SeekStart); err != nil {
		return NewIoError(err)
	}
	return nil
}

// List rewinds the directory and returns all of its entries in the order they
// are stored. No entries are returned if any record could not be read.
func (d *Dir) List() (entries []*DirEntry, err error) {
	if log.IsLevelEnabled(log.TraceLevel) {
		start := time.Now()
		defer func() { log.Tracef("[DIR] List → %d entries, %v (%v)", len(entries), err, time.Since(start)) }()
	}

	if err := d.Rewind(); err != nil {
		return nil, err
	}

	for {
		entry, err := d.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}
