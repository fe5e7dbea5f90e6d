package fatdir

import (
	"bytes"
	"encoding/binary"
	"io"
)

const (
	// recordSize is the size of one directory record.
	recordSize = 32

	// lfnPartLen is the number of UTF-16 code units stored in one LFN fragment.
	lfnPartLen = 13

	lfnOrderMask    = 0x1F
	lfnLastFragment = 0x40

	markerEnd     = 0x00
	markerDeleted = 0xE5
)

// record is the result of decoding one directory record.
// Exactly one of short and lfn is set.
type record struct {
	short *ShortEntry
	lfn   *LFNFragment
}

// decodeRecord consumes exactly one record from r.
// If r is exhausted before a full record is read, an ErrUnexpectedEOF error is
// returned which wraps io.EOF if no byte at all could be read and io.ErrUnexpectedEOF otherwise.
func decodeRecord(r io.Reader) (record, error) {
	var buf [recordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return record{}, &Error{Kind: KindUnexpectedEOF, Err: err}
		}
		return record{}, NewIoError(err)
	}

	attr := Attr(buf[11])
	if !attr.Valid() {
		return record{}, newError(KindCorruptedFileSystem, "invalid attribute byte 0x%02x", buf[11])
	}

	if attr == AttrLongName {
		var frag LFNFragment
		if err := binary.Read(bytes.NewReader(buf[:]), binary.LittleEndian, &frag); err != nil {
			return record{}, NewIoError(err)
		}
		return record{lfn: &frag}, nil
	}

	var short ShortEntry
	if err := binary.Read(bytes.NewReader(buf[:]), binary.LittleEndian, &short); err != nil {
		return record{}, NewIoError(err)
	}
	return record{short: &short}, nil
}
