package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gofrs/flock"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
)

// image is an opened disk image.
type image struct {
	io.ReaderAt
	file *os.File
	lock *flock.Flock
}

// openImage opens the image at path while holding a shared lock on it.
// The lock is taken on the image itself, so nothing is created next to it.
// Images ending in .zst or .gz are decompressed into memory.
func openImage(path string) (*image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	lock := flock.New(path, flock.SetFlag(os.O_RDONLY))
	locked, err := lock.TryRLock()
	switch {
	case err != nil:
		log.Warnf("[CLI] reading %s without lock: %v", path, err)
		lock = nil
	case !locked:
		_ = file.Close()
		return nil, fmt.Errorf("%s is locked by another process", path)
	}

	img := &image{ReaderAt: file, file: file, lock: lock}

	var data []byte
	switch {
	case strings.HasSuffix(path, ".zst"):
		data, err = decompressZstd(file)
	case strings.HasSuffix(path, ".gz"):
		data, err = decompressGzip(file)
	default:
		return img, nil
	}
	if err != nil {
		_ = img.Close()
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}

	log.Debugf("[CLI] decompressed %s to %d bytes", path, len(data))
	img.ReaderAt = bytes.NewReader(data)
	return img, nil
}

func decompressZstd(r io.Reader) ([]byte, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()
	return io.ReadAll(decoder)
}

func decompressGzip(r io.Reader) ([]byte, error) {
	reader, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (i *image) Close() error {
	err := i.file.Close()
	if i.lock == nil {
		return err
	}
	if unlockErr := i.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}
