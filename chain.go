package fatdir

import (
	"io"
)

// chainReader reads the data of a cluster chain as one contiguous Region.
type chainReader struct {
	vol   *Volume
	first uint32
	size  int64

	offset int64

	// cluster is the cluster with index clusterIndex inside the chain.
	cluster      uint32
	clusterIndex int64
}

// openChain returns a chainReader for the chain starting at first.
// If size is negative, the region spans all clusters of the chain.
func (v *Volume) openChain(first uint32, size int64) (*chainReader, error) {
	if !v.validCluster(first) {
		return nil, newError(KindCorruptedFileSystem, "invalid first cluster %d", first)
	}

	if size < 0 {
		n, err := v.chainLength(first)
		if err != nil {
			return nil, err
		}
		size = n * v.info.clusterSize()
	}

	return &chainReader{
		vol:     v,
		first:   first,
		size:    size,
		cluster: first,
	}, nil
}

// seekCluster moves to the cluster with the given index in the chain.
func (c *chainReader) seekCluster(index int64) error {
	if index < c.clusterIndex {
		c.cluster = c.first
		c.clusterIndex = 0
	}

	for c.clusterIndex < index {
		next, eof, err := c.vol.nextCluster(c.cluster)
		if err != nil {
			return err
		}
		if eof {
			return newError(KindCorruptedFileSystem, "cluster chain starting at %d ends before %d bytes", c.first, c.size)
		}
		c.cluster = next
		c.clusterIndex++
	}
	return nil
}

func (c *chainReader) Read(p []byte) (int, error) {
	if c.offset >= c.size {
		return 0, io.EOF
	}

	clusterSize := c.vol.info.clusterSize()
	if err := c.seekCluster(c.offset / clusterSize); err != nil {
		return 0, err
	}

	within := c.offset % clusterSize
	n := int64(len(p))
	if rest := clusterSize - within; n > rest {
		n = rest
	}
	if rest := c.size - c.offset; n > rest {
		n = rest
	}

	read, err := c.vol.reader.ReadAt(p[:n], c.vol.info.clusterOffset(c.cluster)+within)
	c.offset += int64(read)
	if int64(read) == n {
		return read, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return read, NewIoError(err)
}

func (c *chainReader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += c.offset
	case io.SeekEnd:
		offset += c.size
	default:
		return 0, newError(KindInvalidInput, "invalid whence %d", whence)
	}
	if offset < 0 {
		return 0, newError(KindInvalidInput, "negative offset %d", offset)
	}
	c.offset = offset
	return offset, nil
}

// ReadAt reads len(p) bytes at off. It walks the chain from its first cluster
// and leaves the position used by Read and Seek untouched, so it is safe for
// concurrent use.
func (c *chainReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, newError(KindInvalidInput, "negative offset %d", off)
	}
	if off >= c.size {
		return 0, io.EOF
	}

	clusterSize := c.vol.info.clusterSize()
	cluster := c.first
	for i := int64(0); i < off/clusterSize; i++ {
		next, eof, err := c.vol.nextCluster(cluster)
		if err != nil {
			return 0, err
		}
		if eof {
			return 0, newError(KindCorruptedFileSystem, "cluster chain starting at %d ends before %d bytes", c.first, c.size)
		}
		cluster = next
	}

	read := 0
	for read < len(p) && off < c.size {
		within := off % clusterSize
		n := int64(len(p) - read)
		if rest := clusterSize - within; n > rest {
			n = rest
		}
		if rest := c.size - off; n > rest {
			n = rest
		}

		got, err := c.vol.reader.ReadAt(p[read:read+int(n)], c.vol.info.clusterOffset(cluster)+within)
		read += got
		off += int64(got)
		if int64(got) < n {
			if err == nil || err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return read, NewIoError(err)
		}

		if read < len(p) && off < c.size {
			next, eof, err := c.vol.nextCluster(cluster)
			if err != nil {
				return read, err
			}
			if eof {
				return read, newError(KindCorruptedFileSystem, "cluster chain starting at %d ends before %d bytes", c.first, c.size)
			}
			cluster = next
		}
	}

	if read < len(p) {
		return read, io.EOF
	}
	return read, nil
}
