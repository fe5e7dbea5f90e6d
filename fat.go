package fatdir

import (
	"encoding/binary"
)

// fatEntry is the value stored in the FAT for one cluster, masked to the
// width of the FAT type.
type fatEntry uint32

func (e fatEntry) isFree() bool {
	return e == 0
}

// isBad reports whether the cluster is marked as bad.
func (e fatEntry) isBad(t FATType) bool {
	switch t {
	case FAT12:
		return e == 0xFF7
	case FAT16:
		return e == 0xFFF7
	default:
		return e == 0x0FFFFFF7
	}
}

// isEOF reports whether the entry marks the last cluster of a chain.
func (e fatEntry) isEOF(t FATType) bool {
	switch t {
	case FAT12:
		return e >= 0xFF8
	case FAT16:
		return e >= 0xFFF8
	default:
		return e >= 0x0FFFFFF8
	}
}

// fatEntryOffset returns the byte offset of the entry of cluster inside the
// FAT and the number of bytes it occupies.
func fatEntryOffset(t FATType, cluster uint32) (offset uint32, size int) {
	switch t {
	case FAT12:
		return cluster + cluster/2, 2
	case FAT16:
		return cluster * 2, 2
	default:
		return cluster * 4, 4
	}
}

// parseFATEntry decodes the raw bytes at the entry offset of cluster.
func parseFATEntry(t FATType, raw []byte, cluster uint32) fatEntry {
	switch t {
	case FAT12:
		v := binary.LittleEndian.Uint16(raw)
		if cluster&1 == 1 {
			return fatEntry(v >> 4)
		}
		return fatEntry(v & 0x0FFF)
	case FAT16:
		return fatEntry(binary.LittleEndian.Uint16(raw))
	default:
		return fatEntry(binary.LittleEndian.Uint32(raw) & 0x0FFFFFFF)
	}
}

// readFAT reads the entry of cluster from the first FAT.
func (v *Volume) readFAT(cluster uint32) (fatEntry, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	offset, size := fatEntryOffset(v.info.fatType, cluster)
	raw := make([]byte, size)

	// A FAT12 entry may span two sectors, so read byte by byte through the cache.
	for i := range raw {
		pos := offset + uint32(i)
		if err := v.fetch(v.info.reservedSectors + pos/v.info.sectorSize); err != nil {
			return 0, err
		}
		raw[i] = v.sector.buffer[pos%v.info.sectorSize]
	}

	return parseFATEntry(v.info.fatType, raw, cluster), nil
}

// nextCluster returns the cluster following cluster in its chain.
// eof is true if cluster is the last one.
func (v *Volume) nextCluster(cluster uint32) (next uint32, eof bool, err error) {
	entry, err := v.readFAT(cluster)
	if err != nil {
		return 0, false, err
	}

	switch {
	case entry.isEOF(v.info.fatType):
		return 0, true, nil
	case entry.isFree(), entry.isBad(v.info.fatType):
		return 0, false, newError(KindCorruptedFileSystem, "cluster %d links to invalid FAT entry 0x%x", cluster, uint32(entry))
	case !v.validCluster(uint32(entry)):
		return 0, false, newError(KindCorruptedFileSystem, "cluster %d links to out of range cluster %d", cluster, uint32(entry))
	}
	return uint32(entry), false, nil
}

func (v *Volume) validCluster(cluster uint32) bool {
	return cluster >= 2 && cluster <= v.info.maxCluster()
}

// chainLength counts the clusters of the chain starting at first.
func (v *Volume) chainLength(first uint32) (int64, error) {
	if !v.validCluster(first) {
		return 0, newError(KindCorruptedFileSystem, "invalid first cluster %d", first)
	}

	var n int64 = 1
	for cluster := first; ; n++ {
		// A chain can never be longer than the number of clusters, so it contains a loop.
		if n > int64(v.info.countOfClusters) {
			return 0, newError(KindCorruptedFileSystem, "loop in cluster chain starting at %d", first)
		}

		next, eof, err := v.nextCluster(cluster)
		if err != nil {
			return 0, err
		}
		if eof {
			return n, nil
		}
		cluster = next
	}
}
