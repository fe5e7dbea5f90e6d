package fatdir

// lfnBuffer accumulates the fragments of one long file name.
// Fragments are placed by their slot, so they may arrive in any order.
type lfnBuffer []uint16

// put writes the 13 code units of frag at the fragment's slot.
// A deleted fragment discards everything collected so far.
// Fragments with the invalid order 0 are ignored.
func (b *lfnBuffer) put(frag *LFNFragment) {
	if frag.Deleted() {
		b.reset()
		return
	}

	index := frag.Slot()
	if index < 0 {
		return
	}

	pos := index * lfnPartLen
	if len(*b) < pos+lfnPartLen {
		grown := make(lfnBuffer, pos+lfnPartLen)
		copy(grown, *b)
		*b = grown
	}

	units := frag.Units()
	copy((*b)[pos:pos+lfnPartLen], units[:])
}

func (b *lfnBuffer) reset() {
	*b = nil
}

// finish returns the collected name without its 0x0000 and 0xFFFF padding
// and resets the buffer. It returns nil if nothing was collected.
func (b *lfnBuffer) finish() []uint16 {
	name := *b
	b.reset()

	end := len(name)
	for end > 0 && (name[end-1] == 0x0000 || name[end-1] == 0xFFFF) {
		end--
	}
	if end == 0 {
		return nil
	}
	return name[:end]
}
