package fatdir

import "strings"

// Attr holds the attribute flags of a directory record.
type Attr uint8

const (
	AttrReadOnly  Attr = 0x01
	AttrHidden    Attr = 0x02
	AttrSystem    Attr = 0x04
	AttrVolumeID  Attr = 0x08
	AttrDirectory Attr = 0x10
	AttrArchive   Attr = 0x20

	// AttrLongName is the reserved combination which marks a record as a long
	// file name fragment.
	AttrLongName = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID

	attrAll = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID | AttrDirectory | AttrArchive
)

// Valid reports whether only known flags are set.
func (a Attr) Valid() bool {
	return a&^attrAll == 0
}

// Has reports whether all flags of f are set.
func (a Attr) Has(f Attr) bool {
	return a&f == f
}

func (a Attr) String() string {
	if a == AttrLongName {
		return "LFN"
	}
	var flags []string
	for _, f := range []struct {
		flag Attr
		name string
	}{
		{AttrReadOnly, "R"},
		{AttrHidden, "H"},
		{AttrSystem, "S"},
		{AttrVolumeID, "V"},
		{AttrDirectory, "D"},
		{AttrArchive, "A"},
	} {
		if a.Has(f.flag) {
			flags = append(flags, f.name)
		}
	}
	return strings.Join(flags, "")
}
