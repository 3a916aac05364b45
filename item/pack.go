package item

import (
	"github.com/scigolib/spead/internal/bitpack"
)

// PayloadBytes canonicalises the item's value into the bytes that belong
// in a heap's payload area (spec.md §4.3). Numpy-style items flatten
// their backing array per their declared Order; fallback-style items
// pack their records' fields continuously, MSB-first, field by field,
// record by record. Immediate-eligible fallback items still produce
// payload bytes here — callers decide whether to inline them as a
// pointer instead (item.IsImmediateEligible).
func (it *Item) PayloadBytes() []byte {
	if it.IsNumpy() {
		return it.Numpy.Bytes()
	}

	w := bitpack.NewWriter()
	for _, rec := range it.Records {
		for i, field := range it.Format {
			w.WriteBits(rec[i], field.Bits)
		}
	}

	return w.Bytes()
}
