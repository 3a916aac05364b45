// Package flavour describes the wire parameters that two SPEAD endpoints
// must agree on before they can exchange heaps: the protocol version, the
// width of an item pointer, the number of bits of that pointer spent on a
// heap address, and a set of bug-compat flags for bug-for-bug compatibility
// with earlier implementations.
//
// A Flavour is an immutable value; every derived width (address_bytes,
// item_bytes) is computed from its stored fields when asked for.
package flavour

import (
	"fmt"

	"github.com/scigolib/spead/errs"
)

// BugCompat is a bitset of bug-for-bug compatibility flags.
type BugCompat uint32

const (
	// BugCompatDescriptorWidths reproduces an early implementation's use
	// of differently-sized descriptor fields. Not yet implemented: see
	// DESIGN.md "bug_compat open question".
	BugCompatDescriptorWidths BugCompat = 1 << iota

	// BugCompatShapeBit1 reproduces an early implementation's use of a
	// different bit position for the "variable axis" flag in shape
	// encoding. Not yet implemented: see DESIGN.md.
	BugCompatShapeBit1

	// BugCompatPySpead052 reproduces PySPEAD 0.5.2 quirks unrelated to
	// descriptor/shape widths (reserved for future use).
	BugCompatPySpead052
)

// Has reports whether all bits in mask are set.
func (b BugCompat) Has(mask BugCompat) bool {
	return b&mask == mask
}

// Flavour is the immutable tuple of wire parameters (version,
// item_pointer_bits, heap_address_bits, bug_compat) from spec.md §3.
type Flavour struct {
	version         uint8
	itemPointerBits uint8
	heapAddressBits uint8
	bugCompat       BugCompat
}

// SupportedVersion is the only SPEAD protocol version this core supports
// (spec.md §1 Non-goals: "support for SPEAD versions other than v4").
const SupportedVersion = 4

// MinHeapAddressBits and MaxHeapAddressBits bound heap_address_bits per
// spec.md §3: "a multiple of 8 in [8, 56]".
const (
	MinHeapAddressBits = 8
	MaxHeapAddressBits = 56
)

// New validates and constructs a Flavour.
//
// heapAddressBits must be a multiple of 8 in [8, 56] and strictly less
// than itemPointerBits. itemPointerBits must be 64 (spec.md §3:
// "item_pointer_bits ∈ {64}"). version must be 4.
func New(version, itemPointerBits, heapAddressBits uint8, bugCompat BugCompat) (Flavour, error) {
	if version != SupportedVersion {
		return Flavour{}, fmt.Errorf("%w: version %d (only %d supported)", errs.ErrFlavourInvalid, version, SupportedVersion)
	}

	if itemPointerBits != 64 {
		return Flavour{}, fmt.Errorf("%w: item_pointer_bits %d (only 64 supported)", errs.ErrFlavourInvalid, itemPointerBits)
	}

	if heapAddressBits < MinHeapAddressBits || heapAddressBits > MaxHeapAddressBits {
		return Flavour{}, fmt.Errorf("%w: heap_address_bits %d out of range [%d, %d]",
			errs.ErrFlavourInvalid, heapAddressBits, MinHeapAddressBits, MaxHeapAddressBits)
	}

	if heapAddressBits%8 != 0 {
		return Flavour{}, fmt.Errorf("%w: heap_address_bits %d not a multiple of 8", errs.ErrFlavourInvalid, heapAddressBits)
	}

	if heapAddressBits >= itemPointerBits {
		return Flavour{}, fmt.Errorf("%w: heap_address_bits %d must be strictly less than item_pointer_bits %d",
			errs.ErrFlavourInvalid, heapAddressBits, itemPointerBits)
	}

	return Flavour{
		version:         version,
		itemPointerBits: itemPointerBits,
		heapAddressBits: heapAddressBits,
		bugCompat:       bugCompat,
	}, nil
}

// Default4 returns the common (4, 64, 48, 0) flavour used throughout
// spec.md §8's worked scenarios.
func Default4() Flavour {
	f, err := New(SupportedVersion, 64, 48, 0)
	if err != nil {
		// Unreachable: (4, 64, 48, 0) is always valid.
		panic(err)
	}

	return f
}

// Version returns the SPEAD protocol version.
func (f Flavour) Version() uint8 { return f.version }

// ItemPointerBits returns the width in bits of an item pointer.
func (f Flavour) ItemPointerBits() uint8 { return f.itemPointerBits }

// HeapAddressBits returns the number of low bits of an item pointer spent
// on an inline value or a payload address.
func (f Flavour) HeapAddressBits() uint8 { return f.heapAddressBits }

// BugCompat returns the bug-compat bitset.
func (f Flavour) BugCompat() BugCompat { return f.bugCompat }

// AddressBytes returns heap_address_bits / 8, the number of bytes used to
// encode an address or shape axis length.
func (f Flavour) AddressBytes() int { return int(f.heapAddressBits) / 8 }

// ItemBytes returns 8 - address_bytes, the number of bytes used to encode
// a fallback-format field's bit length and the item_id width complement.
func (f Flavour) ItemBytes() int { return 8 - f.AddressBytes() }

// MaxImmediateValue returns the largest value that fits in the
// heap_address_bits low bits of a pointer, i.e. 2^heap_address_bits - 1.
func (f Flavour) MaxImmediateValue() uint64 {
	return (uint64(1) << f.heapAddressBits) - 1
}

// MaxItemID returns the largest item id representable in the high bits of
// a pointer, i.e. 2^(item_pointer_bits-heap_address_bits-1) - 1 (one bit
// is reserved for the immediate/address flag).
func (f Flavour) MaxItemID() uint64 {
	idBits := f.itemPointerBits - f.heapAddressBits - 1
	return (uint64(1) << idBits) - 1
}
