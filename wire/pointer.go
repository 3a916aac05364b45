// Package wire implements the flavour-parametrised SPEAD wire codec:
// spec.md §4.1's encoder primitives (encode_be, make_header,
// make_immediate, make_address) plus their inverses, used both by the
// send-side heap/packet packages and by property tests that check
// round-trip width and pointer classification (spec.md §8).
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/scigolib/spead/errs"
	"github.com/scigolib/spead/flavour"
)

// EncodeBE encodes value as a big-endian byte string of exactly size
// bytes (size <= 8). Returns errs.ErrValueOverflow if value does not fit.
func EncodeBE(size int, value uint64) ([]byte, error) {
	if size < 0 || size > 8 {
		return nil, fmt.Errorf("%w: encode_be size %d out of range [0, 8]", errs.ErrValueOverflow, size)
	}

	if size < 8 {
		limit := uint64(1) << (8 * size)
		if value >= limit {
			return nil, fmt.Errorf("%w: value %d does not fit in %d bytes", errs.ErrValueOverflow, value, size)
		}
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], value)

	out := make([]byte, size)
	copy(out, buf[8-size:])

	return out, nil
}

// AppendBE appends the big-endian size-byte encoding of value to dst and
// returns the extended slice. It has the same overflow semantics as
// EncodeBE; it encodes through EncodeBE, so it allocates the same
// intermediate slice.
func AppendBE(dst []byte, size int, value uint64) ([]byte, error) {
	enc, err := EncodeBE(size, value)
	if err != nil {
		return dst, err
	}

	return append(dst, enc...), nil
}

// DecodeBE decodes a big-endian byte string of length len(data) (<= 8)
// back into a uint64. Used by round-trip property tests (spec.md §8).
func DecodeBE(data []byte) (uint64, error) {
	if len(data) > 8 {
		return 0, fmt.Errorf("%w: decode_be length %d exceeds 8 bytes", errs.ErrValueOverflow, len(data))
	}

	var buf [8]byte
	copy(buf[8-len(data):], data)

	return binary.BigEndian.Uint64(buf[:]), nil
}

// MakeHeader encodes the 8-byte SPEAD header word for a heap or sub-heap
// carrying numItems item pointers (spec.md §4.1, byte layout per
// original_source/spead2/test/test_send.py's make_header):
//
//	byte 0 = 0x53, byte 1 = version, byte 2 = item_bytes,
//	byte 3 = address_bytes, bytes 4-5 = 0x0000, bytes 6-7 = numItems.
func MakeHeader(f flavour.Flavour, numItems uint16) []byte {
	word := (uint64(Magic) << 56) |
		(uint64(f.Version()) << 48) |
		(uint64(f.ItemBytes()) << 40) |
		(uint64(f.AddressBytes()) << 32) |
		uint64(numItems)

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], word)

	return buf[:]
}

// ParseHeader decodes an 8-byte SPEAD header word, returning the declared
// item_bytes, address_bytes and number of item pointers that follow.
func ParseHeader(data []byte) (itemBytes, addressBytes int, numItems uint16, err error) {
	if len(data) != PointerSize {
		return 0, 0, 0, fmt.Errorf("%w: header must be %d bytes, got %d", errs.ErrValueOverflow, PointerSize, len(data))
	}

	word := binary.BigEndian.Uint64(data)
	if byte(word>>56) != Magic {
		return 0, 0, 0, fmt.Errorf("%w: bad magic byte 0x%02x", errs.ErrFlavourInvalid, byte(word>>56))
	}

	itemBytes = int(byte(word >> 40))
	addressBytes = int(byte(word >> 32))
	numItems = uint16(word)

	return itemBytes, addressBytes, numItems, nil
}

// MakeImmediate encodes an 8-byte immediate item pointer: high bit set,
// item_id in bits [heap_address_bits, 62], value inlined in the low
// heap_address_bits bits (spec.md §4.1).
func MakeImmediate(f flavour.Flavour, itemID, value uint64) ([]byte, error) {
	if itemID > f.MaxItemID() {
		return nil, fmt.Errorf("%w: item id 0x%x exceeds %d-bit field", errs.ErrValueOverflow, itemID, 63-f.HeapAddressBits())
	}

	if value > f.MaxImmediateValue() {
		return nil, fmt.Errorf("%w: immediate value 0x%x exceeds %d heap_address_bits", errs.ErrValueOverflow, value, f.HeapAddressBits())
	}

	word := (uint64(1) << 63) | (itemID << f.HeapAddressBits()) | value

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], word)

	return buf[:], nil
}

// MakeAddress encodes an 8-byte address item pointer: high bit clear,
// item_id in bits [heap_address_bits, 62], payloadOffset in the low
// heap_address_bits bits (spec.md §4.1).
func MakeAddress(f flavour.Flavour, itemID, payloadOffset uint64) ([]byte, error) {
	if itemID > f.MaxItemID() {
		return nil, fmt.Errorf("%w: item id 0x%x exceeds %d-bit field", errs.ErrValueOverflow, itemID, 63-f.HeapAddressBits())
	}

	if payloadOffset > f.MaxImmediateValue() {
		return nil, fmt.Errorf("%w: payload offset 0x%x exceeds %d heap_address_bits", errs.ErrValueOverflow, payloadOffset, f.HeapAddressBits())
	}

	word := (itemID << f.HeapAddressBits()) | payloadOffset

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], word)

	return buf[:], nil
}

// PointerKind classifies a decoded item pointer.
type PointerKind int

const (
	// KindAddress marks a pointer whose low bits are a payload offset.
	KindAddress PointerKind = iota
	// KindImmediate marks a pointer whose low bits are an inlined value.
	KindImmediate
)

// DecodedPointer is a parsed 8-byte item pointer.
type DecodedPointer struct {
	Kind   PointerKind
	ItemID uint64
	Value  uint64 // inline value if Kind == KindImmediate, payload offset otherwise
}

// ParsePointer decodes an 8-byte item pointer under flavour f. Used by
// round-trip and classification property tests (spec.md §8).
func ParsePointer(f flavour.Flavour, data []byte) (DecodedPointer, error) {
	if len(data) != PointerSize {
		return DecodedPointer{}, fmt.Errorf("%w: item pointer must be %d bytes, got %d", errs.ErrValueOverflow, PointerSize, len(data))
	}

	word := binary.BigEndian.Uint64(data)
	idBits := 63 - f.HeapAddressBits()
	idMask := (uint64(1) << idBits) - 1

	d := DecodedPointer{
		ItemID: (word >> f.HeapAddressBits()) & idMask,
		Value:  word & f.MaxImmediateValue(),
	}
	if word>>63 == 1 {
		d.Kind = KindImmediate
	} else {
		d.Kind = KindAddress
	}

	return d, nil
}
