// Package errs defines the sentinel error taxonomy shared across the spead
// packages, following spec.md §7.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers wrap these with fmt.Errorf("%w: ...", ErrX, detail)
// to add context without losing the ability to match with errors.Is.
var (
	// ErrFlavourInvalid is returned when a Flavour's wire parameters are
	// out of range (heap_address_bits not a multiple of 8 in [8,56], not
	// strictly less than item_pointer_bits, or an unsupported version).
	ErrFlavourInvalid = errors.New("spead: invalid flavour")

	// ErrValueOverflow is returned when an id, offset, or inline value
	// exceeds the bit width of the field that must hold it.
	ErrValueOverflow = errors.New("spead: value overflow")

	// ErrShapeMismatch is returned when an item's value does not match
	// its declared shape.
	ErrShapeMismatch = errors.New("spead: shape mismatch")

	// ErrFormatUnsupported is returned when a fallback format field uses
	// an unknown type code.
	ErrFormatUnsupported = errors.New("spead: unsupported format code")

	// ErrFormatIncompatible is returned when a variable-shape axis is
	// combined with a fallback format but the supplied value has the
	// wrong length.
	ErrFormatIncompatible = errors.New("spead: format incompatible with value")

	// ErrPacketTooSmall is returned when max_packet_size cannot hold the
	// mandatory pointer preface plus one payload byte.
	ErrPacketTooSmall = errors.New("spead: max_packet_size too small")

	// ErrDescriptorTooLarge is returned when a single descriptor sub-heap
	// cannot fit in one packet.
	ErrDescriptorTooLarge = errors.New("spead: descriptor exceeds max_packet_size")

	// ErrHeapFrozen is returned by Heap mutators once a PacketGenerator
	// has been constructed over the heap.
	ErrHeapFrozen = errors.New("spead: heap is frozen")

	// ErrNullItemID is returned when an item is given id == NULL_ID (0),
	// which is reserved for padding.
	ErrNullItemID = errors.New("spead: item id must be nonzero")
)

// ItemError wraps an error with the identity of the offending item, so
// user-visible messages can name it by id and name as required by
// spec.md §7.
type ItemError struct {
	Context  string
	ItemID   uint64
	ItemName string
	Cause    error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: item id=0x%x name=%q: %v", e.Context, e.ItemID, e.ItemName, e.Cause)
}

// Unwrap allows errors.Is/errors.As to see through to Cause.
func (e *ItemError) Unwrap() error {
	return e.Cause
}

// WrapItem creates a contextual ItemError. Returns nil if cause is nil.
func WrapItem(context string, itemID uint64, itemName string, cause error) error {
	if cause == nil {
		return nil
	}

	return &ItemError{
		Context:  context,
		ItemID:   itemID,
		ItemName: itemName,
		Cause:    cause,
	}
}
