// Package item models a SPEAD Item: a named, typed, shaped datum that can
// be added to a heap (spec.md §3). An item is either numpy-style (a fixed
// dtype and shape, backed by a flat byte buffer) or fallback-style (an
// arbitrary list of bit-width fields and a shape that may include one
// variable axis).
package item

import (
	"fmt"

	"github.com/scigolib/spead/errs"
	"github.com/scigolib/spead/flavour"
)

// Axis is one dimension of a fallback item's shape: either a fixed
// nonnegative length, or the "variable" sentinel (spec.md §3).
type Axis struct {
	Variable bool
	Size     int
}

// Fixed returns a fixed-length axis.
func Fixed(size int) Axis { return Axis{Size: size} }

// VariableAxis is the variable-length axis sentinel.
var VariableAxis = Axis{Variable: true}

// FormatField is one field of a fallback format: a type code drawn from
// {'u','i','f','b','c','0'} and its bit width (spec.md §3).
type FormatField struct {
	Code byte
	Bits int
}

// Item is a named, typed, shaped value plus its wire identity.
//
// Exactly one of Numpy or Format is populated: Numpy for a numpy-style
// item (fixed dtype/shape), Format+Shape+Records for a fallback item.
type Item struct {
	ID          uint64
	Name        string
	Description string

	Numpy *NumpyArray

	Format  []FormatField
	Shape   []Axis
	Records [][]uint64
}

// NewNumpyItem constructs a numpy-style item. The item does not copy arr;
// it references arr.Data. Heap.AddItem later copies the item's bytes into
// the heap's own payload buffer, so the heap does not keep arr.Data alive.
func NewNumpyItem(id uint64, name, description string, arr NumpyArray) (*Item, error) {
	if id == 0 {
		return nil, errs.WrapItem("spead.NewNumpyItem", id, name, errs.ErrNullItemID)
	}

	return &Item{ID: id, Name: name, Description: description, Numpy: &arr}, nil
}

// NewFallbackItem constructs a fallback-format item with no records yet;
// call SetRecords to supply values.
func NewFallbackItem(id uint64, name, description string, format []FormatField, shape []Axis) (*Item, error) {
	if id == 0 {
		return nil, errs.WrapItem("spead.NewFallbackItem", id, name, errs.ErrNullItemID)
	}

	if len(format) == 0 {
		return nil, errs.WrapItem("spead.NewFallbackItem", id, name, fmt.Errorf("%w: format must have at least one field", errs.ErrFormatUnsupported))
	}

	variableAxes := 0
	for _, ax := range shape {
		if ax.Variable {
			variableAxes++
		}
	}
	if variableAxes > 1 {
		return nil, errs.WrapItem("spead.NewFallbackItem", id, name, fmt.Errorf("%w: at most one variable axis is supported", errs.ErrShapeMismatch))
	}

	return &Item{ID: id, Name: name, Description: description, Format: format, Shape: shape}, nil
}

// NewScalarItem constructs a scalar fallback item (empty shape, single
// field), the immediate-eligible case of spec.md §3.
func NewScalarItem(id uint64, name, description string, field FormatField, value uint64) (*Item, error) {
	it, err := NewFallbackItem(id, name, description, []FormatField{field}, nil)
	if err != nil {
		return nil, err
	}

	if err := it.SetRecords([][]uint64{{value}}); err != nil {
		return nil, err
	}

	return it, nil
}

// IsNumpy reports whether this item uses the numpy-style stack.
func (it *Item) IsNumpy() bool { return it.Numpy != nil }

// expectedRecordCount returns the fixed product of non-variable axes and
// whether a variable axis is present. If no variable axis is present, the
// record count must equal the fixed product exactly; otherwise the fixed
// product must be nonzero and the record count a multiple of it, zero
// included (spec.md §4.3).
func (it *Item) expectedRecordCount() (fixedProduct int, hasVariable bool) {
	fixedProduct = 1
	for _, ax := range it.Shape {
		if ax.Variable {
			hasVariable = true
		} else {
			fixedProduct *= ax.Size
		}
	}

	return fixedProduct, hasVariable
}

// SetRecords validates and installs the fallback item's value sequence.
// Each record must have exactly len(Format) fields.
func (it *Item) SetRecords(records [][]uint64) error {
	if it.IsNumpy() {
		return errs.WrapItem("Item.SetRecords", it.ID, it.Name, fmt.Errorf("%w: item is numpy-style", errs.ErrFormatUnsupported))
	}

	for _, rec := range records {
		if len(rec) != len(it.Format) {
			return errs.WrapItem("Item.SetRecords", it.ID, it.Name,
				fmt.Errorf("%w: record has %d fields, format declares %d", errs.ErrFormatIncompatible, len(rec), len(it.Format)))
		}
	}

	fixedProduct, hasVariable := it.expectedRecordCount()
	n := len(records)

	if !hasVariable {
		if n != fixedProduct {
			return errs.WrapItem("Item.SetRecords", it.ID, it.Name,
				fmt.Errorf("%w: shape requires exactly %d records, got %d", errs.ErrFormatIncompatible, fixedProduct, n))
		}
	} else if fixedProduct == 0 || n%fixedProduct != 0 {
		return errs.WrapItem("Item.SetRecords", it.ID, it.Name,
			fmt.Errorf("%w: %d records is not a multiple of fixed axis product %d", errs.ErrFormatIncompatible, n, fixedProduct))
	}

	it.Records = records

	return nil
}

// IsImmediateEligible reports whether this item qualifies to be inlined
// as an 8-byte immediate pointer rather than stored in the payload
// (spec.md §3): fallback format, a single field whose bit width fits in
// heap_address_bits, and an empty or (1,)-fixed shape.
func (it *Item) IsImmediateEligible(f flavour.Flavour) bool {
	if it.IsNumpy() {
		return false
	}

	if len(it.Format) != 1 || it.Format[0].Bits > int(f.HeapAddressBits()) {
		return false
	}

	switch len(it.Shape) {
	case 0:
		return true
	case 1:
		return !it.Shape[0].Variable && it.Shape[0].Size == 1
	default:
		return false
	}
}

// ImmediateValue returns the inline value for an immediate-eligible item.
// Callers must check IsImmediateEligible first.
func (it *Item) ImmediateValue() (uint64, error) {
	if len(it.Records) != 1 || len(it.Records[0]) != 1 {
		return 0, errs.WrapItem("Item.ImmediateValue", it.ID, it.Name, fmt.Errorf("%w: expected exactly one scalar record", errs.ErrFormatIncompatible))
	}

	return it.Records[0][0], nil
}
