// Package descriptor builds the wire encoding of an item descriptor: the
// self-contained blob (itself shaped like a tiny heap) that tells a
// receiver an item's id, name, description, shape and type well enough to
// decode its payload (spec.md §3.2). A descriptor is carried as the value
// of a reserved DESCRIPTOR item within the heap that first uses it.
package descriptor

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/scigolib/spead/errs"
	"github.com/scigolib/spead/flavour"
	"github.com/scigolib/spead/item"
	"github.com/scigolib/spead/wire"
)

// EncodeShape renders a fallback or numpy shape in the wire format used by
// both item kinds: one byte (0 fixed / 1 variable) plus an
// address-width-sized length per axis, zero for variable axes.
func EncodeShape(f flavour.Flavour, shape []item.Axis) ([]byte, error) {
	var buf bytes.Buffer

	for _, ax := range shape {
		if ax.Variable {
			buf.WriteByte(1)
			enc, err := wire.EncodeBE(f.AddressBytes(), 0)
			if err != nil {
				return nil, err
			}
			buf.Write(enc)

			continue
		}

		buf.WriteByte(0)
		enc, err := wire.EncodeBE(f.AddressBytes(), uint64(ax.Size))
		if err != nil {
			return nil, err
		}
		buf.Write(enc)
	}

	return buf.Bytes(), nil
}

// encodeFixedShape is EncodeShape for a numpy item's all-fixed shape.
func encodeFixedShape(f flavour.Flavour, shape []int) ([]byte, error) {
	axes := make([]item.Axis, len(shape))
	for i, s := range shape {
		axes[i] = item.Fixed(s)
	}

	return EncodeShape(f, axes)
}

// EncodeFormat renders a fallback format as a byte (ASCII type code) plus
// an item-width-sized bit count per field.
func EncodeFormat(f flavour.Flavour, format []item.FormatField) ([]byte, error) {
	var buf bytes.Buffer

	for _, field := range format {
		buf.WriteByte(field.Code)
		enc, err := wire.EncodeBE(f.ItemBytes(), uint64(field.Bits))
		if err != nil {
			return nil, err
		}
		buf.Write(enc)
	}

	return buf.Bytes(), nil
}

// pythonBool renders a bool the way Python's repr does: True or False.
func pythonBool(b bool) string {
	if b {
		return "True"
	}

	return "False"
}

// pythonIntTuple renders a tuple of ints the way Python's repr does,
// including the trailing comma for a single-element tuple.
func pythonIntTuple(shape []int) string {
	if len(shape) == 0 {
		return "()"
	}

	var buf bytes.Buffer
	buf.WriteByte('(')
	for i, s := range shape {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(strconv.Itoa(s))
	}
	if len(shape) == 1 {
		buf.WriteByte(',')
	}
	buf.WriteByte(')')

	return buf.String()
}

// dtypeRepr renders the numpy dict literal a receiving spead2 client
// expects in the DESCRIPTOR_DTYPE field: descr, fortran_order and shape.
func dtypeRepr(d item.Dtype, fortranOrder bool, shape []int) string {
	return fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s}",
		d.Descr(), pythonBool(fortranOrder), pythonIntTuple(shape))
}

// Encode builds the full wire bytes of it's descriptor: a header, its
// mandatory pointers, the DESCRIPTOR_ID_ID immediate, one address pointer
// per descriptor field, and the field payload itself (name, description,
// format, shape, and for numpy-style items the dtype repr).
//
// A flavour with BugCompatDescriptorWidths or BugCompatShapeBit1 set is
// rejected with errs.ErrFlavourInvalid; other bug-compat bits are ignored
// (SPEC_FULL.md §3).
func Encode(f flavour.Flavour, it *item.Item) ([]byte, error) {
	if f.BugCompat().Has(flavour.BugCompatDescriptorWidths) || f.BugCompat().Has(flavour.BugCompatShapeBit1) {
		return nil, fmt.Errorf("%w: descriptor bug-compat modes are not implemented", errs.ErrFlavourInvalid)
	}

	nameBytes := []byte(it.Name)
	descBytes := []byte(it.Description)

	var (
		formatBytes []byte
		shapeBytes  []byte
		dtypeBytes  []byte
		numItems    uint16
		err         error
	)

	if it.IsNumpy() {
		shapeBytes, err = encodeFixedShape(f, it.Numpy.Shape)
		if err != nil {
			return nil, err
		}
		dtypeBytes = []byte(dtypeRepr(it.Numpy.Dtype, it.Numpy.Order == item.ColumnMajor, it.Numpy.Shape))
		formatBytes = nil
		numItems = 10
	} else {
		formatBytes, err = EncodeFormat(f, it.Format)
		if err != nil {
			return nil, err
		}
		shapeBytes, err = EncodeShape(f, it.Shape)
		if err != nil {
			return nil, err
		}
		numItems = 9
	}

	fields := [][]byte{nameBytes, descBytes, formatBytes, shapeBytes}
	if it.IsNumpy() {
		fields = append(fields, dtypeBytes)
	}

	payload := bytes.Join(fields, nil)

	offsets := make([]int, len(fields)+1)
	pos := 0
	for i, fld := range fields {
		offsets[i] = pos
		pos += len(fld)
	}
	offsets[len(fields)] = pos

	var buf bytes.Buffer
	buf.Write(wire.MakeHeader(f, numItems))

	writeImmediate := func(id, value uint64) error {
		p, err := wire.MakeImmediate(f, id, value)
		if err != nil {
			return err
		}
		buf.Write(p)

		return nil
	}
	writeAddress := func(id uint64, offset int) error {
		p, err := wire.MakeAddress(f, id, uint64(offset))
		if err != nil {
			return err
		}
		buf.Write(p)

		return nil
	}

	if err := writeImmediate(wire.HeapCntID, 1); err != nil {
		return nil, err
	}
	if err := writeImmediate(wire.HeapLengthID, uint64(len(payload))); err != nil {
		return nil, err
	}
	if err := writeImmediate(wire.PayloadOffsetID, 0); err != nil {
		return nil, err
	}
	if err := writeImmediate(wire.PayloadLengthID, uint64(len(payload))); err != nil {
		return nil, err
	}
	if err := writeImmediate(wire.DescriptorIDID, it.ID); err != nil {
		return nil, err
	}
	if err := writeAddress(wire.DescriptorNameID, offsets[0]); err != nil {
		return nil, err
	}
	if err := writeAddress(wire.DescriptorDescriptionID, offsets[1]); err != nil {
		return nil, err
	}
	if err := writeAddress(wire.DescriptorFormatID, offsets[2]); err != nil {
		return nil, err
	}
	if err := writeAddress(wire.DescriptorShapeID, offsets[3]); err != nil {
		return nil, err
	}
	if it.IsNumpy() {
		if err := writeAddress(wire.DescriptorDtypeID, offsets[4]); err != nil {
			return nil, err
		}
	}

	buf.Write(payload)

	return buf.Bytes(), nil
}
