package descriptor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/spead/flavour"
	"github.com/scigolib/spead/item"
	"github.com/scigolib/spead/wire"
)

func TestEncode_Fallback(t *testing.T) {
	f := flavour.Default4()

	it, err := item.NewFallbackItem(0x2345, "name", "description",
		[]item.FormatField{{Code: 'b', Bits: 1}, {Code: 'c', Bits: 7}, {Code: 'f', Bits: 32}},
		[]item.Axis{item.Fixed(2)})
	require.NoError(t, err)

	enc, err := Encode(f, it)
	require.NoError(t, err)

	itemBytes, addressBytes, numItems, err := wire.ParseHeader(enc[:8])
	require.NoError(t, err)
	require.Equal(t, f.ItemBytes(), itemBytes)
	require.Equal(t, f.AddressBytes(), addressBytes)
	require.Equal(t, uint16(9), numItems)

	formatBytes, err := EncodeFormat(f, it.Format)
	require.NoError(t, err)
	shapeBytes, err := EncodeShape(f, it.Shape)
	require.NoError(t, err)

	wantPayload := append(append(append([]byte("name"), []byte("description")...), formatBytes...), shapeBytes...)
	require.Equal(t, wantPayload, enc[len(enc)-len(wantPayload):])
}

func TestEncode_Numpy(t *testing.T) {
	f := flavour.Default4()

	it, err := item.NewNumpyItem(0x2345, "name", "description", item.NumpyArray{
		Dtype: item.Uint16,
		Shape: []int{2, 3},
		Order: item.RowMajor,
		Data:  make([]byte, 12),
	})
	require.NoError(t, err)

	enc, err := Encode(f, it)
	require.NoError(t, err)

	itemBytes, addressBytes, numItems, err := wire.ParseHeader(enc[:8])
	require.NoError(t, err)
	require.Equal(t, f.ItemBytes(), itemBytes)
	require.Equal(t, f.AddressBytes(), addressBytes)
	require.Equal(t, uint16(10), numItems)

	wantDtype := "{'descr': '<u2', 'fortran_order': False, 'shape': (2, 3)}"
	require.Contains(t, string(enc), wantDtype)
	require.Contains(t, string(enc), "name")
	require.Contains(t, string(enc), "description")
}

func TestPythonIntTuple(t *testing.T) {
	require.Equal(t, "()", pythonIntTuple(nil))
	require.Equal(t, "(3,)", pythonIntTuple([]int{3}))
	require.Equal(t, "(2, 3)", pythonIntTuple([]int{2, 3}))
}

func TestEncode_BugCompatUnimplemented(t *testing.T) {
	f, err := flavour.New(4, 64, 48, flavour.BugCompatDescriptorWidths)
	require.NoError(t, err)

	it, err := item.NewFallbackItem(0x1, "x", "", []item.FormatField{{Code: 'u', Bits: 8}}, nil)
	require.NoError(t, err)
	require.NoError(t, it.SetRecords([][]uint64{{1}}))

	_, err = Encode(f, it)
	require.Error(t, err)
}
