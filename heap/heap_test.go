package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/spead/flavour"
	"github.com/scigolib/spead/item"
	"github.com/scigolib/spead/wire"
)

func TestHeap_EmptyInjectsNull(t *testing.T) {
	f := flavour.Default4()
	h, err := New(0x123456, f)
	require.NoError(t, err)

	require.NoError(t, h.Freeze())
	require.Len(t, h.Entries(), 1)
	require.Equal(t, wire.NullID, h.Entries()[0].ItemID)
	require.Equal(t, []byte{0x00}, h.Payload())
}

func TestHeap_ImmediateItem(t *testing.T) {
	f := flavour.Default4()
	h, err := New(0x1, f)
	require.NoError(t, err)

	it, err := item.NewScalarItem(0x2345, "ts", "", item.FormatField{Code: 'u', Bits: 16}, 42)
	require.NoError(t, err)

	require.NoError(t, h.AddItem(it))
	require.NoError(t, h.Freeze())

	require.Len(t, h.Entries(), 1)
	e := h.Entries()[0]
	require.False(t, e.HasPayload)

	decoded, err := wire.ParsePointer(f, e.Pointer[:])
	require.NoError(t, err)
	require.Equal(t, wire.KindImmediate, decoded.Kind)
	require.Equal(t, uint64(42), decoded.Value)
}

func TestHeap_PayloadItem(t *testing.T) {
	f := flavour.Default4()
	h, err := New(0x1, f)
	require.NoError(t, err)

	it, err := item.NewNumpyItem(0x2345, "arr", "", item.NumpyArray{
		Dtype: item.Uint16,
		Shape: []int{3},
		Data:  []byte{1, 0, 2, 0, 3, 0},
	})
	require.NoError(t, err)

	require.NoError(t, h.AddItem(it))
	require.NoError(t, h.Freeze())

	require.Len(t, h.Entries(), 1)
	e := h.Entries()[0]
	require.True(t, e.HasPayload)
	require.Equal(t, []byte{1, 0, 2, 0, 3, 0}, h.Payload()[e.PayloadOffset:e.PayloadOffset+e.PayloadLength])
}

func TestHeap_FrozenRejectsMutation(t *testing.T) {
	f := flavour.Default4()
	h, err := New(0x1, f)
	require.NoError(t, err)
	require.NoError(t, h.Freeze())

	it, err := item.NewScalarItem(0x2345, "ts", "", item.FormatField{Code: 'u', Bits: 8}, 1)
	require.NoError(t, err)

	err = h.AddItem(it)
	require.Error(t, err)
}

func TestHeap_NullItemIDRejected(t *testing.T) {
	f := flavour.Default4()
	h, err := New(0x1, f)
	require.NoError(t, err)

	it := &item.Item{ID: 0}
	err = h.AddItem(it)
	require.Error(t, err)
}

func TestHeap_RetainsPayloadAfterItemDrop(t *testing.T) {
	f := flavour.Default4()
	h, err := New(0x1, f)
	require.NoError(t, err)

	it, err := item.NewNumpyItem(0x2345, "arr", "", item.NumpyArray{
		Dtype: item.Uint16,
		Shape: []int{3},
		Data:  []byte{1, 0, 2, 0, 3, 0},
	})
	require.NoError(t, err)

	require.NoError(t, h.AddItem(it))

	// Mutate the array backing the Item's value and then drop the Item
	// entirely: the heap must have copied the bytes into its own payload
	// buffer at AddItem time, so this has no effect on what Freeze/Payload
	// later report.
	it.Numpy.Data[0] = 0xFF
	it = nil //nolint:ineffassign // documents that the heap no longer depends on it

	require.NoError(t, h.Freeze())

	e := h.Entries()[0]
	require.Equal(t, []byte{1, 0, 2, 0, 3, 0}, h.Payload()[e.PayloadOffset:e.PayloadOffset+e.PayloadLength])
}

func TestHeap_DescriptorCacheSuppressesUnchanged(t *testing.T) {
	f := flavour.Default4()
	cache := NewDescriptorCache(3)

	it, err := item.NewNumpyItem(0x2345, "arr", "", item.NumpyArray{
		Dtype: item.Uint8,
		Shape: []int{1},
		Data:  []byte{1},
	})
	require.NoError(t, err)

	var sentCount int
	for i := 0; i < 3; i++ {
		h, err := New(uint64(i+1), f, WithDescriptorCache(cache))
		require.NoError(t, err)
		require.NoError(t, h.AddDescriptor(it))
		require.NoError(t, h.Freeze())
		if len(h.Entries()) == 1 && h.Entries()[0].ItemID == wire.DescriptorID {
			sentCount++
		}
	}

	require.Equal(t, 1, sentCount)
}
