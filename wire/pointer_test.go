package wire

import (
	"testing"

	"github.com/scigolib/spead/errs"
	"github.com/scigolib/spead/flavour"
	"github.com/stretchr/testify/require"
)

func TestEncodeBE_RoundTrip(t *testing.T) {
	sizes := []int{1, 2, 3, 4, 6, 8}

	for _, size := range sizes {
		values := []uint64{0, 1}
		if size < 8 {
			limit := uint64(1) << (8 * size)
			values = append(values, limit-1, limit/2)
		} else {
			values = append(values, 1<<62, 1<<63)
		}

		for _, v := range values {
			enc, err := EncodeBE(size, v)
			require.NoError(t, err)
			require.Len(t, enc, size)

			got, err := DecodeBE(enc)
			require.NoError(t, err)
			require.Equal(t, v, got)
		}
	}
}

func TestEncodeBE_Overflow(t *testing.T) {
	_, err := EncodeBE(2, 1<<16)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueOverflow)

	_, err = EncodeBE(1, 256)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueOverflow)
}

func TestMakeHeader(t *testing.T) {
	f := flavour.Default4()
	h := MakeHeader(f, 5)

	require.Equal(t, []byte{0x53, 0x04, 0x02, 0x06, 0x00, 0x00, 0x00, 0x05}, h)

	itemBytes, addressBytes, numItems, err := ParseHeader(h)
	require.NoError(t, err)
	require.Equal(t, 2, itemBytes)
	require.Equal(t, 6, addressBytes)
	require.Equal(t, uint16(5), numItems)
}

func TestMakeImmediate_Classification(t *testing.T) {
	f := flavour.Default4()

	ids := []uint64{0, 1, 0x2345, f.MaxItemID()}
	values := []uint64{0, 1, 0x7654, f.MaxImmediateValue()}

	for _, id := range ids {
		for _, v := range values {
			ptr, err := MakeImmediate(f, id, v)
			require.NoError(t, err)
			require.Equal(t, byte(0x80), ptr[0]&0x80, "high bit must be set for immediate")

			decoded, err := ParsePointer(f, ptr)
			require.NoError(t, err)
			require.Equal(t, KindImmediate, decoded.Kind)
			require.Equal(t, id, decoded.ItemID)
			require.Equal(t, v, decoded.Value)
		}
	}
}

func TestMakeAddress_Classification(t *testing.T) {
	f := flavour.Default4()

	ptr, err := MakeAddress(f, 0x2345, 128)
	require.NoError(t, err)
	require.Equal(t, byte(0), ptr[0]&0x80, "high bit must be clear for address")

	decoded, err := ParsePointer(f, ptr)
	require.NoError(t, err)
	require.Equal(t, KindAddress, decoded.Kind)
	require.Equal(t, uint64(0x2345), decoded.ItemID)
	require.Equal(t, uint64(128), decoded.Value)
}

func TestMakeImmediate_Overflow(t *testing.T) {
	f := flavour.Default4()

	_, err := MakeImmediate(f, f.MaxItemID()+1, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueOverflow)

	_, err = MakeImmediate(f, 0, f.MaxImmediateValue()+1)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueOverflow)
}

func TestMakeAddress_ExampleFromSpec(t *testing.T) {
	// spec.md §8 scenario 3: NULL address pointer at offset 0.
	f := flavour.Default4()

	ptr, err := MakeAddress(f, NullID, 0)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 8), ptr)
}
