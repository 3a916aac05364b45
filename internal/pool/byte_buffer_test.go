package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_AppendReturnsOffset(t *testing.T) {
	bb := NewByteBuffer(4)

	off1 := bb.Append([]byte{1, 2, 3})
	off2 := bb.Append([]byte{4, 5})

	require.Equal(t, 0, off1)
	require.Equal(t, 3, off2)
	require.Equal(t, []byte{1, 2, 3, 4, 5}, bb.Bytes())
	require.Equal(t, 5, bb.Len())
}

func TestByteBuffer_GrowAvoidsRealloc(t *testing.T) {
	bb := NewByteBuffer(8)
	backing := bb.B

	bb.Grow(4)
	bb.B = append(bb.B, []byte{1, 2, 3, 4}...)

	require.Equal(t, cap(backing), cap(bb.B), "growing within existing capacity must not reallocate")
}

func TestByteBuffer_GrowReallocatesWhenNeeded(t *testing.T) {
	bb := NewByteBuffer(2)
	bb.Append([]byte{1, 2})

	bb.Grow(PayloadBufferDefaultSize + 1)
	require.GreaterOrEqual(t, cap(bb.B)-len(bb.B), PayloadBufferDefaultSize+1)
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.Append([]byte{1, 2, 3})
	bb.Reset()

	require.Equal(t, 0, bb.Len())
	require.Equal(t, []byte{}, bb.Bytes())
}

func TestBufferPool_PutDiscardsOversizedBuffer(t *testing.T) {
	p := NewBufferPool(4, 8)

	bb := p.Get()
	bb.Append(make([]byte, 100))
	p.Put(bb)

	fresh := p.Get()
	require.Less(t, cap(fresh.B), 100)
}

func TestPackagePool_GetPutRoundTrip(t *testing.T) {
	bb := Get()
	bb.Append([]byte{0xAA})
	Put(bb)

	again := Get()
	require.Equal(t, 0, again.Len())
}
