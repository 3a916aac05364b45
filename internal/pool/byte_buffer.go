// Package pool provides a pooled, growable byte buffer used by the heap
// assembler to accumulate a payload without repeated reallocation as
// items are added (spec.md §4.2's "growing payload buffer").
package pool

import "sync"

const (
	// PayloadBufferDefaultSize is the initial capacity handed out by the
	// default pool: large enough to hold most single-packet heaps without
	// a reallocation.
	PayloadBufferDefaultSize = 16 * 1024
	// PayloadBufferMaxThreshold discards buffers larger than this on Put,
	// so one oversized heap doesn't bloat the pool for every heap after it.
	PayloadBufferMaxThreshold = 8 * 1024 * 1024
)

// ByteBuffer is a growable byte slice meant to be reused across heaps.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the buffer's current contents.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Reset empties the buffer while retaining its backing array.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Grow ensures the buffer can accept requiredBytes more bytes without a
// further reallocation. It adds PayloadBufferDefaultSize of room while the
// capacity is at most 4*PayloadBufferDefaultSize and a quarter of the
// current capacity beyond that, or requiredBytes if that is larger.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := PayloadBufferDefaultSize
	if cap(bb.B) > 4*PayloadBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Append grows the buffer as needed and appends data, returning the
// offset at which data now begins.
func (bb *ByteBuffer) Append(data []byte) int {
	bb.Grow(len(data))
	offset := len(bb.B)
	bb.B = append(bb.B, data...)

	return offset
}

// BufferPool pools ByteBuffers via sync.Pool to avoid per-heap allocation
// churn in long-running senders.
type BufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewBufferPool creates a BufferPool handing out buffers of defaultSize
// and discarding, on Put, any buffer grown past maxThreshold.
func NewBufferPool(defaultSize, maxThreshold int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a reset ByteBuffer from the pool.
func (p *BufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool, discarding it if it grew past the pool's
// threshold.
func (p *BufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var defaultPool = NewBufferPool(PayloadBufferDefaultSize, PayloadBufferMaxThreshold)

// Get retrieves a ByteBuffer from the package-default pool.
func Get() *ByteBuffer { return defaultPool.Get() }

// Put returns bb to the package-default pool.
func Put(bb *ByteBuffer) { defaultPool.Put(bb) }
