// Package spead implements the sending side of the SPEAD v4 protocol: a
// flavour-parametrised wire codec, a heap assembler that decides which
// items go inline as immediates versus by payload reference, and a lazy
// packet generator that splits a heap's payload across MTU-bounded
// packets.
//
// # Basic usage
//
//	f := spead.DefaultFlavour()
//	h, _ := spead.NewHeap(0x123456, f)
//
//	ts, _ := item.NewScalarItem(0x1000, "timestamp", "", item.FormatField{Code: 'u', Bits: 48}, uint64(now))
//	h.AddItem(ts)
//
//	gen, _ := spead.NewPacketGenerator(h, 1472)
//	for pkt := range gen.Packets() {
//	    conn.Write(pkt)
//	}
//
// For descriptor construction, item shapes, and heap/generator options see
// the item, descriptor, heap and packet packages directly; this package
// only wraps the most common construction paths.
package spead

import (
	"github.com/scigolib/spead/descriptor"
	"github.com/scigolib/spead/flavour"
	"github.com/scigolib/spead/heap"
	"github.com/scigolib/spead/item"
	"github.com/scigolib/spead/packet"
)

// NewFlavour constructs a Flavour, validating version/width/bug_compat
// constraints.
func NewFlavour(version, itemPointerBits, heapAddressBits uint8, bugCompat flavour.BugCompat) (flavour.Flavour, error) {
	return flavour.New(version, itemPointerBits, heapAddressBits, bugCompat)
}

// DefaultFlavour returns the common (version=4, item_pointer_bits=64,
// heap_address_bits=48, bug_compat=0) flavour used by most SPEAD senders.
func DefaultFlavour() flavour.Flavour {
	return flavour.Default4()
}

// NewHeap constructs an empty heap for heapCnt under f.
func NewHeap(heapCnt uint64, f flavour.Flavour, opts ...heap.Option) (*heap.Heap, error) {
	return heap.New(heapCnt, f, opts...)
}

// NewPacketGenerator constructs a lazy packet generator over h, bounding
// each packet to maxPacketSize bytes. Freezes h as a side effect.
func NewPacketGenerator(h *heap.Heap, maxPacketSize int, opts ...packet.Option) (*packet.Generator, error) {
	return packet.New(h, maxPacketSize, opts...)
}

// EncodeDescriptor builds the wire bytes of it's descriptor sub-heap
// under flavour f, for callers that want to inspect or cache descriptor
// bytes directly instead of going through Heap.AddDescriptor.
func EncodeDescriptor(f flavour.Flavour, it *item.Item) ([]byte, error) {
	return descriptor.Encode(f, it)
}
