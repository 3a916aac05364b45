// Package heap implements the SPEAD heap assembler: it gathers item
// descriptors and item values, decides which items can be inlined as
// 8-byte immediates versus stored in the payload, and produces the
// ordered item-pointer list and payload buffer a packet.Generator later
// walks (spec.md §4.2).
package heap

import (
	"github.com/scigolib/spead/descriptor"
	"github.com/scigolib/spead/errs"
	"github.com/scigolib/spead/flavour"
	"github.com/scigolib/spead/internal/options"
	"github.com/scigolib/spead/internal/pool"
	"github.com/scigolib/spead/item"
	"github.com/scigolib/spead/logging"
	"github.com/scigolib/spead/wire"
)

// Entry is one item-pointer slot in a heap's ordered entry list: either
// an immediate value or a reference into the heap's payload buffer.
type Entry struct {
	ItemID        uint64
	Pointer       [8]byte
	HasPayload    bool
	PayloadOffset int
	PayloadLength int
}

// Heap accumulates descriptors and items for one logical heap_cnt. It is
// mutable until a packet.Generator is constructed over it, at which point
// Freeze is called and further mutation is rejected (spec.md §4.2's
// "mutable until a PacketGenerator is constructed" invariant).
type Heap struct {
	flavour flavour.Flavour
	heapCnt uint64
	frozen  bool

	entries []Entry
	payload *pool.ByteBuffer

	descCache *DescriptorCache
	log       logging.Logger
}

// Option configures a Heap at construction time.
type Option = options.Option[*Heap]

// WithDescriptorCache attaches a shared DescriptorCache so repeated,
// unchanged descriptors are serialised at most once every cache.ttl
// heaps instead of on every AddDescriptor call.
func WithDescriptorCache(cache *DescriptorCache) Option {
	return options.NoError(func(h *Heap) {
		h.descCache = cache
	})
}

// WithLogger attaches a diagnostic logger. Without one, the heap logs
// nothing.
func WithLogger(log logging.Logger) Option {
	return options.NoError(func(h *Heap) {
		h.log = log
	})
}

// New constructs an empty Heap for heapCnt under flavour f.
func New(heapCnt uint64, f flavour.Flavour, opts ...Option) (*Heap, error) {
	h := &Heap{
		flavour: f,
		heapCnt: heapCnt,
		payload: pool.Get(),
		log:     logging.Nop(),
	}

	if err := options.Apply(h, opts...); err != nil {
		return nil, err
	}

	return h, nil
}

// Flavour returns the heap's wire flavour.
func (h *Heap) Flavour() flavour.Flavour { return h.flavour }

// HeapCnt returns the heap's identifier.
func (h *Heap) HeapCnt() uint64 { return h.heapCnt }

// Entries returns the heap's ordered item-pointer entries. Valid only
// after Freeze (i.e. once a packet.Generator has been constructed).
func (h *Heap) Entries() []Entry { return h.entries }

// Payload returns the heap's assembled payload buffer. Valid only after
// Freeze.
func (h *Heap) Payload() []byte { return h.payload.Bytes() }

// AddDescriptor serialises it's descriptor and queues it as a
// payload-resident entry pointed to by the reserved DESCRIPTOR item id
// (spec.md §4.2's "add_descriptor"). If a DescriptorCache is attached and
// reports the descriptor unchanged within its ttl, the call is a no-op.
func (h *Heap) AddDescriptor(it *item.Item) error {
	if h.frozen {
		return errs.WrapItem("Heap.AddDescriptor", it.ID, it.Name, errs.ErrHeapFrozen)
	}

	encoded, err := descriptor.Encode(h.flavour, it)
	if err != nil {
		return errs.WrapItem("Heap.AddDescriptor", it.ID, it.Name, err)
	}

	if h.descCache != nil {
		fp := Fingerprint(encoded)
		if !h.descCache.ShouldSend(it.ID, fp) {
			h.log.WithField("item_id", it.ID).Debug("descriptor suppressed by cache")

			return nil
		}
	}

	offset := h.payload.Append(encoded)

	ptr, err := wire.MakeAddress(h.flavour, wire.DescriptorID, uint64(offset))
	if err != nil {
		return errs.WrapItem("Heap.AddDescriptor", it.ID, it.Name, err)
	}

	h.appendEntry(wire.DescriptorID, ptr, true, offset, len(encoded))

	return nil
}

// AddItem decides whether it can be inlined as an immediate pointer or
// must be stored in the payload, and records the resulting entry
// (spec.md §4.2's "add_item").
func (h *Heap) AddItem(it *item.Item) error {
	if h.frozen {
		return errs.WrapItem("Heap.AddItem", it.ID, it.Name, errs.ErrHeapFrozen)
	}

	if it.ID == wire.NullID {
		return errs.WrapItem("Heap.AddItem", it.ID, it.Name, errs.ErrNullItemID)
	}

	if it.IsImmediateEligible(h.flavour) {
		value, err := it.ImmediateValue()
		if err != nil {
			return errs.WrapItem("Heap.AddItem", it.ID, it.Name, err)
		}

		ptr, err := wire.MakeImmediate(h.flavour, it.ID, value)
		if err != nil {
			return errs.WrapItem("Heap.AddItem", it.ID, it.Name, err)
		}

		h.appendEntry(it.ID, ptr, false, 0, 0)

		return nil
	}

	data := it.PayloadBytes()
	offset := h.payload.Append(data)

	ptr, err := wire.MakeAddress(h.flavour, it.ID, uint64(offset))
	if err != nil {
		return errs.WrapItem("Heap.AddItem", it.ID, it.Name, err)
	}

	h.appendEntry(it.ID, ptr, true, offset, len(data))

	return nil
}

func (h *Heap) appendEntry(itemID uint64, ptr []byte, hasPayload bool, offset, length int) {
	var e Entry
	e.ItemID = itemID
	copy(e.Pointer[:], ptr)
	e.HasPayload = hasPayload
	e.PayloadOffset = offset
	e.PayloadLength = length

	h.entries = append(h.entries, e)
}

// Freeze locks the heap against further mutation and, if the payload is
// still empty, injects the NULL_ID padding entry so the heap still
// carries a nonzero payload length and a valid pointer preface (spec.md
// §4.2). This fires even when every entry added was an immediate value,
// since immediates never touch the payload buffer. It is idempotent:
// calling it more than once is safe.
func (h *Heap) Freeze() error {
	if h.frozen {
		return nil
	}

	if h.payload.Len() == 0 {
		offset := h.payload.Append([]byte{0x00})

		ptr, err := wire.MakeAddress(h.flavour, wire.NullID, uint64(offset))
		if err != nil {
			return err
		}

		h.appendEntry(wire.NullID, ptr, true, offset, 1)
	}

	h.frozen = true
	h.log.WithField("heap_cnt", h.heapCnt).WithField("entries", len(h.entries)).Debug("heap frozen")

	return nil
}

// Release returns the heap's payload buffer to the package pool. Call
// once the heap's packets have all been generated and the heap is no
// longer needed.
func (h *Heap) Release() {
	pool.Put(h.payload)
	h.payload = nil
}
