// Package packet walks a frozen heap and emits the lazy sequence of
// MTU-bounded packet byte-buffers that carry it (spec.md §4.4).
package packet

import (
	"fmt"
	"iter"

	"github.com/scigolib/spead/errs"
	"github.com/scigolib/spead/flavour"
	"github.com/scigolib/spead/heap"
	"github.com/scigolib/spead/internal/options"
	"github.com/scigolib/spead/logging"
	"github.com/scigolib/spead/wire"
)

// mandatoryPointerCount is the four pointers present in every packet:
// HEAP_CNT, HEAP_LENGTH, PAYLOAD_OFFSET, PAYLOAD_LENGTH.
const mandatoryPointerCount = 4

// Generator produces the packet sequence for one frozen heap. Constructing
// a Generator freezes the heap (spec.md §4.2): a second Generator built
// over the same heap yields an identical sequence.
type Generator struct {
	h             *heap.Heap
	maxPacketSize int
	log           logging.Logger

	// firstPacketEntries is the full ordered entry list, placed in the
	// first packet's pointer preface (spec.md §4.4's tie-break rule).
	firstPacketEntries []heap.Entry
}

// Option configures a Generator at construction time.
type Option = options.Option[*Generator]

// WithLogger attaches a diagnostic logger. Without one, the generator
// logs nothing.
func WithLogger(log logging.Logger) Option {
	return options.NoError(func(g *Generator) {
		g.log = log
	})
}

// New constructs a Generator over h, bounding each emitted packet to
// maxPacketSize bytes. Freezes h as a side effect. Returns
// errs.ErrPacketTooSmall if maxPacketSize cannot even hold the mandatory
// pointer preface, the full first-packet pointer preface, and one payload
// byte, and errs.ErrDescriptorTooLarge if any single descriptor entry's
// payload alone would not fit in one packet's payload budget.
func New(h *heap.Heap, maxPacketSize int, opts ...Option) (*Generator, error) {
	if err := h.Freeze(); err != nil {
		return nil, err
	}

	entries := h.Entries()
	preface := 8 * (1 + mandatoryPointerCount + len(entries))

	if maxPacketSize < preface+1 {
		return nil, fmt.Errorf("%w: max_packet_size %d cannot hold %d-byte preface plus 1 payload byte",
			errs.ErrPacketTooSmall, maxPacketSize, preface)
	}

	budget := maxPacketSize - 8*(1+mandatoryPointerCount)
	for _, e := range entries {
		if e.HasPayload && e.ItemID == wire.DescriptorID && e.PayloadLength > budget {
			return nil, fmt.Errorf("%w: descriptor for entry needs %d bytes, packet budget is %d",
				errs.ErrDescriptorTooLarge, e.PayloadLength, budget)
		}
	}

	g := &Generator{h: h, maxPacketSize: maxPacketSize, firstPacketEntries: entries, log: logging.Nop()}

	if err := options.Apply(g, opts...); err != nil {
		return nil, err
	}

	g.log.WithField("heap_cnt", h.HeapCnt()).WithField("entries", len(entries)).
		Debug("packet generator constructed")

	return g, nil
}

// Packets returns a lazy sequence of packet byte-buffers. Iterating it
// twice, or iterating two Generators built over the same heap, yields
// identical bytes (spec.md §4.2).
func (g *Generator) Packets() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		payload := g.h.Payload()
		totalLen := len(payload)
		f := g.h.Flavour()

		if totalLen == 0 {
			pkt, err := g.buildPacket(f, 0, nil)
			if err != nil {
				g.log.WithError(err).Error("failed to build zero-payload packet")

				return
			}
			yield(pkt)

			return
		}

		offset := 0
		first := true
		count := 0

		for offset < totalLen {
			next := g.nextSliceEnd(offset, totalLen, first)

			pkt, err := g.buildPacket(f, offset, payload[offset:next])
			if err != nil {
				g.log.WithError(err).WithField("offset", offset).Error("failed to build packet")

				return
			}
			count++

			if !yield(pkt) {
				return
			}

			offset = next
			first = false
		}

		g.log.WithField("packet_count", count).Debug("packet sequence emitted")
	}
}

// nextSliceEnd picks the end offset of the next payload slice: the
// largest that fits maxPacketSize, preferring an 8-byte-aligned boundary
// when that doesn't force an extra, otherwise-avoidable packet.
func (g *Generator) nextSliceEnd(offset, totalLen int, first bool) int {
	pointerCount := mandatoryPointerCount
	if first {
		pointerCount += len(g.firstPacketEntries)
	}

	headerBudget := 8 * (1 + pointerCount)
	maxPayload := g.maxPacketSize - headerBudget
	if maxPayload < 0 {
		maxPayload = 0
	}

	remaining := totalLen - offset
	if maxPayload >= remaining {
		return totalLen
	}

	aligned := maxPayload - (maxPayload % 8)
	if aligned == 0 {
		aligned = maxPayload
	}

	// Fall back to the unaligned cut when the bytes the aligned cut leaves
	// behind would need more follow-on packets than the unaligned cut's.
	restMax := g.maxPacketSize - 8*(1+mandatoryPointerCount)
	packetsFor := func(n int) int { return (n + restMax - 1) / restMax }
	if packetsFor(remaining-aligned) > packetsFor(remaining-maxPayload) {
		aligned = maxPayload
	}

	return offset + aligned
}

// buildPacket assembles one packet: header, mandatory pointers, the
// first-packet-only full pointer preface, and the payload slice.
func (g *Generator) buildPacket(f flavour.Flavour, payloadOffset int, slice []byte) ([]byte, error) {
	isFirst := payloadOffset == 0

	pointerCount := mandatoryPointerCount
	if isFirst {
		pointerCount += len(g.firstPacketEntries)
	}

	var buf []byte
	buf = append(buf, wire.MakeHeader(f, uint16(pointerCount))...)

	mandatory := []struct {
		id    uint64
		value uint64
	}{
		{wire.HeapCntID, g.h.HeapCnt()},
		{wire.HeapLengthID, uint64(len(g.h.Payload()))},
		{wire.PayloadOffsetID, uint64(payloadOffset)},
		{wire.PayloadLengthID, uint64(len(slice))},
	}

	for _, m := range mandatory {
		ptr, err := wire.MakeImmediate(f, m.id, m.value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, ptr...)
	}

	if isFirst {
		for _, e := range g.firstPacketEntries {
			buf = append(buf, e.Pointer[:]...)
		}
	}

	buf = append(buf, slice...)

	return buf, nil
}
