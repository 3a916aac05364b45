package wire

// Reserved item IDs, spec.md §6.
const (
	NullID                  uint64 = 0x00
	HeapCntID               uint64 = 0x01
	HeapLengthID            uint64 = 0x02
	PayloadOffsetID         uint64 = 0x03
	PayloadLengthID         uint64 = 0x04
	DescriptorID            uint64 = 0x05
	DescriptorNameID        uint64 = 0x10
	DescriptorDescriptionID uint64 = 0x11
	DescriptorShapeID       uint64 = 0x12
	DescriptorFormatID      uint64 = 0x13
	DescriptorIDID          uint64 = 0x14
	DescriptorDtypeID       uint64 = 0x15
)

// Magic is the fixed SPEAD magic byte, byte 0 of every header word.
const Magic = 0x53

// PointerSize is the fixed width in bytes of a header word or an item
// pointer, regardless of flavour (spec.md §3: ItemPointer is an 8-byte
// big-endian word).
const PointerSize = 8
