// Package eff implements the EFF blob container used for particle and
// visual-effect definitions.
//
// An EFF blob starts with a fixed top-level offset table (a slot count
// followed by one absolute offset per slot) and stores each section at a
// 32-byte aligned offset. Sections holding a variable number of variably
// sized records carry their own offset table whose entries are relative to
// the start of that table.
//
// The format has no magic and no version. Scalars are little- or big-endian
// depending on the target platform; the byte order is always passed in
// explicitly.
package eff

// Format constants must never change.
const (
	// HeaderSize is the size of the top-level offset table region.
	HeaderSize = 0x40

	// Alignment is the boundary every section and tabled record starts on.
	Alignment = 0x20

	// maxHeaderSlots is how many offsets fit in the header after the count word.
	maxHeaderSlots = HeaderSize/4 - 1

	// paddingWords is the number of zero u32 words emitted for padding slots.
	paddingWords = 8
)

// Slot identifies an entry in the top-level offset table.
type Slot int

const (
	SlotTextureIDs Slot = iota
	SlotCoreIDs
	SlotEarLinks
	SlotUnknownIDs
	SlotModelIDs
	SlotPadding5
	SlotTextureMetadata
	SlotEffects0
	SlotEffects1
	SlotPaths
	SlotPadding10

	// SlotCount is the number of slots written into every header.
	SlotCount = int(SlotPadding10) + 1
)

var slotNames = [SlotCount]string{
	"texture_ids",
	"core_ids",
	"ear_links",
	"unknown_ids",
	"model_ids",
	"padding_5",
	"texture_metadata",
	"effects_0",
	"effects_1",
	"paths",
	"padding_10",
}

func (s Slot) String() string {
	if s < 0 || int(s) >= SlotCount {
		return "slot_unknown"
	}
	return slotNames[s]
}

// Padding reports whether the slot is format filler with no data.
func (s Slot) Padding() bool {
	return s == SlotPadding5 || s == SlotPadding10
}
