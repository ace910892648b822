package eff

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Header is the top-level offset table at the start of every blob.
//
// Offsets are absolute. A zero offset marks an absent section. Blobs with
// fewer slots than SlotCount leave the trailing offsets zero; slots beyond
// SlotCount are ignored.
type Header struct {
	SlotCount uint32
	Offsets   [SlotCount]uint32
}

// Offset returns the absolute offset stored for s.
func (h Header) Offset(s Slot) uint32 {
	if s < 0 || int(s) >= SlotCount {
		return 0
	}
	return h.Offsets[s]
}

// ReadHeader reads the top-level offset table from the current position of r.
func ReadHeader(r io.ReadSeeker, order ByteOrder) (Header, error) {
	d, err := NewDecoder(r, order)
	if err != nil {
		return Header{}, err
	}
	return readHeader(d)
}

func readHeader(d *Decoder) (Header, error) {
	var h Header
	if err := d.need(HeaderSize); err != nil {
		return h, err
	}
	h.SlotCount = d.U32()
	if h.SlotCount > maxHeaderSlots {
		return h, fmt.Errorf("%w: header declares %d slots, room for %d", ErrInvalidOffset, h.SlotCount, maxHeaderSlots)
	}
	for i := range int(h.SlotCount) {
		off := d.U32()
		if i < SlotCount {
			h.Offsets[i] = off
		}
	}
	return h, d.Err()
}

// DetectByteOrder guesses the byte order of a blob from its first word, which
// holds the slot count in every blob the format produces.
func DetectByteOrder(b []byte) (ByteOrder, error) {
	if len(b) < HeaderSize {
		return 0, fmt.Errorf("%w: %d bytes is shorter than the header", ErrTruncated, len(b))
	}
	le := binary.LittleEndian.Uint32(b)
	be := binary.BigEndian.Uint32(b)
	switch {
	case le == uint32(SlotCount):
		return LittleEndian, nil
	case be == uint32(SlotCount):
		return BigEndian, nil
	case le <= maxHeaderSlots && be > maxHeaderSlots:
		return LittleEndian, nil
	case be <= maxHeaderSlots && le > maxHeaderSlots:
		return BigEndian, nil
	default:
		return 0, fmt.Errorf("%w: cannot infer byte order from slot count 0x%08x", ErrInvalidOffset, le)
	}
}
