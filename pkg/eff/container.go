package eff

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

// Container is the in-memory model of one EFF blob. It owns every collection;
// decoding always builds a fresh Container and encoding never mutates one.
type Container struct {
	TextureIDs      []TableEntry
	CoreIDs         []TableEntry
	EarLinks        []EarLink
	UnknownIDs      []TableEntry
	ModelIDs        []TableEntry
	TextureMetadata []TextureMetadata
	Effects0        []EffectGroup
	Effects1        []EffectGroup
	Paths           []Curve
}

// Stats summarises a container's collections.
type Stats struct {
	TextureIDs      int `json:"texture_ids"`
	CoreIDs         int `json:"core_ids"`
	EarLinks        int `json:"ear_links"`
	UnknownIDs      int `json:"unknown_ids"`
	ModelIDs        int `json:"model_ids"`
	TextureMetadata int `json:"texture_metadata"`
	EffectGroups0   int `json:"effect_groups_0"`
	EffectGroups1   int `json:"effect_groups_1"`
	Effects         int `json:"effects"`
	Paths           int `json:"paths"`
	CurvePoints     int `json:"curve_points"`
}

func (c *Container) Stats() Stats {
	s := Stats{
		TextureIDs:      len(c.TextureIDs),
		CoreIDs:         len(c.CoreIDs),
		EarLinks:        len(c.EarLinks),
		UnknownIDs:      len(c.UnknownIDs),
		ModelIDs:        len(c.ModelIDs),
		TextureMetadata: len(c.TextureMetadata),
		EffectGroups0:   len(c.Effects0),
		EffectGroups1:   len(c.Effects1),
		Paths:           len(c.Paths),
	}
	for _, groups := range [][]EffectGroup{c.Effects0, c.Effects1} {
		for i := range groups {
			s.Effects += len(groups[i].Effects)
		}
	}
	for i := range c.Paths {
		s.CurvePoints += len(c.Paths[i].Points)
	}
	return s
}

// Decode reads a blob starting at the current position of r. On any failure
// no container is returned.
func Decode(r io.ReadSeeker, order ByteOrder) (*Container, error) {
	d, err := NewDecoder(r, order)
	if err != nil {
		return nil, err
	}
	h, err := readHeader(d)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	c := &Container{}
	for i := range SlotCount {
		s := Slot(i)
		off := h.Offsets[s]
		if off == 0 || s.Padding() {
			continue
		}
		if err := d.Seek(int64(off)); err != nil {
			return nil, fmt.Errorf("%s: %w", s, err)
		}
		if err := c.decodeSlot(s, d); err != nil {
			return nil, fmt.Errorf("%s at 0x%x: %w", s, off, err)
		}
	}
	return c, nil
}

// Unmarshal decodes a blob held in memory.
func Unmarshal(b []byte, order ByteOrder) (*Container, error) {
	return Decode(bytes.NewReader(b), order)
}

func decodeIDs(d *Decoder) ([]TableEntry, error) {
	return decodeCounted(d, TableEntrySize, (*TableEntry).Decode)
}

func (c *Container) decodeSlot(s Slot, d *Decoder) error {
	var err error
	switch s {
	case SlotTextureIDs:
		c.TextureIDs, err = decodeIDs(d)
	case SlotCoreIDs:
		c.CoreIDs, err = decodeIDs(d)
	case SlotEarLinks:
		c.EarLinks, err = decodeCounted(d, EarLinkSize, (*EarLink).Decode)
	case SlotUnknownIDs:
		c.UnknownIDs, err = decodeIDs(d)
	case SlotModelIDs:
		c.ModelIDs, err = decodeIDs(d)
	case SlotTextureMetadata:
		c.TextureMetadata, err = decodeTabled(d, (*TextureMetadata).Decode)
	case SlotEffects0:
		c.Effects0, err = decodeTabled(d, (*EffectGroup).Decode)
	case SlotEffects1:
		c.Effects1, err = decodeTabled(d, (*EffectGroup).Decode)
	case SlotPaths:
		c.Paths, err = decodeTabled(d, (*Curve).Decode)
	}
	return err
}

// Encode writes the blob to w starting at its current position.
//
// The header is reserved first and backfilled once every section offset is
// known. Every section, including empty ones, starts on an aligned offset,
// so the output depends only on the container and the byte order.
func (c *Container) Encode(w io.WriteSeeker, order ByteOrder) error {
	e, err := NewEncoder(w, order)
	if err != nil {
		return err
	}
	e.Zeros(HeaderSize)

	var offs [SlotCount]uint32
	for i := range SlotCount {
		s := Slot(i)
		e.Align()
		if err := e.Err(); err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
		if e.Pos() > math.MaxUint32 {
			return fmt.Errorf("%w: %s at 0x%x", ErrCastFailure, s, e.Pos())
		}
		offs[s] = uint32(e.Pos())
		if err := c.encodeSlot(s, e); err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
	}

	end := e.Pos()
	if err := e.Seek(0); err != nil {
		return err
	}
	e.U32(uint32(SlotCount))
	for _, off := range offs {
		e.U32(off)
	}
	if err := e.Err(); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	return e.Seek(end)
}

// Marshal encodes the container into a new byte slice.
func (c *Container) Marshal(order ByteOrder) ([]byte, error) {
	var buf writeBuffer
	if err := c.Encode(&buf, order); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeIDs(e *Encoder, ids []TableEntry) error {
	return encodeCounted(e, ids, (*TableEntry).Encode)
}

func encodeGroups(e *Encoder, groups []EffectGroup) error {
	return encodeTabled(e, len(groups), func(i int) error { return groups[i].Encode(e) })
}

func (c *Container) encodeSlot(s Slot, e *Encoder) error {
	switch s {
	case SlotTextureIDs:
		return encodeIDs(e, c.TextureIDs)
	case SlotCoreIDs:
		return encodeIDs(e, c.CoreIDs)
	case SlotEarLinks:
		return encodeCounted(e, c.EarLinks, (*EarLink).Encode)
	case SlotUnknownIDs:
		return encodeIDs(e, c.UnknownIDs)
	case SlotModelIDs:
		return encodeIDs(e, c.ModelIDs)
	case SlotPadding5, SlotPadding10:
		e.Zeros(paddingWords * 4)
		return e.Err()
	case SlotTextureMetadata:
		return encodeTabled(e, len(c.TextureMetadata), func(i int) error {
			return c.TextureMetadata[i].Encode(e)
		})
	case SlotEffects0:
		return encodeGroups(e, c.Effects0)
	case SlotEffects1:
		return encodeGroups(e, c.Effects1)
	case SlotPaths:
		return encodeTabled(e, len(c.Paths), func(i int) error { return c.Paths[i].Encode(e) })
	}
	return nil
}
