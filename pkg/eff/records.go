package eff

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Fixed record sizes on the wire.
const (
	TableEntrySize      = 8
	EarLinkSize         = 8
	TextureMetadataSize = 12
	CurvePointSize      = 40
	EffectGroupHeader   = 0x30
	EffectSize          = 0x12C
)

// TableEntry is an id in one of the plain id tables.
type TableEntry struct {
	ID       uint32
	Reserved uint32
}

func (t *TableEntry) Fields() []Field {
	return []Field{hex32("ID", &t.ID), hex32("Reserved", &t.Reserved)}
}

func (t *TableEntry) Decode(d *Decoder) error { return decodeFields(d, t.Fields()) }
func (t *TableEntry) Encode(e *Encoder) error { return encodeFields(e, t.Fields()) }

// EarLink ties an effect group to an EAR entry.
type EarLink struct {
	ID        uint16
	EarLinkID uint16
	Reserved  uint32
}

func (l *EarLink) Fields() []Field {
	return []Field{
		hex16("Effect Group", &l.ID),
		hex16("EAR Link ID", &l.EarLinkID),
		hex32("Reserved", &l.Reserved),
	}
}

func (l *EarLink) Decode(d *Decoder) error { return decodeFields(d, l.Fields()) }
func (l *EarLink) Encode(e *Encoder) error { return encodeFields(e, l.Fields()) }

// TextureMetadata describes one texture sheet and how effects slice it.
type TextureMetadata struct {
	TextureHeight uint16
	TextureWidth  uint16
	EffectHeight  uint16
	EffectWidth   uint16
	TextureCount  uint16
	Unknown10     uint8
	Unknown11     uint8
}

func (m *TextureMetadata) Fields() []Field {
	return []Field{
		u16("Height", &m.TextureHeight),
		u16("Width", &m.TextureWidth),
		u16("Effect Height", &m.EffectHeight),
		u16("Effect Width", &m.EffectWidth),
		u16("Effect Texture Count", &m.TextureCount),
		u8("Offset[10]", &m.Unknown10),
		u8("Offset[11]", &m.Unknown11),
	}
}

func (m *TextureMetadata) Decode(d *Decoder) error { return decodeFields(d, m.Fields()) }
func (m *TextureMetadata) Encode(e *Encoder) error { return encodeFields(e, m.Fields()) }

// CurvePoint is a control point of a path curve with its two tangent handles.
type CurvePoint struct {
	Point   mgl32.Vec3
	Handle0 mgl32.Vec3
	Handle1 mgl32.Vec3
	Unknown float32
}

func (p *CurvePoint) Fields() []Field {
	fs := make([]Field, 0, 10)
	fs = append(fs, vec3("Position", &p.Point)...)
	fs = append(fs, vec3("Handle 0", &p.Handle0)...)
	fs = append(fs, vec3("Handle 1", &p.Handle1)...)
	return append(fs, f32("Unknown", &p.Unknown))
}

// Curve is a count-prefixed list of control points.
type Curve struct {
	Points []CurvePoint
}

func (c *Curve) Decode(d *Decoder) error {
	points, err := decodeCounted(d, CurvePointSize, func(p *CurvePoint, d *Decoder) error {
		return decodeFields(d, p.Fields())
	})
	if err != nil {
		return err
	}
	c.Points = points
	return nil
}

func (c *Curve) Encode(e *Encoder) error {
	return encodeCounted(e, c.Points, func(p *CurvePoint, e *Encoder) error {
		return encodeFields(e, p.Fields())
	})
}

// EffectGroup is a header of reserved scalars followed by its effects. The
// effect count on the wire is derived from len(Effects).
type EffectGroup struct {
	Unknown02 uint16
	Unknown04 uint16
	Unknown06 uint16
	Unknown08 uint16
	Unknown0A uint8
	Unknown0B uint8
	Unknown0C float32
	Unknown10 float32
	Unknown14 float32
	Unknown18 float32
	Unknown1C float32
	Unknown20 float32
	Unknown24 uint8
	// Pad is the reserved gap between the header fields and the first effect.
	Pad [11]byte

	Effects []Effect
}

// HeaderFields lists the header scalars after the effect count.
func (g *EffectGroup) HeaderFields() []Field {
	return []Field{
		hex16("Offset[X02]", &g.Unknown02),
		hex16("Offset[X04]", &g.Unknown04),
		hex16("Offset[X06]", &g.Unknown06),
		hex16("Offset[X08]", &g.Unknown08),
		hex8("Offset[X0A]", &g.Unknown0A),
		hex8("Offset[X0B]", &g.Unknown0B),
		f32("Offset[X0C]", &g.Unknown0C),
		f32("Offset[X10]", &g.Unknown10),
		f32("Offset[X14]", &g.Unknown14),
		f32("Offset[X18]", &g.Unknown18),
		f32("Offset[X1C]", &g.Unknown1C),
		f32("Offset[X20]", &g.Unknown20),
		hex8("Offset[X24]", &g.Unknown24),
	}
}

func (g *EffectGroup) Decode(d *Decoder) error {
	n := d.U16()
	if err := decodeFields(d, g.HeaderFields()); err != nil {
		return err
	}
	d.ReadBytes(g.Pad[:])
	if err := d.need(int64(n) * EffectSize); err != nil {
		return err
	}
	g.Effects = make([]Effect, n)
	for i := range g.Effects {
		if err := g.Effects[i].Decode(d); err != nil {
			return fmt.Errorf("effect %d: %w", i, err)
		}
	}
	return nil
}

func (g *EffectGroup) Encode(e *Encoder) error {
	n, err := count[uint16](len(g.Effects), "effects")
	if err != nil {
		return err
	}
	e.U16(n)
	if err := encodeFields(e, g.HeaderFields()); err != nil {
		return err
	}
	_, _ = e.Write(g.Pad[:])
	for i := range g.Effects {
		if err := g.Effects[i].Encode(e); err != nil {
			return fmt.Errorf("effect %d: %w", i, err)
		}
	}
	return e.Err()
}
