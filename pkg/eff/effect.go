package eff

import "github.com/go-gl/mathgl/mgl32"

// Effect is a single emitter definition, a flat EffectSize-byte record. The
// groups below are encoded back to back in declaration order.
type Effect struct {
	Header  EffectHeader
	Motion  EffectMotion
	Size    EffectDimensions
	Color   EffectColor
	Timing  EffectTiming
	Render  EffectRender
	Shape   EffectShape
	Path    EffectPath
	Control EffectControl
}

type EffectHeader struct {
	StateID   uint8
	EspID     uint8
	TextureID uint8
	Unknown03 uint8
	Delay     uint16
	Parent    uint8
	Part      uint8
	Flags     uint32
}

func (h *EffectHeader) fields() []Field {
	return []Field{
		u8("State ID", &h.StateID),
		hex8("ESP ID", &h.EspID),
		hex8("Texture ID", &h.TextureID),
		hex8("Unknown X03", &h.Unknown03),
		u16("Delay", &h.Delay),
		hex8("Parent", &h.Parent),
		hex8("Parent Part", &h.Part),
		hex32("Flags", &h.Flags),
	}
}

// EffectMotion holds placement and movement, each with a random jitter.
type EffectMotion struct {
	Position                 mgl32.Vec3
	RandomPosition           mgl32.Vec3
	Speed                    mgl32.Vec3
	DeltaSpeed               float32
	RandomSpeed              mgl32.Vec3
	Acceleration             mgl32.Vec3
	RandomAcceleration       mgl32.Vec3
	Rotation                 mgl32.Vec3
	RandomRotation           mgl32.Vec3
	RotationAcceleration     mgl32.Vec3
	RandomRotationAccelerate mgl32.Vec3
}

func (m *EffectMotion) fields() []Field {
	var fs []Field
	fs = append(fs, vec3("Position", &m.Position)...)
	fs = append(fs, vec3("Random Position", &m.RandomPosition)...)
	fs = append(fs, vec3("Speed", &m.Speed)...)
	fs = append(fs, f32("Delta Speed", &m.DeltaSpeed))
	fs = append(fs, vec3("Random Speed", &m.RandomSpeed)...)
	fs = append(fs, vec3("Acceleration", &m.Acceleration)...)
	fs = append(fs, vec3("Random Acceleration", &m.RandomAcceleration)...)
	fs = append(fs, vec3("Rotation", &m.Rotation)...)
	fs = append(fs, vec3("Random Rotation", &m.RandomRotation)...)
	fs = append(fs, vec3("Rotation Acceleration", &m.RotationAcceleration)...)
	fs = append(fs, vec3("Random Rotation Acceleration", &m.RandomRotationAccelerate)...)
	return fs
}

// EffectDimensions is the sprite extent and how it grows over time.
type EffectDimensions struct {
	Width      float32
	Height     float32
	RandomSize float32
	Grow       float32
	DeltaGrow  float32
}

func (s *EffectDimensions) fields() []Field {
	return []Field{
		f32("Width", &s.Width),
		f32("Height", &s.Height),
		f32("Random Size", &s.RandomSize),
		f32("Grow", &s.Grow),
		f32("Delta Grow", &s.DeltaGrow),
	}
}

type EffectColor struct {
	RGBA            [4]uint8
	Delta           mgl32.Vec4
	DeltaMaxFrame   uint16
	DeltaStartFrame uint16
}

func (c *EffectColor) fields() []Field {
	return []Field{
		hex8("R", &c.RGBA[0]),
		hex8("G", &c.RGBA[1]),
		hex8("B", &c.RGBA[2]),
		hex8("A", &c.RGBA[3]),
		f32("Delta R", &c.Delta[0]),
		f32("Delta G", &c.Delta[1]),
		f32("Delta B", &c.Delta[2]),
		f32("Delta A", &c.Delta[3]),
		u16("Delta Color Max Frame", &c.DeltaMaxFrame),
		u16("Delta Color Start Frame", &c.DeltaStartFrame),
	}
}

type EffectTiming struct {
	UnknownB4           uint16
	DeltaSizeStartFrame uint16
	Lifetime            uint16
	AnimationSpeed      uint32
	UnknownBE           uint16
	ReleaseTime         uint8
}

func (t *EffectTiming) fields() []Field {
	return []Field{
		hex16("Unknown XB4", &t.UnknownB4),
		u16("Delta Size Start Frame", &t.DeltaSizeStartFrame),
		u16("Lifetime", &t.Lifetime),
		u32("Animation Speed", &t.AnimationSpeed),
		hex16("Unknown XBE", &t.UnknownBE),
		u8("Release Time", &t.ReleaseTime),
	}
}

type EffectRender struct {
	Blend           uint16
	SimulationType  uint8
	SimulationPower uint8
	MaskTextureID   uint8
	ValueIn         uint8
	ValueOut        uint8
	Work0           uint8
	Work1           uint8
	Work2           uint8
	Work3           uint8
	Work4           uint32
	Work5           uint32
	Work6           uint32
}

func (r *EffectRender) fields() []Field {
	return []Field{
		u16("Blend", &r.Blend),
		u8("Simulation Type", &r.SimulationType),
		u8("Simulation Power", &r.SimulationPower),
		u8("Mask Texture ID", &r.MaskTextureID),
		u8("Value In", &r.ValueIn),
		u8("Value Out", &r.ValueOut),
		u8("Work 0", &r.Work0),
		u8("Work 1", &r.Work1),
		u8("Work 2", &r.Work2),
		u8("Work 3", &r.Work3),
		u32("Work 4", &r.Work4),
		u32("Work 5", &r.Work5),
		u32("Work 6", &r.Work6),
	}
}

type EffectShape struct {
	Vector0    mgl32.Vec3
	Vector1    mgl32.Vec3
	Vector2    mgl32.Vec3
	Spline     [4]uint8
	Unknown100 uint32
}

func (s *EffectShape) fields() []Field {
	var fs []Field
	fs = append(fs, vec3("Vector 0", &s.Vector0)...)
	fs = append(fs, vec3("Vector 1", &s.Vector1)...)
	fs = append(fs, vec3("Vector 2", &s.Vector2)...)
	return append(fs,
		u8("Spline 0", &s.Spline[0]),
		u8("Spline 1", &s.Spline[1]),
		u8("Spline 2", &s.Spline[2]),
		u8("Spline 3", &s.Spline[3]),
		hex32("Unknown X100", &s.Unknown100),
	)
}

type EffectPath struct {
	Own    uint8
	Number uint8
	Start  uint8
	Random uint8
}

func (p *EffectPath) fields() []Field {
	return []Field{
		u8("Path Own", &p.Own),
		u8("Path Number", &p.Number),
		u8("Path Start", &p.Start),
		u8("Path Random", &p.Random),
	}
}

// EffectControl drives spawning of child effects along a path. ID is only
// meaningful when Type selects a control effect.
type EffectControl struct {
	Type               uint8
	ID                 uint8
	Flag               uint16
	Interval           uint8
	Number             uint8
	RP                 uint8
	Unknown10F         uint8
	Life               uint16
	Unknown112         uint16
	Unknown114         uint16
	Unknown116         uint16
	PathScale          mgl32.Vec3
	PathDeltaSize      uint8
	PathDeltaSpeed     uint8
	PathDeltaAlpha     uint8
	PathDeltaInterval  uint8
	PathRandomInterval uint8
	PathRotation       [2]uint8
	PathFlag           uint8
}

func (c *EffectControl) fields() []Field {
	fs := []Field{
		u8("Effect Type", &c.Type),
		u8("Control ID", &c.ID),
		u16("Control Flag", &c.Flag),
		u8("Control Interval", &c.Interval),
		u8("Control Number", &c.Number),
		u8("Control RP", &c.RP),
		hex8("Unknown X10F", &c.Unknown10F),
		u16("Control Life", &c.Life),
		hex16("Unknown X112", &c.Unknown112),
		hex16("Unknown X114", &c.Unknown114),
		hex16("Unknown X116", &c.Unknown116),
	}
	fs = append(fs, vec3("Control Path Scale", &c.PathScale)...)
	return append(fs,
		u8("Control Path Delta Size", &c.PathDeltaSize),
		u8("Control Path Delta Speed", &c.PathDeltaSpeed),
		u8("Control Path Delta Alpha", &c.PathDeltaAlpha),
		u8("Control Path Delta Interval", &c.PathDeltaInterval),
		u8("Control Path Random Interval", &c.PathRandomInterval),
		u8("Control Path Rotation X", &c.PathRotation[0]),
		u8("Control Path Rotation Y", &c.PathRotation[1]),
		u8("Control Path Flag", &c.PathFlag),
	)
}

// Fields lists every scalar of the record in wire order.
func (e *Effect) Fields() []Field {
	fs := make([]Field, 0, 128)
	fs = append(fs, e.Header.fields()...)
	fs = append(fs, e.Motion.fields()...)
	fs = append(fs, e.Size.fields()...)
	fs = append(fs, e.Color.fields()...)
	fs = append(fs, e.Timing.fields()...)
	fs = append(fs, e.Render.fields()...)
	fs = append(fs, e.Shape.fields()...)
	fs = append(fs, e.Path.fields()...)
	fs = append(fs, e.Control.fields()...)
	return fs
}

func (e *Effect) Decode(d *Decoder) error { return decodeFields(d, e.Fields()) }

func (e *Effect) Encode(enc *Encoder) error { return encodeFields(enc, e.Fields()) }
