package eff

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func sampleContainer() *Container {
	var fx Effect
	fx.Header.StateID = 5
	fx.Motion.Position = [3]float32{1, 2, 3}
	fx.Color.RGBA = [4]uint8{0xFF, 0x80, 0x40, 0x20}
	fx.Control.PathScale = [3]float32{1, 1, 1}

	other := fx
	other.Header.Flags = 0x8000_0001
	other.Timing.Lifetime = 60

	return &Container{
		TextureIDs: []TableEntry{{ID: 0x1234}},
		CoreIDs:    []TableEntry{{ID: 1}, {ID: 2}},
		EarLinks:   []EarLink{{ID: 1, EarLinkID: 2}},
		UnknownIDs: []TableEntry{{ID: 0xAA, Reserved: 0xBB}},
		ModelIDs:   []TableEntry{{ID: 7}},
		TextureMetadata: []TextureMetadata{
			{TextureHeight: 256, TextureWidth: 256, EffectHeight: 64, EffectWidth: 64, TextureCount: 16},
		},
		Effects0: []EffectGroup{
			{Unknown02: 3, Unknown0C: 0.5, Pad: [11]byte{1, 2, 3}, Effects: []Effect{fx, other}},
			{Effects: []Effect{fx}},
		},
		Effects1: []EffectGroup{{Unknown24: 0x10}},
		Paths: []Curve{
			{Points: []CurvePoint{{Point: [3]float32{0, 1, 2}, Unknown: 4}, {Handle1: [3]float32{9, 9, 9}}}},
		},
	}
}

func mustMarshal(t *testing.T, c *Container, order ByteOrder) []byte {
	t.Helper()
	b, err := c.Marshal(order)
	if err != nil {
		t.Fatalf("marshal %s: %v", order, err)
	}
	return b
}

func TestEmptyContainerRoundTrip(t *testing.T) {
	t.Parallel()

	for _, order := range []ByteOrder{LittleEndian, BigEndian} {
		raw := mustMarshal(t, &Container{}, order)
		if len(raw)%Alignment != 0 {
			t.Fatalf("%s: length 0x%x not aligned", order, len(raw))
		}
		h, err := ReadHeader(bytes.NewReader(raw), order)
		if err != nil {
			t.Fatalf("%s: read header: %v", order, err)
		}
		if h.SlotCount != uint32(SlotCount) {
			t.Fatalf("%s: slot count got %d want %d", order, h.SlotCount, SlotCount)
		}
		if h.Offset(SlotTextureIDs) != HeaderSize {
			t.Fatalf("%s: first section at 0x%x want 0x%x", order, h.Offset(SlotTextureIDs), HeaderSize)
		}
		for i, off := range h.Offsets {
			if off%Alignment != 0 {
				t.Fatalf("%s: slot %d offset 0x%x not aligned", order, i, off)
			}
		}

		c, err := Unmarshal(raw, order)
		if err != nil {
			t.Fatalf("%s: unmarshal: %v", order, err)
		}
		if c.Stats() != (Stats{}) {
			t.Fatalf("%s: expected empty container, got %+v", order, c.Stats())
		}
	}
}

func TestTextureEarLinkEffectExample(t *testing.T) {
	t.Parallel()

	var fx Effect
	fx.Header.StateID = 5
	fx.Motion.Position = [3]float32{1, 2, 3}
	in := &Container{
		TextureIDs: []TableEntry{{ID: 0x1234}},
		EarLinks:   []EarLink{{ID: 1, EarLinkID: 2}},
		Effects0:   []EffectGroup{{Effects: []Effect{fx}}},
	}

	raw := mustMarshal(t, in, LittleEndian)
	le := LittleEndian.binary()
	texOff := le.Uint32(raw[4:])
	if got := le.Uint32(raw[texOff:]); got != 1 {
		t.Fatalf("texture id count: got %d", got)
	}
	if got := le.Uint32(raw[texOff+4:]); got != 0x1234 {
		t.Fatalf("texture id: got 0x%x", got)
	}

	out, err := Unmarshal(raw, LittleEndian)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.TextureIDs) != 1 || out.TextureIDs[0].ID != 0x1234 {
		t.Fatalf("texture ids: got %+v", out.TextureIDs)
	}
	if len(out.EarLinks) != 1 || out.EarLinks[0] != (EarLink{ID: 1, EarLinkID: 2}) {
		t.Fatalf("ear links: got %+v", out.EarLinks)
	}
	if len(out.Effects0) != 1 || len(out.Effects0[0].Effects) != 1 {
		t.Fatalf("effects: got %+v", out.Effects0)
	}
	if got := out.Effects0[0].Effects[0]; got != fx {
		t.Fatalf("effect: got %+v want %+v", got, fx)
	}
	if len(out.Effects1) != 0 || len(out.Paths) != 0 || len(out.CoreIDs) != 0 {
		t.Fatalf("unexpected extra records: %+v", out.Stats())
	}
}

func TestFullRoundTripIsByteExact(t *testing.T) {
	t.Parallel()

	for _, order := range []ByteOrder{LittleEndian, BigEndian} {
		first := mustMarshal(t, sampleContainer(), order)
		c, err := Unmarshal(first, order)
		if err != nil {
			t.Fatalf("%s: unmarshal: %v", order, err)
		}
		if c.Effects0[0].Pad != [11]byte{1, 2, 3} {
			t.Fatalf("%s: group pad lost: %v", order, c.Effects0[0].Pad)
		}
		if c.UnknownIDs[0].Reserved != 0xBB {
			t.Fatalf("%s: reserved lost: 0x%x", order, c.UnknownIDs[0].Reserved)
		}
		second := mustMarshal(t, c, order)
		if !bytes.Equal(first, second) {
			t.Fatalf("%s: re-encoded blob differs (%d vs %d bytes)", order, len(first), len(second))
		}
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()

	a := mustMarshal(t, sampleContainer(), BigEndian)
	b := mustMarshal(t, sampleContainer(), BigEndian)
	if !bytes.Equal(a, b) {
		t.Fatalf("encoding the same container twice differs")
	}
}

func TestByteOrderConversion(t *testing.T) {
	t.Parallel()

	le := mustMarshal(t, sampleContainer(), LittleEndian)
	c, err := Unmarshal(le, LittleEndian)
	if err != nil {
		t.Fatalf("unmarshal le: %v", err)
	}
	be := mustMarshal(t, c, BigEndian)
	if bytes.Equal(le, be) {
		t.Fatalf("big-endian output should differ from little-endian")
	}
	if len(le) != len(be) {
		t.Fatalf("length changed: %d vs %d", len(le), len(be))
	}
	c, err = Unmarshal(be, BigEndian)
	if err != nil {
		t.Fatalf("unmarshal be: %v", err)
	}
	back := mustMarshal(t, c, LittleEndian)
	if !bytes.Equal(le, back) {
		t.Fatalf("LE->BE->LE is not byte-identical")
	}
}

func TestZeroSlotDecodesEmpty(t *testing.T) {
	t.Parallel()

	raw := mustMarshal(t, sampleContainer(), LittleEndian)
	le := LittleEndian.binary()
	// Clear the texture id and paths offsets.
	le.PutUint32(raw[4+4*int(SlotTextureIDs):], 0)
	le.PutUint32(raw[4+4*int(SlotPaths):], 0)

	c, err := Unmarshal(raw, LittleEndian)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(c.TextureIDs) != 0 || len(c.Paths) != 0 {
		t.Fatalf("cleared slots not empty: %+v", c.Stats())
	}
	if len(c.CoreIDs) != 2 {
		t.Fatalf("core ids: got %d want 2", len(c.CoreIDs))
	}
}

func TestOffsetPastEndFails(t *testing.T) {
	t.Parallel()

	raw := mustMarshal(t, sampleContainer(), BigEndian)
	be := BigEndian.binary()
	be.PutUint32(raw[4+4*int(SlotEarLinks):], uint32(len(raw)+0x100))

	c, err := Unmarshal(raw, BigEndian)
	if !errors.Is(err, ErrInvalidOffset) {
		t.Fatalf("got %v want ErrInvalidOffset", err)
	}
	if c != nil {
		t.Fatalf("partial container returned")
	}
}

func TestNestedOffsetPastEndFails(t *testing.T) {
	t.Parallel()

	raw := mustMarshal(t, sampleContainer(), LittleEndian)
	le := LittleEndian.binary()
	section := le.Uint32(raw[4+4*int(SlotEffects0):])
	le.PutUint32(raw[section+4:], 0x7FFF_0000)

	if _, err := Unmarshal(raw, LittleEndian); !errors.Is(err, ErrInvalidOffset) {
		t.Fatalf("got %v want ErrInvalidOffset", err)
	}
}

func TestTruncatedInputFails(t *testing.T) {
	t.Parallel()

	raw := mustMarshal(t, sampleContainer(), LittleEndian)
	le := LittleEndian.binary()
	paths := le.Uint32(raw[4+4*int(SlotPaths):])

	if _, err := Unmarshal(raw[:HeaderSize-1], LittleEndian); !errors.Is(err, ErrTruncated) {
		t.Fatalf("short header: got %v want ErrTruncated", err)
	}
	if _, err := Unmarshal(raw[:paths+0x28], LittleEndian); err == nil {
		t.Fatalf("expected error for blob cut inside the paths section")
	}
}

func TestHeaderSlotCountTooLarge(t *testing.T) {
	t.Parallel()

	raw := make([]byte, HeaderSize)
	raw[0] = 16
	if _, err := Unmarshal(raw, LittleEndian); !errors.Is(err, ErrInvalidOffset) {
		t.Fatalf("got %v want ErrInvalidOffset", err)
	}
}

func TestDetectByteOrder(t *testing.T) {
	t.Parallel()

	for _, order := range []ByteOrder{LittleEndian, BigEndian} {
		raw := mustMarshal(t, &Container{}, order)
		got, err := DetectByteOrder(raw)
		if err != nil {
			t.Fatalf("%s: detect: %v", order, err)
		}
		if got != order {
			t.Fatalf("detect: got %s want %s", got, order)
		}
	}
	if _, err := DetectByteOrder([]byte{1, 2}); !errors.Is(err, ErrTruncated) {
		t.Fatalf("short input: got %v want ErrTruncated", err)
	}
}

func TestGroupEffectCountOverflow(t *testing.T) {
	t.Parallel()

	c := &Container{Effects1: []EffectGroup{{Effects: make([]Effect, 1<<16)}}}
	if _, err := c.Marshal(LittleEndian); !errors.Is(err, ErrCastFailure) {
		t.Fatalf("got %v want ErrCastFailure", err)
	}
}

func TestWriteFileAndOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sample.eff")
	c := sampleContainer()
	if err := c.WriteFile(path, BigEndian); err != nil {
		t.Fatalf("write file: %v", err)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if want := mustMarshal(t, c, BigEndian); !bytes.Equal(onDisk, want) {
		t.Fatalf("file contents differ from Marshal output")
	}

	opened, err := Open(path, BigEndian)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened.Stats() != c.Stats() {
		t.Fatalf("stats: got %+v want %+v", opened.Stats(), c.Stats())
	}

	auto, order, err := OpenAuto(path)
	if err != nil {
		t.Fatalf("open auto: %v", err)
	}
	if order != BigEndian || auto.Stats() != c.Stats() {
		t.Fatalf("open auto: order %s stats %+v", order, auto.Stats())
	}
}

func TestDecodeEmbeddedBlob(t *testing.T) {
	t.Parallel()

	blob := mustMarshal(t, sampleContainer(), LittleEndian)
	prefixed := append(bytes.Repeat([]byte{0xEE}, 0x10), blob...)
	r := bytes.NewReader(prefixed)
	if _, err := r.Seek(0x10, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}
	c, err := Decode(r, LittleEndian)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Stats() != sampleContainer().Stats() {
		t.Fatalf("stats: got %+v", c.Stats())
	}
}
