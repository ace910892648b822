package eff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Field is one scalar of a fixed-layout record. A record's fields, listed in
// wire order, are the single description of its layout: the binary codec
// walks them to read and write, and the text interchange uses Name as the
// key and Hex to pick the number format.
type Field struct {
	Name string
	Hex  bool
	ptr  any // *uint8, *uint16, *uint32 or *float32
}

func u8(name string, p *uint8) Field     { return Field{Name: name, ptr: p} }
func u16(name string, p *uint16) Field   { return Field{Name: name, ptr: p} }
func u32(name string, p *uint32) Field   { return Field{Name: name, ptr: p} }
func f32(name string, p *float32) Field  { return Field{Name: name, ptr: p} }
func hex8(name string, p *uint8) Field   { return Field{Name: name, Hex: true, ptr: p} }
func hex16(name string, p *uint16) Field { return Field{Name: name, Hex: true, ptr: p} }
func hex32(name string, p *uint32) Field { return Field{Name: name, Hex: true, ptr: p} }

func vec3(name string, v *mgl32.Vec3) []Field {
	return []Field{
		f32(name+" X", &v[0]),
		f32(name+" Y", &v[1]),
		f32(name+" Z", &v[2]),
	}
}

// Size is the field's width on the wire.
func (f Field) Size() int {
	switch f.ptr.(type) {
	case *uint8:
		return 1
	case *uint16:
		return 2
	case *uint32, *float32:
		return 4
	default:
		return 0
	}
}

func (f Field) decode(d *Decoder) {
	switch p := f.ptr.(type) {
	case *uint8:
		*p = d.U8()
	case *uint16:
		*p = d.U16()
	case *uint32:
		*p = d.U32()
	case *float32:
		*p = d.F32()
	}
}

func (f Field) encode(e *Encoder) {
	switch p := f.ptr.(type) {
	case *uint8:
		e.U8(*p)
	case *uint16:
		e.U16(*p)
	case *uint32:
		e.U32(*p)
	case *float32:
		e.F32(*p)
	}
}

// String formats the current value: 0x-prefixed upper-case hex for Hex
// fields, decimal otherwise, and the shortest float32 round-trip form for
// floats.
func (f Field) String() string {
	var v uint64
	switch p := f.ptr.(type) {
	case *uint8:
		v = uint64(*p)
	case *uint16:
		v = uint64(*p)
	case *uint32:
		v = uint64(*p)
	case *float32:
		return strconv.FormatFloat(float64(*p), 'f', -1, 32)
	default:
		return ""
	}
	if f.Hex {
		return fmt.Sprintf("0x%X", v)
	}
	return strconv.FormatUint(v, 10)
}

// Set parses s into the field. Integers accept decimal or a 0x prefix
// whatever the field's preferred format is.
func (f Field) Set(s string) error {
	s = strings.TrimSpace(s)
	switch p := f.ptr.(type) {
	case *uint8:
		v, err := parseUint(s, 8)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		*p = uint8(v)
	case *uint16:
		v, err := parseUint(s, 16)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		*p = uint16(v)
	case *uint32:
		v, err := parseUint(s, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		*p = uint32(v)
	case *float32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		*p = float32(v)
	default:
		return fmt.Errorf("%s: unsupported field", f.Name)
	}
	return nil
}

func parseUint(s string, bits int) (uint64, error) {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return strconv.ParseUint(s[2:], 16, bits)
	}
	return strconv.ParseUint(s, 10, bits)
}

func decodeFields(d *Decoder, fields []Field) error {
	for _, f := range fields {
		f.decode(d)
	}
	return d.Err()
}

func encodeFields(e *Encoder, fields []Field) error {
	for _, f := range fields {
		f.encode(e)
	}
	return e.Err()
}

func fieldsSize(fields []Field) int {
	n := 0
	for _, f := range fields {
		n += f.Size()
	}
	return n
}
