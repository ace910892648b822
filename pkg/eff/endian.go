package eff

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unsafe"
)

// ByteOrder selects how multi-byte scalars are laid out in a blob.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	default:
		return fmt.Sprintf("ByteOrder(%d)", uint8(o))
	}
}

// ParseByteOrder accepts "little"/"le" and "big"/"be" in any case.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "little", "le", "l":
		return LittleEndian, nil
	case "big", "be", "b":
		return BigEndian, nil
	default:
		return 0, fmt.Errorf("eff: unknown byte order %q", s)
	}
}

func (o ByteOrder) binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Scalar lists the fixed-width types the codec can encode.
type Scalar interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64 | float32 | float64
}

// Raw holds the wire bytes of one scalar together with the byte order they
// are laid out in. Converting between orders only permutes bytes, so any
// value survives a round trip bit for bit.
type Raw[T Scalar] struct {
	Order ByteOrder
	b     [8]byte
}

func sizeOf[T Scalar]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// Encode lays v out in the given byte order.
func Encode[T Scalar](v T, order ByteOrder) Raw[T] {
	r := Raw[T]{Order: order}
	bo := order.binary()
	switch x := any(v).(type) {
	case uint8:
		r.b[0] = x
	case int8:
		r.b[0] = uint8(x)
	case uint16:
		bo.PutUint16(r.b[:], x)
	case int16:
		bo.PutUint16(r.b[:], uint16(x))
	case uint32:
		bo.PutUint32(r.b[:], x)
	case int32:
		bo.PutUint32(r.b[:], uint32(x))
	case uint64:
		bo.PutUint64(r.b[:], x)
	case int64:
		bo.PutUint64(r.b[:], uint64(x))
	case float32:
		bo.PutUint32(r.b[:], math.Float32bits(x))
	case float64:
		bo.PutUint64(r.b[:], math.Float64bits(x))
	}
	return r
}

// RawFromBytes tags the leading bytes of b as a T laid out in order.
func RawFromBytes[T Scalar](b []byte, order ByteOrder) (Raw[T], error) {
	n := sizeOf[T]()
	if len(b) < n {
		return Raw[T]{}, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, len(b))
	}
	r := Raw[T]{Order: order}
	copy(r.b[:n], b[:n])
	return r, nil
}

// Bytes returns the wire bytes, sized to the scalar width.
func (r Raw[T]) Bytes() []byte {
	n := sizeOf[T]()
	out := make([]byte, n)
	copy(out, r.b[:n])
	return out
}

// Value decodes the scalar from its tagged bytes.
func (r Raw[T]) Value() T {
	bo := r.Order.binary()
	var v T
	switch p := any(&v).(type) {
	case *uint8:
		*p = r.b[0]
	case *int8:
		*p = int8(r.b[0])
	case *uint16:
		*p = bo.Uint16(r.b[:])
	case *int16:
		*p = int16(bo.Uint16(r.b[:]))
	case *uint32:
		*p = bo.Uint32(r.b[:])
	case *int32:
		*p = int32(bo.Uint32(r.b[:]))
	case *uint64:
		*p = bo.Uint64(r.b[:])
	case *int64:
		*p = int64(bo.Uint64(r.b[:]))
	case *float32:
		*p = math.Float32frombits(bo.Uint32(r.b[:]))
	case *float64:
		*p = math.Float64frombits(bo.Uint64(r.b[:]))
	}
	return v
}

// Retag returns the same value laid out in another byte order.
func (r Raw[T]) Retag(order ByteOrder) Raw[T] {
	if order == r.Order {
		return r
	}
	n := sizeOf[T]()
	out := Raw[T]{Order: order}
	for i := 0; i < n; i++ {
		out.b[i] = r.b[n-1-i]
	}
	return out
}
