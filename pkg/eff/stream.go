package eff

import (
	"errors"
	"fmt"
	"io"
	"math"
)

const zeroBufSize = 256

var zeroBuf [zeroBufSize]byte

func ioErr(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}

// Decoder reads scalars in a fixed byte order from a seekable stream.
//
// Positions are relative to where the stream was when the Decoder was
// created. The first failure is kept and every later read returns zero
// values, so a record decode can check Err once at the end.
type Decoder struct {
	r     io.ReadSeeker
	order ByteOrder
	base  int64
	pos   int64
	size  int64
	buf   [8]byte
	err   error
}

// NewDecoder measures the remaining stream and leaves the cursor untouched.
func NewDecoder(r io.ReadSeeker, order ByteOrder) (*Decoder, error) {
	base, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, ioErr(err)
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, ioErr(err)
	}
	if _, err := r.Seek(base, io.SeekStart); err != nil {
		return nil, ioErr(err)
	}
	return &Decoder{r: r, order: order, base: base, size: end - base}, nil
}

func (d *Decoder) Order() ByteOrder { return d.order }
func (d *Decoder) Pos() int64       { return d.pos }
func (d *Decoder) Size() int64      { return d.size }
func (d *Decoder) Err() error       { return d.err }

// Remaining is the number of bytes between the cursor and the end of the stream.
func (d *Decoder) Remaining() int64 {
	if d.pos >= d.size {
		return 0
	}
	return d.size - d.pos
}

func (d *Decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Seek moves the cursor to off. Offsets beyond the end of the stream fail
// with ErrInvalidOffset.
func (d *Decoder) Seek(off int64) error {
	if d.err != nil {
		return d.err
	}
	if off < 0 || off > d.size {
		d.fail(fmt.Errorf("%w: 0x%x is outside a 0x%x byte stream", ErrInvalidOffset, off, d.size))
		return d.err
	}
	if _, err := d.r.Seek(d.base+off, io.SeekStart); err != nil {
		d.fail(ioErr(err))
		return d.err
	}
	d.pos = off
	return nil
}

// need fails with ErrTruncated unless n more bytes are available.
func (d *Decoder) need(n int64) error {
	if d.err != nil {
		return d.err
	}
	if n < 0 || n > d.Remaining() {
		d.fail(fmt.Errorf("%w: need 0x%x bytes at 0x%x, have 0x%x", ErrTruncated, n, d.pos, d.Remaining()))
	}
	return d.err
}

// ReadBytes fills p from the stream.
func (d *Decoder) ReadBytes(p []byte) {
	if d.err != nil || len(p) == 0 {
		return
	}
	if _, err := io.ReadFull(d.r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			d.fail(fmt.Errorf("%w: reading %d bytes at 0x%x", ErrTruncated, len(p), d.pos))
		} else {
			d.fail(ioErr(err))
		}
		return
	}
	d.pos += int64(len(p))
}

func readScalar[T Scalar](d *Decoder) T {
	var zero T
	b := d.buf[:sizeOf[T]()]
	d.ReadBytes(b)
	if d.err != nil {
		return zero
	}
	raw, err := RawFromBytes[T](b, d.order)
	if err != nil {
		d.fail(err)
		return zero
	}
	return raw.Value()
}

func (d *Decoder) U8() uint8    { return readScalar[uint8](d) }
func (d *Decoder) U16() uint16  { return readScalar[uint16](d) }
func (d *Decoder) U32() uint32  { return readScalar[uint32](d) }
func (d *Decoder) F32() float32 { return readScalar[float32](d) }

// Encoder writes scalars in a fixed byte order to a seekable stream.
//
// Like Decoder it keeps the first failure. Padding is always written as
// explicit zero bytes, never left as a seek hole, so output is deterministic
// regardless of the destination.
type Encoder struct {
	w     io.WriteSeeker
	order ByteOrder
	base  int64
	pos   int64
	err   error
}

func NewEncoder(w io.WriteSeeker, order ByteOrder) (*Encoder, error) {
	base, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, ioErr(err)
	}
	return &Encoder{w: w, order: order, base: base}, nil
}

func (e *Encoder) Order() ByteOrder { return e.order }
func (e *Encoder) Pos() int64       { return e.pos }
func (e *Encoder) Err() error       { return e.err }

func (e *Encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// Write implements io.Writer on top of the sticky error.
func (e *Encoder) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	total := 0
	for total < len(p) {
		n, err := e.w.Write(p[total:])
		total += n
		e.pos += int64(n)
		if err != nil {
			e.fail(ioErr(err))
			return total, e.err
		}
		if n == 0 {
			e.fail(ioErr(io.ErrShortWrite))
			return total, e.err
		}
	}
	return total, nil
}

// Seek moves the cursor to off relative to where the encoder started.
func (e *Encoder) Seek(off int64) error {
	if e.err != nil {
		return e.err
	}
	if _, err := e.w.Seek(e.base+off, io.SeekStart); err != nil {
		e.fail(ioErr(err))
		return e.err
	}
	e.pos = off
	return nil
}

// Zeros writes n zero bytes.
func (e *Encoder) Zeros(n int) {
	for n > 0 && e.err == nil {
		chunk := min(n, zeroBufSize)
		_, _ = e.Write(zeroBuf[:chunk])
		n -= chunk
	}
}

// Align pads with zeros up to the next Alignment boundary.
func (e *Encoder) Align() {
	if e.err != nil {
		return
	}
	next, err := Align(uint64(e.pos))
	if err != nil {
		e.fail(err)
		return
	}
	e.Zeros(int(next - uint64(e.pos)))
}

func writeScalar[T Scalar](e *Encoder, v T) {
	raw := Encode(v, e.order)
	_, _ = e.Write(raw.b[:sizeOf[T]()])
}

func (e *Encoder) U8(v uint8)    { writeScalar(e, v) }
func (e *Encoder) U16(v uint16)  { writeScalar(e, v) }
func (e *Encoder) U32(v uint32)  { writeScalar(e, v) }
func (e *Encoder) F32(v float32) { writeScalar(e, v) }

// count narrows a length to the width a count field is stored in.
func count[T uint16 | uint32](n int, what string) (T, error) {
	var limit uint64 = math.MaxUint32
	if sizeOf[T]() == 2 {
		limit = math.MaxUint16
	}
	if n < 0 || uint64(n) > limit {
		return 0, fmt.Errorf("%w: %d %s exceeds %d", ErrCastFailure, n, what, limit)
	}
	return T(n), nil
}
