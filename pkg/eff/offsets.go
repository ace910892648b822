package eff

import (
	"fmt"
	"math"
)

// Align rounds off up to the next multiple of Alignment. Aligned offsets are
// returned unchanged.
func Align(off uint64) (uint64, error) {
	if off%Alignment == 0 {
		return off, nil
	}
	if off > math.MaxUint64-(Alignment-1) {
		return 0, fmt.Errorf("%w: aligning 0x%x overflows", ErrInvalidOffset, off)
	}
	return (off/Alignment + 1) * Alignment, nil
}

// ReadOffsetTable reads a u32 count followed by that many u32 offsets. The
// offsets are relative to the position the table started at.
func ReadOffsetTable(d *Decoder) ([]uint32, error) {
	n := d.U32()
	if err := d.need(int64(n) * 4); err != nil {
		return nil, err
	}
	offs := make([]uint32, n)
	for i := range offs {
		offs[i] = d.U32()
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return offs, nil
}

// decodeTabled reads an offset table and decodes one record per entry,
// seeking to each entry independently. Entries need not be ordered.
func decodeTabled[T any](d *Decoder, decode func(*T, *Decoder) error) ([]T, error) {
	origin := d.Pos()
	offs, err := ReadOffsetTable(d)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(offs))
	for i, off := range offs {
		if err := d.Seek(origin + int64(off)); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := decode(&out[i], d); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return out, nil
}

// encodeTabled writes n records behind an offset table.
//
// The table is reserved first, each record starts on an aligned offset and
// the table is backfilled once every offset is known. The encoder is left at
// the aligned end of the section.
func encodeTabled(e *Encoder, n int, encode func(i int) error) error {
	total, err := count[uint32](n, "records")
	if err != nil {
		return err
	}
	origin := e.Pos()
	e.Zeros(4 * (n + 1))
	e.Align()

	offs := make([]uint32, n)
	for i := range offs {
		rel := e.Pos() - origin
		if rel > math.MaxUint32 {
			return fmt.Errorf("%w: record %d at +0x%x", ErrCastFailure, i, rel)
		}
		offs[i] = uint32(rel)
		if err := encode(i); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		e.Align()
	}
	if err := e.Err(); err != nil {
		return err
	}

	end := e.Pos()
	if err := e.Seek(origin); err != nil {
		return err
	}
	e.U32(total)
	for _, off := range offs {
		e.U32(off)
	}
	if err := e.Err(); err != nil {
		return err
	}
	return e.Seek(end)
}

// decodeCounted reads a u32 count followed by fixed-size records.
func decodeCounted[T any](d *Decoder, size int64, decode func(*T, *Decoder) error) ([]T, error) {
	n := d.U32()
	if err := d.need(int64(n) * size); err != nil {
		return nil, err
	}
	out := make([]T, n)
	for i := range out {
		if err := decode(&out[i], d); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return out, nil
}

func encodeCounted[T any](e *Encoder, items []T, encode func(*T, *Encoder) error) error {
	n, err := count[uint32](len(items), "records")
	if err != nil {
		return err
	}
	e.U32(n)
	for i := range items {
		if err := encode(&items[i], e); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return e.Err()
}
