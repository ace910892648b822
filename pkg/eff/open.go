package eff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps a blob file read-only and decodes it. If mmap is unavailable it
// falls back to ReadAt-based loading. The mapping is released before Open
// returns since the Container holds no references into it.
func Open(path string, order ByteOrder) (*Container, error) {
	c, _, err := open(path, func([]byte) (ByteOrder, error) { return order, nil })
	return c, err
}

// OpenAuto is Open with the byte order taken from DetectByteOrder.
func OpenAuto(path string) (*Container, ByteOrder, error) {
	return open(path, DetectByteOrder)
}

func open(path string, pick func([]byte) (ByteOrder, error)) (*Container, ByteOrder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, ioErr(err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, 0, ioErr(err)
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, 0, fmt.Errorf("%w: %s is too large to map", ErrInvalidOffset, path)
	}
	size := int(size64)
	if size < HeaderSize {
		return nil, 0, fmt.Errorf("%w: %s is %d bytes", ErrTruncated, path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		defer func() { _ = unix.Munmap(data) }()
	} else {
		data, err = readAllAt(f, size)
		if err != nil {
			return nil, 0, err
		}
	}

	order, err := pick(data)
	if err != nil {
		return nil, 0, err
	}
	c, err := Decode(bytes.NewReader(data), order)
	if err != nil {
		return nil, 0, err
	}
	return c, order, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) && off == int64(size) {
			break
		}
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file shrank to %d bytes", ErrTruncated, off)
		}
		return nil, ioErr(err)
	}
	return out, nil
}

// WriteFile encodes the container straight into path, replacing any existing
// file.
func (c *Container) WriteFile(path string, order ByteOrder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return ioErr(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ioErr(cerr)
		}
	}()

	if err := c.Encode(f, order); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return ioErr(err)
	}
	return nil
}
