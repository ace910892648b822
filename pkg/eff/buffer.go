package eff

import (
	"errors"
	"io"
)

// writeBuffer is an in-memory io.WriteSeeker. Seeking past the end and
// writing zero-fills the gap.
type writeBuffer struct {
	buf []byte
	pos int
}

func (b *writeBuffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.buf) {
		old := len(b.buf)
		if end > cap(b.buf) {
			grown := make([]byte, end, max(end, 2*cap(b.buf), 4096))
			copy(grown, b.buf)
			b.buf = grown
		} else {
			b.buf = b.buf[:end]
		}
		if b.pos > old {
			clear(b.buf[old:b.pos])
		}
	}
	copy(b.buf[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

func (b *writeBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.pos) + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("eff: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("eff: negative position")
	}
	b.pos = int(abs)
	return abs, nil
}

func (b *writeBuffer) Bytes() []byte { return b.buf }
