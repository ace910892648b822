package eff

import "errors"

var (
	// ErrTruncated means the stream ended before a read completed.
	ErrTruncated = errors.New("eff: truncated stream")
	// ErrInvalidOffset means an offset points outside the stream or overflowed.
	ErrInvalidOffset = errors.New("eff: invalid offset")
	// ErrCastFailure means a value does not fit the width the format stores it in.
	ErrCastFailure = errors.New("eff: value not representable")
	// ErrIO wraps failures of the underlying reader, writer or file.
	ErrIO = errors.New("eff: i/o failure")
)
