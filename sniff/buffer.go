package sniff

import (
	"bytes"
	"errors"
	"io"
)

// DefaultCapacity covers the largest signature offset plus an ISO-BMFF header walk
// over a typical ftyp/free/moov prefix.
const DefaultCapacity = 64 * 1024

// Buffer is a bounded, read-once window over the start of a byte stream.
// It never grows past its capacity and never seeks in the source.
type Buffer struct {
	data     []byte
	capacity int
}

// NewBuffer wraps an in-memory prefix. Bytes past capacity are ignored.
// A non-positive capacity selects DefaultCapacity.
func NewBuffer(data []byte, capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if len(data) > capacity {
		data = data[:capacity]
	}
	return &Buffer{data: data, capacity: capacity}
}

// ReadBuffer reads at most capacity bytes from r. A stream shorter than capacity is
// not an error. Any other read failure is returned as is so the caller can classify it.
func ReadBuffer(r io.Reader, capacity int) (*Buffer, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	data := make([]byte, capacity)
	n, err := io.ReadFull(r, data)
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
	default:
		return nil, err
	}

	return &Buffer{data: data[:n], capacity: capacity}, nil
}

// Bytes returns the buffered prefix. Callers must not modify it.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the window capacity.
func (b *Buffer) Cap() int { return b.capacity }

// Window returns n bytes starting at off. It reports false when the request does not
// fit inside the buffered prefix; probes treat that as "cannot confirm".
func (b *Buffer) Window(off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b.data) || n > len(b.data)-off {
		return nil, false
	}
	return b.data[off : off+n], true
}

// HasPrefixAt reports whether pattern occurs at off.
func (b *Buffer) HasPrefixAt(off int, pattern []byte) bool {
	w, ok := b.Window(off, len(pattern))
	return ok && bytes.Equal(w, pattern)
}
