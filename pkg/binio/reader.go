// Package binio provides a little-endian cursor over animation track data
// and the matching writer used to produce such data.
package binio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Reader consumes primitive values from an in-memory buffer.
// All multi-byte values are little-endian.
type Reader struct {
	data   []byte
	offset int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.offset
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.offset
}

// take returns the next n bytes or io.ErrUnexpectedEOF. The cursor does not
// move on failure.
func (r *Reader) take(n int) ([]byte, error) {
	if r.Len() < n {
		return nil, fmt.Errorf("need %d bytes at offset %d, have %d: %w", n, r.offset, r.Len(), io.ErrUnexpectedEOF)
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// ReadUint8 reads one byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadFloat32 reads a little-endian IEEE 754 single.
func (r *Reader) ReadFloat32() (float32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadFloat64 reads a little-endian IEEE 754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadFloat32s fills dst with consecutive float32 values. Either all of dst
// is filled or nothing is consumed.
func (r *Reader) ReadFloat32s(dst []float32) error {
	b, err := r.take(4 * len(dst))
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return nil
}
