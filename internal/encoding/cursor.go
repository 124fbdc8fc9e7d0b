package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrCorrupt is returned when encoded input is truncated or malformed.
var ErrCorrupt = errors.New("encoding: corrupt input")

// Cursor reads varints and length-prefixed byte strings from a buffer.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor returns a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{buf: data}
}

// Uvarint reads one unsigned varint.
func (c *Cursor) Uvarint() (uint64, error) {
	v, n := binary.Uvarint(c.buf[c.off:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: bad varint at offset %d", ErrCorrupt, c.off)
	}
	c.off += n
	return v, nil
}

// Count reads a varint that sizes a following collection and checks that
// it cannot exceed the remaining input.
func (c *Cursor) Count(minBytesEach int) (int, error) {
	v, err := c.Uvarint()
	if err != nil {
		return 0, err
	}
	if minBytesEach > 0 && v > uint64(c.Len()/minBytesEach) {
		return 0, fmt.Errorf("%w: count %d exceeds input", ErrCorrupt, v)
	}
	return int(v), nil
}

// Bytes reads a length-prefixed byte string. The result aliases the buffer.
func (c *Cursor) Bytes() ([]byte, error) {
	n, err := c.Count(1)
	if err != nil {
		return nil, err
	}
	out := c.buf[c.off : c.off+n]
	c.off += n
	return out, nil
}

// Text reads a length-prefixed string.
func (c *Cursor) Text() (string, error) {
	b, err := c.Bytes()
	return string(b), err
}

// Byte reads a single byte.
func (c *Cursor) Byte() (byte, error) {
	if c.off >= len(c.buf) {
		return 0, fmt.Errorf("%w: unexpected end of input", ErrCorrupt)
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// Uint64 reads a little-endian uint64.
func (c *Cursor) Uint64() (uint64, error) {
	if c.Len() < 8 {
		return 0, fmt.Errorf("%w: unexpected end of input", ErrCorrupt)
	}
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return len(c.buf) - c.off
}

// Rest returns the unread bytes.
func (c *Cursor) Rest() []byte {
	return c.buf[c.off:]
}

// AppendBytes appends b with a varint length prefix.
func AppendBytes(dst, b []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(b)))
	return append(dst, b...)
}

// AppendString appends s with a varint length prefix.
func AppendString(dst []byte, s string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}
