// Package bits implements MSB-first bit streams for the snapshot codecs.
package bits

import "errors"

// ErrShortStream is returned when a Reader runs out of input.
var ErrShortStream = errors.New("bits: unexpected end of stream")

// Writer accumulates bits, most significant first.
type Writer struct {
	buf  []byte
	acc  byte
	used uint8
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBit appends the low bit of b.
func (w *Writer) WriteBit(b uint8) {
	w.acc = w.acc<<1 | b&1
	w.used++
	if w.used == 8 {
		w.buf = append(w.buf, w.acc)
		w.acc, w.used = 0, 0
	}
}

// WriteBits appends the low n bits of v.
func (w *Writer) WriteBits(v uint64, n int) {
	for n > 0 && w.used != 0 {
		n--
		w.WriteBit(uint8(v >> uint(n)))
	}
	for n >= 8 {
		n -= 8
		w.buf = append(w.buf, byte(v>>uint(n)))
	}
	for n > 0 {
		n--
		w.WriteBit(uint8(v >> uint(n)))
	}
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	return len(w.buf)*8 + int(w.used)
}

// Bytes returns the stream padded with zero bits to a whole byte.
func (w *Writer) Bytes() []byte {
	out := append([]byte(nil), w.buf...)
	if w.used > 0 {
		out = append(out, w.acc<<(8-w.used))
	}
	return out
}

// Reader consumes a stream produced by Writer.
type Reader struct {
	buf []byte
	pos int // bit position
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// ReadBit returns the next bit.
func (r *Reader) ReadBit() (uint8, error) {
	if r.pos >= len(r.buf)*8 {
		return 0, ErrShortStream
	}
	b := r.buf[r.pos/8] >> (7 - uint(r.pos%8)) & 1
	r.pos++
	return b, nil
}

// ReadBits returns the next n bits as the low bits of a uint64.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if r.pos+n > len(r.buf)*8 {
		return 0, ErrShortStream
	}
	var v uint64
	for range n {
		b, _ := r.ReadBit()
		v = v<<1 | uint64(b)
	}
	return v, nil
}

// Remaining returns the number of unread bits, padding included.
func (r *Reader) Remaining() int {
	return len(r.buf)*8 - r.pos
}
