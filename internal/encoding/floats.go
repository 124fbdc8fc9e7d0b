package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
	stdbits "math/bits"

	"github.com/chronicle-db/journal/internal/bits"
)

// EncodeFloats compresses values by XOR-ing each bit pattern with the
// previous one and storing only the meaningful bits. NaN payloads survive
// the round trip.
//
// Per value after the first: '0' for a repeat, '10' plus bits inside the
// previous window, or '11' plus 5 bits of leading zeros, 6 bits of
// (length-1) and the bits themselves.
func EncodeFloats(values []float64) []byte {
	out := binary.AppendUvarint(nil, uint64(len(values)))
	if len(values) == 0 {
		return out
	}

	w := bits.NewWriter()
	prev := math.Float64bits(values[0])
	w.WriteBits(prev, 64)
	lead, trail := -1, 0
	for _, v := range values[1:] {
		cur := math.Float64bits(v)
		xor := cur ^ prev
		prev = cur
		if xor == 0 {
			w.WriteBit(0)
			continue
		}
		w.WriteBit(1)

		lz := min(stdbits.LeadingZeros64(xor), 31)
		tz := stdbits.TrailingZeros64(xor)
		if lead >= 0 && lz >= lead && tz >= trail {
			w.WriteBit(0)
			w.WriteBits(xor>>uint(trail), 64-lead-trail)
			continue
		}
		lead, trail = lz, tz
		size := 64 - lz - tz
		w.WriteBit(1)
		w.WriteBits(uint64(lz), 5)
		w.WriteBits(uint64(size-1), 6)
		w.WriteBits(xor>>uint(tz), size)
	}
	return append(out, w.Bytes()...)
}

// DecodeFloats reverses EncodeFloats.
func DecodeFloats(data []byte) ([]float64, error) {
	c := NewCursor(data)
	n, err := c.Count(0)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []float64{}, nil
	}
	r := bits.NewReader(c.Rest())
	if n > r.Remaining() {
		return nil, fmt.Errorf("%w: %d floats in %d bits", ErrCorrupt, n, r.Remaining())
	}

	out := make([]float64, n)
	prev, err := r.ReadBits(64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	out[0] = math.Float64frombits(prev)
	lead, trail := -1, 0
	for i := 1; i < n; i++ {
		xor, err := readXOR(r, &lead, &trail)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %v", ErrCorrupt, i, err)
		}
		prev ^= xor
		out[i] = math.Float64frombits(prev)
	}
	return out, nil
}

func readXOR(r *bits.Reader, lead, trail *int) (uint64, error) {
	changed, err := r.ReadBit()
	if err != nil || changed == 0 {
		return 0, err
	}
	fresh, err := r.ReadBit()
	if err != nil {
		return 0, err
	}
	if fresh == 1 {
		lz, err := r.ReadBits(5)
		if err != nil {
			return 0, err
		}
		size, err := r.ReadBits(6)
		if err != nil {
			return 0, err
		}
		*lead = int(lz)
		*trail = 64 - int(lz) - int(size+1)
		if *trail < 0 {
			return 0, fmt.Errorf("window %d+%d exceeds 64 bits", lz, size+1)
		}
	} else if *lead < 0 {
		return 0, fmt.Errorf("window reused before it was set")
	}
	v, err := r.ReadBits(64 - *lead - *trail)
	if err != nil {
		return 0, err
	}
	return v << uint(*trail), nil
}
