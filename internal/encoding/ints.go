package encoding

import (
	"encoding/binary"
	"fmt"

	"github.com/chronicle-db/journal/internal/bits"
)

// dodBucket is a prefix-coded range of delta-of-delta values.
type dodBucket struct {
	prefix     uint64
	prefixBits int
	valueBits  int
	bias       int64
}

// Values outside every bucket are written as '1111' plus 64 raw bits.
var dodBuckets = []dodBucket{
	{prefix: 0b10, prefixBits: 2, valueBits: 7, bias: 63},
	{prefix: 0b110, prefixBits: 3, valueBits: 9, bias: 255},
	{prefix: 0b1110, prefixBits: 4, valueBits: 12, bias: 2047},
}

// EncodeInts compresses values with delta-of-delta encoding. Sequences with
// a steady stride, such as sample counters, cost about one bit per value.
func EncodeInts(values []int64) []byte {
	out := binary.AppendUvarint(nil, uint64(len(values)))
	if len(values) == 0 {
		return out
	}

	w := bits.NewWriter()
	w.WriteBits(uint64(values[0]), 64)
	var prevDelta int64
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		writeDoD(w, delta-prevDelta)
		prevDelta = delta
	}
	return append(out, w.Bytes()...)
}

func writeDoD(w *bits.Writer, dod int64) {
	if dod == 0 {
		w.WriteBit(0)
		return
	}
	for _, b := range dodBuckets {
		limit := int64(1)<<b.valueBits - 1 - b.bias
		if dod >= -b.bias && dod <= limit {
			w.WriteBits(b.prefix, b.prefixBits)
			w.WriteBits(uint64(dod+b.bias), b.valueBits)
			return
		}
	}
	w.WriteBits(0b1111, 4)
	w.WriteBits(uint64(dod), 64)
}

// DecodeInts reverses EncodeInts.
func DecodeInts(data []byte) ([]int64, error) {
	c := NewCursor(data)
	n, err := c.Count(0)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []int64{}, nil
	}
	r := bits.NewReader(c.Rest())
	if n > r.Remaining() {
		return nil, fmt.Errorf("%w: %d ints in %d bits", ErrCorrupt, n, r.Remaining())
	}

	out := make([]int64, n)
	first, err := r.ReadBits(64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	out[0] = int64(first)
	var delta int64
	for i := 1; i < n; i++ {
		dod, err := readDoD(r)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %v", ErrCorrupt, i, err)
		}
		delta += dod
		out[i] = out[i-1] + delta
	}
	return out, nil
}

func readDoD(r *bits.Reader) (int64, error) {
	// Count leading one bits of the prefix, up to four.
	ones := 0
	for ones < 4 {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if b == 0 {
			break
		}
		ones++
	}
	if ones == 0 {
		return 0, nil
	}
	if ones == 4 {
		v, err := r.ReadBits(64)
		return int64(v), err
	}
	b := dodBuckets[ones-1]
	v, err := r.ReadBits(b.valueBits)
	if err != nil {
		return 0, err
	}
	return int64(v) - b.bias, nil
}
