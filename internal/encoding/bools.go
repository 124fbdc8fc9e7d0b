package encoding

import (
	"encoding/binary"
	"fmt"
)

// EncodeBools run-length encodes values: the count, the first value, then
// the length of each run. Runs alternate between true and false.
func EncodeBools(values []bool) []byte {
	out := binary.AppendUvarint(nil, uint64(len(values)))
	if len(values) == 0 {
		return out
	}
	if values[0] {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}

	run := uint64(1)
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1] {
			run++
			continue
		}
		out = binary.AppendUvarint(out, run)
		run = 1
	}
	return binary.AppendUvarint(out, run)
}

// DecodeBools reverses EncodeBools.
func DecodeBools(data []byte) ([]bool, error) {
	c := NewCursor(data)
	n, err := c.Count(0)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []bool{}, nil
	}
	first, err := c.Byte()
	if err != nil {
		return nil, err
	}
	if first > 1 {
		return nil, fmt.Errorf("%w: bad run value %d", ErrCorrupt, first)
	}

	out := make([]bool, 0, min(n, 1<<20))
	value := first == 1
	for len(out) < n {
		run, err := c.Uvarint()
		if err != nil {
			return nil, err
		}
		if run == 0 || run > uint64(n-len(out)) {
			return nil, fmt.Errorf("%w: run of %d with %d values left", ErrCorrupt, run, n-len(out))
		}
		for range run {
			out = append(out, value)
		}
		value = !value
	}
	return out, nil
}
