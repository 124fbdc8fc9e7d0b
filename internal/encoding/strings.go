package encoding

import (
	"encoding/binary"
	"fmt"
)

// EncodeStrings dictionary-encodes values: the distinct strings in order of
// first appearance, then one varint reference per value.
func EncodeStrings(values []string) []byte {
	index := make(map[string]uint64)
	var dict []string
	refs := make([]uint64, len(values))
	for i, v := range values {
		ref, ok := index[v]
		if !ok {
			ref = uint64(len(dict))
			index[v] = ref
			dict = append(dict, v)
		}
		refs[i] = ref
	}

	out := binary.AppendUvarint(nil, uint64(len(dict)))
	for _, s := range dict {
		out = AppendString(out, s)
	}
	out = binary.AppendUvarint(out, uint64(len(refs)))
	for _, ref := range refs {
		out = binary.AppendUvarint(out, ref)
	}
	return out
}

// DecodeStrings reverses EncodeStrings.
func DecodeStrings(data []byte) ([]string, error) {
	c := NewCursor(data)
	size, err := c.Count(1)
	if err != nil {
		return nil, err
	}
	dict := make([]string, size)
	for i := range dict {
		if dict[i], err = c.Text(); err != nil {
			return nil, err
		}
	}

	n, err := c.Count(1)
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		ref, err := c.Uvarint()
		if err != nil {
			return nil, err
		}
		if ref >= uint64(len(dict)) {
			return nil, fmt.Errorf("%w: dictionary reference %d out of range", ErrCorrupt, ref)
		}
		out[i] = dict[ref]
	}
	return out, nil
}
