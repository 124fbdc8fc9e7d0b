package journal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"

	"github.com/chronicle-db/journal/internal/encoding"
)

// Snapshot layout:
//
//	"JSNP" | version | flags | xxhash64(payload) | body
//
// body is the payload, snappy-compressed when flagCompressed is set. The
// payload holds a column count, then for each column its name, a tag
// ('C' or 'T') and the encoded values.
const (
	snapshotVersion    = 1
	snapshotHeaderSize = 4 + 1 + 1 + 8

	flagCompressed = 1 << 0

	tagColumn     = 'C'
	tagTimeColumn = 'T'
)

var snapshotMagic = [4]byte{'J', 'S', 'N', 'P'}

// EncodeSnapshot serializes m.
func EncodeSnapshot(m *Matrix) ([]byte, error) {
	payload := binary.AppendUvarint(nil, uint64(m.NumCols()))
	for _, name := range m.names {
		var err error
		payload = encoding.AppendString(payload, name)
		switch col := m.columns[name].(type) {
		case *TimeColumn:
			payload, err = appendTimeColumn(payload, col)
		case *Column:
			payload, err = appendColumn(payload, col)
		default:
			err = typeMismatch("unsupported series %T", col)
		}
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
	}

	out := make([]byte, snapshotHeaderSize, snapshotHeaderSize+len(payload))
	copy(out, snapshotMagic[:])
	out[4] = snapshotVersion
	out[5] = flagCompressed
	binary.LittleEndian.PutUint64(out[6:], xxhash.Sum64(payload))
	return append(out, snappy.Encode(nil, payload)...), nil
}

func appendTimeColumn(dst []byte, tc *TimeColumn) ([]byte, error) {
	epoch, err := tc.epoch.MarshalBinary()
	if err != nil {
		return nil, err
	}
	dst = append(dst, tagTimeColumn)
	dst = encoding.AppendBytes(dst, epoch)
	return encoding.AppendBytes(dst, encoding.EncodeStrings(tc.values)), nil
}

func appendColumn(dst []byte, c *Column) ([]byte, error) {
	dst = append(dst, tagColumn, byte(c.kind))
	switch c.kind {
	case KindInt:
		ints, _ := c.Ints()
		return encoding.AppendBytes(dst, encoding.EncodeInts(ints)), nil
	case KindFloat:
		floats, _ := c.Floats()
		return encoding.AppendBytes(dst, encoding.EncodeFloats(floats)), nil
	case KindBool:
		bools, _ := c.Bools()
		return encoding.AppendBytes(dst, encoding.EncodeBools(bools)), nil
	case KindText:
		texts, _ := c.Texts()
		return encoding.AppendBytes(dst, encoding.EncodeStrings(texts)), nil
	case KindTime:
		secs := make([]int64, len(c.values))
		nanos := make([]int64, len(c.values))
		for i, v := range c.values {
			secs[i], nanos[i] = v.t.Unix(), int64(v.t.Nanosecond())
		}
		dst = encoding.AppendBytes(dst, encoding.EncodeInts(secs))
		return encoding.AppendBytes(dst, encoding.EncodeInts(nanos)), nil
	}
	return nil, typeMismatch("cannot encode %s column", c.kind)
}

// DecodeSnapshot restores a Matrix written by EncodeSnapshot. Any
// validation failure matches ErrSnapshotCorrupt.
func DecodeSnapshot(data []byte) (*Matrix, error) {
	if len(data) < snapshotHeaderSize || [4]byte(data[:4]) != snapshotMagic {
		return nil, newSnapshotError(SnapshotErrorTypeCorruption, "invalid snapshot magic", "", nil)
	}
	if data[4] != snapshotVersion {
		return nil, newSnapshotError(SnapshotErrorTypeCorruption,
			fmt.Sprintf("unsupported snapshot version %d", data[4]), "", nil)
	}
	flags := data[5]
	sum := binary.LittleEndian.Uint64(data[6:])

	payload := data[snapshotHeaderSize:]
	if flags&flagCompressed != 0 {
		var err error
		if payload, err = snappy.Decode(nil, payload); err != nil {
			return nil, newSnapshotError(SnapshotErrorTypeCorruption, "decompress snapshot", "", err)
		}
	}
	if xxhash.Sum64(payload) != sum {
		return nil, newSnapshotError(SnapshotErrorTypeCorruption, "snapshot checksum mismatch", "", nil)
	}

	m, err := decodePayload(encoding.NewCursor(payload))
	if err != nil {
		return nil, newSnapshotError(SnapshotErrorTypeCorruption, "decode snapshot", "", err)
	}
	return m, nil
}

func decodePayload(cur *encoding.Cursor) (*Matrix, error) {
	n, err := cur.Count(3)
	if err != nil {
		return nil, err
	}
	m := &Matrix{names: make([]string, 0, n), columns: make(map[string]Series, n)}
	for range n {
		name, err := cur.Text()
		if err != nil {
			return nil, err
		}
		if m.Has(name) {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		tag, err := cur.Byte()
		if err != nil {
			return nil, err
		}

		var col Series
		switch tag {
		case tagTimeColumn:
			col, err = decodeTimeColumn(cur)
		case tagColumn:
			col, err = decodeColumn(cur)
		default:
			err = fmt.Errorf("unknown column tag %q", tag)
		}
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		col.SetTitle(name)
		m.names = append(m.names, name)
		m.columns[name] = col
	}
	if cur.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes", cur.Len())
	}
	return m, nil
}

func decodeTimeColumn(cur *encoding.Cursor) (*TimeColumn, error) {
	raw, err := cur.Bytes()
	if err != nil {
		return nil, err
	}
	var epoch time.Time
	if err := epoch.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	raw, err = cur.Bytes()
	if err != nil {
		return nil, err
	}
	values, err := encoding.DecodeStrings(raw)
	if err != nil {
		return nil, err
	}
	return NewTimeColumn(values, epoch)
}

func decodeColumn(cur *encoding.Cursor) (*Column, error) {
	k, err := cur.Byte()
	if err != nil {
		return nil, err
	}
	kind := Kind(k)
	raw, err := cur.Bytes()
	if err != nil {
		return nil, err
	}

	var values []Value
	switch kind {
	case KindInt:
		ints, err := encoding.DecodeInts(raw)
		if err != nil {
			return nil, err
		}
		values = make([]Value, len(ints))
		for i, x := range ints {
			values[i] = IntValue(x)
		}
	case KindFloat:
		floats, err := encoding.DecodeFloats(raw)
		if err != nil {
			return nil, err
		}
		values = make([]Value, len(floats))
		for i, x := range floats {
			values[i] = FloatValue(x)
		}
	case KindBool:
		bools, err := encoding.DecodeBools(raw)
		if err != nil {
			return nil, err
		}
		values = make([]Value, len(bools))
		for i, x := range bools {
			values[i] = BoolValue(x)
		}
	case KindText:
		texts, err := encoding.DecodeStrings(raw)
		if err != nil {
			return nil, err
		}
		values = make([]Value, len(texts))
		for i, x := range texts {
			values[i] = TextValue(x)
		}
	case KindTime:
		secs, err := encoding.DecodeInts(raw)
		if err != nil {
			return nil, err
		}
		if raw, err = cur.Bytes(); err != nil {
			return nil, err
		}
		nanos, err := encoding.DecodeInts(raw)
		if err != nil {
			return nil, err
		}
		if len(nanos) != len(secs) {
			return nil, errors.New("instant parts differ in length")
		}
		values = make([]Value, len(secs))
		for i := range secs {
			values[i] = TimeValue(time.Unix(secs[i], nanos[i]).UTC())
		}
	default:
		return nil, fmt.Errorf("unknown kind %d", k)
	}
	return &Column{kind: kind, values: values}, nil
}
