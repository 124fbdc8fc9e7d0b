package journal

import (
	"math"
	"reflect"
)

// Selector picks a subsequence of rows. Slice, Positions, Mask and *Column
// implement it.
type Selector interface {
	// resolve returns the selected positions for a sequence of length n.
	resolve(n int) ([]int, error)
}

// Open marks an omitted Slice bound.
const Open = math.MinInt

// Slice selects rows from Start (inclusive) to Stop (exclusive) by Step.
// Negative bounds count from the end, out-of-range bounds are clamped and
// a zero Step means 1.
type Slice struct {
	Start, Stop, Step int
}

// Rows returns the slice [start:stop].
func Rows(start, stop int) Slice { return Slice{Start: start, Stop: stop, Step: 1} }

// All returns the slice selecting every row.
func All() Slice { return Slice{Start: Open, Stop: Open, Step: 1} }

func (s Slice) resolve(n int) ([]int, error) {
	step := s.Step
	if step == 0 {
		step = 1
	}
	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}
	bound := func(v, def int) int {
		if v == Open {
			return def
		}
		if v < 0 {
			return max(v+n, lower)
		}
		return min(v, upper)
	}

	var start, stop int
	if step > 0 {
		start, stop = bound(s.Start, lower), bound(s.Stop, upper)
	} else {
		start, stop = bound(s.Start, upper), bound(s.Stop, lower)
	}

	var out []int
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return out, nil
}

// Positions selects rows by position, in order and with repeats. Negative
// positions count from the end.
type Positions []int

func (p Positions) resolve(n int) ([]int, error) {
	out := make([]int, len(p))
	for i, pos := range p {
		idx, err := normalizeIndex(pos, n)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// Mask selects the rows whose entry is true. Its length must match.
type Mask []bool

func (m Mask) resolve(n int) ([]int, error) {
	if len(m) != n {
		return nil, newIndexError("mask", "length %d does not match %d rows", len(m), n)
	}
	var out []int
	for i, keep := range m {
		if keep {
			out = append(out, i)
		}
	}
	return out, nil
}

// resolve lets a Bool column act as a Mask and an Int column as Positions.
func (c *Column) resolve(n int) ([]int, error) {
	switch c.kind {
	case KindBool:
		mask := make(Mask, len(c.values))
		for i, v := range c.values {
			mask[i] = v.b
		}
		return mask.resolve(n)
	case KindInt:
		pos := make(Positions, len(c.values))
		for i, v := range c.values {
			pos[i] = int(v.i)
		}
		return pos.resolve(n)
	}
	return nil, newIndexError(c.title, "%s column cannot index", c.kind)
}

// Select returns a new mutable column holding the selected rows. The title
// is kept unless sel is itself a titled column.
func (c *Column) Select(sel Selector) (*Column, error) {
	pos, err := sel.resolve(len(c.values))
	if err != nil {
		return nil, err
	}
	out := &Column{title: c.title, kind: c.kind, values: make([]Value, len(pos))}
	for i, p := range pos {
		out.values[i] = c.values[p]
	}
	if idx, ok := sel.(*Column); ok && idx.title != "" {
		out.title = idx.title
	}
	return out, nil
}

// Set stores v at row i, converted into the column's kind.
func (c *Column) Set(i int, v any) error {
	if c.readOnly {
		return ErrImmutableWrite
	}
	idx, err := normalizeIndex(i, len(c.values))
	if err != nil {
		return err
	}
	val, err := ValueOf(v)
	if err != nil {
		return err
	}
	conv, err := convert(val, c.kind)
	if err != nil {
		return err
	}
	c.values[idx] = conv
	return nil
}

// SetAt stores v at the selected rows. A scalar is broadcast; a slice or
// column must match the number of selected rows. Nothing is written unless
// every value converts.
func (c *Column) SetAt(sel Selector, v any) error {
	if c.readOnly {
		return ErrImmutableWrite
	}
	pos, err := sel.resolve(len(c.values))
	if err != nil {
		return err
	}
	src, err := materialize(v)
	if err != nil {
		return err
	}
	if isScalar(v) {
		src = repeatValue(src[0], len(pos))
	}
	if len(src) != len(pos) {
		return &ShapeError{Want: len(pos), Got: len(src), Reason: "cannot assign values to selection"}
	}
	conv := make([]Value, len(src))
	for i, val := range src {
		if conv[i], err = convert(val, c.kind); err != nil {
			return err
		}
	}
	for i, p := range pos {
		c.values[p] = conv[i]
	}
	return nil
}

// Append concatenates other and re-infers the kind, widening existing
// elements when needed.
func (c *Column) Append(other any) error {
	if c.readOnly {
		return ErrImmutableWrite
	}
	values, err := materialize(other)
	if err != nil {
		return err
	}
	c.appendValues(values)
	return nil
}

func (c *Column) appendValues(values []Value) {
	kind := inferKind(c.kind, values)
	if kind != c.kind {
		for i, v := range c.values {
			c.values[i] = widen(v, kind)
		}
		c.kind = kind
	}
	for _, v := range values {
		c.values = append(c.values, widen(v, kind))
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, Value:
		return true
	case *Column, *TimeColumn:
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k != reflect.Slice && k != reflect.Array
}

func repeatValue(v Value, n int) []Value {
	out := make([]Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}
