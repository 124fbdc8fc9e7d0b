package journal

import (
	"time"
)

// Compare compares the parsed instants with other elementwise. other may be
// a time.Time, a []time.Time, a *TimeColumn or a Time Column.
func (tc *TimeColumn) Compare(cmp Cmp, other any) (*Column, error) {
	switch v := other.(type) {
	case *TimeColumn:
		other = v.Date()
	case []time.Time:
		values := make([]Value, len(v))
		for i, t := range v {
			values[i] = TimeValue(t)
		}
		other = values
	}
	return tc.Date().Compare(cmp, other)
}

// Lt returns tc < other.
func (tc *TimeColumn) Lt(other any) (*Column, error) { return tc.Compare(CmpLt, other) }

// Le returns tc <= other.
func (tc *TimeColumn) Le(other any) (*Column, error) { return tc.Compare(CmpLe, other) }

// Gt returns tc > other.
func (tc *TimeColumn) Gt(other any) (*Column, error) { return tc.Compare(CmpGt, other) }

// Ge returns tc >= other.
func (tc *TimeColumn) Ge(other any) (*Column, error) { return tc.Compare(CmpGe, other) }

// Eq returns tc == other.
func (tc *TimeColumn) Eq(other any) (*Column, error) { return tc.Compare(CmpEq, other) }

// Ne returns tc != other.
func (tc *TimeColumn) Ne(other any) (*Column, error) { return tc.Compare(CmpNe, other) }

// Apply supports tc + duration, tc - duration and tc - instant. The first
// two return a *TimeColumn, the last a Float *Column of elapsed seconds.
// Any other combination is a type mismatch.
func (tc *TimeColumn) Apply(op Op, other any) (Series, error) {
	switch v := other.(type) {
	case time.Duration:
		switch op {
		case OpAdd:
			return tc.shifted(v)
		case OpSub:
			return tc.shifted(-v)
		}
	case time.Time:
		if op == OpSub {
			return tc.Since(v), nil
		}
	}
	return nil, typeMismatch("unsupported operand for time column %s: %T", op, other)
}

// ApplyReflected supports duration + tc only.
func (tc *TimeColumn) ApplyReflected(op Op, other any) (Series, error) {
	if d, ok := other.(time.Duration); ok && op == OpAdd {
		return tc.shifted(d)
	}
	return nil, typeMismatch("unsupported operand for time column %s: %T", op, other)
}

// Add returns tc shifted by a time.Duration.
func (tc *TimeColumn) Add(other any) (*TimeColumn, error) {
	d, ok := other.(time.Duration)
	if !ok {
		return nil, typeMismatch("cannot add %T to a time column", other)
	}
	return tc.Shift(d)
}

// Sub subtracts a time.Duration (giving a *TimeColumn) or a time.Time
// (giving elapsed seconds).
func (tc *TimeColumn) Sub(other any) (Series, error) {
	return tc.Apply(OpSub, other)
}

func (tc *TimeColumn) shifted(d time.Duration) (Series, error) {
	out, err := tc.Shift(d)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Shift returns a new TimeColumn with every instant moved by d. The result
// is stored in TimeLayout. An instant that no longer parses, such as a year
// past 9999, gives a *ParseError.
func (tc *TimeColumn) Shift(d time.Duration) (*TimeColumn, error) {
	out := &TimeColumn{
		title:    tc.title,
		values:   make([]string, len(tc.instants)),
		instants: make([]time.Time, len(tc.instants)),
		epoch:    tc.epoch,
	}
	for i, t := range tc.instants {
		s, parsed, err := normalizeTime(t.Add(d))
		if err != nil {
			return nil, err
		}
		out.values[i] = s
		out.instants[i] = parsed
	}
	return out, nil
}

// Since returns a mutable Float column with the seconds elapsed from t.
func (tc *TimeColumn) Since(t time.Time) *Column {
	out := make([]Value, len(tc.instants))
	for i, inst := range tc.instants {
		out[i] = FloatValue(inst.Sub(t).Seconds())
	}
	return &Column{kind: KindFloat, values: out}
}

// Sum is never defined for instants.
func (tc *TimeColumn) Sum() (float64, error) {
	return 0, typeMismatch("cannot sum instants")
}

// Min returns the earliest instant.
func (tc *TimeColumn) Min() (time.Time, error) {
	return tc.extreme(CmpLt)
}

// Max returns the latest instant.
func (tc *TimeColumn) Max() (time.Time, error) {
	return tc.extreme(CmpGt)
}

func (tc *TimeColumn) extreme(cmp Cmp) (time.Time, error) {
	v, err := tc.Date().extreme(cmp)
	if err != nil {
		return time.Time{}, err
	}
	return v.Time(), nil
}

// Mean returns the average instant, computed on seconds since the epoch.
func (tc *TimeColumn) Mean() (time.Time, error) {
	s, err := tc.TimeSinceEpoch().Mean()
	if err != nil {
		return time.Time{}, err
	}
	return tc.FromEpoch(s), nil
}

// Median returns the median instant, computed on seconds since the epoch.
func (tc *TimeColumn) Median() (time.Time, error) {
	s, err := tc.TimeSinceEpoch().Median()
	if err != nil {
		return time.Time{}, err
	}
	return tc.FromEpoch(s), nil
}
