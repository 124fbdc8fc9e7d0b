package journal

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is a tagged scalar held by a Column.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	t    time.Time
}

// Missing is the sentinel used to pad short columns when a row is
// materialized.
var Missing = Value{kind: KindNull, f: math.NaN()}

// IntValue returns an Int value.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue returns a Float value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// TextValue returns a Text value.
func TextValue(s string) Value { return Value{kind: KindText, s: s} }

// BoolValue returns a Bool value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// TimeValue returns a Time value.
func TimeValue(t time.Time) Value { return Value{kind: KindTime, t: t} }

// ValueOf boxes a Go scalar. Unsupported types return ErrTypeMismatch.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Missing, nil
	case Value:
		return v, nil
	case bool:
		return BoolValue(v), nil
	case int:
		return IntValue(int64(v)), nil
	case int8:
		return IntValue(int64(v)), nil
	case int16:
		return IntValue(int64(v)), nil
	case int32:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case uint:
		return IntValue(int64(v)), nil
	case uint8:
		return IntValue(int64(v)), nil
	case uint16:
		return IntValue(int64(v)), nil
	case uint32:
		return IntValue(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return FloatValue(float64(v)), nil
		}
		return IntValue(int64(v)), nil
	case float32:
		return FloatValue(float64(v)), nil
	case float64:
		return FloatValue(v), nil
	case string:
		return TextValue(v), nil
	case time.Time:
		return TimeValue(v), nil
	}
	return Value{}, typeMismatch("unsupported scalar %T", x)
}

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the Missing sentinel or a NaN float.
func (v Value) IsMissing() bool {
	return v.kind == KindNull || (v.kind == KindFloat && math.IsNaN(v.f))
}

// Int returns the value as an integer; floats are truncated.
func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return int64(v.f)
	case KindBool:
		if v.b {
			return 1
		}
	}
	return 0
}

// Float returns the value as a float; non-numeric values give NaN.
func (v Value) Float() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	}
	return math.NaN()
}

// Bool returns the truth value of v.
func (v Value) Bool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindText:
		return v.s != ""
	case KindTime:
		return !v.t.IsZero()
	}
	return false
}

// Text returns the textual form of v.
func (v Value) Text() string { return v.String() }

// Time returns the instant held by a Time value.
func (v Value) Time() time.Time { return v.t }

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindText:
		return v.s
	case KindTime:
		return v.t.Format(TimeLayout)
	}
	return "nan"
}

// Equal reports whether two values hold the same kind and payload.
// Missing equals Missing.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindBool:
		return v.b == o.b
	case KindText:
		return v.s == o.s
	case KindTime:
		return v.t.Equal(o.t)
	}
	return true
}

// convert casts v into kind k without changing k. It is used both for
// widening (which never fails) and for indexed assignment.
func convert(v Value, k Kind) (Value, error) {
	if v.kind == k {
		return v, nil
	}
	switch k {
	case KindBool:
		switch v.kind {
		case KindInt, KindFloat:
			return BoolValue(v.Bool()), nil
		}
	case KindInt:
		switch v.kind {
		case KindBool:
			return IntValue(v.Int()), nil
		case KindFloat:
			if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
				return Value{}, typeMismatch("cannot convert %s to int", formatFloat(v.f))
			}
			return IntValue(int64(v.f)), nil
		case KindText:
			parsed := ParseToken(v.s)
			if parsed.kind == KindInt || parsed.kind == KindFloat {
				return convert(parsed, KindInt)
			}
		}
	case KindFloat:
		switch v.kind {
		case KindNull:
			return FloatValue(math.NaN()), nil
		case KindBool, KindInt:
			return FloatValue(v.Float()), nil
		case KindText:
			parsed := ParseToken(v.s)
			if parsed.kind == KindInt || parsed.kind == KindFloat {
				return FloatValue(parsed.Float()), nil
			}
		}
	case KindText:
		return TextValue(v.String()), nil
	case KindTime:
		if v.kind == KindText {
			t, err := parseInstant(v.s)
			if err != nil {
				return Value{}, err
			}
			return TimeValue(t), nil
		}
	}
	return Value{}, typeMismatch("cannot convert %s value %q to %s", v.kind, v.String(), k)
}

// formatFloat renders floats the way they read back: shortest round-trip
// digits, always with a decimal point or exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
