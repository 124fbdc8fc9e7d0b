package journal

import (
	"strconv"
	"strings"
)

// Kind is the scalar kind stored by a column.
type Kind uint8

const (
	// KindNull is only carried by the Missing sentinel.
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	// KindTime holds parsed instants; it only appears in derived views.
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsNumeric reports whether arithmetic and numeric aggregates apply.
func (k Kind) IsNumeric() bool {
	return k == KindBool || k == KindInt || k == KindFloat
}

// Promote returns the narrowest kind able to hold values of both a and b.
//
// The numeric kinds widen Bool -> Int -> Float, anything mixed with Text is
// Text, and instants mixed with any other kind fall back to Text.
func Promote(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case a == KindNull:
		return b
	case b == KindNull:
		return a
	case a == KindTime || b == KindTime:
		return KindText
	case a == KindText || b == KindText:
		return KindText
	}
	if a > b {
		return a
	}
	return b
}

// InferKind decides the kind of a raw text token: integer first, then
// floating point, otherwise text.
func InferKind(token string) Kind {
	return ParseToken(token).Kind()
}

// ParseToken converts a raw token into an Int, Float or Text value.
func ParseToken(token string) Value {
	trimmed := strings.TrimSpace(token)
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return IntValue(i)
	}
	if isFloatToken(trimmed) {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return FloatValue(f)
		}
	}
	return TextValue(token)
}

// isFloatToken rejects the hexadecimal and underscore forms that
// strconv.ParseFloat accepts but plain decimal text never uses.
func isFloatToken(s string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	return !strings.Contains(lower, "0x") && !strings.Contains(lower, "_")
}
