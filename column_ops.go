package journal

import (
	"math"
	"strings"
)

// Op is an elementwise arithmetic operator.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	}
	return "?"
}

// Cmp is an elementwise comparison operator.
type Cmp uint8

const (
	CmpLt Cmp = iota
	CmpLe
	CmpGt
	CmpGe
	CmpEq
	CmpNe
)

func (c Cmp) String() string {
	switch c {
	case CmpLt:
		return "<"
	case CmpLe:
		return "<="
	case CmpGt:
		return ">"
	case CmpGe:
		return ">="
	case CmpEq:
		return "=="
	case CmpNe:
		return "!="
	}
	return "?"
}

// operand resolves the right-hand side of an elementwise operation against
// a column of length n.
func operand(other any, n int) (func(int) Value, error) {
	if isScalar(other) {
		v, err := ValueOf(other)
		if err != nil {
			return nil, err
		}
		return func(int) Value { return v }, nil
	}
	if _, ok := other.(*TimeColumn); ok {
		return nil, typeMismatch("a time column is not a valid operand")
	}
	values, err := materialize(other)
	if err != nil {
		return nil, err
	}
	if len(values) != n {
		return nil, &ShapeError{Want: n, Got: len(values), Reason: "operands could not be broadcast together"}
	}
	return func(i int) Value { return values[i] }, nil
}

// Apply returns c op other as a new mutable column.
func (c *Column) Apply(op Op, other any) (*Column, error) {
	return c.apply(op, other, false)
}

// ApplyReflected returns other op c as a new mutable column.
func (c *Column) ApplyReflected(op Op, other any) (*Column, error) {
	return c.apply(op, other, true)
}

func (c *Column) apply(op Op, other any, reflected bool) (*Column, error) {
	rhs, err := operand(other, len(c.values))
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(c.values))
	for i, v := range c.values {
		a, b := v, rhs(i)
		if reflected {
			a, b = b, a
		}
		if out[i], err = arith(op, a, b); err != nil {
			return nil, err
		}
	}
	return newColumn("", out), nil
}

// Add returns c + other.
func (c *Column) Add(other any) (*Column, error) { return c.Apply(OpAdd, other) }

// Sub returns c - other.
func (c *Column) Sub(other any) (*Column, error) { return c.Apply(OpSub, other) }

// Mul returns c * other.
func (c *Column) Mul(other any) (*Column, error) { return c.Apply(OpMul, other) }

// Div returns c / other. The result is always Float.
func (c *Column) Div(other any) (*Column, error) { return c.Apply(OpDiv, other) }

// FloorDiv returns the floored quotient of c and other.
func (c *Column) FloorDiv(other any) (*Column, error) { return c.Apply(OpFloorDiv, other) }

// Mod returns the floored remainder, which takes the sign of other.
func (c *Column) Mod(other any) (*Column, error) { return c.Apply(OpMod, other) }

// Pow returns c raised to other.
func (c *Column) Pow(other any) (*Column, error) { return c.Apply(OpPow, other) }

// DivMod returns FloorDiv and Mod together.
func (c *Column) DivMod(other any) (*Column, *Column, error) {
	q, err := c.FloorDiv(other)
	if err != nil {
		return nil, nil, err
	}
	r, err := c.Mod(other)
	if err != nil {
		return nil, nil, err
	}
	return q, r, nil
}

// RAdd returns other + c.
func (c *Column) RAdd(other any) (*Column, error) { return c.ApplyReflected(OpAdd, other) }

// RSub returns other - c.
func (c *Column) RSub(other any) (*Column, error) { return c.ApplyReflected(OpSub, other) }

// RMul returns other * c.
func (c *Column) RMul(other any) (*Column, error) { return c.ApplyReflected(OpMul, other) }

// RDiv returns other / c.
func (c *Column) RDiv(other any) (*Column, error) { return c.ApplyReflected(OpDiv, other) }

// RFloorDiv returns the floored quotient of other and c.
func (c *Column) RFloorDiv(other any) (*Column, error) {
	return c.ApplyReflected(OpFloorDiv, other)
}

// RMod returns other modulo c.
func (c *Column) RMod(other any) (*Column, error) { return c.ApplyReflected(OpMod, other) }

// RPow returns other raised to c.
func (c *Column) RPow(other any) (*Column, error) { return c.ApplyReflected(OpPow, other) }

// RDivMod returns RFloorDiv and RMod together.
func (c *Column) RDivMod(other any) (*Column, *Column, error) {
	q, err := c.RFloorDiv(other)
	if err != nil {
		return nil, nil, err
	}
	r, err := c.RMod(other)
	if err != nil {
		return nil, nil, err
	}
	return q, r, nil
}

func arith(op Op, a, b Value) (Value, error) {
	if !numericOrMissing(a.kind) || !numericOrMissing(b.kind) {
		return Value{}, typeMismatch("unsupported operand kinds for %s: %s and %s", op, a.kind, b.kind)
	}
	if a.kind == KindNull || b.kind == KindNull {
		return FloatValue(math.NaN()), nil
	}
	if a.kind != KindFloat && b.kind != KindFloat && op != OpDiv {
		return intArith(op, a.Int(), b.Int())
	}
	return FloatValue(floatArith(op, a.Float(), b.Float())), nil
}

func numericOrMissing(k Kind) bool {
	return k.IsNumeric() || k == KindNull
}

func intArith(op Op, x, y int64) (Value, error) {
	switch op {
	case OpAdd:
		return IntValue(x + y), nil
	case OpSub:
		return IntValue(x - y), nil
	case OpMul:
		return IntValue(x * y), nil
	case OpFloorDiv:
		if y == 0 {
			return IntValue(0), nil
		}
		q := x / y
		if x%y != 0 && (x < 0) != (y < 0) {
			q--
		}
		return IntValue(q), nil
	case OpMod:
		if y == 0 {
			return IntValue(0), nil
		}
		r := x % y
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return IntValue(r), nil
	case OpPow:
		if y < 0 {
			return Value{}, typeMismatch("integers to negative integer powers are not allowed")
		}
		result := int64(1)
		for base := x; y > 0; y >>= 1 {
			if y&1 == 1 {
				result *= base
			}
			base *= base
		}
		return IntValue(result), nil
	}
	return Value{}, typeMismatch("unsupported operator %s", op)
}

func floatArith(op Op, x, y float64) float64 {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		return x / y
	case OpFloorDiv:
		return math.Floor(x / y)
	case OpMod:
		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return r
	case OpPow:
		return math.Pow(x, y)
	}
	return math.NaN()
}

// Compare returns a Bool column holding c cmp other elementwise.
//
// Text compared with a number is never equal; ordering such pairs is a type
// mismatch. Missing and NaN compare false except for CmpNe.
func (c *Column) Compare(cmp Cmp, other any) (*Column, error) {
	rhs, err := operand(other, len(c.values))
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(c.values))
	for i, v := range c.values {
		ok, err := compareValues(cmp, v, rhs(i))
		if err != nil {
			return nil, err
		}
		out[i] = BoolValue(ok)
	}
	return &Column{kind: KindBool, values: out}, nil
}

// Lt returns c < other.
func (c *Column) Lt(other any) (*Column, error) { return c.Compare(CmpLt, other) }

// Le returns c <= other.
func (c *Column) Le(other any) (*Column, error) { return c.Compare(CmpLe, other) }

// Gt returns c > other.
func (c *Column) Gt(other any) (*Column, error) { return c.Compare(CmpGt, other) }

// Ge returns c >= other.
func (c *Column) Ge(other any) (*Column, error) { return c.Compare(CmpGe, other) }

// Eq returns c == other.
func (c *Column) Eq(other any) (*Column, error) { return c.Compare(CmpEq, other) }

// Ne returns c != other.
func (c *Column) Ne(other any) (*Column, error) { return c.Compare(CmpNe, other) }

func compareValues(cmp Cmp, a, b Value) (bool, error) {
	var order int
	switch {
	case a.IsMissing() || b.IsMissing():
		if numericOrMissing(a.kind) && numericOrMissing(b.kind) {
			return cmp == CmpNe, nil
		}
		return mixedCompare(cmp, a, b)
	case a.kind.IsNumeric() && b.kind.IsNumeric():
		if a.kind != KindFloat && b.kind != KindFloat {
			order = compareInts(a.Int(), b.Int())
		} else {
			order = compareFloats(a.Float(), b.Float())
		}
	case a.kind == KindText && b.kind == KindText:
		order = strings.Compare(a.s, b.s)
	case a.kind == KindTime && b.kind == KindTime:
		order = a.t.Compare(b.t)
	default:
		return mixedCompare(cmp, a, b)
	}

	switch cmp {
	case CmpLt:
		return order < 0, nil
	case CmpLe:
		return order <= 0, nil
	case CmpGt:
		return order > 0, nil
	case CmpGe:
		return order >= 0, nil
	case CmpEq:
		return order == 0, nil
	case CmpNe:
		return order != 0, nil
	}
	return false, typeMismatch("unsupported comparison %s", cmp)
}

func mixedCompare(cmp Cmp, a, b Value) (bool, error) {
	switch cmp {
	case CmpEq:
		return false, nil
	case CmpNe:
		return true, nil
	}
	return false, typeMismatch("cannot order %s against %s", a.kind, b.kind)
}

func compareInts(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func compareFloats(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
