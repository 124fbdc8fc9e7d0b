package journal

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Column is an ordered sequence of scalars sharing one Kind, plus a display
// title. A read-only Column rejects Set, SetAt and Append.
//
// Column is not safe for concurrent mutation.
type Column struct {
	title    string
	kind     Kind
	values   []Value
	readOnly bool
}

// NewColumn builds a column from input and infers its kind.
//
// nil gives an empty Float column, a string gives a single Text element,
// slices, arrays, *Column and *TimeColumn are inferred element by element,
// and any other scalar becomes a one-element column.
func NewColumn(input any, title string) (*Column, error) {
	values, err := materialize(input)
	if err != nil {
		return nil, err
	}
	return newColumn(title, values), nil
}

// MustColumn is like NewColumn but panics on error.
func MustColumn(input any, title string) *Column {
	c, err := NewColumn(input, title)
	if err != nil {
		panic(err)
	}
	return c
}

// IntColumn returns an Int column.
func IntColumn(title string, values ...int64) *Column {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = IntValue(v)
	}
	return &Column{title: title, kind: KindInt, values: out}
}

// FloatColumn returns a Float column.
func FloatColumn(title string, values ...float64) *Column {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = FloatValue(v)
	}
	return &Column{title: title, kind: KindFloat, values: out}
}

// TextColumn returns a Text column.
func TextColumn(title string, values ...string) *Column {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = TextValue(v)
	}
	return &Column{title: title, kind: KindText, values: out}
}

// BoolColumn returns a Bool column.
func BoolColumn(title string, values ...bool) *Column {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = BoolValue(v)
	}
	return &Column{title: title, kind: KindBool, values: out}
}

func newColumn(title string, values []Value) *Column {
	kind := inferKind(KindNull, values)
	for i, v := range values {
		values[i] = widen(v, kind)
	}
	return &Column{title: title, kind: kind, values: values}
}

// newView wraps freshly computed values in a read-only column.
func newView(kind Kind, values []Value) *Column {
	return &Column{kind: kind, values: values, readOnly: true}
}

// materialize flattens constructor and append inputs into boxed values.
func materialize(input any) ([]Value, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case string:
		return []Value{TextValue(v)}, nil
	case *Column:
		return append([]Value(nil), v.values...), nil
	case *TimeColumn:
		return v.Values(), nil
	case []Value:
		return append([]Value(nil), v...), nil
	case Value, time.Time:
		val, err := ValueOf(v)
		if err != nil {
			return nil, err
		}
		return []Value{val}, nil
	}

	rv := reflect.ValueOf(input)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]Value, rv.Len())
		for i := range out {
			val, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = val
		}
		return out, nil
	}

	val, err := ValueOf(input)
	if err != nil {
		return nil, err
	}
	return []Value{val}, nil
}

// inferKind joins start with the kinds of values. Missing entries force a
// kind able to represent them.
func inferKind(start Kind, values []Value) Kind {
	kind := start
	hasMissing := false
	for _, v := range values {
		if v.kind == KindNull {
			hasMissing = true
			continue
		}
		kind = Promote(kind, v.kind)
	}
	if hasMissing {
		switch kind {
		case KindBool, KindInt:
			kind = KindFloat
		case KindTime:
			kind = KindText
		}
	}
	if kind == KindNull {
		kind = KindFloat
	}
	return kind
}

// widen converts v to a kind produced by inferKind, which always succeeds.
func widen(v Value, kind Kind) Value {
	w, err := convert(v, kind)
	if err != nil {
		panic(fmt.Sprintf("journal: widening %s to %s: %v", v.kind, kind, err))
	}
	return w
}

// Len returns the number of elements.
func (c *Column) Len() int { return len(c.values) }

// Kind returns the element kind.
func (c *Column) Kind() Kind { return c.kind }

// Title returns the display title.
func (c *Column) Title() string { return c.title }

// SetTitle replaces the display title. Titles stay settable on read-only
// columns.
func (c *Column) SetTitle(title string) { c.title = title }

// IsReadOnly reports whether mutation is rejected.
func (c *Column) IsReadOnly() bool { return c.readOnly }

// ReadOnly returns a read-only copy of c.
func (c *Column) ReadOnly() *Column {
	cp := c.Copy()
	cp.readOnly = true
	return cp
}

// Copy returns an independent mutable column with the same title and values.
func (c *Column) Copy() *Column {
	return &Column{
		title:  c.title,
		kind:   c.kind,
		values: append([]Value(nil), c.values...),
	}
}

// Values returns a copy of the elements.
func (c *Column) Values() []Value {
	return append([]Value(nil), c.values...)
}

// Ints returns the elements of an Int or Bool column.
func (c *Column) Ints() ([]int64, error) {
	if c.kind != KindInt && c.kind != KindBool {
		return nil, typeMismatch("%s column has no integer values", c.kind)
	}
	out := make([]int64, len(c.values))
	for i, v := range c.values {
		out[i] = v.Int()
	}
	return out, nil
}

// Floats returns the elements of a numeric column as float64.
func (c *Column) Floats() ([]float64, error) {
	if !c.kind.IsNumeric() {
		return nil, typeMismatch("%s column has no numeric values", c.kind)
	}
	out := make([]float64, len(c.values))
	for i, v := range c.values {
		out[i] = v.Float()
	}
	return out, nil
}

// Texts returns the elements of a Text column.
func (c *Column) Texts() ([]string, error) {
	if c.kind != KindText {
		return nil, typeMismatch("%s column has no text values", c.kind)
	}
	out := make([]string, len(c.values))
	for i, v := range c.values {
		out[i] = v.s
	}
	return out, nil
}

// Bools returns the elements of a Bool column.
func (c *Column) Bools() ([]bool, error) {
	if c.kind != KindBool {
		return nil, typeMismatch("%s column has no boolean values", c.kind)
	}
	out := make([]bool, len(c.values))
	for i, v := range c.values {
		out[i] = v.b
	}
	return out, nil
}

// Times returns the elements of a Time column.
func (c *Column) Times() ([]time.Time, error) {
	if c.kind != KindTime {
		return nil, typeMismatch("%s column has no instants", c.kind)
	}
	out := make([]time.Time, len(c.values))
	for i, v := range c.values {
		out[i] = v.t
	}
	return out, nil
}

// At returns element i; negative indices count from the end. It panics when
// i is out of range, like a slice index.
func (c *Column) At(i int) Value {
	if i < 0 {
		i += len(c.values)
	}
	return c.values[i]
}

func (c *Column) String() string {
	var b strings.Builder
	b.WriteString(c.title)
	b.WriteString(": [")
	for i, v := range c.values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Equal reports whether both columns have the same length and elementwise
// equal values. Numeric kinds compare by value, and NaN equals NaN. Titles
// are ignored.
func (c *Column) Equal(other *Column) bool {
	if other == nil || len(c.values) != len(other.values) {
		return false
	}
	for i := range c.values {
		if !sameValue(c.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

func sameValue(a, b Value) bool {
	if a.kind.IsNumeric() && b.kind.IsNumeric() {
		af, bf := a.Float(), b.Float()
		return af == bf || (af != af && bf != bf)
	}
	return a.Equal(b)
}

// MaxLength returns the display width needed for the column.
func (c *Column) MaxLength() int {
	switch {
	case c.kind == KindText:
		width := 0
		for _, v := range c.values {
			width = max(width, len(v.s))
		}
		return width
	case c.kind.IsNumeric():
		if len(c.values) == 0 {
			return 0
		}
		top := c.values[0]
		for _, v := range c.values[1:] {
			if v.Float() > top.Float() {
				top = v
			}
		}
		return len(top.String())
	case c.kind == KindTime && len(c.values) > 0:
		return len(TimeLayout)
	}
	return 12
}

func (c *Column) cloneSeries() Series { return c.Copy() }

func (c *Column) selectSeries(sel Selector) (Series, error) {
	return c.Select(sel)
}

func (c *Column) prepareAppend(other Series) (func(), error) {
	if c.readOnly {
		return nil, ErrImmutableWrite
	}
	values := other.Values()
	return func() { c.appendValues(values) }, nil
}

func (c *Column) equalSeries(other Series) bool {
	oc, ok := other.(*Column)
	return ok && c.Equal(oc)
}
