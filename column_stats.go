package journal

import "slices"

// Min returns the smallest element. Missing values are not skipped: a
// leading NaN is returned as is and later ones never replace the result.
func (c *Column) Min() (Value, error) {
	return c.extreme(CmpLt)
}

// Max returns the largest element, with the same NaN handling as Min.
func (c *Column) Max() (Value, error) {
	return c.extreme(CmpGt)
}

func (c *Column) extreme(cmp Cmp) (Value, error) {
	if !c.kind.IsNumeric() && c.kind != KindTime {
		return Value{}, typeMismatch("no extremes for %s column", c.kind)
	}
	if len(c.values) == 0 {
		return Value{}, ErrEmptyColumn
	}
	best := c.values[0]
	for _, v := range c.values[1:] {
		if better, _ := compareValues(cmp, v, best); better {
			best = v
		}
	}
	return best, nil
}

// Sum adds the non-missing elements. An empty column sums to 0.
func (c *Column) Sum() (float64, error) {
	if !c.kind.IsNumeric() {
		return 0, typeMismatch("cannot sum %s column", c.kind)
	}
	var total float64
	for _, v := range c.values {
		if !v.IsMissing() {
			total += v.Float()
		}
	}
	return total, nil
}

// Mean returns the sum divided by the number of non-missing elements.
func (c *Column) Mean() (float64, error) {
	total, err := c.Sum()
	if err != nil {
		return 0, err
	}
	n := c.countPresent()
	if n == 0 {
		return 0, ErrEmptyColumn
	}
	return total / float64(n), nil
}

// Median returns the median of the non-missing elements.
func (c *Column) Median() (float64, error) {
	if !c.kind.IsNumeric() {
		return 0, typeMismatch("no median for %s column", c.kind)
	}
	present := make([]float64, 0, len(c.values))
	for _, v := range c.values {
		if !v.IsMissing() {
			present = append(present, v.Float())
		}
	}
	if len(present) == 0 {
		return 0, ErrEmptyColumn
	}
	slices.Sort(present)
	mid := len(present) / 2
	if len(present)%2 == 1 {
		return present[mid], nil
	}
	return (present[mid-1] + present[mid]) / 2, nil
}

func (c *Column) countPresent() int {
	n := 0
	for _, v := range c.values {
		if !v.IsMissing() {
			n++
		}
	}
	return n
}

// All reports whether every element is truthy. It is true for an empty
// column.
func (c *Column) All() bool {
	for _, v := range c.values {
		if !v.Bool() {
			return false
		}
	}
	return true
}

// Any reports whether at least one element is truthy.
func (c *Column) Any() bool {
	return slices.ContainsFunc(c.values, Value.Bool)
}

// NonMissing returns a read-only column without the missing elements.
func (c *Column) NonMissing() *Column {
	out := make([]Value, 0, len(c.values))
	for _, v := range c.values {
		if !v.IsMissing() {
			out = append(out, v)
		}
	}
	view := newView(c.kind, out)
	view.title = c.title
	return view
}

// Map applies fn to every element and infers the kind of the results.
func (c *Column) Map(fn func(Value) Value) *Column {
	out := make([]Value, len(c.values))
	for i, v := range c.values {
		out[i] = fn(v)
	}
	return newColumn(c.title, out)
}
