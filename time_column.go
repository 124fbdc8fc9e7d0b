package journal

import (
	"strings"
	"time"
)

// TimeColumn holds instants as text. Every stored string parses as a
// calendar instant; time.Time inputs are stored in TimeLayout.
//
// The parsed instants are kept in a parallel slice rebuilt from the stored
// text whenever it changes, so derived views always agree with storage.
type TimeColumn struct {
	title    string
	values   []string
	instants []time.Time
	epoch    time.Time
}

// NewTimeColumn builds a TimeColumn from strings, time.Time values, Values,
// slices of those, another TimeColumn, or a Text or Time Column. An optional
// epoch replaces DefaultEpoch. Any element that does not parse aborts
// construction with a *ParseError.
func NewTimeColumn(input any, epoch ...time.Time) (*TimeColumn, error) {
	values, instants, err := normalizeInstants(input)
	if err != nil {
		return nil, err
	}
	tc := &TimeColumn{title: "time", values: values, instants: instants, epoch: DefaultEpoch}
	if src, ok := input.(*TimeColumn); ok {
		tc.epoch = src.epoch
	}
	if len(epoch) > 0 {
		tc.epoch = epoch[0]
	}
	return tc, nil
}

// MustTimeColumn is like NewTimeColumn but panics on error.
func MustTimeColumn(input any, epoch ...time.Time) *TimeColumn {
	tc, err := NewTimeColumn(input, epoch...)
	if err != nil {
		panic(err)
	}
	return tc
}

// Epoch returns the reference instant for TimeSinceEpoch.
func (tc *TimeColumn) Epoch() time.Time { return tc.epoch }

// SetEpoch replaces the reference instant.
func (tc *TimeColumn) SetEpoch(epoch time.Time) { tc.epoch = epoch }

// Len returns the number of instants.
func (tc *TimeColumn) Len() int { return len(tc.values) }

// Kind is always KindText: storage is textual.
func (tc *TimeColumn) Kind() Kind { return KindText }

// Title returns the display title, "time" by default.
func (tc *TimeColumn) Title() string { return tc.title }

// SetTitle replaces the display title.
func (tc *TimeColumn) SetTitle(title string) { tc.title = title }

// At returns the raw stored string at i as a Text value. Negative indices
// count from the end; out-of-range indices panic.
func (tc *TimeColumn) At(i int) Value {
	if i < 0 {
		i += len(tc.values)
	}
	return TextValue(tc.values[i])
}

// Strings returns a copy of the stored text.
func (tc *TimeColumn) Strings() []string {
	return append([]string(nil), tc.values...)
}

// Values returns the stored text as Text values.
func (tc *TimeColumn) Values() []Value {
	out := make([]Value, len(tc.values))
	for i, s := range tc.values {
		out[i] = TextValue(s)
	}
	return out
}

// Instants returns a copy of the parsed instants.
func (tc *TimeColumn) Instants() []time.Time {
	return append([]time.Time(nil), tc.instants...)
}

// Copy returns an independent TimeColumn with the same title and epoch.
func (tc *TimeColumn) Copy() *TimeColumn {
	return &TimeColumn{
		title:    tc.title,
		values:   append([]string(nil), tc.values...),
		instants: append([]time.Time(nil), tc.instants...),
		epoch:    tc.epoch,
	}
}

// Select returns a new TimeColumn holding the selected rows.
func (tc *TimeColumn) Select(sel Selector) (*TimeColumn, error) {
	pos, err := sel.resolve(len(tc.values))
	if err != nil {
		return nil, err
	}
	out := &TimeColumn{
		title:    tc.title,
		values:   make([]string, len(pos)),
		instants: make([]time.Time, len(pos)),
		epoch:    tc.epoch,
	}
	for i, p := range pos {
		out.values[i] = tc.values[p]
		out.instants[i] = tc.instants[p]
	}
	return out, nil
}

// Set validates v and stores it at row i.
func (tc *TimeColumn) Set(i int, v any) error {
	idx, err := normalizeIndex(i, len(tc.values))
	if err != nil {
		return err
	}
	s, t, err := normalizeInstant(v)
	if err != nil {
		return err
	}
	tc.values[idx] = s
	tc.instants[idx] = t
	return nil
}

// SetAt validates every incoming value before storing any of them. A
// single instant is broadcast over the selection.
func (tc *TimeColumn) SetAt(sel Selector, v any) error {
	pos, err := sel.resolve(len(tc.values))
	if err != nil {
		return err
	}
	values, instants, err := normalizeInstants(v)
	if err != nil {
		return err
	}
	if isInstantScalar(v) {
		values, instants = repeatInstant(values[0], instants[0], len(pos))
	}
	if len(values) != len(pos) {
		return &ShapeError{Want: len(pos), Got: len(values), Reason: "cannot assign instants to selection"}
	}
	for i, p := range pos {
		tc.values[p] = values[i]
		tc.instants[p] = instants[i]
	}
	return nil
}

// Append validates other completely, then grows the column.
func (tc *TimeColumn) Append(other any) error {
	values, instants, err := normalizeInstants(other)
	if err != nil {
		return err
	}
	tc.values = append(tc.values, values...)
	tc.instants = append(tc.instants, instants...)
	return nil
}

func isInstantScalar(v any) bool {
	switch v.(type) {
	case string, time.Time, Value:
		return true
	}
	return false
}

func repeatInstant(s string, t time.Time, n int) ([]string, []time.Time) {
	values := make([]string, n)
	instants := make([]time.Time, n)
	for i := range n {
		values[i] = s
		instants[i] = t
	}
	return values, instants
}

func (tc *TimeColumn) String() string {
	return tc.title + ": [" + strings.Join(tc.values, ", ") + "]"
}

// Equal reports whether both columns denote the same instants in order.
func (tc *TimeColumn) Equal(other *TimeColumn) bool {
	if other == nil || len(tc.instants) != len(other.instants) {
		return false
	}
	for i, t := range tc.instants {
		if !t.Equal(other.instants[i]) {
			return false
		}
	}
	return true
}

// MaxLength returns the widest stored string.
func (tc *TimeColumn) MaxLength() int {
	width := 0
	for _, s := range tc.values {
		width = max(width, len(s))
	}
	return width
}

func (tc *TimeColumn) cloneSeries() Series { return tc.Copy() }

func (tc *TimeColumn) selectSeries(sel Selector) (Series, error) {
	return tc.Select(sel)
}

func (tc *TimeColumn) prepareAppend(other Series) (func(), error) {
	values, instants, err := normalizeInstants(other)
	if err != nil {
		return nil, err
	}
	return func() {
		tc.values = append(tc.values, values...)
		tc.instants = append(tc.instants, instants...)
	}, nil
}

func (tc *TimeColumn) equalSeries(other Series) bool {
	ot, ok := other.(*TimeColumn)
	return ok && tc.Equal(ot)
}
