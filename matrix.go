package journal

import (
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"
)

// TimeName is the reserved column name that always holds a *TimeColumn.
const TimeName = "time"

// Row is one materialized matrix row keyed by column name. Columns shorter
// than the row index contribute Missing.
type Row map[string]Value

// Matrix maps unique column names to columns. Columns may have different
// lengths; the number of rows is the longest one.
//
// Columns are cloned when inserted, so a Matrix never shares storage with
// its inputs. Get returns the stored column itself.
type Matrix struct {
	names   []string
	columns map[string]Series
}

// NewMatrix builds a Matrix.
//
// input may be nil, a map from name to column or raw values (inserted in
// sorted key order), a slice of columns or raw values, a single Series, or a
// scalar. Positional columns are named from names, then their title, then
// LetterName of their position. Names are ignored for map input.
func NewMatrix(input any, names ...string) (*Matrix, error) {
	m := &Matrix{columns: make(map[string]Series)}
	switch v := input.(type) {
	case nil:
		return m, nil
	case *Matrix:
		return v.Copy(), nil
	case Series:
		return m, m.insertPositional([]any{v}, names)
	case string:
		return m, m.insertPositional([]any{v}, names)
	}

	rv := reflect.ValueOf(input)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, typeMismatch("matrix keys must be strings, got %s", rv.Type().Key())
		}
		entries := make(map[string]any, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			entries[it.Key().String()] = it.Value().Interface()
		}
		for _, name := range slices.Sorted(maps.Keys(entries)) {
			if err := m.insert(name, entries[name]); err != nil {
				return nil, err
			}
		}
		return m, nil
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return m, m.insertPositional(items, names)
	}
	return m, m.insertPositional([]any{input}, names)
}

// MustMatrix is like NewMatrix but panics on error.
func MustMatrix(input any, names ...string) *Matrix {
	m, err := NewMatrix(input, names...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Matrix) insertPositional(items []any, names []string) error {
	if len(names) > 0 && len(names) != len(items) {
		return &ShapeError{Want: len(items), Got: len(names), Reason: "number of names does not match number of columns"}
	}
	for j, item := range items {
		name := ""
		if len(names) > 0 {
			name = names[j]
		}
		if name == "" {
			if s, ok := item.(Series); ok {
				name = s.Title()
			}
		}
		if name == "" {
			name = LetterName(j)
		}
		if m.Has(name) {
			return &ShapeError{Reason: fmt.Sprintf("duplicate column name %q", name)}
		}
		if err := m.insert(name, item); err != nil {
			return err
		}
	}
	return nil
}

// insert stores a clone of value under name, converting raw values into a
// Column, or a TimeColumn for the time name.
func (m *Matrix) insert(name string, value any) error {
	col, err := toSeries(name, value)
	if err != nil {
		return err
	}
	if _, ok := m.columns[name]; !ok {
		m.names = append(m.names, name)
	}
	m.columns[name] = col
	return nil
}

func toSeries(name string, value any) (Series, error) {
	var col Series
	switch v := value.(type) {
	case *TimeColumn:
		col = v.Copy()
	case *Column:
		if name == TimeName {
			tc, err := NewTimeColumn(v)
			if err != nil {
				return nil, err
			}
			col = tc
		} else {
			col = v.Copy()
		}
	default:
		if name == TimeName {
			tc, err := NewTimeColumn(v)
			if err != nil {
				return nil, err
			}
			col = tc
		} else {
			c, err := NewColumn(v, name)
			if err != nil {
				return nil, err
			}
			col = c
		}
	}
	col.SetTitle(name)
	return col, nil
}

// Shape returns the number of rows and columns.
func (m *Matrix) Shape() (rows, cols int) {
	return m.NumRows(), m.NumCols()
}

// NumRows returns the length of the longest column.
func (m *Matrix) NumRows() int {
	rows := 0
	for _, col := range m.columns {
		rows = max(rows, col.Len())
	}
	return rows
}

// NumCols returns the number of columns.
func (m *Matrix) NumCols() int { return len(m.columns) }

// Len returns the number of columns.
func (m *Matrix) Len() int { return len(m.columns) }

// Names returns the column names in insertion order.
func (m *Matrix) Names() []string {
	return append([]string(nil), m.names...)
}

// Has reports whether a column is named name.
func (m *Matrix) Has(name string) bool {
	_, ok := m.columns[name]
	return ok
}

// Index dispatches on key: a string returns the named Series, an int the
// Row at that position and a Selector a new Matrix of the selected rows.
func (m *Matrix) Index(key any) (any, error) {
	switch k := key.(type) {
	case string:
		return m.Get(k)
	case int:
		return m.Row(k)
	case Selector:
		return m.Select(k)
	}
	return nil, &IndexError{Key: key}
}

// Get returns the stored column named name. Mutating it mutates m.
func (m *Matrix) Get(name string) (Series, error) {
	col, ok := m.columns[name]
	if !ok {
		return nil, &ColumnError{Name: name}
	}
	return col, nil
}

// Column returns the stored *Column named name.
func (m *Matrix) Column(name string) (*Column, error) {
	s, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	c, ok := s.(*Column)
	if !ok {
		return nil, typeMismatch("column %q is a time column", name)
	}
	return c, nil
}

// TimeColumn returns the stored time column.
func (m *Matrix) TimeColumn() (*TimeColumn, error) {
	s, err := m.Get(TimeName)
	if err != nil {
		return nil, err
	}
	return s.(*TimeColumn), nil
}

// Row materializes row i; negative indices count from the end.
func (m *Matrix) Row(i int) (Row, error) {
	idx, err := normalizeIndex(i, m.NumRows())
	if err != nil {
		return nil, err
	}
	return m.row(idx), nil
}

func (m *Matrix) row(i int) Row {
	row := make(Row, len(m.columns))
	for name, col := range m.columns {
		if i < col.Len() {
			row[name] = col.At(i)
		} else {
			row[name] = Missing
		}
	}
	return row
}

// Rows iterates over materialized rows in order.
func (m *Matrix) Rows() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		n := m.NumRows()
		for i := range n {
			if !yield(i, m.row(i)) {
				return
			}
		}
	}
}

// Select returns a new Matrix holding the selected rows of every column.
func (m *Matrix) Select(sel Selector) (*Matrix, error) {
	out := &Matrix{names: m.Names(), columns: make(map[string]Series, len(m.columns))}
	for name, col := range m.columns {
		picked, err := col.selectSeries(sel)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		picked.SetTitle(name)
		out.columns[name] = picked
	}
	return out, nil
}

// Set stores a clone of value under key, which must be a string. The time
// column only accepts a *TimeColumn or raw instants.
func (m *Matrix) Set(key any, value any) error {
	name, ok := key.(string)
	if !ok {
		return newIndexError(key, "only column names can be assigned")
	}
	if name == TimeName {
		if _, ok := value.(*Column); ok {
			return typeMismatch("the time column must be a time column")
		}
	}
	return m.insert(name, value)
}

// Delete removes the named column.
func (m *Matrix) Delete(name string) error {
	if !m.Has(name) {
		return &ColumnError{Name: name}
	}
	delete(m.columns, name)
	m.names = slices.DeleteFunc(m.names, func(n string) bool { return n == name })
	return nil
}

// Equal reports whether both matrices have the same shape, the same set of
// names and elementwise equal columns. Name order is ignored.
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || m.NumCols() != other.NumCols() || m.NumRows() != other.NumRows() {
		return false
	}
	for name, col := range m.columns {
		oc, ok := other.columns[name]
		if !ok || !col.equalSeries(oc) {
			return false
		}
	}
	return true
}

// Append concatenates other's columns onto m's. Both must have the same
// set of names. Either every column grows or none does.
func (m *Matrix) Append(other *Matrix) error {
	if other == nil {
		return typeMismatch("cannot append a nil matrix")
	}
	if !sameNames(m, other) {
		return &ShapeError{Want: m.Names(), Got: other.Names(), Reason: "both matrices must have the same columns"}
	}
	commits := make([]func(), 0, len(m.columns))
	for name, col := range m.columns {
		commit, err := col.prepareAppend(other.columns[name])
		if err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		commits = append(commits, commit)
	}
	for _, commit := range commits {
		commit()
	}
	return nil
}

func sameNames(a, b *Matrix) bool {
	if len(a.columns) != len(b.columns) {
		return false
	}
	for name := range a.columns {
		if !b.Has(name) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy.
func (m *Matrix) Copy() *Matrix {
	out := &Matrix{names: m.Names(), columns: make(map[string]Series, len(m.columns))}
	for name, col := range m.columns {
		out.columns[name] = col.cloneSeries()
	}
	return out
}
