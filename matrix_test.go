package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherMatrix(t *testing.T) *Matrix {
	t.Helper()
	m, err := NewMatrix(map[string]any{
		"time": []string{"2015-01-01", "2015-01-02", "2015-01-03"},
		"hum":  []float64{21.5, 22, 23.25},
		"wind": []int64{3, 5, 8},
	})
	require.NoError(t, err)
	return m
}

func TestNewMatrixFromMap(t *testing.T) {
	m := weatherMatrix(t)

	assert.Equal(t, []string{"hum", "time", "wind"}, m.Names())
	rows, cols := m.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)

	tc, err := m.TimeColumn()
	require.NoError(t, err)
	assert.Equal(t, TimeName, tc.Title())

	hum, err := m.Column("hum")
	require.NoError(t, err)
	assert.Equal(t, "hum", hum.Title())
	assert.Equal(t, KindFloat, hum.Kind())

	_, err = m.Column(TimeName)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestNewMatrixPositional(t *testing.T) {
	m, err := NewMatrix([]any{IntColumn("", 1, 2), []string{"a", "b"}, FloatColumn("temp", 1.5)})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "temp"}, m.Names())

	named, err := NewMatrix([]*Column{IntColumn("x", 1), IntColumn("y", 2)}, "left", "right")
	require.NoError(t, err)
	assert.Equal(t, []string{"left", "right"}, named.Names())

	_, err = NewMatrix([]*Column{IntColumn("", 1)}, "a", "b")
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = NewMatrix([]*Column{IntColumn("", 1), IntColumn("", 2)}, "a", "a")
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = NewMatrix(map[int]any{1: 2})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestNewMatrixSingle(t *testing.T) {
	empty, err := NewMatrix(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NumCols())
	assert.Equal(t, 0, empty.NumRows())

	single := MustMatrix(IntColumn("n", 1, 2, 3))
	assert.Equal(t, []string{"n"}, single.Names())

	scalar := MustMatrix(42)
	assert.Equal(t, []string{"A"}, scalar.Names())
	assert.Equal(t, 1, scalar.NumRows())

	cp := MustMatrix(single)
	assert.True(t, cp.Equal(single))
}

func TestMatrixClonesInputs(t *testing.T) {
	src := IntColumn("n", 1, 2)
	m := MustMatrix([]*Column{src})
	require.NoError(t, src.Set(0, 99))

	got, err := m.Column("n")
	require.NoError(t, err)
	assert.Equal(t, IntValue(1), got.At(0))
}

func TestMatrixRaggedRows(t *testing.T) {
	m := MustMatrix(map[string]any{
		"long":  []int64{1, 2, 3},
		"short": []int64{7},
	})
	assert.Equal(t, 3, m.NumRows())

	row, err := m.Row(-1)
	require.NoError(t, err)
	assert.Equal(t, IntValue(3), row["long"])
	assert.True(t, row["short"].IsMissing())

	_, err = m.Row(3)
	assert.ErrorIs(t, err, ErrIndexKind)

	var seen []int
	for i, row := range m.Rows() {
		seen = append(seen, i)
		assert.Len(t, row, 2)
	}
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestMatrixIndex(t *testing.T) {
	m := weatherMatrix(t)

	got, err := m.Index("hum")
	require.NoError(t, err)
	assert.IsType(t, &Column{}, got)

	got, err = m.Index(1)
	require.NoError(t, err)
	assert.Equal(t, IntValue(5), got.(Row)["wind"])

	got, err = m.Index(Rows(0, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, got.(*Matrix).NumRows())

	_, err = m.Index(1.5)
	assert.ErrorIs(t, err, ErrIndexKind)

	_, err = m.Index("missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestMatrixSelectByMask(t *testing.T) {
	m := weatherMatrix(t)
	wind, err := m.Column("wind")
	require.NoError(t, err)

	windy, err := wind.Gt(4)
	require.NoError(t, err)

	sel, err := m.Select(windy)
	require.NoError(t, err)
	assert.Equal(t, m.Names(), sel.Names())

	tc, err := sel.TimeColumn()
	require.NoError(t, err)
	assert.Equal(t, []string{"2015-01-02", "2015-01-03"}, tc.Strings())

	_, err = m.Select(Mask{true})
	assert.ErrorIs(t, err, ErrIndexKind)
}

func TestMatrixSet(t *testing.T) {
	m := weatherMatrix(t)

	require.NoError(t, m.Set("rain", []bool{false, true, false}))
	assert.Equal(t, []string{"hum", "time", "wind", "rain"}, m.Names())
	rain, err := m.Column("rain")
	require.NoError(t, err)
	assert.Equal(t, "rain", rain.Title())

	require.NoError(t, m.Set("hum", IntColumn("other", 1)))
	assert.Equal(t, 4, m.NumCols(), "replacing keeps the position")
	hum, _ := m.Column("hum")
	assert.Equal(t, "hum", hum.Title())

	require.NoError(t, m.Set(TimeName, []string{"2016-01-01"}))
	tc, err := m.TimeColumn()
	require.NoError(t, err)
	assert.Equal(t, 1, tc.Len())

	assert.ErrorIs(t, m.Set(TimeName, IntColumn("", 1)), ErrTypeMismatch)
	assert.ErrorIs(t, m.Set(TimeName, []string{"not a date"}), ErrParse)
	assert.ErrorIs(t, m.Set(0, IntColumn("", 1)), ErrIndexKind)
}

func TestMatrixDelete(t *testing.T) {
	m := weatherMatrix(t)
	require.NoError(t, m.Delete("hum"))
	assert.Equal(t, []string{"time", "wind"}, m.Names())
	assert.False(t, m.Has("hum"))
	assert.ErrorIs(t, m.Delete("hum"), ErrUnknownColumn)
}

func TestMatrixEqual(t *testing.T) {
	a := weatherMatrix(t)
	b := weatherMatrix(t)
	assert.True(t, a.Equal(b))

	reordered := MustMatrix([]any{
		MustColumn([]int64{3, 5, 8}, ""),
		[]float64{21.5, 22, 23.25},
		MustTimeColumn([]string{"2015-01-01", "2015-01-02", "2015-01-03"}),
	}, "wind", "hum", "time")
	assert.True(t, a.Equal(reordered))

	require.NoError(t, b.Set("wind", []int64{3, 5, 9}))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestMatrixAppend(t *testing.T) {
	m := weatherMatrix(t)
	more := MustMatrix(map[string]any{
		"time": []string{"2015-01-04"},
		"hum":  []int64{24},
		"wind": []float64{2.5},
	})

	require.NoError(t, m.Append(more))
	assert.Equal(t, 4, m.NumRows())

	wind, _ := m.Column("wind")
	assert.Equal(t, KindFloat, wind.Kind(), "appending floats widens the column")
	assert.Equal(t, FloatValue(2.5), wind.At(-1))
}

func TestMatrixAppendErrors(t *testing.T) {
	m := weatherMatrix(t)

	other := MustMatrix(map[string]any{"hum": []float64{1}})
	assert.ErrorIs(t, m.Append(other), ErrShapeMismatch)
	assert.ErrorIs(t, m.Append(nil), ErrTypeMismatch)

	// A failing column leaves every column untouched.
	a := MustMatrix([]any{IntColumn("", 1), MustTimeColumn([]string{"2015-01-01"})}, "n", "when")
	b := MustMatrix([]any{IntColumn("", 2), IntColumn("", 5)}, "n", "when")
	assert.ErrorIs(t, a.Append(b), ErrParse)
	n, _ := a.Column("n")
	assert.Equal(t, 1, n.Len())
}

func TestMatrixCopy(t *testing.T) {
	m := weatherMatrix(t)
	cp := m.Copy()
	require.True(t, cp.Equal(m))

	wind, _ := cp.Column("wind")
	require.NoError(t, wind.Set(0, 100))
	assert.False(t, cp.Equal(m))
}
