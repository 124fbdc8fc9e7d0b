package journal

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-db/journal/internal/testutil"
)

func quietCSV() *CSVOptions {
	opts := DefaultCSVOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func TestReadCSVRoundTrip(t *testing.T) {
	path := testutil.WriteFile(t, "weather.csv", "time,hum,status\n2015-01-01,10,ok\n2015-01-02,12,bad\n")

	m, err := ReadCSV(path, quietCSV())
	require.NoError(t, err)

	rows, cols := m.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.ElementsMatch(t, []string{"time", "hum", "status"}, m.Names())

	hum, err := m.Column("hum")
	require.NoError(t, err)
	ints, err := hum.Ints()
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 12}, ints)

	status, err := m.Column("status")
	require.NoError(t, err)
	texts, err := status.Texts()
	require.NoError(t, err)
	assert.Equal(t, []string{"ok", "bad"}, texts)

	tc, err := m.TimeColumn()
	require.NoError(t, err)
	assert.Equal(t, []string{"2015-01-01", "2015-01-02"}, tc.Strings())
}

func TestReadCSVInference(t *testing.T) {
	input := "Time,a,b,c\n\n2015-01-01,1,2.5,x\n2015-01-02,1.5,3,4\n2015-01-03,x,nan,5\n"
	m, err := ReadCSVFrom(strings.NewReader(input), quietCSV())
	require.NoError(t, err)

	assert.True(t, m.Has(TimeName), "a time header in any case becomes the time column")

	kinds := map[string]Kind{}
	for _, name := range []string{"a", "b", "c"} {
		col, err := m.Column(name)
		require.NoError(t, err)
		kinds[name] = col.Kind()
	}
	assert.Equal(t, map[string]Kind{"a": KindText, "b": KindFloat, "c": KindText}, kinds)

	a, _ := m.Column("a")
	texts, _ := a.Texts()
	assert.Equal(t, []string{"1.0", "1.5", "x"}, texts, "earlier rows are widened through float")
}

func TestReadCSVSkipsMismatchedRows(t *testing.T) {
	var logs bytes.Buffer
	opts := DefaultCSVOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	input := "time,hum\n2015-01-01\n2015-01-02,10\n2015-01-03,11,extra\n2015-01-04,12\n"
	m, stats, err := readCSV(strings.NewReader(input), opts)
	require.NoError(t, err)

	assert.Equal(t, CSVStats{Rows: 2, Skipped: 2}, stats)
	assert.Equal(t, 2, m.NumRows())
	assert.Equal(t, 2, strings.Count(logs.String(), "line ignored"))
	assert.Contains(t, logs.String(), "line=2")
}

func TestReadCSVTimeParseIsFatal(t *testing.T) {
	_, err := ReadCSVFrom(strings.NewReader("time,v\n2015-01-01,1\nsoon,2\n"), quietCSV())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "line 3")
}

func TestReadCSVWithoutHeader(t *testing.T) {
	opts := quietCSV()
	opts.Header = false
	m, err := ReadCSVFrom(strings.NewReader("1,2,3\n4,5,6\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, m.Names())

	opts.Names = []string{"x", "y", "z"}
	m, err = ReadCSVFrom(strings.NewReader("1,2,3\n4,5\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, m.Names())
	assert.Equal(t, 1, m.NumRows())
}

func TestReadCSVOptions(t *testing.T) {
	opts := quietCSV()
	opts.Delimiter = ';'
	opts.SkipLines = 2
	input := "#time;'temp'\ndate;celsius\n\n# firmware 1.2;\n2015-01-01 10:00;21.5\n"

	m, err := ReadCSVFrom(strings.NewReader(input), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "temp"}, m.Names())
	assert.Equal(t, 1, m.NumRows())

	temp, err := m.Column("temp")
	require.NoError(t, err)
	assert.Equal(t, FloatValue(21.5), temp.At(0))
}

func TestReadCSVSkipLinesFollowHeader(t *testing.T) {
	opts := quietCSV()
	opts.SkipLines = 1
	m, err := ReadCSVFrom(strings.NewReader("time,temp\ndate,celsius\n2015-01-01,21\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "temp"}, m.Names())
	assert.Equal(t, 1, m.NumRows())

	opts.Header = false
	m, err = ReadCSVFrom(strings.NewReader("units,units\n1,2\n3,4\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, m.Names())
	a, err := m.Column("A")
	require.NoError(t, err)
	ints, err := a.Ints()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ints)
}

func TestReadCSVEmpty(t *testing.T) {
	for name, input := range map[string]string{
		"nothing":     "",
		"header only": "a,b\n",
		"skipped":     "a,b\n1\n",
	} {
		t.Run(name, func(t *testing.T) {
			m, err := ReadCSVFrom(strings.NewReader(input), quietCSV())
			require.NoError(t, err)
			assert.Equal(t, 0, m.NumCols())
		})
	}
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadHeader(t *testing.T) {
	path := testutil.WriteFile(t, "h.csv", "\n# time , \"hum\",wind\n1,2,3\n")
	header, err := ReadHeader(path, ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "hum", "wind"}, header)

	empty := testutil.WriteFile(t, "empty.csv", "")
	header, err = ReadHeader(empty, ',')
	require.NoError(t, err)
	assert.Nil(t, header)
}

func TestWriteCSV(t *testing.T) {
	src := "time,hum,status\n2015-01-01,10,ok\n2015-01-02,12,bad\n"
	m, err := ReadCSVFrom(strings.NewReader(src), quietCSV())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, m, 0))
	assert.Equal(t, src, buf.String())

	back, err := ReadCSVFrom(&buf, quietCSV())
	require.NoError(t, err)
	assert.True(t, back.Equal(m))
}

func TestWriteCSVRagged(t *testing.T) {
	m := MustMatrix(map[string]any{
		"b": []int64{1, 2},
		"a": []string{"x"},
	})
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, m, '\t'))
	assert.Equal(t, "a\tb\nx\t1\n\t2\n", buf.String())
}
