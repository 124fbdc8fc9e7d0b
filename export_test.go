package journal

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportMatrix(t *testing.T) *Matrix {
	t.Helper()
	m, err := NewMatrix(map[string]any{
		"time":   []string{"2015-01-01", "2015-01-02", "2015-01-03"},
		"hum":    []any{21.5, nil, 23.0},
		"wind":   []int64{3, 5, 8},
		"status": []string{"ok", "bad"},
		"rain":   []bool{true, false, true},
	})
	require.NoError(t, err)
	return m
}

func TestToArrow(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	table, err := ToArrow(exportMatrix(t), mem)
	require.NoError(t, err)
	defer table.Release()

	assert.EqualValues(t, 3, table.NumRows())
	schema := table.Schema()
	var names []string
	for _, f := range schema.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"time", "hum", "rain", "status", "wind"}, names)

	assert.True(t, arrow.TypeEqual(TimestampType, schema.Field(0).Type))
	assert.Equal(t, arrow.FLOAT64, schema.Field(1).Type.ID())
	assert.Equal(t, arrow.BOOL, schema.Field(2).Type.ID())
	assert.Equal(t, arrow.STRING, schema.Field(3).Type.ID())
	assert.Equal(t, arrow.INT64, schema.Field(4).Type.ID())

	ts := table.Column(0).Data().Chunk(0).(*array.Timestamp)
	assert.Equal(t, time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC).UnixMicro(), int64(ts.Value(1)))

	hum := table.Column(1).Data().Chunk(0).(*array.Float64)
	assert.True(t, hum.IsNull(1), "missing floats become nulls")
	assert.Equal(t, 23.0, hum.Value(2))

	status := table.Column(3).Data().Chunk(0).(*array.String)
	assert.Equal(t, "bad", status.Value(1))
	assert.True(t, status.IsNull(2), "short columns are padded with nulls")
}

func TestToArrowEmpty(t *testing.T) {
	table, err := ToArrow(MustMatrix(nil), nil)
	require.NoError(t, err)
	defer table.Release()
	assert.EqualValues(t, 0, table.NumCols())
}

func TestWriteParquet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, exportMatrix(t)))

	pf, err := file.NewParquetReader(bytes.NewReader(buf.Bytes()), file.WithReadProps(&parquet.ReaderProperties{}))
	require.NoError(t, err)
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	require.NoError(t, err)
	table, err := reader.ReadTable(context.Background())
	require.NoError(t, err)
	defer table.Release()

	assert.EqualValues(t, 3, table.NumRows())
	assert.EqualValues(t, 5, table.NumCols())
	assert.Equal(t, "wind", table.Schema().Field(4).Name)

	wind := table.Column(4).Data().Chunk(0).(*array.Int64)
	assert.Equal(t, []int64{3, 5, 8}, wind.Int64Values())
}
