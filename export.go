package journal

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// TimestampType is the Arrow type used for instants.
var TimestampType = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

// ToArrow converts m into an Arrow table with columns in display order.
// Short columns and missing values become nulls. The caller must Release
// the table. A nil allocator uses memory.NewGoAllocator.
func ToArrow(m *Matrix, mem memory.Allocator) (arrow.Table, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	rows := m.NumRows()
	names := m.DisplayOrder()

	fields := make([]arrow.Field, 0, len(names))
	cols := make([]arrow.Column, 0, len(names))
	defer func() {
		for i := range cols {
			cols[i].Release()
		}
	}()

	for _, name := range names {
		arr, err := buildArrowArray(mem, m.columns[name], rows)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		field := arrow.Field{Name: name, Type: arr.DataType(), Nullable: true}
		chunked := arrow.NewChunked(arr.DataType(), []arrow.Array{arr})
		arr.Release()
		fields = append(fields, field)
		cols = append(cols, *arrow.NewColumn(field, chunked))
		chunked.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewTable(schema, cols, int64(rows)), nil
}

func buildArrowArray(mem memory.Allocator, s Series, rows int) (arrow.Array, error) {
	if tc, ok := s.(*TimeColumn); ok {
		b := array.NewTimestampBuilder(mem, TimestampType)
		defer b.Release()
		for _, t := range tc.instants {
			b.Append(arrow.Timestamp(t.UnixMicro()))
		}
		b.AppendNulls(rows - tc.Len())
		return b.NewArray(), nil
	}

	c := s.(*Column)
	var b array.Builder
	switch c.kind {
	case KindInt:
		ib := array.NewInt64Builder(mem)
		for _, v := range c.values {
			ib.Append(v.i)
		}
		b = ib
	case KindFloat:
		fb := array.NewFloat64Builder(mem)
		for _, v := range c.values {
			if v.IsMissing() {
				fb.AppendNull()
			} else {
				fb.Append(v.f)
			}
		}
		b = fb
	case KindText:
		sb := array.NewStringBuilder(mem)
		for _, v := range c.values {
			sb.Append(v.s)
		}
		b = sb
	case KindBool:
		bb := array.NewBooleanBuilder(mem)
		for _, v := range c.values {
			bb.Append(v.b)
		}
		b = bb
	case KindTime:
		tb := array.NewTimestampBuilder(mem, TimestampType)
		for _, v := range c.values {
			tb.Append(arrow.Timestamp(v.t.UnixMicro()))
		}
		b = tb
	default:
		return nil, typeMismatch("cannot export %s column", c.kind)
	}
	defer b.Release()
	b.AppendNulls(rows - c.Len())
	return b.NewArray(), nil
}

// WriteParquet writes m to w as a snappy-compressed Parquet file.
func WriteParquet(w io.Writer, m *Matrix) error {
	table, err := ToArrow(m, nil)
	if err != nil {
		return err
	}
	defer table.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.WriteTable(table, max(table.NumRows(), 1)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table: %w", err)
	}
	return writer.Close()
}
