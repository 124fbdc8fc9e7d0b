package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	Header    bool         // First retained line names the columns (default: true)
	Names     []string     // Column names when Header is false
	Delimiter rune         // Field delimiter (default: ',')
	SkipLines int          // Non-blank lines discarded after the header
	Logger    *slog.Logger // Receives skipped-row warnings (default: slog.Default())
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		Header:    true,
		Delimiter: ',',
	}
}

// CSVStats reports what a CSV load did with its input.
type CSVStats struct {
	Rows    int // data rows stored
	Skipped int // rows dropped for a wrong number of fields
}

// ReadCSV loads a Matrix from a CSV file.
func ReadCSV(path string, opts *CSVOptions) (*Matrix, error) {
	m, _, err := ReadCSVWithStats(path, opts)
	return m, err
}

// ReadCSVWithStats is ReadCSV that also reports row counts.
func ReadCSVWithStats(path string, opts *CSVOptions) (*Matrix, CSVStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, CSVStats{}, err
	}
	defer f.Close()
	return readCSV(f, opts)
}

// ReadCSVFrom loads a Matrix from r.
//
// Blank lines are ignored. The first data row decides each column's kind
// (integer, float, then text); later rows widen it as needed. A column
// whose name is "time" in any case becomes a TimeColumn. Rows with the
// wrong number of fields are logged and skipped. Without a header or
// names, columns are named A, B, C and so on.
func ReadCSVFrom(r io.Reader, opts *CSVOptions) (*Matrix, error) {
	m, _, err := readCSV(r, opts)
	return m, err
}

// ReadHeader returns the cleaned field names on the first non-blank line
// of a CSV file.
func ReadHeader(path string, delimiter rune) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := newCSVReader(f, delimiter).Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	return cleanHeader(header), nil
}

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.Trim(strings.TrimSpace(h), `'" #`)
	}
	return out
}

func readCSV(r io.Reader, opts *CSVOptions) (*Matrix, CSVStats, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var stats CSVStats
	empty := &Matrix{columns: make(map[string]Series)}
	reader := newCSVReader(r, opts.Delimiter)

	var fields []string
	switch {
	case opts.Header:
		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return empty, stats, nil
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read csv header: %w", err)
		}
		fields = cleanHeader(header)
	case len(opts.Names) > 0:
		fields = append([]string(nil), opts.Names...)
	}

	for range opts.SkipLines {
		if _, err := reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return empty, stats, nil
			}
			return nil, stats, fmt.Errorf("read csv: %w", err)
		}
	}

	var cols []Series
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if fields != nil && len(record) != len(fields) {
			logger.Warn("line ignored: wrong number of fields",
				"line", line, "fields", len(record), "want", len(fields))
			stats.Skipped++
			continue
		}

		if cols == nil {
			if fields == nil {
				fields = make([]string, len(record))
			}
			if cols, err = firstCSVRow(fields, record); err != nil {
				return nil, stats, fmt.Errorf("line %d: %w", line, err)
			}
		} else {
			for j, field := range record {
				if err := appendCSVField(cols[j], field); err != nil {
					return nil, stats, fmt.Errorf("line %d: %w", line, err)
				}
			}
		}
		stats.Rows++
	}

	if cols == nil {
		return empty, stats, nil
	}
	m, err := NewMatrix(cols, fields...)
	if err != nil {
		return nil, stats, err
	}
	return m, stats, nil
}

// firstCSVRow creates one column per field, renaming a time field in place.
func firstCSVRow(fields, record []string) ([]Series, error) {
	cols := make([]Series, len(record))
	for j, field := range record {
		if strings.EqualFold(fields[j], TimeName) {
			fields[j] = TimeName
			tc, err := NewTimeColumn(field)
			if err != nil {
				return nil, err
			}
			cols[j] = tc
			continue
		}
		cols[j] = newColumn(fields[j], []Value{ParseToken(field)})
	}
	return cols, nil
}

func appendCSVField(col Series, field string) error {
	switch c := col.(type) {
	case *TimeColumn:
		return c.Append(field)
	case *Column:
		c.appendValues([]Value{ParseToken(field)})
	}
	return nil
}

// WriteCSV writes m with a header line, columns in display order. Short
// columns leave empty fields. A zero delimiter means ','.
func WriteCSV(w io.Writer, m *Matrix, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	names := m.DisplayOrder()
	if err := cw.Write(names); err != nil {
		return err
	}
	record := make([]string, len(names))
	for _, row := range m.Rows() {
		for j, name := range names {
			if v := row[name]; v.kind == KindNull {
				record[j] = ""
			} else {
				record[j] = v.String()
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
