// Package logbook appends delimited, timestamped records to daily log
// files laid out as <Dir>/<YYYYMMDD>/<Root>_<YYYYMMDD>.txt.
//
// A log day runs from noon to noon, so a night of observations stays in
// one file.
package logbook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/chronicle-db/journal"
)

// ErrColumnCount is returned when a record does not match the headers.
var ErrColumnCount = errors.New("number of values does not match the number of columns")

// DefaultTimeFormat is the strftime pattern of record timestamps.
const DefaultTimeFormat = "%Y-%m-%d %H:%M:%S.%f"

const dayOffset = 12 * time.Hour

// Config configures a Logbook.
type Config struct {
	Root      string   // File name root
	Dir       string   // Parent directory of the daily directories (default: logs)
	Delimiter string   // Field delimiter (default: ",")
	Headers   []string // Column names; when set, every record must match
	UTC       bool     // Timestamps and file dates in UTC instead of local time
	Timestamp bool     // Prefix every record with a timestamp

	// TimeFormat is a strftime pattern (default: DefaultTimeFormat).
	TimeFormat string

	// Now overrides the clock.
	Now func() time.Time
}

// DefaultConfig returns the default configuration for root.
func DefaultConfig(root string) Config {
	return Config{
		Root:       root,
		Dir:        "logs",
		Delimiter:  ",",
		UTC:        true,
		Timestamp:  true,
		TimeFormat: DefaultTimeFormat,
	}
}

// Logbook writes records to the file of the current log day.
type Logbook struct {
	cfg Config
	mu  sync.Mutex
}

// New validates cfg and returns a Logbook. Files are created lazily.
func New(cfg Config) (*Logbook, error) {
	if cfg.Root == "" {
		return nil, errors.New("logbook: root is required")
	}
	if cfg.Dir == "" {
		cfg.Dir = "logs"
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = ","
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = DefaultTimeFormat
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Headers = append([]string(nil), cfg.Headers...)
	return &Logbook{cfg: cfg}, nil
}

func (l *Logbook) now() time.Time {
	t := l.cfg.Now()
	if l.cfg.UTC {
		return t.UTC()
	}
	return t.Local()
}

// DateString returns the current log day as YYYYMMDD.
func (l *Logbook) DateString() string {
	return logDay(l.now())
}

// Filename returns the path of the current log file.
func (l *Logbook) Filename() string {
	return l.filenameAt(l.now())
}

func logDay(t time.Time) string {
	return t.Add(-dayOffset).Format("20060102")
}

func (l *Logbook) filenameAt(t time.Time) string {
	day := logDay(t)
	return filepath.Join(l.cfg.Dir, day, l.cfg.Root+"_"+day+".txt")
}

// Exists reports whether the current log file exists.
func (l *Logbook) Exists() bool {
	_, err := os.Stat(l.Filename())
	return err == nil
}

// Headers returns the configured column names.
func (l *Logbook) Headers() []string {
	return append([]string(nil), l.cfg.Headers...)
}

// Log appends one record.
func (l *Logbook) Log(values ...any) error {
	return l.write("", values)
}

// Warn appends one record marked "WARNING: ".
func (l *Logbook) Warn(values ...any) error {
	return l.write("WARNING: ", values)
}

// Error appends one record marked "ERROR: ".
func (l *Logbook) Error(values ...any) error {
	return l.write("ERROR: ", values)
}

// LogRow appends row i of m, with values in header order. Without headers
// the matrix display order is used.
func (l *Logbook) LogRow(m *journal.Matrix, i int) error {
	row, err := m.Row(i)
	if err != nil {
		return err
	}
	names := l.cfg.Headers
	if len(names) == 0 {
		names = m.DisplayOrder()
	}
	values := make([]any, len(names))
	for j, name := range names {
		v, ok := row[name]
		if !ok {
			return &journal.ColumnError{Name: name}
		}
		values[j] = v
	}
	return l.Log(values...)
}

func (l *Logbook) write(marker string, values []any) error {
	if n := len(l.cfg.Headers); n > 0 && len(values) != n {
		return fmt.Errorf("%w (%d columns, %d values)", ErrColumnCount, n, len(values))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	name := l.filenameAt(now)
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("logbook: %w", err)
	}
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("logbook: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	if info, err := f.Stat(); err == nil && info.Size() == 0 && len(l.cfg.Headers) > 0 {
		if l.cfg.Timestamp {
			b.WriteString(journal.TimeName + l.cfg.Delimiter)
		}
		b.WriteString(strings.Join(l.cfg.Headers, l.cfg.Delimiter))
		b.WriteByte('\n')
	}
	if l.cfg.Timestamp {
		b.WriteString(strftime.Format(l.cfg.TimeFormat, now))
		b.WriteString(l.cfg.Delimiter)
	}
	b.WriteString(marker)
	for i, v := range values {
		if i > 0 {
			b.WriteString(l.cfg.Delimiter)
		}
		fmt.Fprint(&b, v)
	}
	b.WriteByte('\n')

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("logbook: %w", err)
	}
	return f.Close()
}
