// Package journal provides an in-memory table of typed columns for small
// time-series data sets such as station logs and lab measurements.
//
// A [Matrix] maps unique names to columns. A [Column] holds integers,
// floats, booleans, text or instants and widens its kind as values are
// appended. The column named "time" is always a [TimeColumn], which keeps
// the original text of each instant next to its parsed value.
//
// # Basic Usage
//
// Load a CSV file:
//
//	m, err := journal.ReadCSV("weather.csv", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Select rows with a comparison mask:
//
//	wind, _ := m.Column("wind")
//	windy, _ := wind.Gt(5)
//	sel, err := m.Select(windy)
//
// Work with instants:
//
//	tc, _ := m.TimeColumn()
//	hours, _ := tc.Time().Div(3600)
//	days := tc.JD()
//
// # Features
//
// Columns:
//   - Kind inference and widening (int, float, text)
//   - Elementwise arithmetic and comparisons with broadcasting
//   - Selection by slice, positions or boolean mask
//   - Read-only views (dates, Julian days, calendar fields)
//
// Persistence:
//   - Snapshots with checksums and snappy compression
//   - Pluggable backends (file, memory, SQLite, S3)
//   - Encryption at rest (AES-256-GCM)
//
// Output:
//   - Text tables, CSV and Parquet export
//   - Renderer-neutral plot data
//
// # Configuration
//
// Use [Config] to pick CSV options and a snapshot backend:
//
//	cfg, err := journal.LoadConfig("journal.yaml")
//	store, err := cfg.OpenSnapshotStore(ctx)
//	defer store.Close()
//
// Or use [DefaultConfig] for sensible defaults.
package journal
