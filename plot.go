package journal

import (
	"log/slog"
	"math"
	"strings"
	"time"
)

// Axis holds the x values of a time plot: numbers for the elapsed-time
// and Julian units, instants for the date unit.
type Axis struct {
	Label string      `json:"label"`
	X     []float64   `json:"x,omitempty"`
	Dates []time.Time `json:"dates,omitempty"`
	// DateFormat is a strftime pattern for date tick labels.
	DateFormat string `json:"date_format,omitempty"`
}

// TimeAxis converts tc into x values for plotting.
//
// unit selects seconds, minutes, hours or days since the first instant
// (also "sec", "secs", "min", "mins", "hr", "hrs", "hour", "day" and
// singular forms), "jd" or "jds" for Julian dates, and "" or "date" for the
// instants themselves. Any other unit is taken as a strftime pattern for
// date tick labels.
func TimeAxis(tc *TimeColumn, unit string) Axis {
	scale := func(div float64) []float64 {
		secs, _ := tc.Time().Floats()
		out := make([]float64, len(secs))
		for i, s := range secs {
			out[i] = s / div
		}
		return out
	}

	switch strings.ToLower(unit) {
	case "sec", "secs", "second", "seconds":
		return Axis{Label: "Time (in seconds)", X: scale(1)}
	case "min", "mins", "minute", "minutes":
		return Axis{Label: "Time (in minutes)", X: scale(60)}
	case "hr", "hrs", "hour", "hours":
		return Axis{Label: "Time (in hours)", X: scale(3600)}
	case "day", "days":
		return Axis{Label: "Time (in days)", X: scale(86400)}
	case "jd", "jds":
		x, _ := tc.JD().Floats()
		return Axis{Label: "Time (in Julian Days)", X: x}
	case "", "date":
		return Axis{Label: "Date", Dates: tc.Instants()}
	}
	return Axis{Label: "Date", Dates: tc.Instants(), DateFormat: unit}
}

// PlotOptions selects what NewPlotData extracts.
type PlotOptions struct {
	// Unit is passed to TimeAxis (default: seconds).
	Unit string
	// Series names the columns to plot; empty means every numeric column
	// in display order.
	Series []string
	Title  string
	YLabel string
	Logger *slog.Logger
}

// PlotSeries is one y series. Missing values are null in JSON.
type PlotSeries struct {
	Title  string     `json:"title"`
	Values []*float64 `json:"values"`
}

// PlotData is a renderer-neutral description of a time plot.
type PlotData struct {
	Title  string       `json:"title,omitempty"`
	X      Axis         `json:"x"`
	YLabel string       `json:"y_label,omitempty"`
	Series []PlotSeries `json:"series"`
}

// NewPlotData extracts a time plot from m, which must have a time column.
// Series that are not numeric are skipped with a warning; unknown names
// are an error.
func NewPlotData(m *Matrix, opts PlotOptions) (*PlotData, error) {
	tc, err := m.TimeColumn()
	if err != nil {
		return nil, typeMismatch("this data does not contain a %q column", TimeName)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	unit := opts.Unit
	if unit == "" {
		unit = "seconds"
	}

	names := opts.Series
	if len(names) == 0 {
		names = m.DisplayOrder()[1:]
	}

	pd := &PlotData{Title: opts.Title, X: TimeAxis(tc, unit), YLabel: opts.YLabel}
	for _, name := range names {
		col, err := m.Column(name)
		if err != nil {
			if _, ok := m.columns[name]; !ok {
				return nil, err
			}
			continue
		}
		if !col.kind.IsNumeric() {
			logger.Warn("series skipped: not numeric", "column", name, "kind", col.kind)
			continue
		}
		values := make([]*float64, col.Len())
		for i, v := range col.values {
			if f := v.Float(); !math.IsNaN(f) {
				values[i] = &f
			}
		}
		pd.Series = append(pd.Series, PlotSeries{Title: name, Values: values})
	}
	return pd, nil
}
