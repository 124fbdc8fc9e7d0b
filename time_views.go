package journal

import (
	"math"
	"time"

	"github.com/ncruces/go-strftime"
)

// Date returns a read-only Time column of the parsed instants.
func (tc *TimeColumn) Date() *Column {
	out := make([]Value, len(tc.instants))
	for i, t := range tc.instants {
		out[i] = TimeValue(t)
	}
	return newView(KindTime, out)
}

// JD returns a read-only Float column of Julian dates.
func (tc *TimeColumn) JD() *Column {
	return tc.floatView(JulianDate)
}

// TimeSinceEpoch returns a read-only Float column of seconds since the
// column's epoch.
func (tc *TimeColumn) TimeSinceEpoch() *Column {
	return tc.floatView(func(t time.Time) float64 { return t.Sub(tc.epoch).Seconds() })
}

// Time returns a read-only Float column of seconds since the earliest
// instant. It is empty for an empty column.
func (tc *TimeColumn) Time() *Column {
	if len(tc.instants) == 0 {
		return newView(KindFloat, nil)
	}
	first, _ := tc.Min()
	return tc.floatView(func(t time.Time) float64 { return t.Sub(first).Seconds() })
}

// FromEpoch maps seconds since the epoch back to an instant, rounded to the
// microsecond.
func (tc *TimeColumn) FromEpoch(seconds float64) time.Time {
	micros := math.Round(seconds * 1e6)
	return tc.epoch.Add(time.Duration(micros) * time.Microsecond)
}

// Year returns a read-only Int column of calendar years.
func (tc *TimeColumn) Year() *Column {
	return tc.intView(func(t time.Time) int { return t.Year() })
}

// Month returns a read-only Int column of months (1-12).
func (tc *TimeColumn) Month() *Column {
	return tc.intView(func(t time.Time) int { return int(t.Month()) })
}

// Day returns a read-only Int column of days of the month.
func (tc *TimeColumn) Day() *Column {
	return tc.intView(time.Time.Day)
}

// Hour returns a read-only Int column of hours.
func (tc *TimeColumn) Hour() *Column {
	return tc.intView(time.Time.Hour)
}

// Minute returns a read-only Int column of minutes.
func (tc *TimeColumn) Minute() *Column {
	return tc.intView(time.Time.Minute)
}

// Second returns a read-only Int column of seconds.
func (tc *TimeColumn) Second() *Column {
	return tc.intView(time.Time.Second)
}

// Microsecond returns a read-only Int column of microseconds.
func (tc *TimeColumn) Microsecond() *Column {
	return tc.intView(func(t time.Time) int { return t.Nanosecond() / 1000 })
}

func (tc *TimeColumn) intView(fn func(time.Time) int) *Column {
	out := make([]Value, len(tc.instants))
	for i, t := range tc.instants {
		out[i] = IntValue(int64(fn(t)))
	}
	return newView(KindInt, out)
}

func (tc *TimeColumn) floatView(fn func(time.Time) float64) *Column {
	out := make([]Value, len(tc.instants))
	for i, t := range tc.instants {
		out[i] = FloatValue(fn(t))
	}
	return newView(KindFloat, out)
}

// Format returns a read-only Text column of the instants rendered with a
// strftime pattern. Storage is unchanged.
func (tc *TimeColumn) Format(pattern string) *Column {
	out := make([]Value, len(tc.instants))
	for i, t := range tc.instants {
		out[i] = TextValue(strftime.Format(pattern, t))
	}
	return newView(KindText, out)
}

// Reformat rewrites storage with a strftime pattern. Information the pattern
// drops is lost. If any rewritten string no longer parses, a *ParseError is
// returned and storage is left untouched.
func (tc *TimeColumn) Reformat(pattern string) error {
	values := make([]string, len(tc.instants))
	instants := make([]time.Time, len(tc.instants))
	for i, t := range tc.instants {
		s := strftime.Format(pattern, t)
		parsed, err := parseInstant(s)
		if err != nil {
			return err
		}
		values[i] = s
		instants[i] = parsed
	}
	tc.values = values
	tc.instants = instants
	return nil
}
