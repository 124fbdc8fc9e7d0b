package journal

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// TimeLayout is the canonical text form of an instant stored in a
// TimeColumn: ISO-8601 with microseconds and no zone.
const TimeLayout = "2006-01-02T15:04:05.000000"

// DefaultEpoch is the reference instant for TimeSinceEpoch and FromEpoch.
var DefaultEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// parseInstant reads s with the generic date parser. Zone-less input is
// taken as UTC.
func parseInstant(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if t, err := time.ParseInLocation(TimeLayout, trimmed, time.UTC); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseIn(trimmed, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Value: s, Cause: err}
	}
	return t, nil
}

// normalizeInstant turns one element into its stored text and parsed
// instant. A time.Time keeps its wall clock and drops its zone.
func normalizeInstant(x any) (string, time.Time, error) {
	switch v := x.(type) {
	case string:
		t, err := parseInstant(v)
		return v, t, err
	case time.Time:
		return normalizeTime(v)
	case Value:
		switch v.Kind() {
		case KindText:
			return normalizeInstant(v.s)
		case KindTime:
			return normalizeTime(v.t)
		}
		return "", time.Time{}, &ParseError{Value: v.String()}
	}
	return "", time.Time{}, &ParseError{Value: fmt.Sprint(x)}
}

func normalizeTime(t time.Time) (string, time.Time, error) {
	s := t.Format(TimeLayout)
	if y := t.Year(); y < 0 || y > 9999 {
		return "", time.Time{}, &ParseError{Value: s, Cause: fmt.Errorf("year %d out of range", y)}
	}
	parsed, err := parseInstant(s)
	return s, parsed, err
}

// normalizeInstants validates every element of input before returning, so
// callers can commit the result atomically.
func normalizeInstants(input any) ([]string, []time.Time, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil, nil
	case *TimeColumn:
		return append([]string(nil), v.values...), append([]time.Time(nil), v.instants...), nil
	case *Column:
		return normalizeEach(len(v.values), func(i int) any { return v.values[i] })
	case string, time.Time, Value:
		s, t, err := normalizeInstant(v)
		if err != nil {
			return nil, nil, err
		}
		return []string{s}, []time.Time{t}, nil
	}
	rv := reflect.ValueOf(input)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return normalizeEach(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	}
	return nil, nil, &ParseError{Value: fmt.Sprint(input)}
}

func normalizeEach(n int, at func(int) any) ([]string, []time.Time, error) {
	texts := make([]string, n)
	instants := make([]time.Time, n)
	for i := range n {
		s, t, err := normalizeInstant(at(i))
		if err != nil {
			return nil, nil, err
		}
		texts[i] = s
		instants[i] = t
	}
	return texts, instants, nil
}
