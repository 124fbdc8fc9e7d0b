package journal

import "time"

// JulianDate returns the Julian day number of t with the time of day as a
// fraction. Calendar arithmetic uses truncating integer division.
func JulianDate(t time.Time) float64 {
	y, m, d := int64(t.Year()), int64(t.Month()), int64(t.Day())
	var leap int64
	if m < 3 {
		leap = -1
	}
	day := d - 32075 +
		1461*(y+4800+leap)/4 +
		367*(m-2-leap*12)/12 -
		3*(y+4900+leap)/400
	hours := float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600 +
		float64(t.Nanosecond()/1000)/3600e6
	return float64(day) + hours/24
}
