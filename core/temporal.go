package core

import (
	"strings"
	"time"
)

// FullDateLayout is the ISO-8601 second-precision layout used for the
// full_date field.
const FullDateLayout = "2006-01-02T15:04:05"

// LowerMonthName returns the lower-cased full English month name.
func LowerMonthName(m time.Month) string {
	return strings.ToLower(m.String())
}

// LowerDayName returns the lower-cased full English weekday name.
func LowerDayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// DeriveTemporal populates the derived temporal fields of a record from a
// parsed timestamp. The original timestamp itself is not stored.
func (r *IncidentRecord) DeriveTemporal(ts time.Time) {
	r.FullDate = ts.Format(FullDateLayout)
	r.Year = ts.Year()
	r.Month = int(ts.Month())
	r.MonthName = LowerMonthName(ts.Month())
	r.Day = ts.Day()
	r.DayName = LowerDayName(ts.Weekday())
	r.Hour = ts.Hour()
	r.Minute = ts.Minute()
}
