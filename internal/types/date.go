// Package types implements value types shared across biweekly.
package types

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Date is a calendar date without a time of day. It is stored as midnight UTC
// so that day arithmetic is never affected by time zones or DST.
type Date time.Time

// NewDate returns the Date for year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date on which t falls in t's own location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return NewDate(year, month, day)
}

// Today returns the current local calendar date according to now.
func Today(now func() time.Time) Date {
	if now == nil {
		now = time.Now
	}
	return DateOf(now())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	return time.Time(d).Format(dateLayout)
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	return time.Time(d)
}

// IsZero reports if the date is the zero value.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// AddDays returns the date n days after d. n may be negative.
func (d Date) AddDays(n int) Date {
	return Date(time.Time(d).AddDate(0, 0, n))
}

// DaysSince returns the signed number of days from o to d.
func (d Date) DaysSince(o Date) int {
	return int((time.Time(d).Unix() - time.Time(o).Unix()) / secondsPerDay)
}

// Before reports whether d is before o.
func (d Date) Before(o Date) bool {
	return time.Time(d).Before(time.Time(o))
}

// After reports whether d is after o.
func (d Date) After(o Date) bool {
	return time.Time(d).After(time.Time(o))
}

// Equal reports whether d and o are the same calendar date.
func (d Date) Equal(o Date) bool {
	return time.Time(d).Equal(time.Time(o))
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	return time.Time(d).Compare(time.Time(o))
}

// MarshalJSON implements the json.Marshaler interface.
// The zero date is written as an empty string.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Both "2006-01-02" and RFC3339 timestamps are accepted; for timestamps only
// the calendar date in the timestamp's own offset is kept.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		*d = Date{}
		return nil
	}

	if len(value) == len(dateLayout) {
		parsed, err := ParseDate(value)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", value, err)
	}
	*d = DateOf(t)
	return nil
}
