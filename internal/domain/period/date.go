// Package period resolves named reporting periods into concrete date ranges
// and derives the comparison range used for period-over-period reports.
package period

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 layout used to read and write dates.
const DateFormat = "2006-01-02"

// readDateFormat also accepts single-digit months and days, e.g. 2026-4-1.
const readDateFormat = "2006-1-2"

// Date is a calendar date with day granularity. The zero value is not a valid date.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date. Out-of-range days roll over the way
// time.Date does, so NewDate(2024, time.March, 0) is 2024-02-29.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	return Date{y, m, d}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// Today returns the current date in loc. A nil loc means time.Local.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(time.Now().In(loc))
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(readDateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %s: %w", s, DateFormat, err)
	}
	return DateOf(t), nil
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the year of d.
func (d Date) Year() int { return d.y }

// Month returns the month of d.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month of d.
func (d Date) Day() int { return d.d }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time { return d.time() }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date { return NewDate(d.y, d.m, d.d+n) }

// AddYears shifts d by n calendar years keeping month and day. Feb 29 maps
// to Feb 28 when the target year is not a leap year.
func (d Date) AddYears(n int) Date {
	y := d.y + n
	if d.m == time.February && d.d == 29 && !isLeap(y) {
		return Date{y, time.February, 28}
	}
	return Date{y, d.m, d.d}
}

const secondsPerDay = 24 * 60 * 60

// DaysSince returns the number of whole days from x to d (d - x).
func (d Date) DaysSince(x Date) int {
	return int((d.time().Unix() - x.time().Unix()) / secondsPerDay)
}

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date { return Date{d.y, d.m, 1} }

// EndOfMonth returns the last day of d's month, computed as day 0 of the next month.
func (d Date) EndOfMonth() Date { return NewDate(d.y, d.m+1, 0) }

// Quarter returns the calendar quarter (1-4) of d.
func (d Date) Quarter() int { return (int(d.m)-1)/3 + 1 }

// String formats d as YYYY-MM-DD.
func (d Date) String() string { return d.time().Format(DateFormat) }

// MarshalJSON encodes d as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText lets Date be used in form and query bindings.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText parses a "YYYY-MM-DD" date.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
