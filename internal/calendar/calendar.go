// Package calendar holds the UTC calendar arithmetic used for recurring
// billing. Dates are civil.Date values: they carry no time zone, so a
// "2025-08-02" string always means the 2nd of August.
package calendar

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Today returns the UTC calendar date of now. The wall clock of the host is
// never consulted.
func Today(now time.Time) civil.Date {
	return civil.DateOf(now.UTC())
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}

	return d, nil
}

// Midnight returns UTC midnight of d.
func Midnight(d civil.Date) time.Time {
	return d.In(time.UTC)
}

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(d civil.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Next returns the month after m.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}

	return Month{Year: m.Year, Month: m.Month + 1}
}

// Prev returns the month before m.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}

	return Month{Year: m.Year, Month: m.Month - 1}
}

func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}

	return m.Month < o.Month
}

func (m Month) After(o Month) bool {
	return o.Before(m)
}

// Index is the zero-based month number (January is 0).
func (m Month) Index() int {
	return int(m.Month) - 1
}

// Days returns the number of days in m.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// First returns the first day of m.
func (m Month) First() civil.Date {
	return civil.Date{Year: m.Year, Month: m.Month, Day: 1}
}

// Day returns the given day of m, clamped to the last day of the month when
// m is shorter than day.
func (m Month) Day(day int) civil.Date {
	if last := m.Days(); day > last {
		day = last
	}

	if day < 1 {
		day = 1
	}

	return civil.Date{Year: m.Year, Month: m.Month, Day: day}
}

// Contains reports whether d falls inside m.
func (m Month) Contains(d civil.Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// Label formats m as MM/YYYY.
func (m Month) Label() string {
	return fmt.Sprintf("%02d/%04d", int(m.Month), m.Year)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Trailing returns the n months ending with end, oldest first.
func Trailing(end Month, n int) []Month {
	if n <= 0 {
		return nil
	}

	months := make([]Month, n)

	m := end
	for i := n - 1; i >= 0; i-- {
		months[i] = m
		m = m.Prev()
	}

	return months
}
