package entities

import (
	"fmt"
	"time"
)

// DateLayout is the civil date format used by keys and period queries.
const DateLayout = "2006-01-02"

// ParseDate parses a civil date. Dates are anchored at UTC midnight so that
// day arithmetic never crosses a DST transition.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return t, nil
}

// FormatDate renders t as a civil date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// PreviousDate returns the civil date one day before date.
func PreviousDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, -1)), nil
}

// DatesBetween enumerates every civil date in [start, end], ascending.
// It returns nil when start is after end.
func DatesBetween(start, end time.Time) []string {
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates
}

// Calendar resolves "today" in the deployment's canonical civil timezone.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar creates a calendar bound to loc. A nil now defaults to time.Now.
func NewCalendar(loc *time.Location, now func() time.Time) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Calendar{loc: loc, now: now}
}

// Location returns the canonical timezone.
func (c *Calendar) Location() *time.Location { return c.loc }

// Now returns the current instant.
func (c *Calendar) Now() time.Time { return c.now() }

// Today returns the current civil date in the canonical timezone.
func (c *Calendar) Today() string {
	return c.now().In(c.loc).Format(DateLayout)
}
