// Package clock produces the shop's business timestamps.
//
// Submission times are stored as the Bogotá wall-clock reading labelled as UTC, so that day
// boundaries computed in UTC line up with local business days.
package clock

import (
	"time"
)

// DefaultZone is the civil time zone of the shop.
const DefaultZone = "America/Bogota"

// Clock returns business timestamps.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New builds a clock for the named zone. Bogotá has no DST, so a fixed UTC-5 offset is used
// when the tz database is unavailable.
func New(zone string) *Clock {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.FixedZone(zone, -5*60*60)
	}
	return &Clock{loc: loc, now: time.Now}
}

// WithNow returns a copy of the clock reading real time from fn.
func (c *Clock) WithNow(fn func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: fn}
}

// Location returns the civil zone of the clock.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the real current instant.
func (c *Clock) Now() time.Time {
	return c.now()
}

// BusinessNow returns the current local wall-clock reading relabelled as UTC.
func (c *Clock) BusinessNow() time.Time {
	return AsUTCWallClock(c.now(), c.loc)
}

// AsUTCWallClock renders t in loc and re-reads that wall clock as a UTC instant, dropping
// sub-second precision.
func AsUTCWallClock(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), 0, time.UTC)
}

// DayRange is an inclusive UTC interval covering whole calendar days.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the inclusive range.
func (r DayRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days returns the range from 00:00:00.000 UTC of start to 23:59:59.999 UTC of end.
func Days(start, end time.Time) DayRange {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return DayRange{Start: s, End: e}
}

// DateLayout is the query parameter format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD date as a UTC calendar day.
func ParseDay(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}
