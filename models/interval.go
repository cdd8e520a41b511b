package models

import (
	"fmt"
	"time"
)

// Interval is a half-open time range [Start, End). A booking occupying
// 10:00-12:00 does not conflict with one starting at exactly 12:00.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval builds the interval [start, start+duration).
func NewInterval(start time.Time, duration time.Duration) Interval {
	return Interval{Start: start, End: start.Add(duration)}
}

// Overlaps reports whether two half-open intervals intersect:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Duration returns the interval's length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// DateKey returns the calendar day of the interval's start in UTC,
// formatted "YYYY-MM-DD".
func (iv Interval) DateKey() string {
	return iv.Start.UTC().Format("2006-01-02")
}

// DateKeys returns every calendar day the interval touches, in order.
// Bookings are capped at 8 hours so this is the start day and, when the
// interval runs past midnight, the following day. The end instant is
// exclusive: an interval finishing exactly at 00:00 does not touch the
// next day.
func (iv Interval) DateKeys() []string {
	startKey := iv.DateKey()
	endKey := iv.End.UTC().Add(-time.Nanosecond).Format("2006-01-02")
	if endKey == startKey {
		return []string{startKey}
	}
	return []string{startKey, endKey}
}

// MinuteRange is a half-open range of minutes from midnight, used for
// recurring weekly windows where only the time of day matters.
type MinuteRange struct {
	Start int
	End   int
}

// Overlaps applies the same half-open predicate to minutes of day.
func (mr MinuteRange) Overlaps(other MinuteRange) bool {
	return mr.Start < other.End && other.Start < mr.End
}

// ParseClock converts an "HH:MM" wall-clock string to minutes from midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return h*60 + m, nil
}

// OnDate anchors a minute range onto a calendar date, producing an absolute
// interval in UTC.
func (mr MinuteRange) OnDate(date time.Time) Interval {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return Interval{
		Start: midnight.Add(time.Duration(mr.Start) * time.Minute),
		End:   midnight.Add(time.Duration(mr.End) * time.Minute),
	}
}
