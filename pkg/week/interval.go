package week

import (
	"fmt"
	"time"
)

// Interval is the displayed week: Start is Monday 00:00 and End is the last instant
// of the following Sunday, both in the same location.
type Interval struct {
	Start time.Time
	End   time.Time
}

type Direction int

const (
	Previous Direction = iota
	Next
)

func (d Direction) String() string {
	switch d {
	case Previous:
		return "previous"
	case Next:
		return "next"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection converts "previous" or "next" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "previous":
		return Previous, nil
	case "next":
		return Next, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// Current returns the ISO week containing now, in now's location.
func Current(now time.Time) Interval {
	start := startOfWeek(now)
	return Interval{Start: start, End: endOfWeek(start)}
}

// Shift moves current one week back or forth. Both bounds move by 7 calendar days, so
// a DST change in between keeps them on Monday 00:00 and Sunday 23:59:59.
func Shift(direction Direction, current Interval) Interval {
	days := 7
	if direction == Previous {
		days = -7
	}
	return Interval{
		Start: current.Start.AddDate(0, 0, days),
		End:   current.End.AddDate(0, 0, days),
	}
}

// Dates lists the YYYY-MM-DD dates of [Start, End), one per calendar day.
func Dates(interval Interval) []string {
	dates := make([]string, 0, 7)
	for d := interval.Start; d.Before(interval.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(time.DateOnly))
	}
	return dates
}

// Contains reports whether t lies within the interval, bounds included.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && !t.After(i.End)
}

// Number returns the ISO week number of the interval.
func (i Interval) Number() Number {
	return NumberFromDate(i.Start)
}

// Equal compares the bounds as instants.
func (i Interval) Equal(other Interval) bool {
	return i.Start.Equal(other.Start) && i.End.Equal(other.End)
}

func (i Interval) String() string {
	return fmt.Sprintf("%s..%s", i.Start.Format(time.DateOnly), i.End.Format(time.DateOnly))
}

func startOfWeek(t time.Time) time.Time {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	sinceMonday := (int(t.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -sinceMonday)
}

func endOfWeek(start time.Time) time.Time {
	return start.AddDate(0, 0, 7).Add(-time.Nanosecond)
}
