package week

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidNumber = errors.New("invalid ISO week")

type Number struct {
	Year int
	Week int
}

// NumberFromDate returns the ISO week containing date.
func NumberFromDate(date time.Time) Number {
	year, week := date.ISOWeek()
	return Number{Year: year, Week: week}
}

// NumberFromString parses the ISO 8601 week format, e.g. "2025-W03".
func NumberFromString(isoWeek string) (Number, error) {
	year, week, found := strings.Cut(isoWeek, "-W")
	if !found {
		return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, isoWeek)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Number{}, fmt.Errorf("%w: invalid year: %v", ErrInvalidNumber, err)
	}
	w, err := strconv.Atoi(week)
	if err != nil {
		return Number{}, fmt.Errorf("%w: invalid week: %v", ErrInvalidNumber, err)
	}
	n := Number{Year: y, Week: w}
	if w < 1 || w > 53 || NumberFromDate(n.monday(time.UTC)) != n {
		return Number{}, fmt.Errorf("%w: %s does not exist", ErrInvalidNumber, n)
	}
	return n, nil
}

// Interval returns the week n in loc.
func (n Number) Interval(loc *time.Location) Interval {
	start := n.monday(loc)
	return Interval{Start: start, End: endOfWeek(start)}
}

// monday of week 1 is the Monday of the week holding January 4th.
func (n Number) monday(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	firstWeek := startOfWeek(time.Date(n.Year, time.January, 4, 0, 0, 0, 0, loc))
	return firstWeek.AddDate(0, 0, 7*(n.Week-1))
}

func (n Number) Before(other Number) bool {
	if n.Year != other.Year {
		return n.Year < other.Year
	}
	return n.Week < other.Week
}

func (n Number) After(other Number) bool {
	return other.Before(n)
}

// String returns the ISO 8601 week format, e.g. "2025-W03".
func (n Number) String() string {
	return fmt.Sprintf("%04d-W%02d", n.Year, n.Week)
}
