package weekview

import (
	"time"

	"github.com/edt-iut/timetable/pkg/calendar"
	"github.com/edt-iut/timetable/pkg/week"
	log "github.com/sirupsen/logrus"
)

// DefaultMergeWindow is the gap under which two consecutive sessions of the same course
// are displayed as a single block.
const DefaultMergeWindow = time.Hour

// WeekFor returns the first week of cal whose first day lies within interval, bounds
// included. The first day is read as midnight in the interval's location.
func WeekFor(cal calendar.Calendar, interval week.Interval) (calendar.Week, bool) {
	loc := interval.Start.Location()
	for _, w := range cal {
		firstDay, err := calendar.ParseDate(w.FirstDayOfWeek, loc)
		if err != nil {
			log.Debugf("Skipping week with invalid first day %q: %v", w.FirstDayOfWeek, err)
			continue
		}
		if interval.Contains(firstDay) {
			return w, true
		}
	}
	return calendar.Week{}, false
}

// Dates lists the dates displayed for interval.
func Dates(interval week.Interval) []string {
	return week.Dates(interval)
}

// Format returns one day per date of interval, holding that day's events with adjacent
// sessions merged. Days missing from the calendar, or every day when no week matches,
// come back with an empty event list.
func Format(cal calendar.Calendar, interval week.Interval, window time.Duration) []calendar.Day {
	resolved, found := WeekFor(cal, interval)
	dates := week.Dates(interval)

	days := make([]calendar.Day, 0, len(dates))
	for _, date := range dates {
		var events []calendar.Event
		if found {
			if day, ok := resolved.Day(date); ok {
				events = day.Events
			}
		}
		days = append(days, calendar.Day{Date: date, Events: Merge(events, window)})
	}
	return days
}

// Merge walks events once, in the given order, and folds an event into the previously
// kept one when both share a title, it does not start before the kept one and the gap
// between them is under window. The kept event is only ever extended, so its end never
// moves before its start. events is not modified.
func Merge(events []calendar.Event, window time.Duration) []calendar.Event {
	if window <= 0 {
		window = DefaultMergeWindow
	}
	merged := make([]calendar.Event, 0, len(events))
	for _, e := range events {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.Title == e.Title && !e.Start.Before(last.Start) && e.Start.Sub(last.End) < window {
				if e.End.After(last.End) {
					last.End = e.End
				}
				continue
			}
		}
		merged = append(merged, e)
	}
	return merged
}
