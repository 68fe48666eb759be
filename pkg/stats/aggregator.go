package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/edt-iut/timetable/pkg/calendar"
	"github.com/edt-iut/timetable/pkg/week"
	"github.com/edt-iut/timetable/pkg/weekview"
	log "github.com/sirupsen/logrus"
)

// Aggregator sums session durations, skipping events whose title contains one of the
// blacklisted words (holidays, placeholders...).
type Aggregator struct {
	blacklist []string
}

func NewAggregator(blacklist []string) *Aggregator {
	words := make([]string, 0, len(blacklist))
	for _, w := range blacklist {
		// an empty word would match every title
		if w != "" {
			words = append(words, w)
		}
	}
	return &Aggregator{blacklist: words}
}

// IsExcluded reports whether e is left out of the totals. Matching is case-sensitive.
func (a *Aggregator) IsExcluded(e calendar.Event) bool {
	for _, word := range a.blacklist {
		if strings.Contains(e.Title, word) {
			return true
		}
	}
	return false
}

// Total returns the counted duration of the week matching interval. The boolean is
// false when the calendar has no such week.
func (a *Aggregator) Total(cal calendar.Calendar, interval week.Interval) (time.Duration, bool) {
	resolved, found := weekview.WeekFor(cal, interval)
	if !found {
		return 0, false
	}
	total := time.Duration(0)
	for _, e := range resolved.Events() {
		if a.IsExcluded(e) {
			continue
		}
		total += e.Duration()
	}
	return total, true
}

// TotalHoursForWeek returns the week total formatted by FormatHours.
func (a *Aggregator) TotalHoursForWeek(cal calendar.Calendar, interval week.Interval) string {
	total, found := a.Total(cal, interval)
	if !found {
		log.Tracef("No week in calendar for %s", interval)
	}
	return FormatHours(total)
}

// Summary breaks the week total down per day.
func (a *Aggregator) Summary(cal calendar.Calendar, interval week.Interval) WeeklyStats {
	resolved, found := weekview.WeekFor(cal, interval)
	summary := WeeklyStats{
		StartDate: interval.Start,
		EndDate:   interval.End,
		HasData:   found,
	}

	for _, date := range week.Dates(interval) {
		daily := DailyStats{Date: date}
		if day, ok := resolved.Day(date); found && ok {
			for _, e := range day.Events {
				daily.Sessions++
				if a.IsExcluded(e) {
					daily.Excluded++
					continue
				}
				daily.TotalTime += e.Duration()
			}
		}
		summary.TotalTime += daily.TotalTime
		summary.Days = append(summary.Days, daily)
	}
	return summary
}

// FormatHours renders d as whole hours followed by the remaining minutes, e.g. 6.5h is
// "6h30" and 1h05 is "1h5". A zero duration is "0h".
func FormatHours(d time.Duration) string {
	if d <= 0 {
		return "0h"
	}
	hours := d.Hours()
	whole := math.Floor(hours)
	minutes := math.Round((hours - whole) * 60)
	if minutes == 60 {
		whole++
		minutes = 0
	}
	return fmt.Sprintf("%dh%d", int(whole), int(minutes))
}
