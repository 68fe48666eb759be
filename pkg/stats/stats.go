package stats

import "time"

type DailyStats struct {
	Date      string
	TotalTime time.Duration
	// Sessions counts the events of the day, Excluded those skipped by the blacklist.
	Sessions int
	Excluded int
}

type WeeklyStats struct {
	StartDate time.Time
	EndDate   time.Time
	Days      []DailyStats
	TotalTime time.Duration
	// HasData is false when no week of the calendar matches the interval.
	HasData bool
}
