package calendar

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Normalize returns a copy of cal in which every event has a unique, non-empty id and
// does not end before it starts. Events without id get a generated UUID; events ending
// before they start and later occurrences of an id are dropped with a warning.
func Normalize(cal Calendar) Calendar {
	normalized := make(Calendar, 0, len(cal))
	seen := make(map[string]struct{})

	for _, w := range cal {
		week := Week{FirstDayOfWeek: w.FirstDayOfWeek, Days: make([]Day, 0, len(w.Days))}
		for _, d := range w.Days {
			day := Day{Date: d.Date, Events: make([]Event, 0, len(d.Events))}
			for _, e := range d.Events {
				if e.Id == "" {
					e.Id = uuid.NewString()
					log.Debugf("Generated id %s for event %q", e.Id, e.Title)
				}
				if e.End.Before(e.Start) {
					log.Warnf("Dropping event %s (%s): ends before it starts", e.Id, e.Title)
					continue
				}
				if _, dup := seen[e.Id]; dup {
					log.Warnf("Dropping duplicate event id %s (%s) on %s", e.Id, e.Title, d.Date)
					continue
				}
				seen[e.Id] = struct{}{}
				day.Events = append(day.Events, e)
			}
			week.Days = append(week.Days, day)
		}
		normalized = append(normalized, week)
	}
	return normalized
}
