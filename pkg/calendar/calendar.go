package calendar

import (
	"errors"
	"time"
)

// DateLayout is the layout of Day.Date and Week.FirstDayOfWeek.
const DateLayout = "2006-01-02"

var ErrNotFound = errors.New("event not found")

type Event struct {
	Id            string        `json:"id"`
	Title         string        `json:"title"`
	Start         time.Time     `json:"start"`
	End           time.Time     `json:"end"`
	AllDay        bool          `json:"allDay"`
	ExtendedProps ExtendedProps `json:"extendedProps"`
}

type ExtendedProps struct {
	Location    string `json:"location,omitempty" yaml:"location"`
	Description string `json:"description,omitempty" yaml:"description"`
	Teacher     string `json:"teacher,omitempty" yaml:"teacher"`
	Group       string `json:"group,omitempty" yaml:"group"`
	Category    string `json:"category,omitempty" yaml:"category"`
}

// Duration is End - Start.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// IsZero reports whether e is the empty marker.
func (e Event) IsZero() bool {
	return e.Id == "" && e.Title == "" && e.Start.IsZero() && e.End.IsZero()
}

type Day struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
}

type Week struct {
	FirstDayOfWeek string `json:"firstDayOfWeek"`
	Days           []Day  `json:"days"`
}

// Day returns the day of w dated date.
func (w Week) Day(date string) (Day, bool) {
	for _, d := range w.Days {
		if d.Date == date {
			return d, true
		}
	}
	return Day{}, false
}

// Events returns the events of every day of w, in day order.
func (w Week) Events() []Event {
	var events []Event
	for _, d := range w.Days {
		events = append(events, d.Events...)
	}
	return events
}

// Calendar is the ordered list of weeks loaded from a snapshot.
type Calendar []Week

// Events flattens the calendar, preserving week, day and event order.
func (c Calendar) Events() []Event {
	events := make([]Event, 0, c.EventCount())
	for _, w := range c {
		for _, d := range w.Days {
			events = append(events, d.Events...)
		}
	}
	return events
}

func (c Calendar) EventCount() int {
	count := 0
	for _, w := range c {
		for _, d := range w.Days {
			count += len(d.Events)
		}
	}
	return count
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, date, loc)
}
