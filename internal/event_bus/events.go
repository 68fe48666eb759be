package event_bus

import "time"

const (
	WeekChanged    EventType = "week.changed"
	EventSelected  EventType = "event.selected"
	CalendarLoaded EventType = "calendar.loaded"
)

// WeekChangedPayload is published after every navigation action.
type WeekChangedPayload struct {
	Action string // today, previous, next, goto
	Start  time.Time
	End    time.Time
}

// EventSelectedPayload is published by select; EventId is empty when the selection is cleared.
type EventSelectedPayload struct {
	EventId string
	Title   string
}

// CalendarLoadedPayload is published when the calendar is replaced.
type CalendarLoadedPayload struct {
	Source string
	Weeks  int
	Events int
	// Degraded is set when the snapshot could not be read and the calendar is empty.
	Degraded bool
}
