package selection

import "github.com/edt-iut/timetable/pkg/calendar"

// Selection remembers the last event picked for the detail panel. It is independent of
// the displayed week and of the calendar contents.
type Selection struct {
	event    calendar.Event
	selected bool
}

// Select stores a copy of event; nil clears the selection.
func (s *Selection) Select(event *calendar.Event) {
	if event == nil {
		s.Clear()
		return
	}
	s.event = *event
	s.selected = true
}

func (s *Selection) Clear() {
	s.event = calendar.Event{}
	s.selected = false
}

// Current returns the selected event, or the zero Event and false when nothing is selected.
func (s *Selection) Current() (calendar.Event, bool) {
	return s.event, s.selected
}
