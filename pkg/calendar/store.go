package calendar

import (
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// Store holds the calendar loaded from the snapshot. It is replaced wholesale by Load
// and never modified in place; callers serialise Load against readers.
type Store struct {
	calendar Calendar
	events   []Event
}

func NewStore() *Store {
	return &Store{
		calendar: Calendar{},
		events:   []Event{},
	}
}

// Load replaces the calendar with a normalized copy of cal.
func (s *Store) Load(cal Calendar) {
	s.calendar = Normalize(cal)
	s.events = s.calendar.Events()
	log.Debugf("Calendar loaded: %d weeks, %d events", len(s.calendar), len(s.events))
}

// LoadSnapshot replaces the calendar with the snapshot at path. When the snapshot is
// missing or malformed the store is emptied and the cause is returned; the empty
// calendar is a valid degraded state.
func (s *Store) LoadSnapshot(path string, loc *time.Location) error {
	cal, err := LoadFile(path, loc)
	if err != nil {
		log.Warnf("Unable to load calendar snapshot %s, starting with an empty calendar: %v", path, err)
		s.Load(Calendar{})
		return fmt.Errorf("failed to load snapshot %s: %w", path, err)
	}
	s.Load(cal)
	log.Infof("Loaded calendar snapshot %s: %d weeks, %d events", path, len(s.calendar), len(s.events))
	return nil
}

func (s *Store) Weeks() Calendar {
	return s.calendar
}

// Events returns the flattened list of all events.
func (s *Store) Events() []Event {
	return s.events
}

// FindByID returns the event with the given id. An empty id is never found.
func (s *Store) FindByID(id string) (Event, bool) {
	if id == "" {
		return Event{}, false
	}
	for _, e := range s.events {
		if e.Id == id {
			return e, true
		}
	}
	return Event{}, false
}

// FindFollowing returns the events sharing the title of event id that start strictly
// after now, ordered by start time. Events starting at the same instant keep their
// calendar order.
func (s *Store) FindFollowing(id string, now time.Time) []Event {
	following := []Event{}
	reference, ok := s.FindByID(id)
	if !ok {
		return following
	}

	for _, e := range s.events {
		if e.Title == reference.Title && e.Start.After(now) {
			following = append(following, e)
		}
	}

	sort.SliceStable(following, func(i, j int) bool {
		return following[i].Start.Before(following[j].Start)
	})
	return following
}
