package timetable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/edt-iut/timetable/internal/event_bus"
	"github.com/edt-iut/timetable/internal/utils"
	"github.com/edt-iut/timetable/pkg/calendar"
	"github.com/edt-iut/timetable/pkg/selection"
	"github.com/edt-iut/timetable/pkg/stats"
	"github.com/edt-iut/timetable/pkg/week"
	"github.com/edt-iut/timetable/pkg/weekview"
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
)

var ErrNoDataForWeek = errors.New("no data for week")

const defaultCacheSize = 32

type Options struct {
	Location     *time.Location
	Hours        []string
	Blacklist    []string
	MergeWindow  time.Duration
	CacheSize    int
	SnapshotPath string
}

// Session owns the state the timetable page works on: the loaded calendar, the
// displayed week and the selected event. Accessors derive everything else from that
// state; actions change it and publish a notification on the bus.
type Session struct {
	mu        sync.RWMutex
	store     *calendar.Store
	interval  week.Interval
	selection selection.Selection

	aggregator *stats.Aggregator
	// formatted weeks keyed by ISO week; purged whenever the calendar is replaced
	formatted *lru.Cache[string, []calendar.Day]

	opts  Options
	clock utils.Clock
	bus   *event_bus.EventBus
}

func NewSession(opts Options, clock utils.Clock, bus *event_bus.EventBus) (*Session, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MergeWindow <= 0 {
		opts.MergeWindow = weekview.DefaultMergeWindow
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if clock == nil {
		clock = utils.SystemClock{Location: opts.Location}
	}
	if bus == nil {
		bus = event_bus.NewEventBus()
	}

	cache, err := lru.New[string, []calendar.Day](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create week cache: %w", err)
	}

	s := &Session{
		store:      calendar.NewStore(),
		aggregator: stats.NewAggregator(opts.Blacklist),
		formatted:  cache,
		opts:       opts,
		clock:      clock,
		bus:        bus,
	}
	s.interval = week.Current(s.now())
	return s, nil
}

func (s *Session) now() time.Time {
	return s.clock.Now().In(s.opts.Location)
}

func (s *Session) Location() *time.Location {
	return s.opts.Location
}

// Hours returns the hour labels of the week grid.
func (s *Session) Hours() []string {
	return s.opts.Hours
}

func (s *Session) WeekInterval() week.Interval {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interval
}

func (s *Session) Calendar() calendar.Calendar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Weeks()
}

func (s *Session) EventByID(id string) (calendar.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.FindByID(id)
}

// FollowingEvents lists the upcoming sessions of the course of event id.
func (s *Session) FollowingEvents(id string) []calendar.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.FindFollowing(id, s.now())
}

// EventsForWeek returns the calendar week shown for the current interval.
func (s *Session) EventsForWeek() (calendar.Week, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return weekview.WeekFor(s.store.Weeks(), s.interval)
}

func (s *Session) DatesInWeek() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return weekview.Dates(s.interval)
}

// FormattedEvents returns the displayed days with adjacent sessions merged.
// The returned slice is shared with the cache and must not be modified.
func (s *Session) FormattedEvents() []calendar.Day {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := s.interval.Number().String()
	if days, ok := s.formatted.Get(key); ok {
		log.Tracef("Formatted week %s served from cache", key)
		return days
	}
	days := weekview.Format(s.store.Weeks(), s.interval, s.opts.MergeWindow)
	s.formatted.Add(key, days)
	return days
}

func (s *Session) TotalHoursForWeek() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aggregator.TotalHoursForWeek(s.store.Weeks(), s.interval)
}

// TotalForWeek returns the raw week total; the boolean is false when no week matches.
func (s *Session) TotalForWeek() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aggregator.Total(s.store.Weeks(), s.interval)
}

func (s *Session) Summary() stats.WeeklyStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aggregator.Summary(s.store.Weeks(), s.interval)
}

func (s *Session) SelectedEvent() (calendar.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection.Current()
}

// ResetToToday shows the week containing the current instant.
func (s *Session) ResetToToday(ctx context.Context) week.Interval {
	return s.setInterval(ctx, "today", func(week.Interval) week.Interval {
		return week.Current(s.now())
	})
}

func (s *Session) PreviousWeek(ctx context.Context) week.Interval {
	return s.setInterval(ctx, week.Previous.String(), func(current week.Interval) week.Interval {
		return week.Shift(week.Previous, current)
	})
}

func (s *Session) NextWeek(ctx context.Context) week.Interval {
	return s.setInterval(ctx, week.Next.String(), func(current week.Interval) week.Interval {
		return week.Shift(week.Next, current)
	})
}

// GoToWeek shows the ISO week n.
func (s *Session) GoToWeek(ctx context.Context, n week.Number) week.Interval {
	return s.setInterval(ctx, "goto", func(week.Interval) week.Interval {
		return n.Interval(s.opts.Location)
	})
}

func (s *Session) setInterval(ctx context.Context, action string, next func(week.Interval) week.Interval) week.Interval {
	s.mu.Lock()
	s.interval = next(s.interval)
	interval := s.interval
	s.mu.Unlock()

	log.Debugf("Week changed (%s): %s", action, interval)
	s.publish(ctx, event_bus.WeekChanged, event_bus.WeekChangedPayload{
		Action: action,
		Start:  interval.Start,
		End:    interval.End,
	})
	return interval
}

// Load replaces the calendar. source names where it came from, for notifications.
func (s *Session) Load(ctx context.Context, cal calendar.Calendar, source string) {
	s.replace(ctx, source, func(store *calendar.Store) error {
		store.Load(cal)
		return nil
	})
}

// LoadSnapshot reads the configured snapshot file. A missing or malformed snapshot
// leaves an empty calendar; the error is returned for reporting only.
func (s *Session) LoadSnapshot(ctx context.Context) error {
	return s.replace(ctx, s.opts.SnapshotPath, func(store *calendar.Store) error {
		return store.LoadSnapshot(s.opts.SnapshotPath, s.opts.Location)
	})
}

func (s *Session) replace(ctx context.Context, source string, load func(*calendar.Store) error) error {
	store := calendar.NewStore()
	loadErr := load(store)

	s.mu.Lock()
	s.store = store
	s.formatted.Purge()
	s.mu.Unlock()

	s.publish(ctx, event_bus.CalendarLoaded, event_bus.CalendarLoadedPayload{
		Source:   source,
		Weeks:    len(store.Weeks()),
		Events:   len(store.Events()),
		Degraded: loadErr != nil,
	})
	return loadErr
}

// Select stores a copy of event as the selected event; nil clears the selection.
func (s *Session) Select(ctx context.Context, event *calendar.Event) {
	s.mu.Lock()
	s.selection.Select(event)
	current, _ := s.selection.Current()
	s.mu.Unlock()

	s.publish(ctx, event_bus.EventSelected, event_bus.EventSelectedPayload{
		EventId: current.Id,
		Title:   current.Title,
	})
}

func (s *Session) publish(ctx context.Context, eventType event_bus.EventType, payload any) {
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, payload)); err != nil {
		log.Warnf("Failed to publish %s: %v", eventType, err)
	}
}
