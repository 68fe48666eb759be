package app

import (
	"github.com/edt-iut/timetable/internal/config"
	"github.com/edt-iut/timetable/internal/event_bus"
	"github.com/edt-iut/timetable/internal/utils"
	"github.com/edt-iut/timetable/pkg/stats"
	"github.com/edt-iut/timetable/pkg/timetable"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	Session          *timetable.Session
	CsvStatsRenderer *stats.CsvStatsRenderer
	TimetableHandler *timetable.Handler
	Reloader         *timetable.Reloader
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) (*Dependencies, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	mergeWindow, err := cfg.MergeWindowDuration()
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{}
	deps.Clock = utils.SystemClock{Location: loc}
	deps.EventBus = event_bus.NewEventBus()
	subscribeLogging(deps.EventBus)

	deps.Session, err = timetable.NewSession(timetable.Options{
		Location:     loc,
		Hours:        cfg.Hours,
		Blacklist:    cfg.Blacklist,
		MergeWindow:  mergeWindow,
		CacheSize:    cfg.Cache.Size,
		SnapshotPath: cfg.Snapshot.Path,
	}, deps.Clock, deps.EventBus)
	if err != nil {
		return nil, err
	}
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.TimetableHandler = timetable.NewHandler(deps.Session, deps.CsvStatsRenderer)

	deps.Reloader, err = timetable.NewReloader(deps.Session, cfg.Snapshot.Reload)
	if err != nil {
		return nil, err
	}

	return deps, nil
}

func subscribeLogging(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.WeekChanged, func(e event_bus.EventT[event_bus.WeekChangedPayload]) error {
		log.WithField("action", e.Data.Action).Infof("Displaying week %s", e.Data.Start.Format("2006-01-02"))
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.EventSelected, func(e event_bus.EventT[event_bus.EventSelectedPayload]) error {
		if e.Data.EventId == "" {
			log.Info("Selection cleared")
			return nil
		}
		log.Infof("Selected event %s (%s)", e.Data.EventId, e.Data.Title)
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.CalendarLoaded, func(e event_bus.EventT[event_bus.CalendarLoadedPayload]) error {
		entry := log.WithFields(log.Fields{
			"source": e.Data.Source,
			"weeks":  e.Data.Weeks,
			"events": e.Data.Events,
		})
		if e.Data.Degraded {
			entry.Warn("Calendar unavailable, serving an empty timetable")
			return nil
		}
		entry.Info("Calendar loaded")
		return nil
	})
}
