package timetable

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Reloader re-reads the calendar snapshot on a cron schedule, e.g. "@every 1h" or
// "0 6 * * 1-5". An empty schedule disables it.
type Reloader struct {
	session  *Session
	schedule string
	cron     *cron.Cron
}

func NewReloader(session *Session, schedule string) (*Reloader, error) {
	r := &Reloader{session: session, schedule: schedule}
	if schedule == "" {
		return r, nil
	}

	c := cron.New(cron.WithLocation(session.Location()))
	if _, err := c.AddFunc(schedule, r.reload); err != nil {
		return nil, fmt.Errorf("invalid snapshot reload schedule %q: %w", schedule, err)
	}
	r.cron = c
	return r, nil
}

func (r *Reloader) Enabled() bool {
	return r.cron != nil
}

func (r *Reloader) Start() {
	if !r.Enabled() {
		log.Info("Snapshot reload disabled")
		return
	}
	r.cron.Start()
	log.Infof("Snapshot reload scheduled (%s), next run at %s", r.schedule, r.Next().Format(time.RFC3339))
}

// Stop stops the schedule and waits for a running reload to finish or ctx to expire.
func (r *Reloader) Stop(ctx context.Context) {
	if !r.Enabled() {
		return
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
		log.Warnf("Snapshot reload still running at shutdown: %v", ctx.Err())
	}
}

// Next returns the next scheduled reload, or the zero time when disabled or not started.
func (r *Reloader) Next() time.Time {
	if !r.Enabled() {
		return time.Time{}
	}
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (r *Reloader) reload() {
	log.Debug("Reloading calendar snapshot")
	if err := r.session.LoadSnapshot(context.Background()); err != nil {
		log.Errorf("Scheduled snapshot reload failed: %v", err)
	}
}
