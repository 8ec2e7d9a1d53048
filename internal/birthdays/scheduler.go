// internal/birthdays/scheduler.go
package birthdays

import (
	"context"
	"log/slog"
	"time"

	"discord-community-bot/internal/models"
)

// AnnounceFunc delivers the day's birthdays to the chat surface.
type AnnounceFunc func(bdays []models.Birthday)

// Scheduler fires once per day at a fixed local hour and announces that
// day's birthdays.
type Scheduler struct {
	store    *Store
	hour     int
	announce AnnounceFunc
	log      *slog.Logger
}

func NewScheduler(store *Store, hour int, announce AnnounceFunc, log *slog.Logger) *Scheduler {
	return &Scheduler{store: store, hour: hour, announce: announce, log: log}
}

// nextRun returns the next occurrence of the configured hour after now.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		now := time.Now()
		next := nextRun(now, s.hour)
		s.log.Debug("birthday check scheduled", "at", next)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.check(ctx, next)
		}
	}
}

func (s *Scheduler) check(ctx context.Context, day time.Time) {
	bdays, err := s.store.ByMonthDay(ctx, day.Format("01-02"))
	if err != nil {
		s.log.Error("birthday lookup failed", "err", err)
		return
	}
	if len(bdays) == 0 {
		return
	}
	s.log.Info("announcing birthdays", "count", len(bdays))
	s.announce(bdays)
}
