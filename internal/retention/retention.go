// Package retention prunes aged data on a schedule.
package retention

import (
	"context"
	"time"

	"devmate/internal/middleware"
	"devmate/internal/repository"

	"github.com/robfig/cron/v3"
)

// ReadNotificationMaxAge is how long read notifications are kept before the
// hourly purge removes them.
const ReadNotificationMaxAge = 30 * 24 * time.Hour

// Janitor deletes read notifications older than the retention window.
type Janitor struct {
	notificationRepo repository.NotificationRepository
	maxAge           time.Duration
	cron             *cron.Cron
}

// NewJanitor creates a Janitor with the default retention window.
func NewJanitor(notificationRepo repository.NotificationRepository) *Janitor {
	return &Janitor{
		notificationRepo: notificationRepo,
		maxAge:           ReadNotificationMaxAge,
	}
}

// Start schedules the hourly purge. It returns immediately; the cron runner
// owns its own goroutine until Stop is called.
func (j *Janitor) Start() error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc("@hourly", func() {
		j.RunOnce(context.Background())
	}); err != nil {
		return err
	}
	j.cron.Start()
	middleware.Logger.Info("notification retention janitor started", "max_age", j.maxAge.String())
	return nil
}

// RunOnce performs a single purge pass and returns the number of rows removed.
func (j *Janitor) RunOnce(ctx context.Context) int64 {
	cutoff := time.Now().Add(-j.maxAge)
	removed, err := j.notificationRepo.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		middleware.Logger.Error("notification retention purge failed", "error", err)
		return 0
	}
	if removed > 0 {
		middleware.Logger.Info("purged read notifications", "removed", removed, "cutoff", cutoff)
	}
	return removed
}

// Stop halts the schedule and waits for an in-flight purge to finish.
func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}
