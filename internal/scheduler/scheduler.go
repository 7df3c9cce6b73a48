package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/jogging-weather/internal/observability"
)

// Counter reports how many records a store holds.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Scheduler periodically refreshes the stored-record gauge.
type Scheduler struct {
	scheduler *gocron.Scheduler
	counter   Counter
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(counter Counter, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		counter:   counter,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: stats interval not set; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := s.counter.Count(ctx)
	if err != nil {
		s.logger.Warn("scheduler: failed to count stored records", "error", err)
		return
	}
	observability.SetRecordsStored(n)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
