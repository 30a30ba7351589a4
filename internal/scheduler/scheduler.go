package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

// Reporter builds and stores one detailed report.
type Reporter interface {
	Report(ctx context.Context, cities []string) (*travel.TravelReport, error)
}

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = 6 * time.Hour

// Scheduler periodically builds a report for the watched cities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reporter  Reporter
	cities    []string
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler. Each run gets timeout per city to finish.
func New(cities []string, interval, timeout time.Duration, reporter Reporter, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		reporter:  reporter,
		cities:    cities,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		s.logger.Info("scheduler: no cities configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// runOnce builds one report. Cities are processed sequentially by the aggregator,
// so the deadline scales with the number of cities.
func (s *Scheduler) runOnce() {
	s.logger.Info("scheduler: running report job", "cities", len(s.cities))

	timeout := s.timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout*time.Duration(len(s.cities)))
	defer cancel()

	report, err := s.reporter.Report(ctx, s.cities)
	if err != nil {
		s.logger.Error("scheduler: report job failed", "error", err)
		return
	}
	s.logger.Info("scheduler: completed report job", "id", report.ID, "succeeded", report.Cities.Len())
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
