package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/retirement-travel-planner/internal/agent"
	"github.com/i474232898/retirement-travel-planner/internal/store"
	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

// ErrNoEngine is returned by Plan when no reasoning engine is configured.
var ErrNoEngine = errors.New("no reasoning engine configured")

// ErrNoCities is returned by Report for an empty city list.
var ErrNoCities = errors.New("at least one city is required")

// Service runs planning exchanges and detailed reports, and keeps finished reports.
type Service struct {
	aggregator *travel.Aggregator
	dispatcher *agent.Dispatcher
	reports    *store.MemoryStore
	sink       store.Sink
	logger     *slog.Logger
}

// NewService creates a new Service. dispatcher may be nil, in which case Plan fails
// with ErrNoEngine. Every report is saved to reports and then to sink, if any.
func NewService(aggregator *travel.Aggregator, dispatcher *agent.Dispatcher, reports *store.MemoryStore, sink store.Sink, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		aggregator: aggregator,
		dispatcher: dispatcher,
		reports:    reports,
		sink:       sink,
		logger:     logger,
	}
}

// Report builds and stores a detailed report for cities. Per-city failures are part of
// the report; only an empty request or a storage failure is an error.
func (s *Service) Report(ctx context.Context, cities []string) (*travel.TravelReport, error) {
	if len(cities) == 0 {
		return nil, ErrNoCities
	}

	start := time.Now()
	report := s.aggregator.Run(ctx, cities)
	s.logger.Info("report built",
		"id", report.ID,
		"requested", len(cities),
		"succeeded", report.Cities.Len(),
		"duration", time.Since(start),
	)

	if err := s.reports.Save(ctx, report); err != nil {
		return report, fmt.Errorf("store report: %w", err)
	}
	if s.sink != nil {
		if err := s.sink.Save(ctx, report); err != nil {
			return report, fmt.Errorf("persist report: %w", err)
		}
	}
	return report, nil
}

// Plan hands a free-text request to the reasoning engine.
func (s *Service) Plan(ctx context.Context, utterance string) (agent.Plan, error) {
	if s.dispatcher == nil {
		return agent.Plan{}, ErrNoEngine
	}
	return s.dispatcher.Run(ctx, utterance)
}

// Latest delegates to the underlying store.
func (s *Service) Latest() (*travel.TravelReport, error) {
	return s.reports.Latest()
}

// Get delegates to the underlying store.
func (s *Service) Get(id uuid.UUID) (*travel.TravelReport, error) {
	return s.reports.Get(id)
}

// Range delegates to the underlying store.
func (s *Service) Range(from, to time.Time) ([]*travel.TravelReport, error) {
	return s.reports.Range(from, to)
}
