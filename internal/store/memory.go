package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

var (
	// ErrNotFound is returned when no report matches the lookup.
	ErrNotFound = errors.New("no travel report found")
)

// MemoryStore is a concurrency-safe in-memory history of finished reports.
type MemoryStore struct {
	mu sync.RWMutex

	// oldest first
	reports []*travel.TravelReport

	// retention configuration
	maxHistory int           // max number of reports kept
	maxAge     time.Duration // optional max age for reports
}

var _ Sink = (*MemoryStore)(nil)

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a finished report and enforces retention.
func (s *MemoryStore) Save(_ context.Context, report *travel.TravelReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, report)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.reports) > s.maxHistory {
		over := len(s.reports) - s.maxHistory
		s.reports = s.reports[over:]
	}

	// Enforce retention by age. The newest report is always kept.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.reports)-1; i++ {
			if !s.reports[i].CreatedAt.Before(cutoff) {
				break
			}
		}
		s.reports = s.reports[i:]
	}
	return nil
}

// Latest returns the most recent report.
func (s *MemoryStore) Latest() (*travel.TravelReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.reports) == 0 {
		return nil, ErrNotFound
	}
	return s.reports[len(s.reports)-1], nil
}

// Get returns the report with the given run ID.
func (s *MemoryStore) Get(id uuid.UUID) (*travel.TravelReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

// Range returns all reports created between from and to (inclusive), oldest first.
func (s *MemoryStore) Range(from, to time.Time) ([]*travel.TravelReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*travel.TravelReport
	for _, r := range s.reports {
		if !r.CreatedAt.Before(from) && !r.CreatedAt.After(to) {
			result = append(result, r)
		}
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
