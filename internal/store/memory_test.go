package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

func reportAt(t time.Time) *travel.TravelReport {
	r := travel.NewTravelReport(nil)
	r.CreatedAt = t
	return r
}

func TestMemoryStoreRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	now := time.Now()
	ctx := context.Background()

	var last *travel.TravelReport
	for i := 0; i < 3; i++ {
		last = reportAt(now.Add(time.Duration(i) * time.Second))
		s.Save(ctx, last)
	}

	got, err := s.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != last {
		t.Fatal("expected latest report")
	}
	all, err := s.Range(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 retained reports, got %d", len(all))
	}
}

func TestMemoryStoreRetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	ctx := context.Background()
	old := reportAt(time.Now().Add(-2 * time.Hour))
	fresh := reportAt(time.Now())

	s.Save(ctx, old)
	s.Save(ctx, fresh)

	if _, err := s.Get(old.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old report to be evicted, got %v", err)
	}
	if got, err := s.Get(fresh.ID); err != nil || got != fresh {
		t.Fatalf("expected fresh report, got %v %v", got, err)
	}
}

func TestMemoryStoreEmpty(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)
	if _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Get(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Range(time.Now().Add(-time.Hour), time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
