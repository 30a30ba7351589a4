package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

// Sink accepts a finished report for durable or in-memory storage.
type Sink interface {
	Save(ctx context.Context, report *travel.TravelReport) error
}

// Sinks fans a report out to several sinks in order, stopping at the first error.
type Sinks []Sink

func (ss Sinks) Save(ctx context.Context, report *travel.TravelReport) error {
	for _, s := range ss {
		if err := s.Save(ctx, report); err != nil {
			return err
		}
	}
	return nil
}

const fileTimeLayout = "20060102_150405"

// FileSink writes each report once as travel_report_<timestamp>.txt and .json.
type FileSink struct {
	dir string
	now func() time.Time
}

var _ Sink = (*FileSink)(nil)

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir, now: time.Now}
}

// Artifact names the two files written for one report.
type Artifact struct {
	TextPath   string
	RecordPath string
}

// Paths returns the artifact used for a report finalized at t. A positive seq
// distinguishes reports finalized within the same second.
func (f *FileSink) Paths(t time.Time, seq int) Artifact {
	name := "travel_report_" + t.Format(fileTimeLayout)
	if seq > 0 {
		name += "_" + strconv.Itoa(seq+1)
	}
	base := filepath.Join(f.dir, name)
	return Artifact{TextPath: base + ".txt", RecordPath: base + ".json"}
}

func (f *FileSink) Save(ctx context.Context, report *travel.TravelReport) error {
	_, err := f.Write(ctx, report)
	return err
}

// Write stores the transcript and the indented structured record, and returns where.
// Existing artifacts are never overwritten.
func (f *FileSink) Write(_ context.Context, report *travel.TravelReport) (Artifact, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(report.Cities, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("encode record: %w", err)
	}

	a, txt, rec, err := f.reserve(f.now())
	if err != nil {
		return Artifact{}, err
	}
	defer txt.Close()
	defer rec.Close()

	if _, err := txt.WriteString(report.Text()); err != nil {
		return Artifact{}, fmt.Errorf("write transcript: %w", err)
	}
	if _, err := rec.Write(data); err != nil {
		return Artifact{}, fmt.Errorf("write record: %w", err)
	}
	return a, nil
}

// reserve creates both artifact files exclusively, moving to the next sequence
// number while either name is taken.
func (f *FileSink) reserve(t time.Time) (Artifact, *os.File, *os.File, error) {
	for seq := 0; ; seq++ {
		a := f.Paths(t, seq)
		txt, err := createExclusive(a.TextPath)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return Artifact{}, nil, nil, fmt.Errorf("create transcript: %w", err)
		}
		rec, err := createExclusive(a.RecordPath)
		if err != nil {
			txt.Close()
			os.Remove(a.TextPath)
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return Artifact{}, nil, nil, fmt.Errorf("create record: %w", err)
		}
		return a, txt, rec, nil
	}
}

func createExclusive(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}
