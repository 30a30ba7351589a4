package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/i474232898/retirement-travel-planner/internal/agent"
	"github.com/i474232898/retirement-travel-planner/internal/store"
	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

type fakePlanner struct {
	got  string
	plan agent.Plan
	err  error
}

func (f *fakePlanner) Run(_ context.Context, utterance string) (agent.Plan, error) {
	f.got = utterance
	return f.plan, f.err
}

type fakeBuilder struct{ cities []string }

func (f *fakeBuilder) RunInto(_ context.Context, report *travel.TravelReport, cities []string) {
	f.cities = cities
	for _, c := range cities {
		report.Transcript.Log(strings.ToUpper(c))
		report.Cities.Set(c, travel.CityReport{Location: c, Places: travel.NewAttractionSet()})
	}
}

type fakeWriter struct {
	saved *travel.TravelReport
	text  string
	err   error
}

func (f *fakeWriter) Write(_ context.Context, report *travel.TravelReport) (store.Artifact, error) {
	f.saved = report
	f.text = report.Text()
	return store.Artifact{TextPath: "a.txt", RecordPath: "a.json"}, f.err
}

func TestSessionDeclinedFollowUp(t *testing.T) {
	planner := &fakePlanner{plan: agent.Plan{Narrative: "Toronto is chilly."}}
	builder := &fakeBuilder{}
	writer := &fakeWriter{}
	var out strings.Builder

	s := New(strings.NewReader("Plan a trip to Toronto\nno\n"), &out, planner, builder, writer, nil)
	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if planner.got != "Plan a trip to Toronto" {
		t.Fatalf("unexpected utterance %q", planner.got)
	}
	if builder.cities != nil {
		t.Fatal("aggregator must not run when follow-up is declined")
	}
	if writer.saved != report || report.Cities.Len() != 0 {
		t.Fatal("expected the report to be saved with an empty record")
	}
	if !strings.Contains(writer.text, "Toronto is chilly.") || strings.Contains(writer.text, "Thank you") {
		t.Fatalf("unexpected saved transcript %q", writer.text)
	}
	for _, want := range []string{RequestPrompt, FollowUpPrompt, "=== RETIREMENT TRAVEL REPORT ===", " - a.json", ThankYou} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if strings.Contains(writer.text, RequestPrompt) {
		t.Fatal("prompts must not be recorded in the transcript")
	}
}

func TestSessionDetailedReport(t *testing.T) {
	planner := &fakePlanner{plan: agent.Plan{Narrative: "Both are lovely."}}
	builder := &fakeBuilder{}
	writer := &fakeWriter{}
	var out strings.Builder

	in := "Toronto and Miami\n YES \n New York, Miami,, \n"
	report, err := New(strings.NewReader(in), &out, planner, builder, writer, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(builder.cities, "|") != "New York|Miami" {
		t.Fatalf("unexpected cities %v", builder.cities)
	}
	if report.Cities.Len() != 2 {
		t.Fatalf("expected 2 cities, got %d", report.Cities.Len())
	}
	if !strings.Contains(writer.text, "Generating detailed information...") || !strings.Contains(writer.text, "NEW YORK") {
		t.Fatalf("unexpected transcript %q", writer.text)
	}
	if !strings.Contains(out.String(), CitiesPrompt) {
		t.Fatal("expected cities prompt")
	}
}

func TestSessionIterationLimitContinues(t *testing.T) {
	planner := &fakePlanner{err: agent.ErrIterationLimit, plan: agent.Plan{Iterations: 10}}
	writer := &fakeWriter{}
	var out strings.Builder

	_, err := New(strings.NewReader("hi\n"), &out, planner, &fakeBuilder{}, writer, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if writer.saved == nil {
		t.Fatal("expected report to be saved")
	}
}

func TestSessionEngineFailure(t *testing.T) {
	boom := errors.New("engine down")
	writer := &fakeWriter{}
	var out strings.Builder

	_, err := New(strings.NewReader("hi\n"), &out, &fakePlanner{err: boom}, &fakeBuilder{}, writer, nil).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected engine error, got %v", err)
	}
	if writer.saved != nil {
		t.Fatal("nothing should be saved after an engine failure")
	}
}

func TestSessionSaveFailure(t *testing.T) {
	writer := &fakeWriter{err: errors.New("disk full")}
	var out strings.Builder

	_, err := New(strings.NewReader("hi\nno\n"), &out, &fakePlanner{}, &fakeBuilder{}, writer, nil).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected save error, got %v", err)
	}
}
