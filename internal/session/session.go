// Package session runs the interactive planning exchange on a terminal.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/i474232898/retirement-travel-planner/internal/agent"
	"github.com/i474232898/retirement-travel-planner/internal/common"
	"github.com/i474232898/retirement-travel-planner/internal/store"
	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

const (
	Title          = "RETIREMENT TRAVEL PLANNER"
	ReportHeading  = "\n=== RETIREMENT TRAVEL REPORT ===\n"
	RequestPrompt  = "Your request: "
	FollowUpPrompt = "\nWould you like more specific information (weather, air quality, attractions)? (yes/no): "
	CitiesPrompt   = "Enter the cities again (comma separated, e.g. New York, Miami): "
	ThankYou       = "\nThank you for using the Retirement Travel Planner!"
)

// Planner answers a free-text request.
type Planner interface {
	Run(ctx context.Context, utterance string) (agent.Plan, error)
}

// ReportBuilder appends detailed city sections to a report.
type ReportBuilder interface {
	RunInto(ctx context.Context, report *travel.TravelReport, cities []string)
}

// ArtifactWriter persists a finished report and says where.
type ArtifactWriter interface {
	Write(ctx context.Context, report *travel.TravelReport) (store.Artifact, error)
}

// Session owns one interactive exchange: a request, a narrative, and an optional detailed report.
type Session struct {
	in      *bufio.Reader
	out     io.Writer
	planner Planner
	builder ReportBuilder
	writer  ArtifactWriter
	logger  *slog.Logger
}

func New(in io.Reader, out io.Writer, planner Planner, builder ReportBuilder, writer ArtifactWriter, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		in:      bufio.NewReader(in),
		out:     out,
		planner: planner,
		builder: builder,
		writer:  writer,
		logger:  logger,
	}
}

// Run drives the exchange. Everything logged goes into the report transcript and is
// echoed to the terminal; prompts are shown but not recorded.
func (s *Session) Run(ctx context.Context) (*travel.TravelReport, error) {
	report := travel.NewTravelReport(travel.NewTranscript(s.out))
	log := report.Transcript

	log.Log(travel.Rule)
	log.Log(Title)
	log.Log(travel.Rule)
	log.Log("\nEnter your travel request below.")
	log.Log("Example: Plan a retirement trip to Toronto and Chicago.\n")

	utterance := s.prompt(RequestPrompt)

	log.Log("\nPlanning trip...\n")
	plan, err := s.planner.Run(ctx, utterance)
	switch {
	case errors.Is(err, agent.ErrIterationLimit):
		s.logger.Warn("planner stopped early", "iterations", plan.Iterations)
		log.Log("The planner stopped before finishing its answer.")
	case err != nil:
		return report, err
	}
	s.logger.Info("plan finished", "iterations", plan.Iterations, "tool_calls", len(plan.Invocations))

	log.Log(ReportHeading)
	if plan.Narrative != "" {
		log.Log(plan.Narrative)
	}

	answer := strings.ToLower(s.prompt(FollowUpPrompt))
	if answer != "yes" {
		return report, s.finish(ctx, report)
	}

	log.Log("\nGenerating detailed information...\n")
	cities := common.SplitCities(s.prompt(CitiesPrompt))
	s.builder.RunInto(ctx, report, cities)

	return report, s.finish(ctx, report)
}

func (s *Session) finish(ctx context.Context, report *travel.TravelReport) error {
	a, err := s.writer.Write(ctx, report)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	fmt.Fprintln(s.out, "\nOutput saved to:")
	fmt.Fprintln(s.out, " - "+a.TextPath)
	fmt.Fprintln(s.out, " - "+a.RecordPath)
	report.Transcript.Log(ThankYou)
	return nil
}

// prompt shows text and reads one trimmed line. End of input reads as an empty answer.
func (s *Session) prompt(text string) string {
	fmt.Fprint(s.out, text)
	line, err := s.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("read input", "error", err)
	}
	return strings.TrimSpace(line)
}
