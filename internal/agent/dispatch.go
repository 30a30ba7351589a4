package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultMaxIterations bounds the number of engine turns in one exchange.
const DefaultMaxIterations = 10

// ErrIterationLimit is returned when the engine keeps requesting tools past the cap.
var ErrIterationLimit = errors.New("agent: iteration limit reached")

// SystemPrompt frames the engine as a retirement travel planner.
const SystemPrompt = `You are a retirement travel planning assistant.
For every city the user mentions, call geocode_city first, then use the returned
latitude and longitude with get_weather, get_air_quality and get_places.
Prefer tourist_attraction, museum and park when choosing place types.
Write a friendly, practical report covering weather, what to wear, air quality,
health advice and the attractions worth visiting. If a tool fails, say so plainly
and continue with the remaining cities.`

// Invocation records one executed tool call.
type Invocation struct {
	Call   ToolCall
	Result ToolResult
}

// Plan is the outcome of one planning exchange.
type Plan struct {
	Narrative   string
	Invocations []Invocation
	Iterations  int
}

// Dispatcher relays tool calls between an Engine and a Catalog.
type Dispatcher struct {
	engine        Engine
	catalog       *Catalog
	systemPrompt  string
	maxIterations int
	logger        *slog.Logger
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithMaxIterations sets the engine turn cap. Values below 1 are ignored.
func WithMaxIterations(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxIterations = n
		}
	}
}

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(p string) Option {
	return func(d *Dispatcher) {
		d.systemPrompt = p
	}
}

// WithLogger sets the logger used for tool call diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

func NewDispatcher(engine Engine, catalog *Catalog, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		engine:        engine,
		catalog:       catalog,
		systemPrompt:  SystemPrompt,
		maxIterations: DefaultMaxIterations,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run hands utterance to the engine and executes every tool call it requests until
// it produces a final message. Tool failures go back to the engine as data; only
// engine failures and the iteration cap end the exchange with an error.
func (d *Dispatcher) Run(ctx context.Context, utterance string) (Plan, error) {
	tools := d.catalog.Tools()
	history := []Message{
		{Role: RoleSystem, Content: d.systemPrompt},
		{Role: RoleUser, Content: utterance},
	}

	var plan Plan
	for i := 0; i < d.maxIterations; i++ {
		plan.Iterations = i + 1

		step, err := d.engine.Next(ctx, tools, history)
		if err != nil {
			return plan, fmt.Errorf("reasoning engine: %w", err)
		}
		if step.Final() {
			plan.Narrative = step.Message
			return plan, nil
		}

		history = append(history, Message{Role: RoleAssistant, Content: step.Message, ToolCalls: step.ToolCalls})
		for _, call := range step.ToolCalls {
			result := d.catalog.Execute(ctx, call)
			if result.Success {
				d.logger.Info("tool call", "tool", call.Name, "iteration", i+1)
			} else {
				d.logger.Warn("tool call failed", "tool", call.Name, "iteration", i+1, "error", result.Error)
			}
			plan.Invocations = append(plan.Invocations, Invocation{Call: call, Result: result})
			history = append(history, Message{
				Role:       RoleTool,
				Content:    result.Content(),
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
		}
	}
	return plan, ErrIterationLimit
}
