package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/i474232898/retirement-travel-planner/internal/agent"
)

var errNoChoices = errors.New("empty completion")

// OpenAIEngine drives the dispatch loop with the chat completions API.
type OpenAIEngine struct {
	client      *openai.Client
	model       string
	temperature float32
}

var _ agent.Engine = (*OpenAIEngine)(nil)

// NewOpenAIEngine builds an engine from an API key. A non-empty baseURL overrides the endpoint.
func NewOpenAIEngine(apiKey, baseURL string, s Settings) *OpenAIEngine {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if s.HTTPClient != nil {
		cfg.HTTPClient = s.HTTPClient
	}
	return &OpenAIEngine{
		client:      openai.NewClientWithConfig(cfg),
		model:       s.Model,
		temperature: s.Temperature,
	}
}

func (e *OpenAIEngine) Next(ctx context.Context, tools []agent.Tool, history []agent.Message) (agent.Step, error) {
	req := openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temperature,
		Messages:    toOpenAIMessages(history),
		Tools:       toOpenAITools(tools),
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return agent.Step{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return agent.Step{}, fmt.Errorf("openai: %w", errNoChoices)
	}

	msg := resp.Choices[0].Message
	step := agent.Step{Message: msg.Content}
	for _, tc := range msg.ToolCalls {
		step.ToolCalls = append(step.ToolCalls, agent.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: []byte(tc.Function.Arguments),
		})
	}
	return step, nil
}

func toOpenAITools(tools []agent.Tool) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

func toOpenAIMessages(history []agent.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		msg := openai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		out = append(out, msg)
	}
	return out
}
