package llm

import (
	"context"
	"encoding/json"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/i474232898/retirement-travel-planner/internal/agent"
)

// AnthropicEngine drives the dispatch loop with the messages API.
type AnthropicEngine struct {
	client      *anthropic.Client
	model       string
	temperature float32
	maxTokens   int
}

var _ agent.Engine = (*AnthropicEngine)(nil)

// NewAnthropicEngine builds an engine from an API key. A non-empty baseURL overrides the endpoint.
func NewAnthropicEngine(apiKey, baseURL string, s Settings) *AnthropicEngine {
	opts := make([]anthropic.ClientOption, 0, 2)
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	if s.HTTPClient != nil {
		opts = append(opts, anthropic.WithHTTPClient(s.HTTPClient))
	}
	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &AnthropicEngine{
		client:      anthropic.NewClient(apiKey, opts...),
		model:       s.Model,
		temperature: s.Temperature,
		maxTokens:   maxTokens,
	}
}

func (e *AnthropicEngine) Next(ctx context.Context, tools []agent.Tool, history []agent.Message) (agent.Step, error) {
	system, messages := toAnthropicMessages(history)
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(e.model),
		System:      system,
		Messages:    messages,
		MaxTokens:   e.maxTokens,
		Temperature: &e.temperature,
		Tools:       toAnthropicTools(tools),
	}

	resp, err := e.client.CreateMessages(ctx, req)
	if err != nil {
		return agent.Step{}, fmt.Errorf("anthropic: %w", err)
	}

	var step agent.Step
	for _, c := range resp.Content {
		switch c.Type {
		case anthropic.MessagesContentTypeText:
			step.Message += c.GetText()
		case anthropic.MessagesContentTypeToolUse:
			if c.MessageContentToolUse == nil {
				continue
			}
			step.ToolCalls = append(step.ToolCalls, agent.ToolCall{
				ID:        c.MessageContentToolUse.ID,
				Name:      c.MessageContentToolUse.Name,
				Arguments: c.MessageContentToolUse.Input,
			})
		}
	}
	return step, nil
}

func toAnthropicTools(tools []agent.Tool) []anthropic.ToolDefinition {
	out := make([]anthropic.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		out = append(out, anthropic.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.Parameters,
		})
	}
	return out
}

// toAnthropicMessages splits out the system prompt and groups consecutive tool
// results into one user message, as the messages API requires.
func toAnthropicMessages(history []agent.Message) (string, []anthropic.Message) {
	var system string
	var out []anthropic.Message
	for _, m := range history {
		switch m.Role {
		case agent.RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
		case agent.RoleUser:
			out = append(out, anthropic.Message{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
			})
		case agent.RoleAssistant:
			content := make([]anthropic.MessageContent, 0, len(m.ToolCalls)+1)
			if m.Content != "" {
				content = append(content, anthropic.NewTextMessageContent(m.Content))
			}
			for _, tc := range m.ToolCalls {
				input := tc.Arguments
				if len(input) == 0 {
					input = json.RawMessage("{}")
				}
				content = append(content, anthropic.NewToolUseMessageContent(tc.ID, tc.Name, input))
			}
			out = append(out, anthropic.Message{Role: anthropic.RoleAssistant, Content: content})
		case agent.RoleTool:
			var isError bool
			var payload agent.ToolResult
			if err := json.Unmarshal([]byte(m.Content), &payload); err == nil {
				isError = !payload.Success
			}
			result := anthropic.NewToolResultMessageContent(m.ToolCallID, m.Content, isError)
			if n := len(out); n > 0 && out[n-1].Role == anthropic.RoleUser && isToolResults(out[n-1]) {
				out[n-1].Content = append(out[n-1].Content, result)
				continue
			}
			out = append(out, anthropic.Message{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{result}})
		}
	}
	return system, out
}

func isToolResults(m anthropic.Message) bool {
	for _, c := range m.Content {
		if c.Type != anthropic.MessagesContentTypeToolResult {
			return false
		}
	}
	return len(m.Content) > 0
}
