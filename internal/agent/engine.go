package agent

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Role identifies the author of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Tool describes one operation the reasoning engine may request.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// ToolCall is a single invocation requested by the engine.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Message is one entry of the conversation handed to the engine.
// Assistant messages may carry ToolCalls; tool messages answer the call named by ToolCallID.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

// Step is the engine's answer to one turn: either tool calls or a final message.
type Step struct {
	Message   string
	ToolCalls []ToolCall
}

// Final reports whether the step ends the exchange.
func (s Step) Final() bool {
	return len(s.ToolCalls) == 0
}

// Engine is the reasoning collaborator. Given the catalog and the conversation so far
// it returns the next step. Errors are failures of the engine itself.
type Engine interface {
	Next(ctx context.Context, tools []Tool, history []Message) (Step, error)
}
