package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/i474232898/retirement-travel-planner/internal/agent"
)

func TestAnthropicEngineNext(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		System    string `json:"system"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string            `json:"role"`
			Content []json.RawMessage `json:"content"`
		} `json:"messages"`
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "ak-test" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"Checking the weather."},{"type":"tool_use","id":"tu_2","name":"get_weather","input":{"latitude":38.7,"longitude":-9.1}}],
			"stop_reason":"tool_use","usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
	defer srv.Close()

	e := NewAnthropicEngine("ak-test", srv.URL, Settings{Model: "claude-test"})
	history := []agent.Message{
		{Role: agent.RoleSystem, Content: "sys"},
		{Role: agent.RoleUser, Content: "Plan Lisbon"},
		{Role: agent.RoleAssistant, ToolCalls: []agent.ToolCall{
			{ID: "tu_0", Name: agent.ToolGeocodeCity, Arguments: json.RawMessage(`{"city":"Lisbon"}`)},
			{ID: "tu_1", Name: agent.ToolGeocodeCity, Arguments: json.RawMessage(`{"city":"Porto"}`)},
		}},
		{Role: agent.RoleTool, ToolCallID: "tu_0", Content: `{"tool":"geocode_city","success":true}`},
		{Role: agent.RoleTool, ToolCallID: "tu_1", Content: `{"tool":"geocode_city","success":false,"error":"boom"}`},
	}

	step, err := e.Next(context.Background(), testTools(), history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Message != "Checking the weather." || len(step.ToolCalls) != 1 {
		t.Fatalf("unexpected step %+v", step)
	}
	if step.ToolCalls[0].ID != "tu_2" || step.ToolCalls[0].Name != agent.ToolGetWeather {
		t.Fatalf("unexpected call %+v", step.ToolCalls[0])
	}

	if got.System != "sys" || got.MaxTokens != DefaultMaxTokens || got.Model != "claude-test" {
		t.Fatalf("unexpected request header fields %+v", got)
	}
	if len(got.Messages) != 3 {
		t.Fatalf("expected user, assistant, grouped tool results; got %d messages", len(got.Messages))
	}
	if got.Messages[2].Role != "user" || len(got.Messages[2].Content) != 2 {
		t.Fatalf("tool results not grouped: %+v", got.Messages[2])
	}
	if len(got.Tools) != 1 || got.Tools[0].Name != agent.ToolGeocodeCity {
		t.Fatalf("unexpected tools %+v", got.Tools)
	}
}

func TestToAnthropicMessagesMarksErrors(t *testing.T) {
	_, msgs := toAnthropicMessages([]agent.Message{
		{Role: agent.RoleTool, ToolCallID: "x", Content: `{"tool":"get_places","success":false,"error":"boom"}`},
	})
	if len(msgs) != 1 || len(msgs[0].Content) != 1 {
		t.Fatalf("unexpected messages %+v", msgs)
	}
	c := msgs[0].Content[0]
	if c.Type != anthropic.MessagesContentTypeToolResult {
		t.Fatalf("expected tool result content, got %+v", c)
	}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"is_error":true`) {
		t.Fatalf("expected failed tool result to be flagged as error: %s", b)
	}
}

func TestNewEngine(t *testing.T) {
	if _, err := New(ProviderOpenAI, Credentials{OpenAIKey: "k"}, Settings{}); err != nil {
		t.Fatalf("openai: %v", err)
	}
	if _, err := New(ProviderAnthropic, Credentials{AnthropicKey: "k"}, Settings{}); err != nil {
		t.Fatalf("anthropic: %v", err)
	}
	if _, err := New("gemini", Credentials{}, Settings{}); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}
