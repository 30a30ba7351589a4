package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/retirement-travel-planner/internal/agent"
)

func testTools() []agent.Tool {
	return []agent.Tool{{Name: agent.ToolGeocodeCity, Description: "Convert city to coordinates"}}
}

func TestOpenAIEngineToolCalls(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role       string `json:"role"`
			Content    string `json:"content"`
			ToolCallID string `json:"tool_call_id"`
		} `json:"messages"`
		Tools []struct {
			Type     string `json:"type"`
			Function struct {
				Name string `json:"name"`
			} `json:"function"`
		} `json:"tools"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"finish_reason":"tool_calls","message":{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"geocode_city","arguments":"{\"city\":\"Lisbon\"}"}}]}}]}`))
	}))
	defer srv.Close()

	e := NewOpenAIEngine("sk-test", srv.URL+"/v1", Settings{Model: "gpt-4o-mini"})
	history := []agent.Message{
		{Role: agent.RoleSystem, Content: "sys"},
		{Role: agent.RoleUser, Content: "Plan Lisbon"},
	}
	step, err := e.Next(context.Background(), testTools(), history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Final() || len(step.ToolCalls) != 1 {
		t.Fatalf("expected one tool call, got %+v", step)
	}
	call := step.ToolCalls[0]
	if call.ID != "call_1" || call.Name != agent.ToolGeocodeCity || string(call.Arguments) != `{"city":"Lisbon"}` {
		t.Fatalf("unexpected call %+v", call)
	}

	if got.Model != "gpt-4o-mini" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("unexpected request %+v", got)
	}
	if len(got.Tools) != 1 || got.Tools[0].Type != "function" || got.Tools[0].Function.Name != agent.ToolGeocodeCity {
		t.Fatalf("unexpected tools %+v", got.Tools)
	}
}

func TestOpenAIEngineFinalMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c2","object":"chat.completion","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Enjoy Lisbon."}}]}`))
	}))
	defer srv.Close()

	e := NewOpenAIEngine("sk-test", srv.URL+"/v1", Settings{Model: "gpt-4o-mini"})
	history := []agent.Message{
		{Role: agent.RoleUser, Content: "Plan Lisbon"},
		{Role: agent.RoleAssistant, ToolCalls: []agent.ToolCall{{ID: "call_1", Name: agent.ToolGeocodeCity, Arguments: json.RawMessage(`{"city":"Lisbon"}`)}}},
		{Role: agent.RoleTool, ToolCallID: "call_1", Content: `{"tool":"geocode_city","success":true}`},
	}
	step, err := e.Next(context.Background(), testTools(), history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !step.Final() || step.Message != "Enjoy Lisbon." {
		t.Fatalf("unexpected step %+v", step)
	}
}

func TestOpenAIEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	e := NewOpenAIEngine("sk-bad", srv.URL+"/v1", Settings{Model: "gpt-4o-mini"})
	if _, err := e.Next(context.Background(), nil, []agent.Message{{Role: agent.RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("expected error")
	}
}

func TestToOpenAIMessages(t *testing.T) {
	msgs := toOpenAIMessages([]agent.Message{
		{Role: agent.RoleAssistant, ToolCalls: []agent.ToolCall{{ID: "a", Name: "get_weather", Arguments: json.RawMessage(`{}`)}}},
		{Role: agent.RoleTool, ToolCallID: "a", Content: "{}"},
	})
	if len(msgs) != 2 || msgs[0].ToolCalls[0].Function.Arguments != "{}" || msgs[1].ToolCallID != "a" {
		t.Fatalf("unexpected conversion %+v", msgs)
	}
}
