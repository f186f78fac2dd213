package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/domain/chat"
	"github.com/kailas-cloud/groupmatch/internal/domain/tool"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	b, err := NewBackend(context.Background(), &Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	return b
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestBackend_CompleteText(t *testing.T) {
	var body map[string]any
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": "Try the "}, {"text": "Evening Run Club."}},
				},
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     20,
				"candidatesTokenCount": 6,
				"totalTokenCount":      26,
			},
		})
	})

	resp, err := b.Complete(context.Background(), domain.BackendRequest{
		SystemPrompt: "be helpful",
		Messages:     []chat.Message{chat.User("running?")},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != "Try the Evening Run Club." {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 26 || resp.Usage.PromptTokens != 20 || resp.Usage.CompletionTokens != 6 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if _, ok := body["systemInstruction"]; !ok {
		t.Error("system instruction not sent")
	}
}

func TestBackend_CompleteFunctionCalls(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role": "model",
					"parts": []map[string]any{
						{"functionCall": map[string]any{"name": "searchGroups", "args": map[string]any{"keywords": []string{"yoga"}}}},
						{"functionCall": map[string]any{"id": "fc-2", "name": "searchGroups", "args": map[string]any{"keywords": []string{"run"}, "page": 2}}},
					},
				},
			}},
		})
	})

	resp, err := b.Complete(context.Background(), domain.BackendRequest{Messages: []chat.Message{chat.User("x")}})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if len(resp.ToolCalls) != 2 {
		t.Fatalf("tool calls = %+v", resp.ToolCalls)
	}
	if resp.ToolCalls[0].ID != "" || resp.ToolCalls[0].Name != "searchGroups" {
		t.Errorf("first call = %+v", resp.ToolCalls[0])
	}
	if string(resp.ToolCalls[0].Arguments) != `{"keywords":["yoga"]}` {
		t.Errorf("first args = %s", resp.ToolCalls[0].Arguments)
	}
	if resp.ToolCalls[1].ID != "fc-2" || string(resp.ToolCalls[1].Arguments) != `{"keywords":["run"],"page":2}` {
		t.Errorf("second call = %+v args=%s", resp.ToolCalls[1], resp.ToolCalls[1].Arguments)
	}
}

func TestBackend_APIError(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"},
		})
	})

	_, err := b.Complete(context.Background(), domain.BackendRequest{Messages: []chat.Message{chat.User("x")}})
	if !errors.Is(err, domain.ErrBackendTransport) {
		t.Fatalf("expected ErrBackendTransport, got %v", err)
	}
}

func TestBackend_EmptyCandidates(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"candidates": []any{}})
	})

	_, err := b.Complete(context.Background(), domain.BackendRequest{Messages: []chat.Message{chat.User("x")}})
	if !errors.Is(err, domain.ErrBackendTransport) {
		t.Fatalf("expected ErrBackendTransport, got %v", err)
	}
}

func TestToContents_GroupsToolResults(t *testing.T) {
	history := []chat.Message{
		chat.User("find groups"),
		{Role: chat.RoleAssistant, Content: "searching", ToolCalls: []tool.Call{
			{ID: "a", Name: "searchGroups", Arguments: json.RawMessage(`{"keywords":["yoga"]}`)},
			{ID: "b", Name: "searchGroups", Arguments: json.RawMessage(`{"keywords":["run"]}`)},
		}},
		{Role: chat.RoleTool, ToolCallID: "a", ToolName: "searchGroups", Content: `{"groups":[]}`},
		{Role: chat.RoleTool, ToolCallID: "b", ToolName: "searchGroups", Content: `[1,2]`},
	}

	got := toContents(history)
	if len(got) != 3 {
		t.Fatalf("contents = %d, want 3", len(got))
	}
	if got[1].Role != genai.RoleModel || len(got[1].Parts) != 3 {
		t.Fatalf("model content = %+v", got[1])
	}
	if got[1].Parts[1].FunctionCall.Args["keywords"].([]any)[0] != "yoga" {
		t.Errorf("args not decoded: %+v", got[1].Parts[1].FunctionCall.Args)
	}

	responses := got[2]
	if responses.Role != genai.RoleUser || len(responses.Parts) != 2 {
		t.Fatalf("responses content = %+v", responses)
	}
	if _, ok := responses.Parts[0].FunctionResponse.Response["groups"]; !ok {
		t.Errorf("object result should pass through: %+v", responses.Parts[0].FunctionResponse.Response)
	}
	if responses.Parts[1].FunctionResponse.Response["output"] != `[1,2]` {
		t.Errorf("non-object result should be wrapped: %+v", responses.Parts[1].FunctionResponse.Response)
	}
}

func TestToSchema(t *testing.T) {
	s := toSchema(&tool.Schema{
		Type: tool.TypeObject,
		Properties: map[string]*tool.Schema{
			"keywords": {Type: tool.TypeArray, Items: &tool.Schema{Type: tool.TypeString}},
			"category": {Type: tool.TypeString, Enum: []string{"fitness", "any"}},
			"page":     {Type: tool.TypeInteger},
		},
		Required: []string{"keywords"},
	})

	if s.Type != genai.TypeObject || len(s.Required) != 1 {
		t.Fatalf("schema = %+v", s)
	}
	if s.Properties["keywords"].Items.Type != genai.TypeString {
		t.Error("array items not converted")
	}
	if len(s.Properties["category"].Enum) != 2 {
		t.Error("enum lost")
	}
	if s.Properties["page"].Type != genai.TypeInteger {
		t.Error("integer type lost")
	}
	if toSchema(nil) != nil {
		t.Error("nil schema should stay nil")
	}
}
