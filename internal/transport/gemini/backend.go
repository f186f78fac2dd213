// Package gemini implements the reasoning backend on the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/domain/chat"
	"github.com/kailas-cloud/groupmatch/internal/domain/tool"
)

// Config holds the Gemini client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// Backend is a reasoning backend on generateContent with function declarations.
type Backend struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewBackend creates a Gemini backend. No request is made.
func NewBackend(ctx context.Context, cfg *Config) (*Backend, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w: %w", domain.ErrConfiguration, err)
	}
	return &Backend{client: client, model: cfg.Model, logger: cfg.Logger}, nil
}

// Complete implements domain.Backend.
func (b *Backend) Complete(ctx context.Context, req domain.BackendRequest) (domain.BackendResponse, error) {
	config := &genai.GenerateContentConfig{Tools: toTools(req.Tools)}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, toContents(req.Messages), config)
	if err != nil {
		return domain.BackendResponse{}, parseAPIError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return domain.BackendResponse{}, fmt.Errorf("empty generate content response: %w", domain.ErrBackendTransport)
	}

	var out domain.BackendResponse
	for _, part := range resp.Candidates[0].Content.Parts {
		switch {
		case part.FunctionCall != nil:
			out.ToolCalls = append(out.ToolCalls, fromFunctionCall(part.FunctionCall))
		case part.Text != "" && !part.Thought:
			out.Text += part.Text
		}
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = domain.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// HealthCheck lists a single model to verify the key and endpoint.
func (b *Backend) HealthCheck(ctx context.Context) error {
	if _, err := b.client.Models.List(ctx, &genai.ListModelsConfig{PageSize: 1}); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func fromFunctionCall(fc *genai.FunctionCall) tool.Call {
	call := tool.Call{ID: fc.ID, Name: fc.Name}
	if fc.Args != nil {
		if raw, err := json.Marshal(fc.Args); err == nil {
			call.Arguments = raw
		}
	}
	return call
}

// toContents maps history to Gemini contents. Consecutive tool results are
// merged into one user content, as the API expects.
func toContents(history []chat.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case chat.RoleUser:
			out = append(out, genai.NewContentFromText(m.Content, genai.RoleUser))
		case chat.RoleAssistant:
			c := &genai.Content{Role: genai.RoleModel}
			if m.Content != "" {
				c.Parts = append(c.Parts, &genai.Part{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				c.Parts = append(c.Parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   tc.ID,
					Name: tc.Name,
					Args: argsMap(tc.Arguments),
				}})
			}
			out = append(out, c)
		case chat.RoleTool:
			part := &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       m.ToolCallID,
				Name:     m.ToolName,
				Response: responseMap(m.Content),
			}}
			if n := len(out); n > 0 && isFunctionResponse(out[n-1]) {
				out[n-1].Parts = append(out[n-1].Parts, part)
				continue
			}
			out = append(out, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{part}})
		}
	}
	return out
}

func isFunctionResponse(c *genai.Content) bool {
	return c.Role == genai.RoleUser && len(c.Parts) > 0 && c.Parts[0].FunctionResponse != nil
}

func argsMap(raw json.RawMessage) map[string]any {
	args := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &args)
	}
	return args
}

// responseMap passes JSON objects through and wraps anything else under "output".
func responseMap(content string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil && obj != nil {
		return obj
	}
	return map[string]any{"output": content}
}

func toTools(specs []tool.Spec) []*genai.Tool {
	if len(specs) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, s := range specs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  toSchema(s.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

var schemaTypes = map[string]genai.Type{
	tool.TypeObject:  genai.TypeObject,
	tool.TypeArray:   genai.TypeArray,
	tool.TypeString:  genai.TypeString,
	tool.TypeInteger: genai.TypeInteger,
}

func toSchema(s *tool.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        schemaTypes[s.Type],
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = toSchema(p)
		}
	}
	return out
}

// parseAPIError wraps Gemini errors with domain.ErrBackendTransport.
func parseAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gemini API error %d: %s: %w", apiErr.Code, apiErr.Message, domain.ErrBackendTransport)
	}
	return fmt.Errorf("gemini request failed: %w: %w", domain.ErrBackendTransport, err)
}
