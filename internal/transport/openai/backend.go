package openai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/domain/chat"
	"github.com/kailas-cloud/groupmatch/internal/domain/tool"
)

// Backend is a reasoning backend on chat completions with function tools.
type Backend struct {
	client *openai.Client
	model  string
	user   string
	logger *zap.Logger
}

// NewBackend creates an OpenAI chat completions backend.
func NewBackend(cfg *Config) *Backend {
	return &Backend{
		client: newClient(cfg),
		model:  cfg.Model,
		user:   cfg.User,
		logger: cfg.Logger,
	}
}

// Complete implements domain.Backend.
func (b *Backend) Complete(ctx context.Context, req domain.BackendRequest) (domain.BackendResponse, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: toMessages(req.SystemPrompt, req.Messages),
		Tools:    toTools(req.Tools),
		User:     b.user,
	})
	if err != nil {
		return domain.BackendResponse{}, parseAPIError("chat completion", domain.ErrBackendTransport, err)
	}
	if len(resp.Choices) == 0 {
		return domain.BackendResponse{}, fmt.Errorf("empty chat completion response: %w", domain.ErrBackendTransport)
	}

	msg := resp.Choices[0].Message
	out := domain.BackendResponse{
		Text: msg.Content,
		Usage: domain.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, tc := range msg.ToolCalls {
		call := tool.Call{ID: tc.ID, Name: tc.Function.Name}
		if tc.Function.Arguments != "" {
			call.Arguments = json.RawMessage(tc.Function.Arguments)
		}
		out.ToolCalls = append(out.ToolCalls, call)
	}
	return out, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (b *Backend) HealthCheck(ctx context.Context) error {
	if _, err := b.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func toMessages(systemPrompt string, history []chat.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if systemPrompt != "" {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}

	for _, m := range history {
		switch m.Role {
		case chat.RoleUser:
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Content})
		case chat.RoleAssistant:
			msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Content}
			for _, c := range m.ToolCalls {
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   c.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      c.Name,
						Arguments: string(c.Arguments),
					},
				})
			}
			out = append(out, msg)
		case chat.RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Content,
				ToolCallID: m.ToolCallID,
				Name:       m.ToolName,
			})
		}
	}
	return out
}

func toTools(specs []tool.Spec) []openai.Tool {
	if len(specs) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(specs))
	for _, s := range specs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.Parameters,
			},
		})
	}
	return out
}
