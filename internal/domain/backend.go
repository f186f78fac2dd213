package domain

import (
	"context"

	"github.com/kailas-cloud/groupmatch/internal/domain/chat"
	"github.com/kailas-cloud/groupmatch/internal/domain/moderation"
	"github.com/kailas-cloud/groupmatch/internal/domain/tool"
)

// Backend is the reasoning backend contract shared between layers.
// A response carries either terminal text or tool calls; text may accompany tool calls.
type Backend interface {
	Complete(ctx context.Context, req BackendRequest) (BackendResponse, error)
}

// Moderator classifies a single utterance.
type Moderator interface {
	Moderate(ctx context.Context, text string) (moderation.Result, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// BackendRequest is one round sent to the backend.
type BackendRequest struct {
	SystemPrompt string
	Messages     []chat.Message
	Tools        []tool.Spec
}

// BackendResponse is the backend answer for one round.
type BackendResponse struct {
	Text      string
	ToolCalls []tool.Call
	Usage     TokenUsage
}

// TokenUsage reports tokens consumed by one backend call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// HasToolCalls reports whether the backend asked for tools instead of answering.
func (r BackendResponse) HasToolCalls() bool { return len(r.ToolCalls) > 0 }
