package chat

import (
	"context"

	domchat "github.com/kailas-cloud/groupmatch/internal/domain/chat"
	"github.com/kailas-cloud/groupmatch/internal/domain/moderation"
	"github.com/kailas-cloud/groupmatch/internal/usecase/agent"
)

// Gate moderates the newest user message.
type Gate interface {
	Check(ctx context.Context, history []domchat.Message) moderation.Result
}

// Runner executes the bounded tool-calling loop.
type Runner interface {
	Run(ctx context.Context, systemPrompt string, history []domchat.Message) (agent.Outcome, error)
}
