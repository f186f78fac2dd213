package moderation

import (
	"context"

	"github.com/kailas-cloud/groupmatch/internal/domain/moderation"
)

// Moderator classifies a single utterance.
type Moderator interface {
	Moderate(ctx context.Context, text string) (moderation.Result, error)
}
