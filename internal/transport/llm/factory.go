// Package llm builds the concrete reasoning backend for a resolved provider.
package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/transport/gemini"
	"github.com/kailas-cloud/groupmatch/internal/transport/openai"
	"github.com/kailas-cloud/groupmatch/internal/usecase/provider"
)

// Backend is a reasoning backend that can also report its health.
type Backend interface {
	domain.Backend
	domain.HealthChecker
}

// New creates the backend for res. No network request is made.
func New(ctx context.Context, res provider.Resolution, logger *zap.Logger) (Backend, error) {
	switch res.Provider {
	case domain.ProviderGemini:
		b, err := gemini.NewBackend(ctx, &gemini.Config{
			APIKey:  res.APIKey,
			BaseURL: res.BaseURL,
			Model:   res.Model,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini backend: %w", err)
		}
		return b, nil
	case domain.ProviderOpenAI:
		return openai.NewBackend(&openai.Config{
			APIKey:  res.APIKey,
			BaseURL: res.BaseURL,
			Model:   res.Model,
			Logger:  logger,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", domain.ErrConfiguration, res.Provider)
	}
}

// NewModerator creates the moderation client. An empty API key disables moderation
// and returns nil.
func NewModerator(apiKey, baseURL, model string, logger *zap.Logger) domain.Moderator {
	if apiKey == "" {
		return nil
	}
	return openai.NewModerator(&openai.Config{
		APIKey:          apiKey,
		BaseURL:         baseURL,
		ModerationModel: model,
		Logger:          logger,
	})
}
