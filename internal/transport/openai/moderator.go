package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/domain/moderation"
)

// Moderator classifies text with the moderation endpoint.
type Moderator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewModerator creates an OpenAI moderator.
func NewModerator(cfg *Config) *Moderator {
	model := cfg.ModerationModel
	if model == "" {
		model = DefaultModerationModel
	}
	return &Moderator{
		client: newClient(cfg),
		model:  model,
		logger: cfg.Logger,
	}
}

// Moderate implements domain.Moderator. Categories are the flagged category names, sorted.
func (m *Moderator) Moderate(ctx context.Context, text string) (moderation.Result, error) {
	resp, err := m.client.Moderations(ctx, openai.ModerationRequest{
		Input: text,
		Model: m.model,
	})
	if err != nil {
		return moderation.Result{}, parseAPIError("moderation", domain.ErrModerationService, err)
	}
	if len(resp.Results) == 0 {
		return moderation.Result{}, fmt.Errorf("empty moderation response: %w", domain.ErrModerationService)
	}

	r := resp.Results[0]
	return moderation.Result{
		Flagged:    r.Flagged,
		Categories: flaggedCategories(r.Categories),
	}, nil
}

// flaggedCategories returns the wire names of categories set to true.
func flaggedCategories(c openai.ResultCategories) []string {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	var byName map[string]bool
	if json.Unmarshal(raw, &byName) != nil {
		return nil
	}

	var out []string
	for name, set := range byName {
		if set {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
