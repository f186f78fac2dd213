// Package openai implements the reasoning backend and moderator on the OpenAI-compatible API.
package openai

import (
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// DefaultModerationModel is used when Config.ModerationModel is empty.
const DefaultModerationModel = openai.ModerationOmniLatest

// Config holds the OpenAI client settings.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	ModerationModel string
	User            string
	Logger          *zap.Logger
}

func newClient(cfg *Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}
