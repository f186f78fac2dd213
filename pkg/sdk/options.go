package sdk

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/usecase/provider"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	sources []provider.Source

	groups     []Group
	groupsFile string
	pageSize   int

	maxRounds       int
	toolConcurrency int

	moderationKey string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithGemini adds a Gemini credential. An empty model selects the provider default.
func WithGemini(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.sources = append(c.sources, provider.Source{
			Provider: domain.ProviderGemini, APIKey: apiKey, Model: model,
		})
	})
}

// WithOpenAI adds an OpenAI credential. An empty model selects the provider default.
func WithOpenAI(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.sources = append(c.sources, provider.Source{
			Provider: domain.ProviderOpenAI, APIKey: apiKey, Model: model,
		})
	})
}

// WithGroups replaces the built-in catalog with groups.
func WithGroups(groups ...Group) Option {
	return optionFunc(func(c *clientConfig) {
		c.groups = append([]Group(nil), groups...)
	})
}

// WithGroupsFile loads the catalog from a YAML file.
// Ignored when WithGroups is also given.
func WithGroupsFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.groupsFile = path
	})
}

// WithPageSize sets the number of groups per search page. Default: 5.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithMaxRounds bounds backend calls per chat turn. Default: 3.
func WithMaxRounds(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxRounds = n
	})
}

// WithModerator enables OpenAI moderation of the newest user message.
// An empty key leaves moderation disabled.
func WithModerator(openAIKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.moderationKey = openAIKey
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
