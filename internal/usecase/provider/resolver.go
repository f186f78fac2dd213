package provider

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/groupmatch/internal/domain"
)

// Source is one candidate backend credential, in priority order.
type Source struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// Resolution is the selected backend: which provider, with which key and model.
type Resolution struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// Resolver picks the first usable credential source. It never touches the network.
type Resolver struct {
	sources []Source
}

// New creates a Resolver over sources in priority order.
func New(sources ...Source) *Resolver {
	cp := make([]Source, len(sources))
	copy(cp, sources)
	return &Resolver{sources: cp}
}

// DefaultSources returns the built-in priority: Gemini first, then OpenAI.
func DefaultSources(geminiKey, openAIKey string) []Source {
	return []Source{
		{Provider: domain.ProviderGemini, APIKey: geminiKey},
		{Provider: domain.ProviderOpenAI, APIKey: openAIKey},
	}
}

// Resolve returns the first source with a non-blank API key and a known provider.
// Fails with domain.ErrConfiguration when none qualifies.
func (r *Resolver) Resolve() (Resolution, error) {
	for _, s := range r.sources {
		key := strings.TrimSpace(s.APIKey)
		if key == "" {
			continue
		}
		def, known := DefaultModel(s.Provider)
		if !known {
			continue
		}
		model := strings.TrimSpace(s.Model)
		if model == "" {
			model = def
		}
		return Resolution{
			Provider: s.Provider,
			APIKey:   key,
			Model:    model,
			BaseURL:  strings.TrimSpace(s.BaseURL),
		}, nil
	}
	return Resolution{}, fmt.Errorf("%w: no backend API key configured (checked %s)",
		domain.ErrConfiguration, strings.Join(r.names(), ", "))
}

func (r *Resolver) names() []string {
	if len(r.sources) == 0 {
		return []string{"no sources"}
	}
	out := make([]string, len(r.sources))
	for i, s := range r.sources {
		out[i] = s.Provider
	}
	return out
}

// DefaultModel returns the default model for a known provider.
func DefaultModel(provider string) (string, bool) {
	switch provider {
	case domain.ProviderGemini:
		return domain.DefaultGeminiModel, true
	case domain.ProviderOpenAI:
		return domain.DefaultOpenAIModel, true
	default:
		return "", false
	}
}
