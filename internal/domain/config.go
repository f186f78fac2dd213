package domain

// KeyPrefix namespaces every key written to the shared key-value store.
const KeyPrefix = "groupmatch:"

// AgentConfig holds the named limits of a single chat turn.
type AgentConfig struct {
	MaxRounds       int
	ToolConcurrency int
	PageSize        int
}

// DefaultAgentConfig returns the production limits: three backend rounds per turn,
// five groups per search page.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		MaxRounds:       3,
		ToolConcurrency: 4,
		PageSize:        5,
	}
}

// Default model names per provider, used when the provider config leaves model empty.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Provider names understood by the backend factory.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)
