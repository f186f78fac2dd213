package sdk

// Role identifies the author of a chat message.
type Role string

// Roles accepted in conversation history.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation.
type Message struct {
	Role    Role
	Content string
}

// UserMessage creates a user message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Reply is the assistant's answer to one chat turn.
type Reply struct {
	Text       string
	Moderated  bool
	Categories []string // moderation categories when Moderated
	Rounds     int
	ToolCalls  int
	// StepBudgetExhausted is set when the last permitted round still requested tools.
	StepBudgetExhausted bool
}

// Group is one catalog entry.
type Group struct {
	ID          string
	Name        string
	Description string
	Tags        []string
	Cadence     string // empty when the group has no schedule
}

// SearchQuery filters the catalog. Zero values mean "no filter"; Page 0 is the first page.
type SearchQuery struct {
	Keywords       []string
	Category       string // parents, fitness, social, creative, career, support, learning, community, pets, any
	TimePreference string // weekday_morning, weekday_evening, weekend, any
	Page           int
}

// SearchResult is one page of matching groups.
type SearchResult struct {
	Groups       []Group
	Page         int
	PageSize     int
	TotalResults int
	TotalPages   int
	HasMore      bool
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}
