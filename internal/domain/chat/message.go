// Package chat defines conversation messages.
package chat

import "github.com/kailas-cloud/groupmatch/internal/domain/tool"

// Role identifies the author of a message.
type Role string

const (
	// RoleUser is a message written by the end user.
	RoleUser Role = "user"
	// RoleAssistant is a message produced by the assistant (including tool requests).
	RoleAssistant Role = "assistant"
	// RoleTool carries a tool result back to the backend.
	RoleTool Role = "tool"
)

// Message is one entry of the conversation context.
// Inbound history only contains user and assistant messages; tool fields are set
// on messages appended during a turn.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []tool.Call
	ToolCallID string
	ToolName   string
}

// User creates a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Assistant creates an assistant message.
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// LastUser returns the newest user message, if any.
func LastUser(history []Message) (Message, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i], true
		}
	}
	return Message{}, false
}

// Clone returns a copy of history that can be appended to without touching the caller's slice.
func Clone(history []Message) []Message {
	out := make([]Message, len(history), len(history)+8)
	copy(out, history)
	return out
}
