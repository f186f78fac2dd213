package moderation

// RejectionMessage is the fixed reply returned for flagged input.
const RejectionMessage = "I'm here to help you find groups to join. Let's keep our chat friendly and focused on that!"

// Result is a moderation verdict. Categories are informational and sorted.
type Result struct {
	Flagged    bool     `json:"flagged"`
	Categories []string `json:"categories,omitempty"`
}
