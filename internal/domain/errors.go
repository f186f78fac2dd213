package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals that no usable backend credential is configured.
	ErrConfiguration = errors.New("configuration error")
	// ErrModerationService signals a moderation provider failure.
	ErrModerationService = errors.New("moderation service error")
	// ErrToolArgument signals tool arguments that do not match the tool schema.
	ErrToolArgument = errors.New("invalid tool arguments")
	// ErrUnknownTool signals a tool call for a name that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrToolExecution signals an unexpected failure inside a tool handler.
	ErrToolExecution = errors.New("tool execution failed")
	// ErrBackendTransport signals a reasoning backend failure (network, timeout, bad response).
	ErrBackendTransport = errors.New("backend transport error")
	// ErrBudgetExceeded signals an exhausted backend token budget.
	ErrBudgetExceeded = errors.New("token budget exceeded")
)

// ToolArgumentError wraps ErrToolArgument with the tool name and validation reason.
type ToolArgumentError struct {
	Tool   string
	Reason string
	Err    error
}

func (e *ToolArgumentError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrToolArgument.Error(), e.Tool, e.Reason)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ToolArgumentError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrToolArgument, e.Err}
	}
	return []error{ErrToolArgument}
}

// NewToolArgumentError creates a tool argument error.
func NewToolArgumentError(tool, reason string) error {
	return &ToolArgumentError{Tool: tool, Reason: reason}
}
