// Package tool holds the records exchanged with the reasoning backend when it
// asks for a capability instead of answering.
package tool

import "encoding/json"

// Call is a single tool invocation requested by the backend within one round.
type Call struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Result is the serialized outcome of a Call, keyed by the call identifier.
type Result struct {
	CallID  string
	Name    string
	Content string
	IsError bool
}

// Spec describes a tool to the backend.
type Spec struct {
	Name        string
	Description string
	Parameters  *Schema
}

// Schema is the JSON Schema subset used for tool parameters.
// Field order is fixed so that the marshalled schema is stable across runs.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// JSON Schema type names.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeInteger = "integer"
)

// ErrorPayload is folded back to the backend in place of a result when a call fails.
type ErrorPayload struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// Error payload types.
const (
	ErrorInvalidArguments = "invalid_arguments"
	ErrorUnknownTool      = "unknown_tool"
	ErrorExecutionFailed  = "execution_failed"
)
