package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/domain/tool"
)

// Handler executes a tool with raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Tool pairs a backend-facing spec with its handler.
type Tool struct {
	Spec    tool.Spec
	Handler Handler
}

// Registry maps tool names to tools. Populated at startup, read-only afterwards.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Names must be unique and non-empty.
func (r *Registry) Register(t Tool) error {
	name := t.Spec.Name
	if name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q: handler is required", name)
	}
	if _, dup := r.tools[name]; dup {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Specs returns tool specs in registration order.
func (r *Registry) Specs() []tool.Spec {
	out := make([]tool.Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Spec)
	}
	return out
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Dispatch validates args and runs the named tool.
//
// Errors: ErrUnknownTool for unregistered names, ToolArgumentError for schema
// mismatches, ErrToolExecution for handler failures and panics.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (out any, err error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTool, name)
	}

	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("%w: %s: panic: %v", domain.ErrToolExecution, name, p)
		}
	}()

	out, err = t.Handler(ctx, args)
	if err == nil {
		return out, nil
	}
	if errors.Is(err, domain.ErrToolArgument) || errors.Is(err, domain.ErrToolExecution) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s: %w", domain.ErrToolExecution, name, err)
}

// NewValidator returns a validator reporting fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Typed adapts fn into a Handler that strictly decodes and validates T.
// Unknown fields, malformed JSON and failed validation rules are ToolArgumentErrors.
func Typed[T any](v *validator.Validate, name string, fn func(ctx context.Context, args T) (any, error)) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args T

		data := bytes.TrimSpace(raw)
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			data = []byte("{}")
		}

		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&args); err != nil {
			return nil, &domain.ToolArgumentError{Tool: name, Reason: err.Error(), Err: err}
		}
		if dec.More() {
			return nil, domain.NewToolArgumentError(name, "trailing data after arguments")
		}

		if err := v.Struct(args); err != nil {
			return nil, &domain.ToolArgumentError{Tool: name, Reason: describe(err), Err: err}
		}

		return fn(ctx, args)
	}
}

// describe flattens validator errors into "field: rule" pairs.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: must be %s [%s]", field, fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
