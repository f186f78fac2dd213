package domain

import (
	"context"
	"sync"
)

type turnUsageKey struct{}

// TurnUsage collects backend usage for a single chat turn.
// The HTTP handler puts it into the context before calling the service;
// the instrumented backend writes after each call; the handler reads it for response headers.
type TurnUsage struct {
	mu          sync.Mutex
	totalTokens int
	calls       int
}

// NewContextWithUsage returns a context with a usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *TurnUsage) {
	u := &TurnUsage{}
	return context.WithValue(ctx, turnUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *TurnUsage {
	u, _ := ctx.Value(turnUsageKey{}).(*TurnUsage)
	return u
}

// Record adds one backend call and its tokens. Safe on a nil receiver.
func (u *TurnUsage) Record(tokens int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.totalTokens += tokens
	u.calls++
	u.mu.Unlock()
}

// TotalTokens returns the tokens recorded so far.
func (u *TurnUsage) TotalTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.totalTokens
}

// Calls returns the number of backend calls recorded so far.
func (u *TurnUsage) Calls() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}
