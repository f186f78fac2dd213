package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/metrics"
)

type healthyBackend struct {
	scriptedBackend
	healthErr error
}

func (h *healthyBackend) HealthCheck(context.Context) error { return h.healthErr }

func TestInstrumentedBackend_Success(t *testing.T) {
	inner := &scriptedBackend{responses: []domain.BackendResponse{{
		Text:  "hello",
		Usage: domain.TokenUsage{PromptTokens: 7, CompletionTokens: 3, TotalTokens: 10},
	}}}
	bt := NewBudgetTracker("test-ok", 100, 0, BudgetActionReject, zap.NewNop())
	p := NewInstrumentedBackend(inner, "test-ok", "model-a", bt, zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	resp, err := p.Complete(ctx, domain.BackendRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hello" {
		t.Errorf("text = %q", resp.Text)
	}
	if usage.TotalTokens() != 10 || usage.Calls() != 1 {
		t.Errorf("usage = %d tokens / %d calls", usage.TotalTokens(), usage.Calls())
	}
	if bt.DailyUsed() != 10 {
		t.Errorf("budget not recorded: %d", bt.DailyUsed())
	}
	if v := testutil.ToFloat64(metrics.BackendRequestsTotal.WithLabelValues("test-ok", "model-a", "ok")); v != 1 {
		t.Errorf("requests ok = %f", v)
	}
	if v := testutil.ToFloat64(metrics.BackendTokensTotal.WithLabelValues("test-ok", "model-a", "prompt")); v != 7 {
		t.Errorf("prompt tokens = %f", v)
	}
	if v := testutil.ToFloat64(metrics.BackendBudgetTokensRemaining.WithLabelValues("test-ok", "daily")); v != 90 {
		t.Errorf("remaining daily = %f", v)
	}
}

func TestInstrumentedBackend_Error(t *testing.T) {
	inner := &scriptedBackend{err: context.DeadlineExceeded}
	p := NewInstrumentedBackend(inner, "test-err", "model-b", nil, zap.NewNop())

	_, err := p.Complete(context.Background(), domain.BackendRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline, got %v", err)
	}
	if v := testutil.ToFloat64(metrics.BackendErrorsTotal.WithLabelValues("test-err", "model-b", "timeout")); v != 1 {
		t.Errorf("timeout errors = %f", v)
	}
}

func TestInstrumentedBackend_BudgetRejects(t *testing.T) {
	inner := &scriptedBackend{responses: []domain.BackendResponse{{Text: "x"}}}
	bt := NewBudgetTracker("test-budget", 10, 0, BudgetActionReject, zap.NewNop())
	bt.Record(domain.TokenUsage{PromptTokens: 10, TotalTokens: 10})
	p := NewInstrumentedBackend(inner, "test-budget", "m", bt, zap.NewNop())

	_, err := p.Complete(context.Background(), domain.BackendRequest{})
	if !errors.Is(err, domain.ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
	if inner.calls() != 0 {
		t.Error("backend called despite exhausted budget")
	}
}

func TestInstrumentedBackend_HealthCheck(t *testing.T) {
	plain := NewInstrumentedBackend(&scriptedBackend{}, "p", "m", nil, zap.NewNop())
	if err := plain.HealthCheck(context.Background()); err != nil {
		t.Errorf("backend without health check should report healthy: %v", err)
	}

	sentinel := errors.New("401")
	checked := NewInstrumentedBackend(&healthyBackend{healthErr: sentinel}, "p", "m", nil, zap.NewNop())
	if err := checked.HealthCheck(context.Background()); !errors.Is(err, sentinel) {
		t.Errorf("expected inner health error, got %v", err)
	}
}
