package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/logger"
	"github.com/kailas-cloud/groupmatch/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(usage domain.TokenUsage)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedBackend wraps a Backend with budget enforcement, metrics and logging.
type InstrumentedBackend struct {
	inner    domain.Backend
	provider string
	model    string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedBackend wraps a backend. budget may be nil.
func NewInstrumentedBackend(
	inner domain.Backend, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedBackend {
	return &InstrumentedBackend{
		inner:    inner,
		provider: provider,
		model:    model,
		budget:   budget,
		logger:   logger,
	}
}

// Complete checks budget, delegates to the inner backend, and records usage.
func (p *InstrumentedBackend) Complete(
	ctx context.Context, req domain.BackendRequest,
) (domain.BackendResponse, error) {
	log := logger.FromContextOr(ctx, p.logger)

	if p.budget != nil {
		if err := p.budget.Check(ctx); err != nil {
			log.Error("Budget exceeded",
				zap.String("provider", p.provider),
				zap.String("model", p.model),
				zap.Error(err),
			)
			return domain.BackendResponse{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	resp, err := p.inner.Complete(ctx, req)
	duration := time.Since(start)

	metrics.BackendRequestDuration.WithLabelValues(p.provider, p.model).Observe(duration.Seconds())

	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
		metrics.BackendErrorsTotal.WithLabelValues(p.provider, p.model, errorType(err)).Inc()
		log.Error("Backend request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.BackendResponse{}, fmt.Errorf("complete: %w", err)
	}

	metrics.BackendRequestsTotal.WithLabelValues(p.provider, p.model, "ok").Inc()
	metrics.BackendTokensTotal.WithLabelValues(p.provider, p.model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.BackendTokensTotal.WithLabelValues(p.provider, p.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	domain.UsageFromContext(ctx).Record(resp.Usage.TotalTokens)

	if p.budget != nil {
		p.budget.Record(resp.Usage)
		remaining := metrics.BackendBudgetTokensRemaining
		remaining.WithLabelValues(p.provider, "daily").Set(float64(p.budget.RemainingDaily()))
		remaining.WithLabelValues(p.provider, "monthly").Set(float64(p.budget.RemainingMonthly()))
	}

	log.Debug("Backend request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("tool_calls", len(resp.ToolCalls)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return resp, nil
}

// HealthCheck delegates to the inner backend when it supports health checks.
func (p *InstrumentedBackend) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, domain.ErrBackendTransport):
		return "transport"
	default:
		return "other"
	}
}
