package moderation

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/domain/chat"
	"github.com/kailas-cloud/groupmatch/internal/domain/moderation"
	"github.com/kailas-cloud/groupmatch/internal/logger"
)

// Gate checks the newest user message of a conversation.
// It fails open: moderator errors are logged and the message is treated as allowed.
type Gate struct {
	moderator Moderator
	checks    *prometheus.CounterVec
	logger    *zap.Logger
}

// NewGate creates a Gate. A nil moderator disables moderation.
// checks is a counter vec with label "result", may be nil.
func NewGate(m Moderator, checks *prometheus.CounterVec, logger *zap.Logger) *Gate {
	return &Gate{moderator: m, checks: checks, logger: logger}
}

// Enabled reports whether a moderator is attached.
func (g *Gate) Enabled() bool { return g != nil && g.moderator != nil }

// Check moderates the last user message in history. It never returns an error.
func (g *Gate) Check(ctx context.Context, history []chat.Message) moderation.Result {
	if !g.Enabled() {
		g.inc("skipped")
		return moderation.Result{}
	}

	msg, ok := chat.LastUser(history)
	if !ok {
		g.inc("skipped")
		return moderation.Result{}
	}

	start := time.Now()
	res, err := g.moderator.Moderate(ctx, msg.Content)
	if err != nil {
		g.inc("error")
		g.log(ctx).Warn("Moderation failed, allowing message",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return moderation.Result{}
	}

	if res.Flagged {
		g.inc("flagged")
		g.log(ctx).Info("Message flagged by moderation",
			zap.Strings("categories", res.Categories),
		)
		return res
	}

	g.inc("allowed")
	return res
}

func (g *Gate) inc(result string) {
	if g != nil && g.checks != nil {
		g.checks.WithLabelValues(result).Inc()
	}
}

func (g *Gate) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, g.logger)
}
