package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	domchat "github.com/kailas-cloud/groupmatch/internal/domain/chat"
	"github.com/kailas-cloud/groupmatch/internal/domain/moderation"
	"github.com/kailas-cloud/groupmatch/internal/logger"
	"github.com/kailas-cloud/groupmatch/internal/metrics"
)

// Turn outcomes reported in agent_turns_total.
const (
	OutcomeAnswered   = "answered"
	OutcomeModerated  = "moderated"
	OutcomeStepBudget = "step_budget"
	OutcomeError      = "error"
)

// Reply is the assistant's answer to one turn.
type Reply struct {
	Text                string
	Moderated           bool
	Categories          []string
	Rounds              int
	ToolCalls           int
	StepBudgetExhausted bool
}

// Service runs one chat turn: moderation first, then the orchestrator.
type Service struct {
	gate         Gate
	runner       Runner
	systemPrompt string
	logger       *zap.Logger
}

// New creates a Service. runner may be nil when no backend could be resolved;
// every turn then fails with domain.ErrConfiguration.
func New(gate Gate, runner Runner, systemPrompt string, logger *zap.Logger) *Service {
	return &Service{
		gate:         gate,
		runner:       runner,
		systemPrompt: systemPrompt,
		logger:       logger,
	}
}

// Reply answers the conversation. history is not modified.
func (s *Service) Reply(ctx context.Context, history []domchat.Message) (Reply, error) {
	if s.runner == nil {
		turnOutcome(OutcomeError)
		return Reply{}, fmt.Errorf("%w: no reasoning backend available", domain.ErrConfiguration)
	}

	log := logger.FromContextOr(ctx, s.logger)

	if s.gate != nil {
		if verdict := s.gate.Check(ctx, history); verdict.Flagged {
			turnOutcome(OutcomeModerated)
			return Reply{
				Text:       moderation.RejectionMessage,
				Moderated:  true,
				Categories: verdict.Categories,
			}, nil
		}
	}

	out, err := s.runner.Run(ctx, s.systemPrompt, history)
	metrics.AgentRounds.Observe(float64(out.Rounds))
	if err != nil {
		turnOutcome(OutcomeError)
		log.Error("Chat turn failed", zap.Int("rounds", out.Rounds), zap.Error(err))
		return Reply{}, fmt.Errorf("chat turn: %w", err)
	}

	if out.StepBudgetExhausted {
		turnOutcome(OutcomeStepBudget)
	} else {
		turnOutcome(OutcomeAnswered)
	}

	log.Info("Chat turn completed",
		zap.Int("rounds", out.Rounds),
		zap.Int("tool_calls", out.ToolCalls),
		zap.Bool("step_budget_exhausted", out.StepBudgetExhausted),
	)

	return Reply{
		Text:                out.Reply,
		Rounds:              out.Rounds,
		ToolCalls:           out.ToolCalls,
		StepBudgetExhausted: out.StepBudgetExhausted,
	}, nil
}

func turnOutcome(outcome string) {
	metrics.AgentTurnsTotal.WithLabelValues(outcome).Inc()
}
