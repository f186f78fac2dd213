package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/domain/chat"
	"github.com/kailas-cloud/groupmatch/internal/domain/tool"
	"github.com/kailas-cloud/groupmatch/internal/logger"
)

// FallbackReply is returned when the backend produces no usable text.
const FallbackReply = "Sorry, I wasn't able to generate a response."

// Config bounds a single turn.
type Config struct {
	MaxRounds       int
	ToolConcurrency int
}

// Outcome is the result of one turn.
type Outcome struct {
	Reply               string
	Rounds              int
	ToolCalls           int
	StepBudgetExhausted bool
}

// Orchestrator runs the bounded tool-calling loop for one chat turn.
// It holds no per-turn state and is safe for concurrent use.
type Orchestrator struct {
	backend   domain.Backend
	tools     ToolDispatcher
	cfg       Config
	toolCalls *prometheus.CounterVec
	logger    *zap.Logger
}

// NewOrchestrator creates an orchestrator.
// toolCalls is a counter vec with labels "tool", "result", may be nil.
func NewOrchestrator(
	backend domain.Backend, tools ToolDispatcher, cfg Config,
	toolCalls *prometheus.CounterVec, logger *zap.Logger,
) (*Orchestrator, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is required", domain.ErrConfiguration)
	}
	if tools == nil {
		return nil, fmt.Errorf("tool dispatcher is required")
	}
	if cfg.MaxRounds < 1 {
		return nil, fmt.Errorf("max rounds must be positive, got %d", cfg.MaxRounds)
	}
	if cfg.ToolConcurrency < 1 {
		cfg.ToolConcurrency = 1
	}
	return &Orchestrator{
		backend:   backend,
		tools:     tools,
		cfg:       cfg,
		toolCalls: toolCalls,
		logger:    logger,
	}, nil
}

// Run sends history to the backend, executing requested tools between rounds,
// until the backend answers or MaxRounds backend calls were made.
//
// history is never modified. The reply is never empty on success. When the last
// permitted round still asks for tools, those tools are not executed and the
// round's text (or FallbackReply) is returned with StepBudgetExhausted set.
func (o *Orchestrator) Run(ctx context.Context, systemPrompt string, history []chat.Message) (Outcome, error) {
	log := logger.FromContextOr(ctx, o.logger)
	msgs := chat.Clone(history)
	specs := o.tools.Specs()

	var out Outcome
	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("round %d: %w", round, err)
		}

		resp, err := o.backend.Complete(ctx, domain.BackendRequest{
			SystemPrompt: systemPrompt,
			Messages:     msgs,
			Tools:        specs,
		})
		out.Rounds = round
		if err != nil {
			return out, backendError(round, err)
		}

		if !resp.HasToolCalls() {
			out.Reply = replyText(resp.Text)
			return out, nil
		}

		if round == o.cfg.MaxRounds {
			log.Warn("Step budget exhausted, dropping tool calls",
				zap.Int("rounds", round),
				zap.Int("pending_tool_calls", len(resp.ToolCalls)),
			)
			out.StepBudgetExhausted = true
			out.Reply = replyText(resp.Text)
			return out, nil
		}

		calls := withIDs(round, resp.ToolCalls)
		msgs = append(msgs, chat.Message{
			Role:      chat.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: calls,
		})

		for _, r := range o.executeRound(ctx, log, calls) {
			msgs = append(msgs, chat.Message{
				Role:       chat.RoleTool,
				Content:    r.Content,
				ToolCallID: r.CallID,
				ToolName:   r.Name,
			})
		}
		out.ToolCalls += len(calls)
	}
}

// executeRound runs every call concurrently and joins. Results keep call order.
func (o *Orchestrator) executeRound(ctx context.Context, log *zap.Logger, calls []tool.Call) []tool.Result {
	results := make([]tool.Result, len(calls))

	var g errgroup.Group
	g.SetLimit(o.cfg.ToolConcurrency)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = o.execute(ctx, log, call)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// execute runs one call and folds any failure into an error payload.
func (o *Orchestrator) execute(ctx context.Context, log *zap.Logger, call tool.Call) (res tool.Result) {
	res = tool.Result{CallID: call.ID, Name: call.Name}

	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("%w: panic: %v", domain.ErrToolExecution, p)
			log.Error("Tool panicked", zap.String("tool", call.Name), zap.Any("panic", p))
			res = errorResult(call, err)
			o.inc(call.Name, tool.ErrorExecutionFailed)
		}
	}()

	out, err := o.tools.Dispatch(ctx, call.Name, call.Arguments)
	if err != nil {
		res = errorResult(call, err)
		o.inc(call.Name, errorKind(err))
		log.Warn("Tool call failed",
			zap.String("tool", call.Name),
			zap.String("call_id", call.ID),
			zap.Error(err),
		)
		return res
	}

	data, err := json.Marshal(out)
	if err != nil {
		o.inc(call.Name, tool.ErrorExecutionFailed)
		return errorResult(call, fmt.Errorf("%w: encode result: %w", domain.ErrToolExecution, err))
	}

	o.inc(call.Name, "ok")
	res.Content = string(data)
	return res
}

func (o *Orchestrator) inc(name, result string) {
	if o.toolCalls != nil {
		o.toolCalls.WithLabelValues(name, result).Inc()
	}
}

func errorResult(call tool.Call, err error) tool.Result {
	payload, _ := json.Marshal(tool.ErrorPayload{Error: err.Error(), Type: errorKind(err)})
	return tool.Result{CallID: call.ID, Name: call.Name, Content: string(payload), IsError: true}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownTool):
		return tool.ErrorUnknownTool
	case errors.Is(err, domain.ErrToolArgument):
		return tool.ErrorInvalidArguments
	default:
		return tool.ErrorExecutionFailed
	}
}

// withIDs fills missing call IDs so each result can be keyed. Generated IDs
// depend only on round, position and tool name, so identical turns build
// identical context.
func withIDs(round int, calls []tool.Call) []tool.Call {
	out := make([]tool.Call, len(calls))
	for i, c := range calls {
		if c.ID == "" {
			name := fmt.Sprintf("%d/%d/%s", round, i, c.Name)
			c.ID = "call_" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
		}
		out[i] = c
	}
	return out
}

func replyText(text string) string {
	if t := strings.TrimSpace(text); t != "" {
		return t
	}
	return FallbackReply
}

func backendError(round int, err error) error {
	if errors.Is(err, domain.ErrBackendTransport) || errors.Is(err, domain.ErrBudgetExceeded) {
		return fmt.Errorf("round %d: %w", round, err)
	}
	return fmt.Errorf("%w: round %d: %w", domain.ErrBackendTransport, round, err)
}
