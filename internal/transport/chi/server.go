// Package chi exposes the chat and group search use cases over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/domain/chat"
	domusage "github.com/kailas-cloud/groupmatch/internal/domain/usage"
	"github.com/kailas-cloud/groupmatch/internal/logger"
	chatuc "github.com/kailas-cloud/groupmatch/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/groupmatch/internal/usecase/health"
	"github.com/kailas-cloud/groupmatch/internal/usecase/tools"
	usageuc "github.com/kailas-cloud/groupmatch/internal/usecase/usage"
)

const maxBodyBytes = 1 << 20

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,max=100,dive"`
}

// ChatMessage is one conversation entry sent by the client.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatResponse is the body of a successful chat turn.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// UsageResponse is the body of GET /api/usage. Remaining is -1 when unlimited.
type UsageResponse struct {
	Period      string    `json:"period"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	Provider    string    `json:"provider,omitempty"`
	TokensUsed  int64     `json:"tokensUsed"`
	TokensLimit int64     `json:"tokensLimit"`
	Remaining   int64     `json:"tokensRemaining"`
	Exhausted   bool      `json:"exhausted"`
}

// Server holds the HTTP handlers.
type Server struct {
	chat        *chatuc.Service
	tools       *tools.Registry
	health      *healthuc.Service
	usage       *usageuc.Service
	validate    *validator.Validate
	turnTimeout time.Duration
	logger      *zap.Logger

	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. turnTimeout <= 0 disables the per-turn deadline.
func NewServer(
	chat *chatuc.Service,
	registry *tools.Registry,
	health *healthuc.Service,
	usage *usageuc.Service,
	turnTimeout time.Duration,
	logger *zap.Logger,
) *Server {
	return &Server{
		chat:          chat,
		tools:         registry,
		health:        health,
		usage:         usage,
		validate:      tools.NewValidator(),
		turnTimeout:   turnTimeout,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Chat handles POST /api/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	for i := range req.Messages {
		req.Messages[i].Content = strings.TrimSpace(req.Messages[i].Content)
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, validationMessage(err))
		return
	}

	history := make([]chat.Message, len(req.Messages))
	for i, m := range req.Messages {
		history[i] = chat.Message{Role: chat.Role(m.Role), Content: m.Content}
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	if s.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.turnTimeout)
		defer cancel()
	}

	reply, err := s.chat.Reply(ctx, history)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	if usage.Calls() > 0 {
		w.Header().Set("X-Backend-Tokens", strconv.Itoa(usage.TotalTokens()))
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply.Text})
}

// SearchGroups handles GET /api/groups/search. Arguments go through the same
// validation as the backend's tool calls.
func (s *Server) SearchGroups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	args := map[string]any{"keywords": splitKeywords(q.Get("keywords"))}
	if v := q.Get("category"); v != "" {
		args["category"] = v
	}
	if v := q.Get("timePreference"); v != "" {
		args["timePreference"] = v
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "page: must be an integer")
			return
		}
		args["page"] = page
	}

	raw, err := json.Marshal(args)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	res, err := s.tools.Dispatch(r.Context(), tools.SearchGroupsName, raw)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Usage handles GET /api/usage?period=day|month.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	period, ok := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if !ok {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "period: must be one of [day month]")
		return
	}

	rep := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, UsageResponse{
		Period:      string(rep.Period()),
		PeriodStart: rep.PeriodStart(),
		PeriodEnd:   rep.PeriodEnd(),
		Provider:    rep.Provider(),
		TokensUsed:  rep.TokensUsed(),
		TokensLimit: rep.TokensLimit(),
		Remaining:   rep.TokensRemaining(),
		Exhausted:   rep.Exhausted(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContextOr(ctx, s.logger)
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}

func splitKeywords(v string) []string {
	out := []string{}
	for _, k := range strings.Split(v, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fe.Namespace() + ": must satisfy " + fe.Tag() + "=" + fe.Param()
	}
	return fe.Namespace() + ": " + fe.Tag()
}
