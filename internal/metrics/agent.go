package metrics

import "github.com/prometheus/client_golang/prometheus"

// Namespace prefixes every metric exported by the service.
const Namespace = "groupmatch"

// Backend Prometheus metrics.
var (
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "backend_requests_total",
			Help:      "Total number of reasoning backend requests",
		},
		[]string{"provider", "model", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Reasoning backend request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"provider", "model"},
	)

	BackendTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "backend_tokens_total",
			Help:      "Total backend tokens consumed",
		},
		[]string{"provider", "model", "type"}, // "prompt" / "completion"
	)

	BackendErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "backend_errors_total",
			Help:      "Total reasoning backend errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	BackendBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "backend_budget_tokens_remaining",
			Help:      "Remaining token budget",
		},
		[]string{"provider", "period"},
	)
)

// Agent Prometheus metrics.
var (
	AgentTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "agent_turns_total",
			Help:      "Chat turns by outcome",
		},
		[]string{"outcome"}, // answered / moderated / step_budget / error
	)

	AgentRounds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "agent_rounds",
			Help:      "Backend rounds used per chat turn",
			Buckets:   []float64{1, 2, 3, 4, 5},
		},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool and result",
		},
		[]string{"tool", "result"}, // ok / invalid_arguments / unknown_tool / execution_failed
	)

	ModerationChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "moderation_checks_total",
			Help:      "Moderation checks by result",
		},
		[]string{"result"}, // allowed / flagged / error / skipped
	)

	ModerationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "moderation_cache_total",
			Help:      "Moderation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var agentMetricsRegistered bool

// RegisterAgentMetrics registers backend and agent metrics. Must be called once from main.
func RegisterAgentMetrics() {
	if agentMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		BackendRequestsTotal,
		BackendRequestDuration,
		BackendTokensTotal,
		BackendErrorsTotal,
		BackendBudgetTokensRemaining,
		AgentTurnsTotal,
		AgentRounds,
		ToolCallsTotal,
		ModerationChecksTotal,
		ModerationCacheTotal,
	)
	agentMetricsRegistered = true
}
