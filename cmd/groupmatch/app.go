package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/config"
	"github.com/kailas-cloud/groupmatch/internal/corpus"
	"github.com/kailas-cloud/groupmatch/internal/db"
	dbRedis "github.com/kailas-cloud/groupmatch/internal/db/redis"
	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/metrics"
	"github.com/kailas-cloud/groupmatch/internal/prompt"
	budgetrepo "github.com/kailas-cloud/groupmatch/internal/repository/budget"
	"github.com/kailas-cloud/groupmatch/internal/repository/modcache"
	"github.com/kailas-cloud/groupmatch/internal/transport/llm"
	"github.com/kailas-cloud/groupmatch/internal/usecase/agent"
	chatuc "github.com/kailas-cloud/groupmatch/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/groupmatch/internal/usecase/health"
	moderationuc "github.com/kailas-cloud/groupmatch/internal/usecase/moderation"
	"github.com/kailas-cloud/groupmatch/internal/usecase/provider"
	searchuc "github.com/kailas-cloud/groupmatch/internal/usecase/search"
	"github.com/kailas-cloud/groupmatch/internal/usecase/tools"
	usageuc "github.com/kailas-cloud/groupmatch/internal/usecase/usage"
)

// app is the composition root shared by every subcommand.
type app struct {
	engine   *searchuc.Engine
	registry *tools.Registry
	chat     *chatuc.Service
	health   *healthuc.Service
	usage    *usageuc.Service
	store    db.Store
	backend  string
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// buildApp wires the service. A missing backend credential is not fatal: chat
// turns then fail with domain.ErrConfiguration while search keeps working.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	metrics.RegisterAgentMetrics()

	catalog, err := corpus.LoadFile(cfg.Search.CorpusFile)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	engine, err := searchuc.New(catalog.Groups, catalog.Categories, cfg.Search.PageSize)
	if err != nil {
		return nil, fmt.Errorf("create search engine: %w", err)
	}
	registry, err := tools.NewDefaultRegistry(engine)
	if err != nil {
		return nil, fmt.Errorf("create tool registry: %w", err)
	}
	logger.Info("Corpus loaded", zap.Int("groups", engine.Size()), zap.Int("page_size", engine.PageSize()))

	a := &app{engine: engine, registry: registry}

	// Optional key-value store for the moderation cache and budget counters.
	var store db.Store
	if cfg.Cache.Enabled() {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		if err := s.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			s.Close()
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		store = s
		a.store = s
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	gate := buildGate(cfg.Moderation, store, logger)

	// Pass nil interface (not typed nil pointer) when no backend resolves.
	var runner chatuc.Runner
	var checker healthuc.BackendChecker
	var budgetReader usageuc.BudgetReader

	res, err := provider.New(sources(cfg.Backend)...).Resolve()
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		logger.Warn("No reasoning backend configured, chat is disabled", zap.Error(err))
	case err != nil:
		a.Close()
		return nil, fmt.Errorf("resolve backend: %w", err)
	default:
		backend, err := llm.New(ctx, res, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create backend: %w", err)
		}

		// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
		var budgetChecker agent.BudgetChecker
		if budget := buildBudget(ctx, res.Provider, cfg.Budget, store, logger); budget != nil {
			budgetChecker = budget
			budgetReader = budget
		}
		instrumented := agent.NewInstrumentedBackend(backend, res.Provider, res.Model, budgetChecker, logger)

		orch, err := agent.NewOrchestrator(instrumented, registry, agent.Config{
			MaxRounds:       cfg.Agent.MaxRounds,
			ToolConcurrency: cfg.Agent.ToolConcurrency,
		}, metrics.ToolCallsTotal, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create orchestrator: %w", err)
		}
		runner = orch
		checker = instrumented
		a.backend = res.Provider

		logger.Info("Reasoning backend resolved",
			zap.String("provider", res.Provider),
			zap.String("model", res.Model),
			zap.Int("max_rounds", cfg.Agent.MaxRounds),
		)
	}

	a.chat = chatuc.New(gate, runner, prompt.System, logger)

	var pinger healthuc.CachePinger
	if store != nil {
		pinger = store
	}
	a.health = healthuc.New(pinger, checker)
	a.usage = usageuc.New(budgetReader)

	return a, nil
}

func sources(cfg config.BackendConfig) []provider.Source {
	out := make([]provider.Source, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		out = append(out, provider.Source{
			Provider: p.Name,
			APIKey:   p.APIKey,
			Model:    p.Model,
			BaseURL:  p.BaseURL,
		})
	}
	return out
}

// buildGate assembles OpenAI moderation, cached when a store and TTL are configured.
func buildGate(cfg config.ModerationConfig, store db.Store, logger *zap.Logger) *moderationuc.Gate {
	var moderator moderationuc.Moderator
	if base := llm.NewModerator(cfg.APIKey, cfg.BaseURL, cfg.Model, logger); base != nil {
		moderator = base
		if store != nil && cfg.CacheTTLSec > 0 {
			moderator = modcache.New(base, store, time.Duration(cfg.CacheTTLSec)*time.Second,
				metrics.ModerationCacheTotal, logger)
		}
	} else {
		logger.Info("Moderation disabled")
	}
	return moderationuc.NewGate(moderator, metrics.ModerationChecksTotal, logger)
}

// buildBudget returns nil when no limit is configured.
func buildBudget(
	ctx context.Context, providerName string, cfg config.BudgetConfig, store db.Store, logger *zap.Logger,
) *agent.BudgetTracker {
	if !cfg.Enabled() {
		return nil
	}
	action := agent.BudgetActionWarn
	if cfg.Action == string(agent.BudgetActionReject) {
		action = agent.BudgetActionReject
	}
	budget := agent.NewBudgetTracker(providerName, cfg.DailyTokenLimit, cfg.MonthlyTokenLimit, action, logger)
	if store != nil {
		budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
	}
	return budget
}
