package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/corpus"
	"github.com/kailas-cloud/groupmatch/internal/domain"
	domchat "github.com/kailas-cloud/groupmatch/internal/domain/chat"
	"github.com/kailas-cloud/groupmatch/internal/domain/group"
	"github.com/kailas-cloud/groupmatch/internal/domain/search/category"
	"github.com/kailas-cloud/groupmatch/internal/domain/search/result"
	"github.com/kailas-cloud/groupmatch/internal/prompt"
	"github.com/kailas-cloud/groupmatch/internal/transport/llm"
	"github.com/kailas-cloud/groupmatch/internal/usecase/agent"
	chatuc "github.com/kailas-cloud/groupmatch/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/groupmatch/internal/usecase/health"
	moderationuc "github.com/kailas-cloud/groupmatch/internal/usecase/moderation"
	"github.com/kailas-cloud/groupmatch/internal/usecase/provider"
	searchuc "github.com/kailas-cloud/groupmatch/internal/usecase/search"
	"github.com/kailas-cloud/groupmatch/internal/usecase/tools"
)

// Internal interfaces for substitution in tests.
type chatUseCase interface {
	Reply(ctx context.Context, history []domchat.Message) (chatuc.Reply, error)
}

type toolDispatcher interface {
	Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the SDK entry point. It is safe for concurrent use.
type Client struct {
	chat   chatUseCase
	tools  toolDispatcher
	health healthUseCase
	obs    *observer
}

// New creates a Client. ctx is used while constructing the backend client; no
// network request is made.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		pageSize:        domain.DefaultAgentConfig().PageSize,
		maxRounds:       domain.DefaultAgentConfig().MaxRounds,
		toolConcurrency: domain.DefaultAgentConfig().ToolConcurrency,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	corp, table, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := searchuc.New(corp, table, cfg.pageSize)
	if err != nil {
		return nil, fmt.Errorf("groupmatch: %w", err)
	}
	registry, err := tools.NewDefaultRegistry(engine)
	if err != nil {
		return nil, fmt.Errorf("groupmatch: %w", err)
	}

	log := zap.NewNop()

	var moderator moderationuc.Moderator
	if m := llm.NewModerator(cfg.moderationKey, "", "", log); m != nil {
		moderator = m
	}
	gate := moderationuc.NewGate(moderator, nil, log)

	// Pass nil interfaces (not typed nil pointers) when no backend resolves.
	var runner chatuc.Runner
	var checker healthuc.BackendChecker

	res, err := provider.New(cfg.sources...).Resolve()
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		obs.info("no reasoning backend configured, chat is disabled")
	case err != nil:
		return nil, fmt.Errorf("groupmatch: %w", err)
	default:
		backend, err := llm.New(ctx, res, log)
		if err != nil {
			return nil, fmt.Errorf("groupmatch: %w", err)
		}
		orch, err := agent.NewOrchestrator(backend, registry, agent.Config{
			MaxRounds:       cfg.maxRounds,
			ToolConcurrency: cfg.toolConcurrency,
		}, nil, log)
		if err != nil {
			return nil, fmt.Errorf("groupmatch: %w", err)
		}
		runner = orch
		checker = backend
	}

	return &Client{
		chat:   chatuc.New(gate, runner, prompt.System, log),
		tools:  registry,
		health: healthuc.New(nil, checker),
		obs:    obs,
	}, nil
}

func loadCatalog(cfg *clientConfig) (group.Corpus, category.Table, error) {
	if len(cfg.groups) == 0 {
		c, err := corpus.LoadFile(cfg.groupsFile)
		if err != nil {
			return group.Corpus{}, category.Table{}, fmt.Errorf("groupmatch: %w", err)
		}
		return c.Groups, c.Categories, nil
	}

	groups := make([]group.Group, 0, len(cfg.groups))
	for _, g := range cfg.groups {
		gr, err := group.New(g.ID, g.Name, g.Description, g.Tags, g.Cadence)
		if err != nil {
			return group.Corpus{}, category.Table{}, fmt.Errorf("groupmatch: %w", err)
		}
		groups = append(groups, gr)
	}
	corp, err := group.NewCorpus(groups)
	if err != nil {
		return group.Corpus{}, category.Table{}, fmt.Errorf("groupmatch: %w", err)
	}
	return corp, category.Default(), nil
}

// Chat answers the conversation. The newest user message is moderated first when a
// moderator is configured. history is not modified.
func (c *Client) Chat(ctx context.Context, history []Message) (reply Reply, err error) {
	start := time.Now()
	defer func() { c.obs.observe("chat", start, err) }()

	msgs := make([]domchat.Message, len(history))
	for i, m := range history {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return Reply{}, fmt.Errorf("groupmatch: message %d: unsupported role %q", i, m.Role)
		}
		msgs[i] = domchat.Message{Role: domchat.Role(m.Role), Content: m.Content}
	}

	r, err := c.chat.Reply(ctx, msgs)
	if err != nil {
		return Reply{}, fmt.Errorf("chat: %w", err)
	}
	return Reply{
		Text:                r.Text,
		Moderated:           r.Moderated,
		Categories:          r.Categories,
		Rounds:              r.Rounds,
		ToolCalls:           r.ToolCalls,
		StepBudgetExhausted: r.StepBudgetExhausted,
	}, nil
}

// Search returns one page of groups. Arguments are validated like a backend tool
// call; invalid values fail with ErrToolArgument.
func (c *Client) Search(ctx context.Context, q SearchQuery) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	raw, err := searchArgs(q)
	if err != nil {
		return SearchResult{}, err
	}

	out, err := c.tools.Dispatch(ctx, tools.SearchGroupsName, raw)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	page, ok := out.(result.Result)
	if !ok {
		return SearchResult{}, fmt.Errorf("search: unexpected result type %T", out)
	}
	return searchResultFromDomain(page), nil
}

// Health checks the reasoning backend.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

func searchArgs(q SearchQuery) (json.RawMessage, error) {
	keywords := q.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	args := map[string]any{"keywords": keywords}
	if q.Category != "" {
		args["category"] = q.Category
	}
	if q.TimePreference != "" {
		args["timePreference"] = q.TimePreference
	}
	if q.Page != 0 {
		args["page"] = q.Page
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("groupmatch: encode search arguments: %w", err)
	}
	return raw, nil
}

func searchResultFromDomain(r result.Result) SearchResult {
	groups := make([]Group, len(r.Groups))
	for i, g := range r.Groups {
		groups[i] = Group{
			ID:          g.ID(),
			Name:        g.Name(),
			Description: g.Description(),
			Tags:        g.Tags(),
			Cadence:     g.Cadence(),
		}
	}
	return SearchResult{
		Groups:       groups,
		Page:         r.Pagination.Page,
		PageSize:     r.Pagination.PageSize,
		TotalResults: r.Pagination.TotalResults,
		TotalPages:   r.Pagination.TotalPages,
		HasMore:      r.Pagination.HasMore,
	}
}
