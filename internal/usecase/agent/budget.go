package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/domain"
)

// BudgetAction defines behavior when the token budget is exhausted.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but lets the turn proceed.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject fails the turn with domain.ErrBudgetExceeded.
	BudgetActionReject BudgetAction = "reject"
)

// BudgetStore is the persistence interface for budget counters.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

const persistTimeout = 2 * time.Second

// spend is token consumption split by direction. Both directions count against a limit.
type spend struct {
	prompt     int64
	completion int64
}

// spendOf splits a backend usage report. Tokens the backend counts in the
// total but in neither direction (reasoning, cached) are charged as completion.
func spendOf(u domain.TokenUsage) spend {
	return spend{
		prompt:     int64(u.PromptTokens),
		completion: int64(max(u.CompletionTokens, u.TotalTokens-u.PromptTokens)),
	}
}

func (s spend) total() int64 { return s.prompt + s.completion }

func (s *spend) add(o spend) {
	s.prompt += o.prompt
	s.completion += o.completion
}

// parts names the persisted counters of one window, in storage order.
func (s *spend) parts() []struct {
	name string
	val  *int64
} {
	return []struct {
		name string
		val  *int64
	}{{"prompt", &s.prompt}, {"completion", &s.completion}}
}

// window is one budget period (a UTC day or month) with its own cap.
type window struct {
	name   string
	layout string
	floor  func(time.Time) time.Time
	limit  int64
	opened time.Time
	used   spend
}

func dayWindow(limit int64) window {
	return window{name: "daily", layout: "2006-01-02", floor: truncateToDay, limit: limit}
}

func monthWindow(limit int64) window {
	return window{name: "monthly", layout: "2006-01", floor: truncateToMonth, limit: limit}
}

// roll clears the counters once now falls in a later period than the one open.
func (w *window) roll(now time.Time) {
	if start := w.floor(now); start.After(w.opened) {
		w.opened = start
		w.used = spend{}
	}
}

func (w *window) exceeded() bool { return w.limit > 0 && w.used.total() >= w.limit }

// remaining returns tokens left, -1 if unlimited.
func (w *window) remaining() int64 {
	if w.limit == 0 {
		return -1
	}
	return max(w.limit-w.used.total(), 0)
}

// key formats groupmatch:budget:{provider}:{window}:{period}:{direction}.
func (w *window) key(provider string, t time.Time, direction string) string {
	return fmt.Sprintf("%sbudget:%s:%s:%s:%s", domain.KeyPrefix, provider, w.name, t.Format(w.layout), direction)
}

// BudgetTracker enforces daily and monthly token caps for one backend.
// Counters live in memory; an attached store is loaded once and then written behind.
type BudgetTracker struct {
	mu       sync.Mutex
	provider string
	action   BudgetAction
	daily    window
	monthly  window
	now      func() time.Time
	store    BudgetStore
	logger   *zap.Logger
}

// NewBudgetTracker creates a tracker. A zero limit means unlimited.
func NewBudgetTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	b := &BudgetTracker{
		provider: provider,
		action:   action,
		daily:    dayWindow(dailyLimit),
		monthly:  monthWindow(monthlyLimit),
		logger:   logger,
	}
	b.setClock(func() time.Time { return time.Now().UTC() })
	return b
}

// setClock replaces the time source and reopens both windows at its current time.
func (b *BudgetTracker) setClock(now func() time.Time) {
	b.now = now
	t := now()
	for _, w := range b.windows() {
		w.opened = w.floor(t)
		w.used = spend{}
	}
}

func (b *BudgetTracker) windows() []*window { return []*window{&b.daily, &b.monthly} }

// WithStore attaches a persistence store and loads the open periods' counters.
// A counter that fails to load starts from zero.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	now := b.now()
	for _, w := range b.windows() {
		w.roll(now)
		for _, p := range w.used.parts() {
			key := w.key(b.provider, now, p.name)
			val, err := store.Get(ctx, key)
			if err != nil {
				b.logger.Warn("Failed to load budget counter", zap.String("key", key), zap.Error(err))
				continue
			}
			*p.val = val
		}
	}

	b.logger.Info("Budget loaded from store",
		zap.String("provider", b.provider),
		zap.Int64("daily_prompt", b.daily.used.prompt),
		zap.Int64("daily_completion", b.daily.used.completion),
		zap.Int64("monthly_used", b.monthly.used.total()),
	)
	return b
}

// Check verifies the budget allows another backend call.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	var over []zap.Field
	for _, w := range b.windows() {
		w.roll(now)
		if w.exceeded() {
			over = append(over,
				zap.Int64(w.name+"_used", w.used.total()),
				zap.Int64(w.name+"_limit", w.limit),
			)
		}
	}
	if len(over) == 0 {
		return nil
	}
	if b.action == BudgetActionReject {
		return domain.ErrBudgetExceeded
	}

	b.logger.Warn("Token budget exceeded", append([]zap.Field{zap.String("provider", b.provider)}, over...)...)
	return nil
}

// Record charges one backend response to both windows, then writes behind to the store.
func (b *BudgetTracker) Record(u domain.TokenUsage) {
	s := spendOf(u)
	if s.total() <= 0 {
		return
	}

	b.mu.Lock()
	now := b.now()
	for _, w := range b.windows() {
		w.roll(now)
		w.used.add(s)
	}
	store := b.store
	b.mu.Unlock()

	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	for _, w := range []window{dayWindow(0), monthWindow(0)} {
		for _, p := range s.parts() {
			if *p.val == 0 {
				continue
			}
			key := w.key(b.provider, now, p.name)
			if err := store.IncrBy(ctx, key, *p.val); err != nil {
				b.logger.Warn("Failed to persist budget counter", zap.String("key", key), zap.Error(err))
			}
		}
	}
}

func (b *BudgetTracker) read(w *window, f func(*window) int64) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	w.roll(b.now())
	return f(w)
}

func used(w *window) int64      { return w.used.total() }
func remaining(w *window) int64 { return w.remaining() }

// RemainingDaily returns tokens left today, -1 if unlimited.
func (b *BudgetTracker) RemainingDaily() int64 { return b.read(&b.daily, remaining) }

// RemainingMonthly returns tokens left this month, -1 if unlimited.
func (b *BudgetTracker) RemainingMonthly() int64 { return b.read(&b.monthly, remaining) }

// DailyUsed returns prompt plus completion tokens consumed today.
func (b *BudgetTracker) DailyUsed() int64 { return b.read(&b.daily, used) }

// MonthlyUsed returns prompt plus completion tokens consumed this month.
func (b *BudgetTracker) MonthlyUsed() int64 { return b.read(&b.monthly, used) }

// DailyLimit returns the daily cap, 0 if unlimited.
func (b *BudgetTracker) DailyLimit() int64 { return b.daily.limit }

// MonthlyLimit returns the monthly cap, 0 if unlimited.
func (b *BudgetTracker) MonthlyLimit() int64 { return b.monthly.limit }

// Provider returns the backend the budget applies to.
func (b *BudgetTracker) Provider() string { return b.provider }

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
