package modcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/db"
	"github.com/kailas-cloud/groupmatch/internal/domain"
	"github.com/kailas-cloud/groupmatch/internal/domain/moderation"
)

var cacheKeyPrefix = domain.KeyPrefix + "mod_cache:"

// store is the consumer interface for the moderation cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedModerator caches moderation verdicts in a key-value store.
// Only successful verdicts are cached; provider errors pass through untouched.
type CachedModerator struct {
	inner      domain.Moderator
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Moderator,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedModerator {
	return &CachedModerator{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Moderate returns a cached verdict or calls the inner moderator.
// Cache failures degrade to a direct call.
func (c *CachedModerator) Moderate(ctx context.Context, text string) (moderation.Result, error) {
	key := cacheKey(text)

	if res, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return res, nil
	}
	c.incCache("miss")

	res, err := c.inner.Moderate(ctx, text)
	if err != nil {
		return moderation.Result{}, fmt.Errorf("moderate text: %w", err)
	}

	c.putToCache(ctx, key, res)
	return res, nil
}

func (c *CachedModerator) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedModerator) getFromCache(ctx context.Context, key string) (moderation.Result, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached moderation verdict", zap.String("key", key), zap.Error(err))
		}
		return moderation.Result{}, false
	}

	var res moderation.Result
	if err := json.Unmarshal(data, &res); err != nil {
		c.logger.Warn("Failed to parse cached moderation verdict", zap.String("key", key), zap.Error(err))
		return moderation.Result{}, false
	}
	return res, true
}

func (c *CachedModerator) putToCache(ctx context.Context, key string, res moderation.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		c.logger.Warn("Failed to encode moderation verdict", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache moderation verdict", zap.String("key", key), zap.Error(err))
	}
}
