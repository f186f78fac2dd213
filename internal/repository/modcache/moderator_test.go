package modcache

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/domain/moderation"
)

func TestModerate_CacheMiss(t *testing.T) {
	inner := &mockModerator{result: moderation.Result{Flagged: true, Categories: []string{"harassment"}}}
	cm, ms := newTestCachedModerator(t, inner)

	var (
		setKey  string
		setData []byte
		setTTL  time.Duration
	)
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setData, setTTL = key, value, ttl
		return nil
	}

	res, err := cm.Moderate(context.Background(), "some text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Flagged || inner.calls != 1 {
		t.Fatalf("res=%+v calls=%d", res, inner.calls)
	}
	if !strings.HasPrefix(setKey, "groupmatch:mod_cache:") {
		t.Errorf("key = %q", setKey)
	}
	if string(setData) != `{"flagged":true,"categories":["harassment"]}` {
		t.Errorf("data = %s", setData)
	}
	if setTTL != time.Hour {
		t.Errorf("ttl = %v", setTTL)
	}
}

func TestModerate_CacheHit(t *testing.T) {
	inner := &mockModerator{}
	cm, ms := newTestCachedModerator(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte(`{"flagged":true,"categories":["violence"]}`), nil
	}

	res, err := cm.Moderate(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 0 {
		t.Errorf("inner called on hit")
	}
	want := moderation.Result{Flagged: true, Categories: []string{"violence"}}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("res = %+v", res)
	}
}

func TestModerate_SameTextSameKey(t *testing.T) {
	if cacheKey("hello") != cacheKey("hello") {
		t.Fatal("key not deterministic")
	}
	if cacheKey("hello") == cacheKey("Hello") {
		t.Fatal("different texts share a key")
	}
}

func TestModerate_InnerErrorNotCached(t *testing.T) {
	sentinel := errors.New("upstream 503")
	inner := &mockModerator{err: sentinel}
	cm, ms := newTestCachedModerator(t, inner)

	var setCalled bool
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		setCalled = true
		return nil
	}

	_, err := cm.Moderate(context.Background(), "text")
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped inner error, got %v", err)
	}
	if setCalled {
		t.Error("error verdict must not be cached")
	}
}

func TestModerate_StoreErrorsDegrade(t *testing.T) {
	inner := &mockModerator{result: moderation.Result{}}
	cm, ms := newTestCachedModerator(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, errors.New("conn reset") }
	ms.setFn = func(context.Context, string, []byte, time.Duration) error { return errors.New("conn reset") }

	res, err := cm.Moderate(context.Background(), "text")
	if err != nil {
		t.Fatalf("store errors must not fail moderation: %v", err)
	}
	if res.Flagged || inner.calls != 1 {
		t.Errorf("res=%+v calls=%d", res, inner.calls)
	}
}

func TestModerate_CorruptCacheEntry(t *testing.T) {
	inner := &mockModerator{result: moderation.Result{Flagged: false}}
	cm, ms := newTestCachedModerator(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("{not json"), nil }

	if _, err := cm.Moderate(context.Background(), "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("corrupt entry should fall through to inner")
	}
}

func TestModerate_Metrics(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_mod_cache_total"}, []string{"result"})
	ms := &mockKVStore{}
	cm := New(&mockModerator{}, ms, time.Minute, counter, zap.NewNop())

	_, _ = cm.Moderate(context.Background(), "a")
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte(`{"flagged":false}`), nil }
	_, _ = cm.Moderate(context.Background(), "a")

	if v := testutil.ToFloat64(counter.WithLabelValues("miss")); v != 1 {
		t.Errorf("miss = %f", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("hit")); v != 1 {
		t.Errorf("hit = %f", v)
	}
}
