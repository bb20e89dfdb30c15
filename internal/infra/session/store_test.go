//go:build !integration

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"bloom-subscription-storefront/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "s1", "selectedPlan"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent key, got %v", err)
	}

	if err := store.Set(ctx, "s1", "selectedPlan", `{"planCode":"1399"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := store.Get(ctx, "s1", "selectedPlan")
	if err != nil || v != `{"planCode":"1399"}` {
		t.Fatalf("get: %q, %v", v, err)
	}

	// Sessions do not see each other's values.
	if _, err := store.Get(ctx, "s2", "selectedPlan"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected isolation between sessions, got %v", err)
	}

	if err := store.Remove(ctx, "s1", "selectedPlan"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get(ctx, "s1", "selectedPlan"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestMemoryStoreRemoveAbsent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if err := store.Remove(context.Background(), "nope", "nope"); err != nil {
		t.Errorf("removing an absent key must be a no-op, got %v", err)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = store.Set(ctx, "shared", "checkoutState", "{}")
				_, _ = store.Get(ctx, "shared", "checkoutState")
			}
		}()
	}
	wg.Wait()

	if v, err := store.Get(ctx, "shared", "checkoutState"); err != nil || v != "{}" {
		t.Fatalf("expected value to survive concurrent writers: %q, %v", v, err)
	}
}

// fakeRedis records calls so the key shape and TTL handling can be checked
// without a server.
type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

var _ RedisClient = (*fakeRedis)(nil)

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.values[key] = fmt.Sprint(value)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeRedis) Close() error { return nil }

func TestRedisStoreKeyShape(t *testing.T) {
	t.Parallel()

	fake := &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
	store := NewRedisStore(fake, 10*time.Minute)
	ctx := context.Background()

	if err := store.Set(ctx, "abc", "selectedPlan", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := fake.values["session:abc:selectedPlan"]; !ok {
		t.Fatalf("unexpected key layout: %v", fake.values)
	}
	if fake.ttls["session:abc:selectedPlan"] != 10*time.Minute {
		t.Errorf("expected configured TTL on write, got %v", fake.ttls)
	}

	v, err := store.Get(ctx, "abc", "selectedPlan")
	if err != nil || v != "v" {
		t.Fatalf("get: %q, %v", v, err)
	}
	if _, err := store.Get(ctx, "abc", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("redis nil must map to ErrNotFound, got %v", err)
	}
}
