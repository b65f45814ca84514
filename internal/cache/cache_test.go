package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoadCachesValue(t *testing.T) {
	store := New(0)
	key := Key{Domain: "compliance", Entity: "manufacturers", Suffix: "page=1"}

	var calls atomic.Int32
	loader := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "result", nil
	}

	for i := 0; i < 3; i++ {
		v, err := GetOrLoad(context.Background(), store, key, loader)
		require.NoError(t, err)
		assert.Equal(t, "result", v)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrLoadErrorNotStored(t *testing.T) {
	store := New(0)
	key := Key{Domain: "compliance", Entity: "products", Suffix: "id=1"}

	var calls atomic.Int32
	boom := errors.New("db down")
	_, err := GetOrLoad(context.Background(), store, key, func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "", boom
	})
	require.ErrorIs(t, err, boom)

	v, err := GetOrLoad(context.Background(), store, key, func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(2), calls.Load(), "failed load must not poison the key")
}

func TestConcurrentIdenticalKeySingleLoad(t *testing.T) {
	store := New(0)
	key := Key{Domain: "catalog", Entity: "directives", Suffix: "page=1"}

	var calls atomic.Int32
	release := make(chan struct{})
	loader := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make([]int, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := GetOrLoad(context.Background(), store, key, loader)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give every goroutine a chance to join the flight before releasing.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "identical-key reads must share one load")
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	store := New(0)
	key := Key{Domain: "compliance", Entity: "manufacturers", Suffix: "page=1"}

	var calls atomic.Int32
	loader := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "v", nil
	}

	_, err := GetOrLoad(context.Background(), store, key, loader)
	require.NoError(t, err)

	store.Invalidate("compliance", "manufacturers")

	_, err = GetOrLoad(context.Background(), store, key, loader)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidateIsIdempotent(t *testing.T) {
	store := New(0)
	key := Key{Domain: "compliance", Entity: "manufacturers", Suffix: "page=1"}

	var calls atomic.Int32
	loader := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "v", nil
	}

	_, _ = GetOrLoad(context.Background(), store, key, loader)
	store.Invalidate("compliance", "manufacturers")
	store.Invalidate("compliance", "manufacturers")
	_, _ = GetOrLoad(context.Background(), store, key, loader)

	assert.Equal(t, int32(2), calls.Load(), "double invalidation still refetches exactly once")
}

func TestInvalidateMatchesPrefixOnly(t *testing.T) {
	store := New(0)
	manu := Key{Domain: "compliance", Entity: "manufacturers", Suffix: "page=1"}
	prod := Key{Domain: "compliance", Entity: "products", Suffix: "page=1"}

	_, _ = GetOrLoad(context.Background(), store, manu, func(ctx context.Context) (string, error) { return "m", nil })
	_, _ = GetOrLoad(context.Background(), store, prod, func(ctx context.Context) (string, error) { return "p", nil })
	require.Equal(t, 2, store.Len())

	store.Invalidate("compliance", "manufacturers")
	assert.Equal(t, 1, store.Len(), "unrelated entities keep their entries")
}

func TestInvalidationBeatsInFlightLoad(t *testing.T) {
	store := New(0)
	key := Key{Domain: "compliance", Entity: "manufacturers", Suffix: "page=1"}

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _ = GetOrLoad(context.Background(), store, key, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()

	<-started
	store.Invalidate("compliance", "manufacturers")
	close(release)

	v, err := GetOrLoad(context.Background(), store, key, func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v, "a load that began before invalidation must not repopulate the cache")
}

func TestTTLExpiry(t *testing.T) {
	store := New(10 * time.Millisecond)
	key := Key{Domain: "catalog", Entity: "standards", Suffix: "page=1"}

	var calls atomic.Int32
	loader := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "v", nil
	}

	_, _ = GetOrLoad(context.Background(), store, key, loader)
	time.Sleep(20 * time.Millisecond)
	_, _ = GetOrLoad(context.Background(), store, key, loader)

	assert.Equal(t, int32(2), calls.Load())
}
