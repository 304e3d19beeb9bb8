package recommendation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu     sync.Mutex
	items  map[string]string
	getErr error
	sets   int
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]string)}
}

func (m *mapCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.items[key] = value
	return nil
}

func TestCachedServiceServesRepeatsFromCache(t *testing.T) {
	next := &scriptedService{configured: true, results: []Result{{Text: "Water deeply."}, {Text: "second call"}}}
	cache := newMapCache()
	svc := NewCachedService(next, cache, CacheConfig{TTL: time.Hour}, newTestLogger())

	first, err := svc.GenerateRecommendation(context.Background(), validRequest())
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := svc.GenerateRecommendation(context.Background(), validRequest())
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, "Water deeply.", second.Text)
	require.Equal(t, 1, next.callCount())

	key := CacheKey(DefaultModel, BuildPrompt(validProfile(), validConditions()))
	require.Contains(t, cache.items, key)
}

func TestCachedServiceSkipsEmptyAndFailedResults(t *testing.T) {
	next := &scriptedService{
		configured: true,
		results:    []Result{{Text: ""}, {}},
		errs:       []error{nil, newError(KindRateLimit, "slow down", nil)},
	}
	cache := newMapCache()
	svc := NewCachedService(next, cache, CacheConfig{TTL: time.Hour}, newTestLogger())

	res, err := svc.GenerateRecommendation(context.Background(), validRequest())
	require.NoError(t, err)
	require.Empty(t, res.Text)

	_, err = svc.GenerateRecommendation(context.Background(), validRequest())
	require.Equal(t, KindRateLimit, KindOf(err))
	require.Zero(t, cache.sets)
}

func TestCachedServiceValidatesFirst(t *testing.T) {
	next := &scriptedService{configured: true}
	svc := NewCachedService(next, newMapCache(), CacheConfig{}, newTestLogger())

	_, err := svc.GenerateRecommendation(context.Background(), Request{})
	require.Equal(t, KindValidation, KindOf(err))
	require.Zero(t, next.callCount())
}

func TestCachedServiceBypassesWhenUnconfigured(t *testing.T) {
	next := &scriptedService{results: []Result{{Text: UnconfiguredMessage}}}
	cache := newMapCache()
	svc := NewCachedService(next, cache, CacheConfig{TTL: time.Hour}, newTestLogger())

	res, err := svc.GenerateRecommendation(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, UnconfiguredMessage, res.Text)
	require.Zero(t, cache.sets)
	require.False(t, svc.Configured())
}

func TestCachedServiceToleratesCacheFailures(t *testing.T) {
	next := &scriptedService{configured: true, results: []Result{{Text: "Aerate in fall."}}}
	cache := newMapCache()
	cache.getErr = errors.New("valkey down")
	svc := NewCachedService(next, cache, CacheConfig{TTL: time.Hour}, newTestLogger())

	res, err := svc.GenerateRecommendation(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, "Aerate in fall.", res.Text)
}

func TestCachedServiceCollapsesConcurrentMisses(t *testing.T) {
	next := &scriptedService{
		configured: true,
		entered:    make(chan struct{}, 4),
		gate:       make(chan struct{}),
		results:    []Result{{Text: "shared"}, {Text: "not shared"}},
	}
	svc := NewCachedService(next, newMapCache(), CacheConfig{TTL: time.Hour}, newTestLogger())

	const callers = 4
	results := make(chan Result, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.GenerateRecommendation(context.Background(), validRequest())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- res
		}()
	}

	<-next.entered
	// Give the remaining callers time to join the in-flight call before it completes.
	time.Sleep(50 * time.Millisecond)
	close(next.gate)
	wg.Wait()
	close(results)

	require.Equal(t, 1, next.callCount())
	for res := range results {
		require.Equal(t, "shared", res.Text)
	}
}

func TestCachedServiceSharedCallSurvivesCallerCancellation(t *testing.T) {
	next := &scriptedService{
		configured: true,
		entered:    make(chan struct{}, 2),
		gate:       make(chan struct{}),
		results:    []Result{{Text: "Mow at three inches."}},
	}
	svc := NewCachedService(next, newMapCache(), CacheConfig{TTL: time.Hour}, newTestLogger())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.GenerateRecommendation(ctxA, validRequest())
		errA <- err
	}()
	<-next.entered

	type outcome struct {
		res Result
		err error
	}
	outB := make(chan outcome, 1)
	go func() {
		res, err := svc.GenerateRecommendation(context.Background(), validRequest())
		outB <- outcome{res: res, err: err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	err := <-errA
	require.Equal(t, KindNetwork, KindOf(err))
	require.ErrorIs(t, err, context.Canceled)

	close(next.gate)
	got := <-outB
	require.NoError(t, got.err)
	require.Equal(t, "Mow at three inches.", got.res.Text)
	require.Equal(t, 1, next.callCount())
	require.Equal(t, []error{nil}, next.ctxErrs)
}
