package main

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/lawn-advisor/internal/domain/recommendation"
	"github.com/yanqian/lawn-advisor/internal/infra/config"
	"github.com/yanqian/lawn-advisor/internal/infra/recommendationcache"
	"github.com/yanqian/lawn-advisor/internal/infra/requestlog"
	"github.com/yanqian/lawn-advisor/pkg/logger"
)

func testLogger() *slog.Logger {
	return logger.Discard()
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{Model: "claude-test", Timeout: time.Second},
		Cache: config.CacheConfig{
			TTL:        time.Minute,
			MaxEntries: 8,
		},
		RequestLog: config.RequestLogConfig{MemoryCapacity: 4},
	}
}

func TestProvideRecommendationServiceRejectsEmptyKey(t *testing.T) {
	cfg := testConfig()
	empty := ""
	cfg.LLM.APIKey = &empty

	_, err := provideRecommendationService(cfg, provideRecommendationConfig(cfg), provideAnthropicClient(cfg), nil, testLogger())
	require.ErrorIs(t, err, recommendation.ErrAPIKeyRequired)
	require.EqualError(t, err, "API key is required")
}

func TestProvideRecommendationServiceWithoutKey(t *testing.T) {
	cfg := testConfig()
	cfg.Recommendation.Retry = config.RetryConfig{Enabled: true, MaxAttempts: 2, BaseBackoff: time.Millisecond}

	svc, err := provideRecommendationService(cfg, provideRecommendationConfig(cfg), provideAnthropicClient(cfg), nil, testLogger())
	require.NoError(t, err)
	require.False(t, svc.Configured())
}

func TestProvideRecommendationCache(t *testing.T) {
	cfg := testConfig()
	cache, cleanup := provideRecommendationCache(cfg, testLogger())
	defer cleanup()
	require.Nil(t, cache)

	cfg.Cache.Enabled = true
	cache, cleanup = provideRecommendationCache(cfg, testLogger())
	defer cleanup()
	require.IsType(t, &recommendationcache.MemoryCache{}, cache)
}

func TestProvideOutcomeLogFallsBackToMemory(t *testing.T) {
	cfg := testConfig()
	cfg.RequestLog.Postgres.DSN = "::not a dsn::"

	log, cleanup := provideOutcomeLog(cfg, testLogger())
	defer cleanup()
	require.IsType(t, &requestlog.MemoryRepository{}, log)
	require.NoError(t, log.Record(context.Background(), recommendation.Outcome{ID: "a"}))
}
