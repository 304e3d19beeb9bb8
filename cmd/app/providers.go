package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/lawn-advisor/internal/domain/recommendation"
	"github.com/yanqian/lawn-advisor/internal/domain/session"
	"github.com/yanqian/lawn-advisor/internal/infra/config"
	"github.com/yanqian/lawn-advisor/internal/infra/llm/anthropic"
	"github.com/yanqian/lawn-advisor/internal/infra/recommendationcache"
	"github.com/yanqian/lawn-advisor/internal/infra/requestlog"
)

func provideRecommendationConfig(cfg *config.Config) recommendation.Config {
	return recommendation.Config{
		APIKey: cfg.LLM.APIKey,
		Model:  cfg.LLM.Model,
	}
}

func provideAnthropicClient(cfg *config.Config) *anthropic.Client {
	var key string
	if cfg.LLM.APIKey != nil {
		key = *cfg.LLM.APIKey
	}
	return anthropic.NewClient(key, cfg.LLM.BaseURL, cfg.LLM.Version, cfg.LLM.Timeout)
}

// provideRecommendationService builds the default pipeline instance with the
// configured decorators. Tests construct their own through recommendation.NewService.
func provideRecommendationService(cfg *config.Config, recCfg recommendation.Config, client *anthropic.Client, cache recommendation.Cache, logger *slog.Logger) (recommendation.Service, error) {
	svc, err := recommendation.NewService(recCfg, client, logger)
	if err != nil {
		return nil, err
	}
	if retry := cfg.Recommendation.Retry; retry.Enabled {
		svc = recommendation.NewRetryingService(svc, recommendation.RetryConfig{
			MaxAttempts: retry.MaxAttempts,
			BaseBackoff: retry.BaseBackoff,
		}, logger)
	}
	if cache != nil {
		svc = recommendation.NewCachedService(svc, cache, recommendation.CacheConfig{
			Model: recommendation.ModelOrDefault(recCfg.Model),
			TTL:   cfg.Cache.TTL,
		}, logger)
	}
	return svc, nil
}

func provideRecommendationCache(cfg *config.Config, logger *slog.Logger) (recommendation.Cache, func()) {
	noop := func() {}
	if !cfg.Cache.Enabled {
		return nil, noop
	}
	memory := func() (recommendation.Cache, func()) {
		logger.Info("recommendation cache using memory backend", "max_entries", cfg.Cache.MaxEntries)
		return recommendationcache.NewMemoryCache(cfg.Cache.MaxEntries, cfg.Cache.TTL), noop
	}
	if !cfg.Cache.Valkey.Enabled {
		return memory()
	}

	opt, err := buildValkeyOptions(cfg.Cache.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return memory()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return memory()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return memory()
	}
	logger.Info("recommendation valkey cache enabled", "addr", cfg.Cache.Valkey.Addr)
	return recommendationcache.NewValkeyCache(client, cfg.Cache.Valkey.Prefix), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideOutcomeLog(cfg *config.Config, logger *slog.Logger) (recommendation.OutcomeLog, func()) {
	fallback := requestlog.NewMemoryRepository(cfg.RequestLog.MemoryCapacity)
	noop := func() {}
	pgCfg := cfg.RequestLog.Postgres
	dsn := strings.TrimSpace(pgCfg.DSN)
	if dsn == "" {
		logger.Info("request log postgres dsn not set, using memory repository")
		return fallback, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback, noop
	}
	if pgCfg.MaxConns > 0 {
		poolConfig.MaxConns = pgCfg.MaxConns
	}
	if pgCfg.MinConns > 0 {
		poolConfig.MinConns = pgCfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback, noop
	}
	repo := requestlog.NewPostgresRepository(pool)
	if pgCfg.AutoMigrate {
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Error("request log schema migration failed, using memory repository", "error", err)
			pool.Close()
			return fallback, noop
		}
	}
	logger.Info("request log postgres repository enabled")
	return repo, pool.Close
}

func provideSessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		TokenTTL: cfg.Auth.TokenTTL,
	}
}
