package recommendation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache stores generated recommendation text by prompt digest.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CacheConfig drives the caching decorator.
type CacheConfig struct {
	Model string
	TTL   time.Duration
}

type cachedService struct {
	next   Service
	cache  Cache
	cfg    CacheConfig
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachedService memoizes successful recommendations of next. Concurrent
// identical requests share one upstream call.
func NewCachedService(next Service, cache Cache, cfg CacheConfig, logger *slog.Logger) Service {
	cfg.Model = ModelOrDefault(cfg.Model)
	return &cachedService{
		next:   next,
		cache:  cache,
		cfg:    cfg,
		logger: logger.With("component", "recommendation.cache"),
	}
}

func (c *cachedService) Configured() bool {
	return c.next.Configured()
}

func (c *cachedService) GenerateRecommendation(ctx context.Context, req Request) (Result, error) {
	profile, conditions, err := Validate(req)
	if err != nil {
		return Result{}, err
	}
	if !c.next.Configured() {
		return c.next.GenerateRecommendation(ctx, req)
	}

	key := CacheKey(c.cfg.Model, BuildPrompt(profile, conditions))
	if text, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("recommendation cache lookup failed", "error", err)
	} else if ok {
		return Result{Text: text, Model: c.cfg.Model, Cached: true}, nil
	}

	// The shared call outlives any single caller; the completion client's
	// timeout bounds it.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		res, err := c.next.GenerateRecommendation(flightCtx, req)
		if err != nil {
			return Result{}, err
		}
		if res.Text != "" {
			if setErr := c.cache.Set(flightCtx, key, res.Text, c.cfg.TTL); setErr != nil {
				c.logger.Warn("recommendation cache store failed", "error", setErr)
			}
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return Result{}, newError(KindNetwork, msgNetwork, ctx.Err())
	case out := <-ch:
		if out.Err != nil {
			return Result{}, out.Err
		}
		if out.Shared {
			c.logger.Debug("recommendation shared between concurrent callers", "key", key)
		}
		return out.Val.(Result), nil
	}
}

// CacheKey digests the model and prompt into a stable cache key.
func CacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
