package recommendation

import (
	"context"
	"log/slog"
	"time"
)

// RetryConfig bounds retries of network failures.
type RetryConfig struct {
	MaxAttempts int
	BaseBackoff time.Duration
}

type retryingService struct {
	next   Service
	cfg    RetryConfig
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetryingService retries NetworkError failures of next with exponential
// backoff. Every other outcome is returned after the first attempt.
func NewRetryingService(next Service, cfg RetryConfig, logger *slog.Logger) Service {
	if cfg.MaxAttempts <= 1 {
		return next
	}
	return &retryingService{
		next:   next,
		cfg:    cfg,
		logger: logger.With("component", "recommendation.retry"),
		sleep:  sleepContext,
	}
}

func (r *retryingService) Configured() bool {
	return r.next.Configured()
}

func (r *retryingService) GenerateRecommendation(ctx context.Context, req Request) (Result, error) {
	var (
		res Result
		err error
	)
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := r.cfg.BaseBackoff * time.Duration(1<<(attempt-2))
			if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
				return Result{}, err
			}
		}
		res, err = r.next.GenerateRecommendation(ctx, req)
		if err == nil || KindOf(err) != KindNetwork {
			return res, err
		}
		r.logger.Warn("network failure, retrying recommendation", "attempt", attempt, "max_attempts", r.cfg.MaxAttempts, "error", err)
	}
	return res, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
