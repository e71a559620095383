package airetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/dailybalance/internal/middleware"
)

// Policy controls how WithPolicy retries.
type Policy struct {
	MaxAttempts int
	// BaseDelay is the wait before the second attempt; it doubles for each one after.
	BaseDelay time.Duration
	// Sleep waits for d or until ctx is done. Tests replace it to avoid real waits.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy makes up to 3 attempts with 1s/2s/4s backoff.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	BaseDelay:   time.Second,
	Sleep:       sleepContext,
}

// Delay returns the backoff applied after the given failed attempt (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	return p.BaseDelay << (attempt - 1)
}

// WithRetry runs op under DefaultPolicy.
func WithRetry[T any](ctx context.Context, label string, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	return WithPolicy(ctx, DefaultPolicy, label, op)
}

// WithPolicy runs op until it succeeds, fails with a non-retryable error, or
// p.MaxAttempts is reached. A returned error is always an *AIError.
func WithPolicy[T any](ctx context.Context, p Policy, label string, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	maxAttempts := max(p.MaxAttempts, 1)
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var zero T
	var last *AIError
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := op(ctx, attempt)
		if err == nil {
			return result, nil
		}
		last = Classify(err)
		if !last.Retryable || attempt == maxAttempts {
			break
		}

		delay := p.Delay(attempt)
		logger.Warn("AI request failed, retrying",
			slog.String("operation", label),
			slog.Int("attempt", attempt),
			slog.String("kind", string(last.Kind)),
			slog.Duration("backoff", delay),
			slog.String("error", err.Error()))
		if err := sleep(ctx, delay); err != nil {
			break
		}
	}

	logger.Error("AI request failed",
		slog.String("operation", label),
		slog.String("kind", string(last.Kind)),
		slog.Any("error", last.Cause))
	return zero, last
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
