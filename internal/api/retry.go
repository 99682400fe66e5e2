package api

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/levelcast/internal/logger"
	"github.com/abhisek/levelcast/internal/source"
)

// retrier retries transient page fetches with exponential backoff and
// jitter.
type retrier struct {
	config RetryConfig
	log    *logger.Logger
}

func (r *retrier) do(ctx context.Context, url string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	var lastErr error
	invalidRetried := false

	attempts := max(r.config.MaxAttempts, 1)
	for attempt := range attempts {
		body, err := fetch(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !shouldRetry(ctx, err, &invalidRetried) {
			return nil, err
		}
		if attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		r.log.Warn("retrying page fetch", "url", url, "attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

// shouldRetry stops only when the caller's ctx is done; a page timeout
// wrapped in err is still worth another attempt.
func shouldRetry(ctx context.Context, err error, invalidRetried *bool) bool {
	if ctx.Err() != nil {
		return false
	}

	var unauth *source.ErrUnauthorized
	if errors.As(err, &unauth) {
		return false
	}

	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var unavail *source.ErrSourceUnavailable
	if errors.As(err, &unavail) {
		return true
	}

	// A malformed body gets one more try.
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	var status *ErrStatus
	return !errors.As(err, &status)
}

func (r *retrier) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
