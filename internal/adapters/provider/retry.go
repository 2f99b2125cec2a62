package provider

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/ports"
)

// RetryAdapter retries status polls against a provider. Calls with side effects
// (CreateIntent, Refund) pass straight through; their callers retry the whole
// operation under the same idempotency key.
type RetryAdapter struct {
	ports.ProviderAdapter
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryAdapter(inner ports.ProviderAdapter, cfg config.RetryConfig) *RetryAdapter {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &RetryAdapter{
		ProviderAdapter: inner,
		baseDelay:       cfg.BaseDelay,
		maxRetries:      maxRetries,
	}
}

func (r *RetryAdapter) FetchStatus(ctx context.Context, providerRef string) (*domain.ProviderStatusResult, error) {
	return retry(r, ctx, func(ctx context.Context) (*domain.ProviderStatusResult, error) {
		return r.ProviderAdapter.FetchStatus(ctx, providerRef)
	})
}

func retry[T any](r *RetryAdapter, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.backoff(attempt)):
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.IsRetryable()
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

// backoff doubles the base delay per attempt and adds up to 100ms of jitter.
func (r *RetryAdapter) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)
	jitter := time.Duration(rand.Intn(100)) * time.Millisecond
	return base + jitter
}
