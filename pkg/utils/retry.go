package utils

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryOptions contains configuration for retry behavior.
type RetryOptions struct {
	MaxElapsedTime  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

// WithRetry executes the given operation with exponential backoff using provided options.
// Wrap an error with backoff.Permanent to stop retrying early.
func WithRetry(ctx context.Context, operation func() error, opts RetryOptions) error {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(opts.MaxElapsedTime),
		backoff.WithInitialInterval(opts.InitialInterval),
		backoff.WithMaxInterval(opts.MaxInterval),
	), opts.MaxRetries)

	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

// WithRetryValue is WithRetry for operations returning a value.
func WithRetryValue[T any](ctx context.Context, operation func() (T, error), opts RetryOptions) (T, error) {
	var result T

	err := WithRetry(ctx, func() error {
		var err error

		result, err = operation()

		return err
	}, opts)

	return result, err
}
