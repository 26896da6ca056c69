package dbretry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Options controls the backoff applied to database operations.
type Options struct {
	MaxElapsedTime  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

// DefaultOptions is used when no options were configured.
var DefaultOptions = Options{
	MaxElapsedTime:  30 * time.Second,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
	MaxRetries:      5,
}

// retryableCodes lists the PostgreSQL SQLSTATE codes worth another attempt:
// connection failures (08), serialization and deadlocks (40), resource
// exhaustion (53), operator intervention (57) and lock contention (55).
var retryableCodes = map[string]struct{}{
	"08000": {}, "08001": {}, "08003": {}, "08004": {}, "08006": {}, "08007": {}, "08P01": {},
	"40001": {}, "40P01": {},
	"53000": {}, "53100": {}, "53200": {}, "53300": {}, "53400": {},
	"55006": {}, "55P03": {},
	"57000": {}, "57P01": {}, "57P02": {}, "57P03": {}, "57P04": {},
}

// networkFragments are substrings of transient network errors.
var networkFragments = []string{
	"connection reset by peer",
	"broken pipe",
	"connection refused",
	"no connection",
	"i/o timeout",
	"EOF",
}

// IsRetryableError checks if the given error is retryable.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var pgerr pgdriver.Error
	if errors.As(err, &pgerr) {
		_, ok := retryableCodes[pgerr.Field('C')]
		return ok
	}

	// A caller that gave up should not be retried
	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := err.Error()
	for _, fragment := range networkFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}

	return false
}

// Operation wraps a database operation with retry logic using DefaultOptions.
func Operation[T any](ctx context.Context, operation func(context.Context) (T, error)) (T, error) {
	return OperationWith(ctx, DefaultOptions, operation)
}

// OperationWith wraps a database operation with retry logic using the given options.
func OperationWith[T any](
	ctx context.Context, opts Options, operation func(context.Context) (T, error),
) (T, error) {
	var (
		result  T
		lastErr error
	)

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(opts.MaxElapsedTime),
		backoff.WithInitialInterval(opts.InitialInterval),
		backoff.WithMaxInterval(opts.MaxInterval),
	), opts.MaxRetries)

	err := backoff.Retry(func() error {
		var err error

		result, err = operation(ctx)
		lastErr = err

		if err != nil && !IsRetryableError(err) {
			return backoff.Permanent(err)
		}

		return err
	}, backoff.WithContext(b, ctx))
	if err != nil {
		if lastErr != nil {
			return result, fmt.Errorf("database operation failed: %w", lastErr)
		}

		return result, fmt.Errorf("database operation failed: %w", err)
	}

	return result, nil
}

// NoResult wraps a database operation that doesn't return a result.
func NoResult(ctx context.Context, operation func(context.Context) error) error {
	_, err := Operation(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})

	return err
}

// Transaction wraps a database transaction with retry logic.
func Transaction(ctx context.Context, db *bun.DB, fn func(context.Context, bun.Tx) error) error {
	return NoResult(ctx, func(ctx context.Context) error {
		return db.RunInTx(ctx, nil, fn)
	})
}
