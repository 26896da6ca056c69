// Package rotation persists the round-robin state used to pick moderators.
//
// State lives in a durable key-value Store. A Cache may sit in front of it
// through CachedStore; the store is always the source of truth and the cache
// is only ever written after the store accepted a value.
package rotation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrDuplicateKey is returned by Store.Create when the key already holds a
// different value, usually because a concurrent caller created it first.
var ErrDuplicateKey = errors.New("rotation key already exists with a different value")

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set updates or creates the value for key.
	Set(ctx context.Context, key, value string) error
	// Create stores value only if key is absent. Creating a key that already
	// holds the same value is not an error.
	Create(ctx context.Context, key, value string) error
}

// Advancer is implemented by stores that can move a rotation index in a
// single atomic read-modify-write.
type Advancer interface {
	// Advance moves the index stored at key to its next position in
	// [1, limit] and returns the new position.
	Advance(ctx context.Context, key string, limit int) (int, error)
}

// Cache is a fast, lossy key-value tier.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// NextIndex computes the position following last in a pool of the given size.
// Uninitialised, malformed or out of range indexes restart at 1.
func NextIndex(last string, found bool, limit int) int {
	if !found {
		return 1
	}

	current, err := strconv.Atoi(last)
	if err != nil || current < 1 || current >= limit {
		return 1
	}

	return current + 1
}

// Advance moves the index stored at key to its next position, atomically if
// the store supports it and with a load-compute-persist sequence otherwise.
func Advance(ctx context.Context, store Store, key string, limit int) (int, error) {
	if limit < 1 {
		return 0, fmt.Errorf("invalid rotation limit %d for key %s", limit, key)
	}

	if advancer, ok := store.(Advancer); ok {
		return advancer.Advance(ctx, key, limit)
	}

	last, found, err := store.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	next := NextIndex(last, found, limit)
	if err := store.Set(ctx, key, strconv.Itoa(next)); err != nil {
		return 0, err
	}

	return next, nil
}
