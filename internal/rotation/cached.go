package rotation

import (
	"context"
	"strconv"

	"go.uber.org/zap"
)

// CachedStore is a read-through cache in front of a durable Store.
// Cache failures are logged and never fail a call.
type CachedStore struct {
	store  Store
	cache  Cache
	logger *zap.Logger
}

var (
	_ Store    = (*CachedStore)(nil)
	_ Advancer = (*CachedStore)(nil)
)

// NewCachedStore wraps store with cache. A nil cache disables caching.
func NewCachedStore(store Store, cache Cache, logger *zap.Logger) *CachedStore {
	return &CachedStore{
		store:  store,
		cache:  cache,
		logger: logger.Named("rotation_cache"),
	}
}

// Get reads from the cache first and falls back to the store on a miss,
// populating the cache with what the store returned.
func (s *CachedStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.cache != nil {
		value, found, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Failed to read rotation cache, using store",
				zap.String("key", key),
				zap.Error(err))
		} else if found {
			cacheHits.Inc()
			return value, true, nil
		}
	}

	cacheMisses.Inc()

	value, found, err := s.store.Get(ctx, key)
	if err != nil || !found {
		return value, found, err
	}

	s.refresh(ctx, key, value)

	return value, true, nil
}

// Set writes to the store and then refreshes the cache.
func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		return err
	}

	s.refresh(ctx, key, value)

	return nil
}

// Create creates the key in the store and caches it on success. On a
// conflict the cache is left untouched so the next Get reads the winner.
func (s *CachedStore) Create(ctx context.Context, key, value string) error {
	if err := s.store.Create(ctx, key, value); err != nil {
		return err
	}

	s.refresh(ctx, key, value)

	return nil
}

// Advance moves the rotation index in the store and caches the result.
func (s *CachedStore) Advance(ctx context.Context, key string, limit int) (int, error) {
	next, err := Advance(ctx, s.store, key, limit)
	if err != nil {
		return 0, err
	}

	s.refresh(ctx, key, strconv.Itoa(next))

	return next, nil
}

// refresh writes a durably stored value into the cache.
func (s *CachedStore) refresh(ctx context.Context, key, value string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("Failed to refresh rotation cache",
			zap.String("key", key),
			zap.Error(err))
	}
}
