package setup

import (
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/assigner/internal/database"
	"github.com/robalyx/assigner/internal/redis"
	"github.com/robalyx/assigner/internal/rotation"
	"github.com/robalyx/assigner/internal/setup/config"
	"go.uber.org/zap"
)

var (
	// ErrDatabaseRequired is returned when the postgres backend has no database.
	ErrDatabaseRequired = errors.New("postgres rotation backend requires a database connection")
	// ErrRedisRequired is returned when the redis cache has no Redis manager.
	ErrRedisRequired = errors.New("redis rotation cache requires a redis manager")
)

// RotationStore is the configured rotation state store and its cleanup.
type RotationStore struct {
	*rotation.CachedStore

	closers []func() error
}

// Close releases the durable store.
func (s *RotationStore) Close() error {
	var errs []error
	for _, closer := range s.closers {
		errs = append(errs, closer())
	}

	return errors.Join(errs...)
}

// NewRotationStore builds the rotation store selected by configuration.
// The database is only used by the postgres backend and the Redis manager
// only by the redis cache.
func NewRotationStore(
	cfg *config.Rotation, db database.Client, redisManager *redis.Manager, logger *zap.Logger,
) (*RotationStore, error) {
	result := &RotationStore{}

	var store rotation.Store

	switch cfg.Backend {
	case config.RotationBackendSQLite:
		sqliteStore, err := rotation.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}

		result.closers = append(result.closers, sqliteStore.Close)
		store = sqliteStore
	case config.RotationBackendPostgres, "":
		if db == nil {
			return nil, ErrDatabaseRequired
		}

		store = rotation.NewPostgresStore(db.Model().Rotation())
	default:
		return nil, fmt.Errorf("%w: rotation backend %q", config.ErrInvalidConfig, cfg.Backend)
	}

	ttl := time.Duration(cfg.CacheTTL) * time.Second

	var cache rotation.Cache

	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		if redisManager == nil {
			_ = result.Close()
			return nil, ErrRedisRequired
		}

		client, err := redisManager.GetClient(redis.RotationCacheDBIndex)
		if err != nil {
			_ = result.Close()
			return nil, err
		}

		cache = rotation.NewRedisCache(client, ttl)
	case config.CacheBackendMemory:
		cache = rotation.NewMemoryCache(cfg.CacheSize, ttl)
	case config.CacheBackendNone, "":
	default:
		_ = result.Close()
		return nil, fmt.Errorf("%w: cache backend %q", config.ErrInvalidConfig, cfg.CacheBackend)
	}

	result.CachedStore = rotation.NewCachedStore(store, cache, logger)

	logger.Info("Rotation store ready",
		zap.String("backend", cfg.Backend),
		zap.String("cache", cfg.CacheBackend))

	return result, nil
}
