package setup_test

import (
	"path/filepath"
	"testing"

	"github.com/robalyx/assigner/internal/rotation"
	"github.com/robalyx/assigner/internal/setup"
	"github.com/robalyx/assigner/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRotationStoreSQLiteWithMemoryCache(t *testing.T) {
	t.Parallel()

	store, err := setup.NewRotationStore(&config.Rotation{
		Backend:      config.RotationBackendSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "rotation.db"),
		CacheBackend: config.CacheBackendMemory,
		CacheTTL:     60,
		CacheSize:    16,
	}, nil, nil, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	for _, want := range []int{1, 2, 3, 1} {
		got, err := store.Advance(t.Context(), rotation.IndexKey(rotation.GlobalKey), 3)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNewRotationStoreRejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	_, err := setup.NewRotationStore(&config.Rotation{Backend: config.RotationBackendPostgres}, nil, nil, zap.NewNop())
	require.ErrorIs(t, err, setup.ErrDatabaseRequired)

	_, err = setup.NewRotationStore(&config.Rotation{Backend: "etcd"}, nil, nil, zap.NewNop())
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = setup.NewRotationStore(&config.Rotation{
		Backend:      config.RotationBackendSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "rotation.db"),
		CacheBackend: "memcached",
	}, nil, nil, zap.NewNop())
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = setup.NewRotationStore(&config.Rotation{
		Backend:      config.RotationBackendSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "rotation.db"),
		CacheBackend: config.CacheBackendRedis,
	}, nil, nil, zap.NewNop())
	require.ErrorIs(t, err, setup.ErrRedisRequired)
}
