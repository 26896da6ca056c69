package redis_test

import (
	"net"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/robalyx/assigner/internal/redis"
	"github.com/robalyx/assigner/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupManager(t *testing.T) (*redis.Manager, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	host, portStr, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	manager := redis.NewManager(&config.Redis{
		Host:               host,
		Port:               port,
		DisableClientCache: true,
	}, zap.NewNop())
	t.Cleanup(manager.Close)

	return manager, mr
}

func TestManagerReusesClients(t *testing.T) {
	t.Parallel()

	manager, _ := setupManager(t)

	first, err := manager.GetClient(redis.RotationCacheDBIndex)
	require.NoError(t, err)

	second, err := manager.GetClient(redis.RotationCacheDBIndex)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestManagerSelectsDatabase(t *testing.T) {
	t.Parallel()

	manager, mr := setupManager(t)

	client, err := manager.GetClient(redis.NotificationDBIndex)
	require.NoError(t, err)

	err = client.Do(t.Context(), client.B().Set().Key("probe").Value("1").Build()).Error()
	require.NoError(t, err)

	assert.True(t, mr.DB(redis.NotificationDBIndex).Exists("probe"))
	assert.False(t, mr.DB(redis.RotationCacheDBIndex).Exists("probe"))
}
