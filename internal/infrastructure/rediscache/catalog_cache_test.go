package rediscache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/infrastructure/rediscache"
	"github.com/jhoicas/lims-api/pkg/config"
)

// Puerto 1 en loopback: conexión rechazada de inmediato.
const unreachable = "127.0.0.1:1"

func TestNewClient_SinDireccion(t *testing.T) {
	assert.Nil(t, rediscache.NewClient(context.Background(), config.RedisConfig{}))
}

func TestNewClient_PingFallidoDevuelveNil(t *testing.T) {
	assert.Nil(t, rediscache.NewClient(context.Background(), config.RedisConfig{Addr: unreachable}))
}

func TestCatalogCache_RedisCaidoDevuelveError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        unreachable,
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	cache := rediscache.NewCatalogCache(client, -time.Second)
	ctx := context.Background()

	name, ok, err := cache.GetName(ctx, "equipment", "id-1")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)

	assert.Error(t, cache.SetName(ctx, "equipment", "id-1", "Operativo"))
	assert.Error(t, cache.Invalidate(ctx, "equipment", "id-1"))
}
