// Package rediscache caché de nombres de estados de catálogo sobre Redis.
package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/lims-api/internal/application/ports"
	"github.com/jhoicas/lims-api/pkg/config"
)

var _ ports.CatalogCache = (*CatalogCache)(nil)

const keyPrefix = "lims:catalog:"

// NewClient crea el cliente Redis. Devuelve nil si Addr está vacío o el ping falla:
// el caller sigue sin caché.
func NewClient(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

// CatalogCache implementa ports.CatalogCache con claves lims:catalog:<kind>:<id>.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache ttl <= 0 significa sin expiración.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl < 0 {
		ttl = 0
	}
	return &CatalogCache{client: client, ttl: ttl}
}

func key(kind, id string) string { return keyPrefix + kind + ":" + id }

// GetName ("", false, nil) en un miss.
func (c *CatalogCache) GetName(ctx context.Context, kind, id string) (string, bool, error) {
	name, err := c.client.Get(ctx, key(kind, id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (c *CatalogCache) SetName(ctx context.Context, kind, id, name string) error {
	return c.client.Set(ctx, key(kind, id), name, c.ttl).Err()
}

func (c *CatalogCache) Invalidate(ctx context.Context, kind, id string) error {
	return c.client.Del(ctx, key(kind, id)).Err()
}
