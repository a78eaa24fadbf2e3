package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pvaldes/travelbooking/config"
	"github.com/pvaldes/travelbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds the active-package listing for the catalog service so the
// public and authenticated list endpoints don't hit Postgres on every call.
type RedisCache struct {
	client      *redis.Client
	packagesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, packagesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		packagesTTL: packagesTTL,
	}
}

func (c *RedisCache) GetPackages(ctx context.Context) ([]domain.Package, error) {
	data, err := c.client.Get(ctx, packagesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var packages []domain.Package
	if err := json.Unmarshal(data, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

func (c *RedisCache) SetPackages(ctx context.Context, packages []domain.Package) error {
	payload, err := json.Marshal(packages)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, packagesKey(), payload, c.packagesTTL).Err()
}

// InvalidatePackages drops the cached listing after any catalog mutation.
func (c *RedisCache) InvalidatePackages(ctx context.Context) error {
	return c.client.Del(ctx, packagesKey()).Err()
}

func packagesKey() string {
	return "cache:packages:active"
}
