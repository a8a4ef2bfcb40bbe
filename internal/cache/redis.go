package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/aviaapp/config"
	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores single flights and the cabin class list. A miss is
// reported as a nil value with a nil error.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetFlight(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	var f domain.Flight
	ok, err := c.get(ctx, flightKey(id), &f)
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}

func (c *RedisCache) SetFlight(ctx context.Context, f *domain.Flight) error {
	return c.set(ctx, flightKey(f.ID), f)
}

func (c *RedisCache) DeleteFlight(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, flightKey(id)).Err()
}

func (c *RedisCache) GetCabinClasses(ctx context.Context) ([]domain.CabinClass, error) {
	var classes []domain.CabinClass
	ok, err := c.get(ctx, cabinClassesKey(), &classes)
	if err != nil || !ok {
		return nil, err
	}
	return classes, nil
}

func (c *RedisCache) SetCabinClasses(ctx context.Context, classes []domain.CabinClass) error {
	return c.set(ctx, cabinClassesKey(), classes)
}

func (c *RedisCache) get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

func flightKey(id uuid.UUID) string {
	return fmt.Sprintf("cache:flight:%s", id)
}

func cabinClassesKey() string {
	return "cache:cabin_classes"
}
