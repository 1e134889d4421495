package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zvrva/reservio/config"
	"github.com/zvrva/reservio/internal/domain"
)

type RedisCache struct {
	client      *redis.Client
	servicesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, servicesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		servicesTTL: servicesTTL,
	}
}

func (c *RedisCache) GetServices(ctx context.Context) ([]domain.Service, error) {
	data, err := c.client.Get(ctx, servicesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var services []domain.Service
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *RedisCache) SetServices(ctx context.Context, services []domain.Service) error {
	payload, err := json.Marshal(services)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, servicesKey(), payload, c.servicesTTL).Err()
}

func (c *RedisCache) InvalidateServices(ctx context.Context) error {
	return c.client.Del(ctx, servicesKey()).Err()
}

func (c *RedisCache) AcquireReservationLock(ctx context.Context, reservationID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, reservationLockKey(reservationID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseReservationLock(ctx context.Context, reservationID string) error {
	return c.client.Del(ctx, reservationLockKey(reservationID)).Err()
}

func servicesKey() string {
	return "cache:services"
}

func reservationLockKey(reservationID string) string {
	return fmt.Sprintf("lock:reservation:%s", reservationID)
}
