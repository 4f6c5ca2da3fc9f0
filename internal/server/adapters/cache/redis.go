// Package cache содержит реализацию кэширования с использованием Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gonotes/internal/server/config"
	"gonotes/internal/server/ports/cache"
	"gonotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodGet    = "get"
	LogMethodSet    = "set"
	LogMethodDelete = "delete"
	LogMethodIncr   = "incr"

	ErrorFailedToConnect = "failed to connect to redis"
	ErrorFailedToGet     = "failed to get value from redis"
	ErrorFailedToSet     = "failed to set value in redis"
	ErrorFailedToDelete  = "failed to delete value from redis"
	ErrorFailedToIncr    = "failed to increment counter in redis"
	ErrorFailedToClose   = "failed to close redis connection"
)

// RedisCache реализует cache.Cache поверх Redis. Все ключи получают общий префикс.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

var _ cache.Cache = (*RedisCache)(nil)

// NewRedisCache подключается к Redis и проверяет соединение.
func NewRedisCache(ctx context.Context, cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddress(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.ConnectTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", ErrorFailedToConnect, err)
	}

	return &RedisCache{
		client:     client,
		prefix:     cfg.KeyPrefix,
		defaultTTL: cfg.DefaultTTL,
	}, nil
}

// Get получает значение по ключу; отсутствующий ключ дает пустую строку.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		logger.Log(ctx).Error(ctx, ErrorFailedToGet,
			zap.String("method", LogMethodGet), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	return value, nil
}

// Set сохраняет значение. Нулевой ttl заменяется значением по умолчанию.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToSet,
			zap.String("method", LogMethodSet), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Delete удаляет значение по ключу.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToDelete,
			zap.String("method", LogMethodDelete), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

// Incr увеличивает счетчик по ключу.
func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	value, err := c.client.Incr(ctx, c.prefix+key).Result()
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToIncr,
			zap.String("method", LogMethodIncr), zap.String("key", key), zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrorFailedToIncr, err)
	}

	return value, nil
}

// Close закрывает соединение с Redis.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
