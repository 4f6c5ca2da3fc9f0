// Package cache определяет интерфейсы для кэширования.
package cache

import (
	"context"
	"time"
)

// Cache - строковое хранилище ключ-значение. Get возвращает "" для отсутствующего ключа.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// Incr атомарно увеличивает счетчик и возвращает новое значение. Ключ живет без ttl.
	Incr(ctx context.Context, key string) (int64, error)

	Close() error
}
