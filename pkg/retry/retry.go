// Package retry повторяет операции с экспоненциальной задержкой.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gonotes/pkg/logger"
)

// Константы для логирования.
const (
	LogRetryAttempt     = "operation failed, retrying"
	LogRetrySuccess     = "operation succeeded after retries"
	LogRetryMaxAttempts = "retry attempts exhausted"
)

// ErrCanceled возвращается, если ctx отменен во время ожидания следующей попытки.
var ErrCanceled = errors.New("canceled while waiting to retry")

// Policy задает число попыток и рост задержки.
type Policy struct {
	// MaxAttempts включает первую попытку.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Factor         float64
	// Retryable решает, стоит ли повторять после err. nil - повторять все, кроме отмены ctx.
	Retryable func(error) bool
}

// DefaultPolicy возвращает политику для подключения к зависимостям при старте.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    5,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     3 * time.Second,
		Factor:         2,
	}
}

func (p Policy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Do вызывает op, пока она не завершится успешно, не вернет неповторяемую ошибку
// или не исчерпает попытки. Возвращается последняя ошибка op.
func Do(ctx context.Context, name string, p Policy, op func(ctx context.Context) error) error {
	log := logger.Log(ctx).With(zap.String("operation", name))

	attempts := max(p.MaxAttempts, 1)
	backoff := p.InitialBackoff

	var err error
	for attempt := 1; ; attempt++ {
		err = op(ctx)
		if err == nil {
			if attempt > 1 {
				log.Info(ctx, LogRetrySuccess, zap.Int("attempts", attempt))
			}
			return nil
		}
		if !p.retryable(err) {
			return err
		}
		if attempt >= attempts {
			log.Warn(ctx, LogRetryMaxAttempts, zap.Int("attempts", attempt), zap.Error(err))
			return err
		}

		log.Info(ctx, LogRetryAttempt,
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", ErrCanceled, errors.Join(ctx.Err(), err))
		}

		backoff = time.Duration(float64(backoff) * p.Factor)
		if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}
}
