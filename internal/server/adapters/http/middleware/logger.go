package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gonotes/pkg/logger"
)

// Константы для логирования запросов.
const (
	LogRequestStarted   = "request started"
	LogRequestCompleted = "request completed"
	LogRequestFailed    = "request failed"
)

// NewLoggerMiddleware логирует начало и завершение каждого запроса.
func NewLoggerMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := RequestContext(c)
		start := time.Now()

		log := logger.Log(ctx).With(
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.String("ip", c.IP()),
		)

		log.Debug(ctx, LogRequestStarted)

		err := c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}

		if err != nil {
			log.Error(ctx, LogRequestFailed, append(fields, zap.Error(err))...)
			return fmt.Errorf("request processing error: %w", err)
		}

		log.Info(ctx, LogRequestCompleted, fields...)
		return nil
	}
}
