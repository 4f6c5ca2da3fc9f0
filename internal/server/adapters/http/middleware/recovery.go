package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gonotes/pkg/logger"
)

// Константы ответа при панике.
const (
	LogPanic            = "server panic"
	LogPanicResponse    = "failed to send error response after panic"
	ErrMsgInternalError = "internal server error"
)

// NewRecoveryMiddleware перехватывает панику обработчика и отвечает 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		ctx := RequestContext(c)

		defer func() {
			if r := recover(); r != nil {
				logger.Log(ctx).Error(ctx, LogPanic,
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())))

				if sendErr := c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": ErrMsgInternalError,
				}); sendErr != nil {
					logger.Log(ctx).Error(ctx, LogPanicResponse, zap.Error(sendErr))
				}
				err = nil
			}
		}()

		return c.Next()
	}
}
