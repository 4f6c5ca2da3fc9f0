// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"gonotes/pkg/logger"
)

// LocalsRequestContext - ключ Locals, под которым хранится контекст запроса.
const LocalsRequestContext = "requestContext"

// NewRequestIDMiddleware берет X-Request-ID из запроса (или создает новый),
// кладет его в контекст запроса и возвращает в ответе.
func NewRequestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := logger.NewRequestIDContext(c.Context(), c.Get(logger.HeaderRequestID))
		if id, ok := logger.GetRequestID(ctx); ok {
			c.Set(logger.HeaderRequestID, id)
		}
		c.Locals(LocalsRequestContext, ctx)
		return c.Next()
	}
}

// RequestContext возвращает контекст запроса с request id.
func RequestContext(c fiber.Ctx) context.Context {
	if ctx, ok := c.Locals(LocalsRequestContext).(context.Context); ok {
		return ctx
	}
	return c.Context()
}
