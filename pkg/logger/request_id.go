package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeaderRequestID - HTTP-заголовок, в котором request_id передается между клиентом и сервером.
const HeaderRequestID = "X-Request-ID"

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// NewRequestIDContext создает контекст с идентификатором запроса; пустой id генерируется.
func NewRequestIDContext(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = GenerateRequestID()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID извлекает идентификатор запроса из контекста.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// GenerateRequestID генерирует новый идентификатор запроса.
func GenerateRequestID() string {
	return uuid.New().String()
}

// WithRequestID создает копию логгера с полем request_id.
func (l *Logger) WithRequestID(ctx context.Context) *Logger {
	if id, ok := GetRequestID(ctx); ok {
		return l.With(zap.String(RequestID, id))
	}
	return l
}
