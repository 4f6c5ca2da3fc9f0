// Package logger оборачивает zap и привязывает логгер и request_id к context.Context.
package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment определяет режим работы логгера.
type Environment string

// Поддерживаемые режимы.
const (
	Development Environment = "development"
	Production  Environment = "production"
)

// RequestID - имя поля с идентификатором запроса.
const RequestID = "request_id"

// Ошибки конфигурации логгера.
var (
	ErrInvalidLevel = fmt.Errorf("invalid log level")
)

// Logger - тонкая обертка над *zap.Logger, добавляющая request_id из контекста.
type Logger struct {
	l *zap.Logger
}

// NewLogger создает логгер для окружения env с уровнем level.
// Пустой level означает debug для development и info для production.
func NewLogger(env Environment, level string) (*Logger, error) {
	var cfg zap.Config
	if env == Production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		lvl, err := ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	return &Logger{l: zl}, nil
}

// NewFromZap оборачивает уже созданный *zap.Logger (удобно для тестов с zaptest/observer).
func NewFromZap(zl *zap.Logger) *Logger {
	return &Logger{l: zl}
}

// ParseLevel разбирает текстовый уровень логирования.
func ParseLevel(level string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return lvl, fmt.Errorf("%w %q: %w", ErrInvalidLevel, level, err)
	}
	return lvl, nil
}

// With возвращает новый логгер с дополнительными полями.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{l: l.l.With(fields...)}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Fatal(msg, addRequestID(ctx, fields)...)
}

// Sync сбрасывает буферы.
func (l *Logger) Sync() error {
	return l.l.Sync()
}

func addRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	if id, ok := GetRequestID(ctx); ok {
		return append(fields, zap.String(RequestID, id))
	}
	return fields
}
