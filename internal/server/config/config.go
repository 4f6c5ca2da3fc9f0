// Package config содержит конфигурацию сервера заметок.
package config

import (
	"context"

	"go.uber.org/zap"

	pkgconfig "gonotes/pkg/config"
	"gonotes/pkg/logger"
)

// Константы сообщений.
const (
	ServiceName = "notesd"

	LogConfigLoaded = "server configuration"
)

// Config представляет полную конфигурацию сервера.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	CORS     CORSConfig     `yaml:"cors"`
	Storage  StorageConfig  `yaml:"storage"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load загружает конфигурацию из файла path (если он есть) и переменных окружения.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, path)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, LogConfigLoaded,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}
