// Package config содержит конфигурацию клиента заметок.
package config

import (
	"context"
	"time"

	"go.uber.org/zap"

	pkgconfig "gonotes/pkg/config"
	"gonotes/pkg/logger"
)

// ServiceName - имя клиента в логах загрузки конфигурации.
const ServiceName = "notes"

// Config представляет полную конфигурацию клиента.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Display DisplayConfig `yaml:"display"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig - параметры подключения к серверу заметок.
type APIConfig struct {
	URL            string        `yaml:"url" env:"NOTES_CLIENT_API_URL" env-default:"http://localhost:8080"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"NOTES_CLIENT_REQUEST_TIMEOUT" env-default:"0s"`
}

// DisplayConfig - параметры вывода.
type DisplayConfig struct {
	TimeLayout string `yaml:"time_layout" env:"NOTES_CLIENT_TIME_LAYOUT" env-default:"2006-01-02 15:04:05"`
}

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"NOTES_CLIENT_LOGGER_LEVEL" env-default:"warn"`
	Mode  string `yaml:"mode" env:"NOTES_CLIENT_LOGGER_MODE" env-default:"development"`
}

// GetEnvironment получает строку режима в logger environment.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if l.Mode == string(logger.Production) {
		return logger.Production
	}
	return logger.Development
}

// Load загружает конфигурацию из файла path (если он есть) и окружения.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, path)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Debug(ctx, "client configuration",
		zap.String("api_url", cfg.API.URL),
		zap.Duration("request_timeout", cfg.API.RequestTimeout),
		zap.String("log_level", cfg.Logging.Level))

	return cfg, nil
}
