package config

import (
	"time"

	"gonotes/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"NOTESD_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"NOTESD_LOGGER_MODE" env-default:"development"`
}

// GetEnvironment получает строку режима в logger environment.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if l.Mode == string(logger.Production) {
		return logger.Production
	}
	return logger.Development
}

// ShutdownConfig представляет конфигурацию для корректного завершения работы.
type ShutdownConfig struct {
	Timeout int `yaml:"timeout" env:"NOTESD_GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"5"`
}

// GetTimeout возвращает таймаут завершения в виде Duration.
func (c *ShutdownConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
