// Package config предоставляет функциональность для загрузки конфигурации
// из файла (YAML/.env) и переменных окружения.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"gonotes/pkg/logger"
)

const (
	msgLoadingConfiguration    = "loading configuration"
	msgConfigurationLoaded     = "configuration loaded successfully"
	msgFailedLoadConfiguration = "failed to load configuration"
	msgConfigFileMissing       = "configuration file not found, using environment only"

	// ErrFailedLoadConfiguration - префикс ошибки загрузки.
	ErrFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
)

// Load читает конфигурацию типа T. Если path указывает на существующий файл,
// значения берутся из него и перекрываются переменными окружения;
// иначе используются только окружение и env-default.
func Load[T any](ctx context.Context, serviceName, path string) (*T, error) {
	log := logger.Log(ctx)

	log.Info(ctx, msgLoadingConfiguration,
		zap.String(attrService, serviceName),
		zap.String(attrPath, path))

	var cfg T
	var err error

	if path != "" && fileExists(path) {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		if path != "" {
			log.Debug(ctx, msgConfigFileMissing, zap.String(attrPath, path))
		}
		err = cleanenv.ReadEnv(&cfg)
	}

	if err != nil {
		log.Error(ctx, msgFailedLoadConfiguration,
			zap.String(attrService, serviceName),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded, zap.String(attrService, serviceName))

	return &cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
