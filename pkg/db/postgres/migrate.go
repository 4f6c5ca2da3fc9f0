package postgres

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"gonotes/pkg/logger"
)

// Константы для сообщений об ошибках миграций.
const (
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrResolvePath             = "failed to resolve migrations path"

	fileScheme = "file://"
)

// SourceURL превращает каталог миграций в URL источника file://.
// Значения, уже содержащие схему, возвращаются как есть.
func SourceURL(dir string) (string, error) {
	if strings.Contains(dir, "://") {
		return dir, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrResolvePath, err)
	}
	return fileScheme + filepath.ToSlash(abs), nil
}

// MigrateDSN применяет все миграции из каталога migrationsDir к базе dsn.
func MigrateDSN(ctx context.Context, dsn string, migrationsDir string) error {
	log := logger.Log(ctx)

	source, err := SourceURL(migrationsDir)
	if err != nil {
		return err
	}

	m, err := migrate.New(source, dsn)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err), zap.String("path", source))
		return fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	log.Info(ctx, LogMigrationsApplied, zap.String("path", source))
	return nil
}
