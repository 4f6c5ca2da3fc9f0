// Package db выбирает и инициализирует хранилище заметок.
package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gonotes/internal/server/adapters/memory"
	"gonotes/internal/server/adapters/postgres"
	"gonotes/internal/server/config"
	"gonotes/internal/server/ports/repositories"
	pgdb "gonotes/pkg/db/postgres"
	"gonotes/pkg/logger"
	"gonotes/pkg/retry"
)

// Константы для сообщений logger.
const (
	LogStorageInitializing = "initializing notes storage"
	LogStorageInitialized  = "notes storage initialized"
	LogMigrationStarting   = "applying notes database migrations"
)

// Константы для сообщений об ошибках.
const (
	ErrUnknownDriver = "unknown storage driver"
	ErrDBMigrations  = "failed to apply notes database migrations"
	ErrDBConnection  = "failed to connect to notes database"
)

// Storage - выбранное хранилище заметок.
type Storage struct {
	Notes    repositories.NoteRepository
	database *pgdb.Database
}

// New создает хранилище согласно cfg.Storage.Driver. Для postgres
// сначала применяются миграции, затем открывается пул.
func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	log := logger.Log(ctx)
	log.Info(ctx, LogStorageInitializing, zap.String("driver", cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Info(ctx, LogStorageInitialized)
		return &Storage{Notes: memory.NewNoteRepository()}, nil
	case config.StoragePostgres:
	default:
		return nil, fmt.Errorf("%s: %q", ErrUnknownDriver, cfg.Storage.Driver)
	}

	pg := &cfg.Postgres
	policy := retry.DefaultPolicy()
	policy.MaxAttempts = pg.ConnectAttempts

	log.Info(ctx, LogMigrationStarting, zap.String("migrations_dir", cfg.Storage.MigrationsDir))
	err := retry.Do(ctx, "postgres migrate", policy, func(ctx context.Context) error {
		return pgdb.MigrateDSN(ctx, pg.GetConnectionURL(), cfg.Storage.MigrationsDir)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	database, err := pgdb.New(ctx, pg.GetDSN(), pgdb.Options{
		MinConn: pg.MinConn,
		MaxConn: pg.MaxConn,
		Retry:   policy,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogStorageInitialized,
		zap.String("host", pg.Host),
		zap.Int("port", pg.Port),
		zap.String("database", pg.Database))

	return &Storage{
		Notes:    postgres.NewNoteRepository(database.Pool()),
		database: database,
	}, nil
}

// Close освобождает ресурсы хранилища.
func (s *Storage) Close(ctx context.Context) error {
	if s.database != nil {
		s.database.Close(ctx)
	}
	return nil
}
