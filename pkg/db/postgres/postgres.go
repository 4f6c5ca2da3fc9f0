// Package postgres открывает пул соединений Postgres и применяет миграции.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gonotes/pkg/logger"
	"gonotes/pkg/retry"
)

// Константы для сообщений logger.
const (
	LogConnecting        = "connecting to Postgres database"
	LogConnected         = "successfully connected to Postgres"
	LogClosing           = "closing Postgres connection pool"
	LogMigrationsApplied = "database migrations successfully applied"
)

// Константы для сообщений об ошибках.
const (
	ErrParseConfig  = "failed to parse connection config"
	ErrCreatePool   = "failed to create connection pool"
	ErrPingDatabase = "failed to ping database"
)

// Options - параметры пула.
type Options struct {
	MinConn int
	MaxConn int
	// Retry управляет повторными попытками подключения при старте.
	Retry retry.Policy
}

// Database представляет соединение с Postgres.
type Database struct {
	pool *pgxpool.Pool
}

// New открывает пул и проверяет соединение, повторяя попытки согласно opts.Retry.
func New(ctx context.Context, dsn string, opts Options) (*Database, error) {
	log := logger.Log(ctx)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Error(ctx, ErrParseConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrParseConfig, err)
	}

	if opts.MinConn > 0 {
		poolCfg.MinConns = int32(opts.MinConn)
	}
	if opts.MaxConn > 0 {
		poolCfg.MaxConns = int32(opts.MaxConn)
	}

	log.Info(ctx, LogConnecting,
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database))

	var pool *pgxpool.Pool
	err = retry.Do(ctx, "postgres connect", opts.Retry, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrCreatePool, err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return fmt.Errorf("%s: %w", ErrPingDatabase, err)
		}
		pool = p
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrPingDatabase, zap.Error(err))
		return nil, err
	}

	log.Info(ctx, LogConnected)
	return &Database{pool: pool}, nil
}

// Pool возвращает пул соединений.
func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

// Close закрывает пул.
func (db *Database) Close(ctx context.Context) {
	logger.Log(ctx).Info(ctx, LogClosing)
	db.pool.Close()
}

// Ping проверяет доступность базы данных.
func (db *Database) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}
