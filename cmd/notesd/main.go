// Package main реализует REST сервер заметок.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"gonotes/internal/server/adapters/cache"
	httpServer "gonotes/internal/server/adapters/http"
	"gonotes/internal/server/app"
	"gonotes/internal/server/config"
	"gonotes/internal/server/db"
	"gonotes/pkg/logger"
	"gonotes/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTESD_LOGGER_MODE"
	EnvLoggerLevel = "NOTESD_LOGGER_LEVEL"
	EnvConfigPath  = "NOTESD_CONFIG"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitStorage          = "failed to initialize storage"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrShutdown             = "shutdown finished with errors"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "notes server started"
	LogServiceShutdownDone = "notes server shutdown complete"
	LogStoppingHTTP        = "stopping HTTP server"
	LogClosingStorage      = "closing storage"
	LogClosingCache        = "closing Redis connection"
	LogInitCache           = "initializing cache"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	configPath := flag.String("config", os.Getenv(EnvConfigPath), "path to YAML configuration file")
	flag.Parse()

	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == string(logger.Production) {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx, *configPath)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		storage, err := db.New(ctx, cfg)
		if err != nil {
			log.Error(ctx, ErrInitStorage, zap.Error(err))
			exitCode = 1
			return
		}

		hooks := []shutdown.Hook{
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingStorage)
				return storage.Close(ctx)
			},
		}

		var opts []app.Option
		if cfg.Redis.Enabled {
			log.Info(ctx, LogInitCache, zap.String("address", cfg.Redis.GetAddress()))
			redisCache, err := cache.NewRedisCache(ctx, &cfg.Redis)
			if err != nil {
				log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
				_ = storage.Close(ctx)
				exitCode = 1
				return
			}
			opts = append(opts, app.WithListCache(redisCache, cfg.Redis.DefaultTTL))
			hooks = append(hooks, func(ctx context.Context) error {
				log.Info(ctx, LogClosingCache)
				return redisCache.Close()
			})
		}

		log.Info(ctx, LogInitUseCases)
		noteUseCase := app.NewNoteUseCase(storage.Notes, opts...)

		log.Info(ctx, LogInitHTTPServer)
		fiberApp := httpServer.NewApp(cfg.HTTP)
		httpServer.SetupRouter(fiberApp, noteUseCase, cfg.CORS)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := fiberApp.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		// HTTP сервер останавливается раньше хранилища.
		stopHTTP := func(ctx context.Context) error {
			log.Info(ctx, LogStoppingHTTP)
			return fiberApp.ShutdownWithContext(ctx)
		}

		if err := shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(), stopHTTP); err != nil {
			log.Error(ctx, ErrShutdown, zap.Error(err))
			exitCode = 1
		}
		if err := shutdown.Run(ctx, cfg.Shutdown.GetTimeout(), hooks...); err != nil {
			log.Error(ctx, ErrShutdown, zap.Error(err))
			exitCode = 1
		}

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
