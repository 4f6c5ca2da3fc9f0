// Package main реализует терминальный клиент заметок.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"gonotes/internal/client/adapters/api"
	"gonotes/internal/client/app"
	"gonotes/internal/client/cli"
	"gonotes/internal/client/config"
	"gonotes/internal/client/render"
	"gonotes/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTES_CLIENT_LOGGER_MODE"
	EnvLoggerLevel = "NOTES_CLIENT_LOGGER_LEVEL"
	EnvConfigPath  = "NOTES_CLIENT_CONFIG"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitClient           = "failed to initialize api client"
	ErrRunREPL              = "terminal session failed"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений клиента.
const (
	LogClientStarted = "notes client started"
	LogClientStopped = "notes client stopped"
)

func main() {
	configPath := flag.String("config", os.Getenv(EnvConfigPath), "path to YAML configuration file")
	flag.Parse()

	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == string(logger.Production) {
		env = logger.Production
	}

	level := os.Getenv(EnvLoggerLevel)
	if level == "" {
		level = "warn"
	}

	log, err := logger.NewLogger(env, level)
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewRequestIDContext(ctx, "")

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

		client, err := api.NewClient(cfg.API.URL, api.WithTimeout(cfg.API.RequestTimeout))
		if err != nil {
			log.Error(ctx, ErrInitClient, zap.Error(err))
			exitCode = 1
			return
		}

		ctrl := app.NewController(ctx, api.NewNotesClient(client))
		defer ctrl.Close()

		log.Info(ctx, LogClientStarted, zap.String("api_url", cfg.API.URL))

		repl := cli.New(ctrl, os.Stdin, os.Stdout, render.Options{TimeLayout: cfg.Display.TimeLayout})
		if err := repl.Run(ctx); err != nil {
			log.Error(ctx, ErrRunREPL, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogClientStopped)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
