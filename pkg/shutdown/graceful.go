// Package shutdown предоставляет функциональность для корректного завершения приложения
// путем ожидания сигналов SIGINT и SIGTERM либо отмены родительского контекста.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gonotes/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogShutdownSignal   = "shutdown signal received"
	LogShutdownCanceled = "shutdown triggered by context cancellation"
	LogHookFailed       = "shutdown hook failed"
	LogHooksTimedOut    = "shutdown hooks did not finish before timeout"
)

// ErrTimeout возвращается, если хуки не успели завершиться.
var ErrTimeout = errors.New("shutdown timed out")

// Hook - действие, выполняемое при завершении.
type Hook func(ctx context.Context) error

// Wait блокирует выполнение до получения SIGINT/SIGTERM или отмены ctx,
// затем параллельно выполняет все хуки в рамках заданного timeout.
func Wait(ctx context.Context, timeout time.Duration, hooks ...Hook) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	log := logger.Log(ctx)

	select {
	case sig := <-sigCh:
		log.Info(ctx, LogShutdownSignal, zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info(ctx, LogShutdownCanceled)
	}

	return Run(context.WithoutCancel(ctx), timeout, hooks...)
}

// Run выполняет хуки параллельно и ждет их не дольше timeout.
func Run(ctx context.Context, timeout time.Duration, hooks ...Hook) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log := logger.Log(ctx)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, hook := range hooks {
		wg.Add(1)
		go func(fn Hook) {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				log.Warn(ctx, LogHookFailed, zap.Error(err))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Warn(ctx, LogHooksTimedOut, zap.Duration("timeout", timeout))
		mu.Lock()
		errs = append(errs, ErrTimeout)
		mu.Unlock()
	}

	mu.Lock()
	defer mu.Unlock()
	return errors.Join(errs...)
}
