package app

import (
	"context"
	"fmt"
)

// Task - дескриптор асинхронной операции контроллера.
type Task struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
}

func newTask(name string, cancel context.CancelFunc) *Task {
	return &Task{
		name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Name возвращает имя операции.
func (t *Task) Name() string {
	return t.name
}

// Cancel отменяет операцию. Повторный вызов безопасен.
func (t *Task) Cancel() {
	t.cancel()
}

// Done закрывается, когда операция завершена и ее результат применен (или отброшен).
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait ждет завершения операции или отмены ctx.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for %s: %w", t.name, ctx.Err())
	}
}
