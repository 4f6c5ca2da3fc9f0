// Package repositories определяет интерфейсы хранилищ сервера заметок.
package repositories

import (
	"context"
	"errors"

	"gonotes/internal/server/domain/entities"
)

// ErrNoteNotFound возвращается Update и Delete, если заметки нет.
var ErrNoteNotFound = errors.New("note not found")

// NoteRepository определяет интерфейс для работы с хранилищем заметок.
type NoteRepository interface {
	// List возвращает все заметки, новые изменения первыми.
	List(ctx context.Context) ([]*entities.Note, error)
	// GetByID возвращает nil без ошибки, если заметки нет.
	GetByID(ctx context.Context, noteID string) (*entities.Note, error)
	Create(ctx context.Context, note *entities.Note) error
	Update(ctx context.Context, note *entities.Note) error
	Delete(ctx context.Context, noteID string) error
}
