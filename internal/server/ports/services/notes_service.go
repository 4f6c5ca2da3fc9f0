// Package services определяет интерфейсы сервисов, используемых HTTP-слоем.
package services

import (
	"context"

	"gonotes/internal/server/app"
	"gonotes/internal/server/domain/entities"
)

// NotesService - операции над заметками, доступные обработчикам.
type NotesService interface {
	ListNotes(ctx context.Context) ([]*entities.Note, error)
	GetNote(ctx context.Context, noteID string) (*entities.Note, error)
	CreateNote(ctx context.Context, title, content string) (*entities.Note, error)
	UpdateNote(ctx context.Context, noteID string, in app.UpdateNoteInput) (*entities.Note, error)
	DeleteNote(ctx context.Context, noteID string) error
}
