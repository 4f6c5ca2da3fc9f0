// Package api определяет порт доступа клиента к REST API заметок.
package api

import (
	"context"

	"gonotes/internal/client/domain/entities"
)

// NotesAPI - операции клиента над удаленным хранилищем заметок.
type NotesAPI interface {
	// ListNotes выполняет GET /api/notes.
	ListNotes(ctx context.Context) ([]entities.Note, error)

	// CreateNote выполняет POST /api/notes.
	CreateNote(ctx context.Context, req entities.CreateNoteRequest) (*entities.Note, error)
}
