package api

import (
	"context"
	"errors"
	"net/http"

	"gonotes/internal/client/domain/entities"
	ports "gonotes/internal/client/ports/api"
)

// PathNotes - коллекция заметок на сервере.
const PathNotes = "/api/notes"

// ErrNoNoteReturned возвращается, если сервер подтвердил создание без тела.
var ErrNoNoteReturned = errors.New("server returned no note")

// NotesClient реализует ports.NotesAPI поверх Client.
type NotesClient struct {
	client *Client
}

var _ ports.NotesAPI = (*NotesClient)(nil)

// NewNotesClient создает типизированный клиент заметок.
func NewNotesClient(client *Client) *NotesClient {
	return &NotesClient{client: client}
}

// ListNotes получает все заметки.
func (n *NotesClient) ListNotes(ctx context.Context) ([]entities.Note, error) {
	notes, err := Do[entities.Notes](ctx, n.client, http.MethodGet, PathNotes)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		return nil, nil
	}
	return *notes, nil
}

// CreateNote создает заметку и возвращает ее в том виде, в котором ее сохранил сервер.
func (n *NotesClient) CreateNote(ctx context.Context, req entities.CreateNoteRequest) (*entities.Note, error) {
	note, err := Do[entities.Note](ctx, n.client, http.MethodPost, PathNotes, WithJSONBody(req))
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoNoteReturned
	}
	return note, nil
}
