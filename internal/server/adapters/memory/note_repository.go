// Package memory хранит заметки в памяти процесса.
package memory

import (
	"context"
	"slices"
	"sync"

	"gonotes/internal/server/domain/entities"
	"gonotes/internal/server/ports/repositories"
)

// NoteRepository - потокобезопасное хранилище заметок в map.
type NoteRepository struct {
	mu    sync.RWMutex
	notes map[string]entities.Note
}

// NewNoteRepository создает пустое хранилище.
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{notes: make(map[string]entities.Note)}
}

var _ repositories.NoteRepository = (*NoteRepository)(nil)

// List возвращает копии заметок по убыванию времени изменения.
func (r *NoteRepository) List(_ context.Context) ([]*entities.Note, error) {
	r.mu.RLock()
	out := make([]*entities.Note, 0, len(r.notes))
	for _, n := range r.notes {
		note := n
		out = append(out, &note)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *entities.Note) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// GetByID возвращает копию заметки или nil.
func (r *NoteRepository) GetByID(_ context.Context, noteID string) (*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[noteID]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// Create сохраняет заметку.
func (r *NoteRepository) Create(_ context.Context, note *entities.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes[note.ID] = *note
	return nil
}

// Update заменяет существующую заметку.
func (r *NoteRepository) Update(_ context.Context, note *entities.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[note.ID]; !ok {
		return repositories.ErrNoteNotFound
	}
	r.notes[note.ID] = *note
	return nil
}

// Delete удаляет заметку.
func (r *NoteRepository) Delete(_ context.Context, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[noteID]; !ok {
		return repositories.ErrNoteNotFound
	}
	delete(r.notes, noteID)
	return nil
}
