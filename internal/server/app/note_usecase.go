// Package app реализует бизнес-логику сервера заметок.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gonotes/internal/server/domain/entities"
	"gonotes/internal/server/ports/cache"
	"gonotes/internal/server/ports/repositories"
	"gonotes/pkg/logger"
)

// Ошибки уровня бизнес-логики.
var (
	ErrNotFound      = errors.New("note not found")
	ErrInvalidParams = errors.New("invalid parameters")
)

// Константы для логирования.
const (
	KeyNotesList        = "notes:list"
	KeyNotesListVersion = "notes:list:version"

	LogCacheHit        = "notes list served from cache"
	LogCacheReadFailed = "failed to read notes list from cache"
	LogCacheFillFailed = "failed to store notes list in cache"
	LogCacheDropFailed = "failed to invalidate notes list cache"
	LogCacheVersion    = "failed to read notes list cache version"
	LogNoteCreated     = "note created"
	LogNoteUpdated     = "note updated"
	LogNoteDeleted     = "note deleted"
)

// UpdateNoteInput - частичное обновление. nil или пустое значение оставляет поле без изменений.
type UpdateNoteInput struct {
	Title   *string
	Content *string
}

// NoteUseCase представляет собой бизнес-логику работы с заметками.
type NoteUseCase struct {
	noteRepo repositories.NoteRepository
	cache    cache.Cache
	cacheTTL time.Duration
}

// Option настраивает NoteUseCase.
type Option func(*NoteUseCase)

// WithListCache включает кэширование списка заметок. Ошибки кэша не прерывают запрос.
func WithListCache(c cache.Cache, ttl time.Duration) Option {
	return func(uc *NoteUseCase) {
		uc.cache = c
		uc.cacheTTL = ttl
	}
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(noteRepo repositories.NoteRepository, opts ...Option) *NoteUseCase {
	uc := &NoteUseCase{noteRepo: noteRepo}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ListNotes возвращает все заметки, новые изменения первыми.
func (uc *NoteUseCase) ListNotes(ctx context.Context) ([]*entities.Note, error) {
	key, cached := uc.listKey(ctx)
	if cached {
		if notes, ok := uc.cachedList(ctx, key); ok {
			return notes, nil
		}
	}

	notes, err := uc.noteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	if cached {
		uc.fillList(ctx, key, notes)
	}
	return notes, nil
}

// GetNote возвращает заметку по ID.
func (uc *NoteUseCase) GetNote(ctx context.Context, noteID string) (*entities.Note, error) {
	note, err := uc.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil {
		return nil, ErrNotFound
	}

	return note, nil
}

// CreateNote создает заметку. Заголовок обрезается по краям, текст сохраняется как есть.
func (uc *NoteUseCase) CreateNote(ctx context.Context, title, content string) (*entities.Note, error) {
	note := entities.NewNote(strings.TrimSpace(title), content)
	if err := note.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	if err := uc.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	uc.dropList(ctx)

	logger.Log(ctx).Info(ctx, LogNoteCreated, zap.String("noteID", note.ID))
	return note, nil
}

// UpdateNote заменяет непустые поля и обновляет время изменения.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, noteID string, in UpdateNoteInput) (*entities.Note, error) {
	note, err := uc.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if title := strings.TrimSpace(*in.Title); title != "" {
			note.Title = title
		}
	}
	if in.Content != nil && *in.Content != "" {
		note.Content = *in.Content
	}
	note.Touch()

	if err := note.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	if err := uc.noteRepo.Update(ctx, note); err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	uc.dropList(ctx)

	logger.Log(ctx).Info(ctx, LogNoteUpdated, zap.String("noteID", note.ID))
	return note, nil
}

// DeleteNote удаляет заметку.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, noteID string) error {
	if err := uc.noteRepo.Delete(ctx, noteID); err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}
	uc.dropList(ctx)

	logger.Log(ctx).Info(ctx, LogNoteDeleted, zap.String("noteID", noteID))
	return nil
}

// listKey возвращает ключ списка для текущей версии. Запись меняет версию, поэтому список,
// прочитанный до записи, сохраняется под старым ключом и больше не читается.
func (uc *NoteUseCase) listKey(ctx context.Context) (string, bool) {
	if uc.cache == nil {
		return "", false
	}

	version, err := uc.cache.Get(ctx, KeyNotesListVersion)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheVersion, zap.Error(err))
		return "", false
	}
	if version == "" {
		version = "0"
	}

	return KeyNotesList + ":" + version, true
}

func (uc *NoteUseCase) cachedList(ctx context.Context, key string) ([]*entities.Note, bool) {
	raw, err := uc.cache.Get(ctx, key)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheReadFailed, zap.Error(err))
		return nil, false
	}
	if raw == "" {
		return nil, false
	}

	var notes []*entities.Note
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheReadFailed, zap.Error(err))
		return nil, false
	}

	logger.Log(ctx).Debug(ctx, LogCacheHit, zap.String("key", key), zap.Int("count", len(notes)))
	return notes, true
}

func (uc *NoteUseCase) fillList(ctx context.Context, key string, notes []*entities.Note) {
	raw, err := json.Marshal(notes)
	if err == nil {
		err = uc.cache.Set(ctx, key, string(raw), uc.cacheTTL)
	}
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheFillFailed, zap.Error(err))
	}
}

func (uc *NoteUseCase) dropList(ctx context.Context) {
	if uc.cache == nil {
		return
	}

	if _, err := uc.cache.Incr(ctx, KeyNotesListVersion); err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheDropFailed, zap.Error(err))
	}
}
