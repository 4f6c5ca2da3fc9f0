// Package postgres реализует хранилище заметок на PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"gonotes/internal/server/domain/entities"
	"gonotes/internal/server/ports/repositories"
	"gonotes/pkg/logger"
)

// Pool - подмножество методов pgxpool.Pool, используемое репозиторием.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SQL-запросы.
const (
	queryList = `SELECT id, title, content, created_at, updated_at
         FROM notes
         ORDER BY updated_at DESC, created_at DESC`
	queryGet = `SELECT id, title, content, created_at, updated_at
         FROM notes
         WHERE id = $1`
	queryInsert = `INSERT INTO notes (id, title, content, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	queryUpdate = `UPDATE notes SET title = $1, content = $2, updated_at = $3 WHERE id = $4`
	queryDelete = `DELETE FROM notes WHERE id = $1`
)

// Константы сообщений.
const (
	ErrMsgListNotes  = "failed to list notes"
	ErrMsgScanNote   = "failed to scan note"
	ErrMsgGetNote    = "failed to get note"
	ErrMsgCreateNote = "failed to create note"
	ErrMsgUpdateNote = "failed to update note"
	ErrMsgDeleteNote = "failed to delete note"
)

// NoteRepository реализует repositories.NoteRepository.
type NoteRepository struct {
	pool Pool
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

var _ repositories.NoteRepository = (*NoteRepository)(nil)

// List возвращает все заметки.
func (r *NoteRepository) List(ctx context.Context) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.List"))

	rows, err := r.pool.Query(ctx, queryList)
	if err != nil {
		log.Error(ctx, ErrMsgListNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrMsgListNotes, err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, ErrMsgScanNote, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", ErrMsgScanNote, err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, ErrMsgListNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrMsgListNotes, err)
	}

	log.Debug(ctx, "notes listed", zap.Int("count", len(notes)))
	return notes, nil
}

// GetByID получает заметку по ID; для отсутствующей возвращает nil, nil.
func (r *NoteRepository) GetByID(ctx context.Context, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))

	note, err := scanNote(r.pool.QueryRow(ctx, queryGet, noteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, nil
		}
		log.Error(ctx, ErrMsgGetNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrMsgGetNote, err)
	}

	return note, nil
}

// Create сохраняет новую заметку.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))

	_, err := r.pool.Exec(ctx, queryInsert,
		note.ID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		log.Error(ctx, ErrMsgCreateNote, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrMsgCreateNote, err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", note.ID))
	return nil
}

// Update сохраняет заголовок, текст и время изменения заметки.
func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))

	result, err := r.pool.Exec(ctx, queryUpdate, note.Title, note.Content, note.UpdatedAt, note.ID)
	if err != nil {
		log.Error(ctx, ErrMsgUpdateNote, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrMsgUpdateNote, err)
	}

	if result.RowsAffected() == 0 {
		return repositories.ErrNoteNotFound
	}
	return nil
}

// Delete удаляет заметку.
func (r *NoteRepository) Delete(ctx context.Context, noteID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))

	result, err := r.pool.Exec(ctx, queryDelete, noteID)
	if err != nil {
		log.Error(ctx, ErrMsgDeleteNote, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrMsgDeleteNote, err)
	}

	if result.RowsAffected() == 0 {
		return repositories.ErrNoteNotFound
	}
	return nil
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	if err := row.Scan(&note.ID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return nil, err
	}
	note.CreatedAt = note.CreatedAt.UTC()
	note.UpdatedAt = note.UpdatedAt.UTC()
	return &note, nil
}
