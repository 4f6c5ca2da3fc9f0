// Package entities описывает доменные сущности сервера заметок.
package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Ограничения полей заметки.
const (
	MaxTitleLength   = 100
	MaxContentLength = 10000

	ErrMsgInvalidNote = "invalid note"
	ErrMsgTimestamp   = "invalid timestamp"
)

// TimestampLayout - формат времени на проводе: UTC с фиксированной точностью,
// поэтому строковый порядок совпадает с порядком по времени.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// timestampPrecision совпадает с точностью timestamptz в Postgres.
const timestampPrecision = time.Microsecond

var validate = validator.New(validator.WithRequiredStructEnabled())

// Note - заметка. Время хранится в UTC; JSON-представление задают MarshalJSON и UnmarshalJSON.
type Note struct {
	ID        string    `validate:"required"`
	Title     string    `validate:"max=100"`
	Content   string    `validate:"max=10000"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNote создает заметку с новым идентификатором.
func NewNote(title, content string) *Note {
	ts := now()
	return &Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Validate проверяет ограничения длины полей (в символах).
func (n *Note) Validate() error {
	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidNote, err)
	}
	return nil
}

// Touch обновляет время изменения.
func (n *Note) Touch() {
	n.UpdatedAt = now()
}

// FormatTimestamp приводит время к проводному формату.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

type noteJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// MarshalJSON кодирует время в TimestampLayout.
func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(noteJSON{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: FormatTimestamp(n.CreatedAt),
		UpdatedAt: FormatTimestamp(n.UpdatedAt),
	})
}

// UnmarshalJSON принимает любое время в RFC 3339.
func (n *Note) UnmarshalJSON(data []byte) error {
	var raw noteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	createdAt, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgTimestamp, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, raw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgTimestamp, err)
	}

	*n = Note{
		ID:        raw.ID,
		Title:     raw.Title,
		Content:   raw.Content,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(timestampPrecision)
}
