// Package entities описывает сущности, которыми клиент обменивается с сервером заметок.
package entities

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// TimestampLayout - формат временных меток заметки на проводе (ISO 8601 / RFC 3339).
const TimestampLayout = "2006-01-02T15:04:05Z07:00"

// ErrMsgInvalidNote - префикс ошибки проверки заметки.
const ErrMsgInvalidNote = "invalid note"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Note - заметка, принадлежащая серверу. Временные метки хранятся в том виде,
// в котором пришли по сети: порядок строк ISO 8601 совпадает с хронологическим.
type Note struct {
	ID        string `json:"id" validate:"required"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	UpdatedAt string `json:"updatedAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// Validate проверяет структуру заметки, полученной от сервера.
func (n *Note) Validate() error {
	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidNote, err)
	}
	return nil
}

// Notes - ответ на запрос списка заметок.
type Notes []Note

// Validate проверяет каждую заметку списка.
func (ns *Notes) Validate() error {
	for i := range *ns {
		if err := (*ns)[i].Validate(); err != nil {
			return fmt.Errorf("notes[%d]: %w", i, err)
		}
	}
	return nil
}

// CreateNoteRequest - тело запроса на создание заметки.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
