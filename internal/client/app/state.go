// Package app реализует состояние и логику экрана списка заметок с формой создания.
package app

import (
	"fmt"
	"slices"
	"strings"

	"gonotes/internal/client/domain/entities"
)

// State - полное состояние экрана. Значения State не изменяются на месте:
// каждый переход возвращает новое состояние.
type State struct {
	Notes        []entities.Note
	Loading      bool
	Error        *string
	DraftTitle   string
	DraftContent string
}

// ErrorText возвращает сообщение об ошибке или пустую строку.
func (s State) ErrorText() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}

// StartLoad начинает загрузку списка.
func StartLoad(s State) State {
	s.Loading = true
	s.Error = nil
	return s
}

// LoadSucceeded заменяет список заметок результатом загрузки.
func LoadSucceeded(s State, notes []entities.Note) State {
	s.Notes = notes
	s.Error = nil
	s.Loading = false
	return s
}

// LoadFailed фиксирует ошибку загрузки.
func LoadFailed(s State, err error) State {
	s.Error = errorPtr(err)
	s.Loading = false
	return s
}

// StartCreate начинает создание заметки.
func StartCreate(s State) State {
	s.Error = nil
	return s
}

// CreateSucceeded добавляет созданную заметку в начало списка и очищает черновик.
func CreateSucceeded(s State, note entities.Note) State {
	notes := make([]entities.Note, 0, len(s.Notes)+1)
	notes = append(notes, note)
	s.Notes = append(notes, s.Notes...)
	s.DraftTitle = ""
	s.DraftContent = ""
	return s
}

// CreateFailed фиксирует ошибку создания. Черновик остается для повторной отправки.
func CreateFailed(s State, err error) State {
	s.Error = errorPtr(err)
	return s
}

// CanSubmit запрещает отправку, только когда и заголовок, и текст пусты после обрезки пробелов.
func CanSubmit(s State) bool {
	return strings.TrimSpace(s.DraftTitle) != "" || strings.TrimSpace(s.DraftContent) != ""
}

// CanRefresh запрещает ручное обновление во время загрузки.
func CanRefresh(s State) bool {
	return !s.Loading
}

// BuildCreateRequest формирует запрос из черновика: заголовок обрезается, текст передается как есть.
func BuildCreateRequest(s State) entities.CreateNoteRequest {
	return entities.CreateNoteRequest{
		Title:   strings.TrimSpace(s.DraftTitle),
		Content: s.DraftContent,
	}
}

// Sorted возвращает копию списка, упорядоченную по убыванию updatedAt (строковое сравнение).
func Sorted(notes []entities.Note) []entities.Note {
	out := slices.Clone(notes)
	slices.SortStableFunc(out, func(a, b entities.Note) int {
		return strings.Compare(b.UpdatedAt, a.UpdatedAt)
	})
	return out
}

// ErrorMessage сводит любую ошибку к строке для показа пользователю.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func errorPtr(err error) *string {
	msg := ErrorMessage(err)
	return &msg
}

// panicError превращает значение из recover в ошибку с его строковым представлением.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
