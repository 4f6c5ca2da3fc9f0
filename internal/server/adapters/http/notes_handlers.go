// Package http содержит REST API сервера заметок на Fiber.
package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gonotes/internal/server/adapters/http/middleware"
	"gonotes/internal/server/app"
	"gonotes/internal/server/domain/entities"
	"gonotes/internal/server/ports/services"
	"gonotes/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateNote = "handling create note request"
	LogHandlerGetNote    = "handling get note request"
	LogHandlerListNotes  = "handling list notes request"
	LogHandlerUpdateNote = "handling update note request"
	LogHandlerDeleteNote = "handling delete note request"

	ErrMsgInvalidJSON   = "invalid JSON"
	ErrMsgNoteNotFound  = "note not found"
	ErrMsgRouteNotFound = "route not found"
	ErrMsgInternal      = "internal server error"

	ParamNoteID = "id"
)

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	notes services.NotesService
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notes services.NotesService) *Handler {
	return &Handler{notes: notes}
}

// ListNotes отдает все заметки.
func (h *Handler) ListNotes(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)
	logger.Log(ctx).Debug(ctx, LogHandlerListNotes)

	notes, err := h.notes.ListNotes(ctx)
	if err != nil {
		return handleError(c, err)
	}
	if notes == nil {
		notes = []*entities.Note{}
	}

	return sendJSON(c, fiber.StatusOK, notes)
}

// CreateNote создает заметку и отвечает 201.
func (h *Handler) CreateNote(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)
	log := logger.Log(ctx)
	log.Debug(ctx, LogHandlerCreateNote)

	var req createNoteRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		log.Debug(ctx, ErrMsgInvalidJSON, zap.Error(err))
		return sendError(c, fiber.StatusBadRequest, ErrMsgInvalidJSON)
	}

	note, err := h.notes.CreateNote(ctx, req.Title, req.Content)
	if err != nil {
		return handleError(c, err)
	}

	return sendJSON(c, fiber.StatusCreated, note)
}

// GetNote отдает заметку по ID.
func (h *Handler) GetNote(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)
	logger.Log(ctx).Debug(ctx, LogHandlerGetNote)

	note, err := h.notes.GetNote(ctx, c.Params(ParamNoteID))
	if err != nil {
		return handleError(c, err)
	}

	return sendJSON(c, fiber.StatusOK, note)
}

// UpdateNote частично обновляет заметку.
func (h *Handler) UpdateNote(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)
	log := logger.Log(ctx)
	log.Debug(ctx, LogHandlerUpdateNote)

	var req updateNoteRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		log.Debug(ctx, ErrMsgInvalidJSON, zap.Error(err))
		return sendError(c, fiber.StatusBadRequest, ErrMsgInvalidJSON)
	}

	note, err := h.notes.UpdateNote(ctx, c.Params(ParamNoteID), app.UpdateNoteInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return handleError(c, err)
	}

	return sendJSON(c, fiber.StatusOK, note)
}

// DeleteNote удаляет заметку и отвечает 204.
func (h *Handler) DeleteNote(c fiber.Ctx) error {
	ctx := middleware.RequestContext(c)
	logger.Log(ctx).Debug(ctx, LogHandlerDeleteNote)

	if err := h.notes.DeleteNote(ctx, c.Params(ParamNoteID)); err != nil {
		return handleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Health отвечает "ok".
func Health(c fiber.Ctx) error {
	return c.SendString("ok")
}

// NotFound отвечает 404 для неизвестных маршрутов.
func NotFound(c fiber.Ctx) error {
	return sendError(c, fiber.StatusNotFound, ErrMsgRouteNotFound)
}

func handleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return sendError(c, fiber.StatusNotFound, ErrMsgNoteNotFound)
	case errors.Is(err, app.ErrInvalidParams):
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := middleware.RequestContext(c)
	logger.Log(ctx).Error(ctx, ErrMsgInternal, zap.Error(err))
	return sendError(c, fiber.StatusInternalServerError, ErrMsgInternal)
}

func sendError(c fiber.Ctx, status int, msg string) error {
	return sendJSON(c, status, fiber.Map{"error": msg})
}

func sendJSON(c fiber.Ctx, status int, body any) error {
	if err := c.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
