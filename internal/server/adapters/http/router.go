package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"gonotes/internal/server/adapters/http/middleware"
	"gonotes/internal/server/config"
	"gonotes/internal/server/ports/services"
)

// Маршруты API.
const (
	RouteHealth = "/healthz"
	RouteNotes  = "/api/notes"
	RouteNote   = "/api/notes/:" + ParamNoteID
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, notes services.NotesService, corsCfg config.CORSConfig) {
	handler := NewHandler(notes)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsCfg.AllowedOrigins,
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions},
		AllowHeaders: []string{fiber.HeaderContentType},
	}))

	app.Get(RouteHealth, Health)

	app.Get(RouteNotes, handler.ListNotes)
	app.Post(RouteNotes, handler.CreateNote)
	app.Get(RouteNote, handler.GetNote)
	app.Put(RouteNote, handler.UpdateNote)
	app.Delete(RouteNote, handler.DeleteNote)

	// Обработчик для несуществующих маршрутов.
	app.Use(NotFound)
}

// NewApp создает fiber.App с настройками HTTP сервера.
func NewApp(cfg config.HTTPConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "notesd",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
	})
}
