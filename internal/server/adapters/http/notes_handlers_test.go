package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	notehttp "gonotes/internal/server/adapters/http"
	"gonotes/internal/server/adapters/memory"
	"gonotes/internal/server/app"
	"gonotes/internal/server/config"
	"gonotes/internal/server/domain/entities"
	"gonotes/pkg/logger"
)

type wireNote struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

var corsConfig = config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	fiberApp := fiber.New()
	notehttp.SetupRouter(fiberApp, app.NewNoteUseCase(memory.NewNoteRepository()), corsConfig)
	return fiberApp
}

func do(t *testing.T, fiberApp *fiber.App, method, target, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := fiberApp.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestHealth(t *testing.T) {
	resp, body := do(t, newTestApp(t), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}

func TestNotesLifecycle(t *testing.T) {
	fiberApp := newTestApp(t)

	resp, body := do(t, fiberApp, http.MethodGet, "/api/notes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	resp, body = do(t, fiberApp, http.MethodPost, "/api/notes", `{"title":"  Grocery list ","content":"milk, eggs"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[wireNote](t, body)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Grocery list", created.Title)
	assert.Equal(t, "milk, eggs", created.Content)
	assert.True(t, strings.HasSuffix(created.UpdatedAt, "Z"))

	resp, body = do(t, fiberApp, http.MethodGet, "/api/notes/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[wireNote](t, body))

	resp, body = do(t, fiberApp, http.MethodPut, "/api/notes/"+created.ID, `{"content":"bread"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[wireNote](t, body)
	assert.Equal(t, "Grocery list", updated.Title)
	assert.Equal(t, "bread", updated.Content)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	resp, body = do(t, fiberApp, http.MethodGet, "/api/notes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]wireNote](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	resp, _ = do(t, fiberApp, http.MethodDelete, "/api/notes/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, fiberApp, http.MethodGet, "/api/notes/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateNoteBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "malformed json", body: `{"title":`, wantMsg: notehttp.ErrMsgInvalidJSON},
		{name: "title too long", body: `{"title":"` + strings.Repeat("a", entities.MaxTitleLength+1) + `"}`, wantMsg: app.ErrInvalidParams.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, newTestApp(t), http.MethodPost, "/api/notes", tt.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, decode[map[string]string](t, body)["error"], tt.wantMsg)
		})
	}
}

func TestMissingNote(t *testing.T) {
	fiberApp := newTestApp(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			body := ""
			if method == http.MethodPut {
				body = `{"title":"x"}`
			}
			resp, raw := do(t, fiberApp, method, "/api/notes/missing", body)

			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.JSONEq(t, `{"error":"note not found"}`, raw)
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	fiberApp := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(logger.HeaderRequestID, "req-42")
	resp, err := fiberApp.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get(logger.HeaderRequestID))

	resp2, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get(logger.HeaderRequestID))
}

func TestCORS(t *testing.T) {
	fiberApp := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/notes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := fiberApp.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = fiberApp.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	resp, body := do(t, newTestApp(t), http.MethodGet, "/api/unknown", "")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"route not found"}`, body)
}

type mockNotesService struct {
	mock.Mock
}

func (m *mockNotesService) ListNotes(ctx context.Context) ([]*entities.Note, error) {
	args := m.Called(ctx)
	notes, _ := args.Get(0).([]*entities.Note)
	return notes, args.Error(1)
}

func (m *mockNotesService) GetNote(ctx context.Context, id string) (*entities.Note, error) {
	args := m.Called(ctx, id)
	note, _ := args.Get(0).(*entities.Note)
	return note, args.Error(1)
}

func (m *mockNotesService) CreateNote(ctx context.Context, title, content string) (*entities.Note, error) {
	args := m.Called(ctx, title, content)
	note, _ := args.Get(0).(*entities.Note)
	return note, args.Error(1)
}

func (m *mockNotesService) UpdateNote(ctx context.Context, id string, in app.UpdateNoteInput) (*entities.Note, error) {
	args := m.Called(ctx, id, in)
	note, _ := args.Get(0).(*entities.Note)
	return note, args.Error(1)
}

func (m *mockNotesService) DeleteNote(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestInternalErrors(t *testing.T) {
	svc := new(mockNotesService)
	svc.On("ListNotes", mock.Anything).Return(nil, errors.New("database is down"))
	svc.On("GetNote", mock.Anything, "boom").Run(func(mock.Arguments) { panic("unexpected") })

	fiberApp := fiber.New()
	notehttp.SetupRouter(fiberApp, svc, corsConfig)

	resp, body := do(t, fiberApp, http.MethodGet, "/api/notes", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"internal server error"}`, body)
	assert.NotContains(t, body, "database is down")

	resp, body = do(t, fiberApp, http.MethodGet, "/api/notes/boom", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"internal server error"}`, body)
}

func TestListNotesNeverNull(t *testing.T) {
	svc := new(mockNotesService)
	svc.On("ListNotes", mock.Anything).Return(nil, nil)

	fiberApp := fiber.New()
	notehttp.SetupRouter(fiberApp, svc, corsConfig)

	resp, body := do(t, fiberApp, http.MethodGet, "/api/notes", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)
}
