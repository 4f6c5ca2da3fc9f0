package app_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gonotes/internal/client/app"
	"gonotes/internal/client/domain/entities"
)

type mockNotesAPI struct {
	mock.Mock
}

func (m *mockNotesAPI) ListNotes(ctx context.Context) ([]entities.Note, error) {
	args := m.Called(ctx)
	notes, _ := args.Get(0).([]entities.Note)
	return notes, args.Error(1)
}

func (m *mockNotesAPI) CreateNote(ctx context.Context, req entities.CreateNoteRequest) (*entities.Note, error) {
	args := m.Called(ctx, req)
	note, _ := args.Get(0).(*entities.Note)
	return note, args.Error(1)
}

type listResult struct {
	notes []entities.Note
	err   error
}

type listCall struct {
	ctx   context.Context
	reply chan listResult
}

// pendingAPI отдает управление ответами тесту.
type pendingAPI struct {
	calls chan listCall
}

func newPendingAPI() *pendingAPI {
	return &pendingAPI{calls: make(chan listCall, 4)}
}

func (p *pendingAPI) ListNotes(ctx context.Context) ([]entities.Note, error) {
	call := listCall{ctx: ctx, reply: make(chan listResult, 1)}
	p.calls <- call
	select {
	case r := <-call.reply:
		return r.notes, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *pendingAPI) CreateNote(context.Context, entities.CreateNoteRequest) (*entities.Note, error) {
	return nil, nil
}

func (p *pendingAPI) next(t *testing.T) listCall {
	t.Helper()
	select {
	case call := <-p.calls:
		return call
	case <-time.After(time.Second):
		t.Fatal("ListNotes was not called")
		return listCall{}
	}
}

func waitTask(t *testing.T, task *app.Task) {
	t.Helper()
	require.NotNil(t, task)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, task.Wait(ctx))
}

func ids(notes []entities.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestControllerMountLoadsOnce(t *testing.T) {
	notes := []entities.Note{
		note("older", "2026-01-01T00:00:00Z"),
		note("newer", "2026-02-01T00:00:00Z"),
	}
	m := new(mockNotesAPI)
	m.On("ListNotes", mock.Anything).Return(notes, nil).Once()

	c := app.NewController(context.Background(), m)
	defer c.Close()

	task, err := c.Mount()
	require.NoError(t, err)
	waitTask(t, task)

	again, err := c.Mount()
	require.NoError(t, err)
	assert.Nil(t, again)

	view := c.View()
	assert.False(t, view.Loading)
	assert.Nil(t, view.Error)
	assert.Equal(t, []string{"older", "newer"}, ids(view.Notes))
	assert.Equal(t, []string{"newer", "older"}, ids(view.Sorted))
	m.AssertNumberOfCalls(t, "ListNotes", 1)
}

func TestControllerRefreshIsIdempotent(t *testing.T) {
	notes := []entities.Note{note("1", "2026-01-01T00:00:00Z")}
	m := new(mockNotesAPI)
	m.On("ListNotes", mock.Anything).Return(notes, nil)

	c := app.NewController(context.Background(), m)
	defer c.Close()

	task, err := c.Refresh()
	require.NoError(t, err)
	waitTask(t, task)
	first := c.View()

	task, err = c.Refresh()
	require.NoError(t, err)
	waitTask(t, task)
	second := c.View()

	assert.Equal(t, first.Notes, second.Notes)
	assert.Equal(t, first.Error, second.Error)
	assert.False(t, second.Loading)
}

func TestControllerRefreshFailure(t *testing.T) {
	m := new(mockNotesAPI)
	m.On("ListNotes", mock.Anything).Return(nil, errNetwork)

	c := app.NewController(context.Background(), m)
	defer c.Close()

	task, err := c.Refresh()
	require.NoError(t, err)
	waitTask(t, task)

	view := c.View()
	assert.False(t, view.Loading)
	assert.Equal(t, "network down", view.ErrorText())
	assert.True(t, view.CanRefresh)
}

func TestControllerRefreshDisabledWhileLoading(t *testing.T) {
	api := newPendingAPI()
	c := app.NewController(context.Background(), api)
	defer c.Close()

	task, err := c.Refresh()
	require.NoError(t, err)
	call := api.next(t)

	view := c.View()
	assert.True(t, view.Loading)
	assert.False(t, view.CanRefresh)

	call.reply <- listResult{notes: []entities.Note{}}
	waitTask(t, task)
	assert.True(t, c.View().CanRefresh)
}

func TestControllerDiscardsStaleRefresh(t *testing.T) {
	api := newPendingAPI()
	c := app.NewController(context.Background(), api)
	defer c.Close()

	first, err := c.Refresh()
	require.NoError(t, err)
	firstCall := api.next(t)

	second, err := c.Refresh()
	require.NoError(t, err)
	secondCall := api.next(t)

	secondCall.reply <- listResult{notes: []entities.Note{note("fresh", "2026-02-01T00:00:00Z")}}
	waitTask(t, second)

	firstCall.reply <- listResult{notes: []entities.Note{note("stale", "2026-01-01T00:00:00Z")}}
	waitTask(t, first)

	view := c.View()
	assert.Equal(t, []string{"fresh"}, ids(view.Notes))
	assert.False(t, view.Loading)
}

func TestControllerSubmitPrependsAndClearsDraft(t *testing.T) {
	existing := []entities.Note{note("old", "2026-01-01T00:00:00Z")}
	created := &entities.Note{
		ID:        "n1",
		Title:     "Grocery list",
		Content:   "milk, eggs",
		CreatedAt: "2026-03-01T10:00:00Z",
		UpdatedAt: "2026-03-01T10:00:00Z",
	}

	m := new(mockNotesAPI)
	m.On("ListNotes", mock.Anything).Return(existing, nil)
	m.On("CreateNote", mock.Anything, entities.CreateNoteRequest{Title: "Grocery list", Content: "milk, eggs"}).
		Return(created, nil).Once()

	c := app.NewController(context.Background(), m)
	defer c.Close()

	task, err := c.Mount()
	require.NoError(t, err)
	waitTask(t, task)

	c.SetDraftTitle("  Grocery list  ")
	c.SetDraftContent("milk, eggs")
	require.True(t, c.View().CanSubmit)

	task, err = c.Submit()
	require.NoError(t, err)
	waitTask(t, task)

	view := c.View()
	assert.Equal(t, []string{"n1", "old"}, ids(view.Notes))
	assert.Empty(t, view.DraftTitle)
	assert.Empty(t, view.DraftContent)
	assert.Nil(t, view.Error)
	assert.False(t, view.CanSubmit)
	m.AssertExpectations(t)
}

func TestControllerSubmitFailureKeepsDraft(t *testing.T) {
	m := new(mockNotesAPI)
	m.On("CreateNote", mock.Anything, mock.Anything).Return(nil, errNetwork)

	c := app.NewController(context.Background(), m)
	defer c.Close()

	c.SetDraftTitle("t")
	c.SetDraftContent("c")

	task, err := c.Submit()
	require.NoError(t, err)
	waitTask(t, task)

	view := c.View()
	assert.Equal(t, "network down", view.ErrorText())
	assert.Equal(t, "t", view.DraftTitle)
	assert.Equal(t, "c", view.DraftContent)
	assert.Empty(t, view.Notes)
}

func TestControllerSubmitWithoutNote(t *testing.T) {
	m := new(mockNotesAPI)
	m.On("CreateNote", mock.Anything, mock.Anything).Return(nil, nil)

	c := app.NewController(context.Background(), m)
	defer c.Close()

	c.SetDraftContent("body")
	task, err := c.Submit()
	require.NoError(t, err)
	waitTask(t, task)

	assert.Equal(t, app.ErrNoNote.Error(), c.View().ErrorText())
	assert.Equal(t, "body", c.View().DraftContent)
}

func TestControllerSubmitRejectsEmptyDraft(t *testing.T) {
	m := new(mockNotesAPI)
	c := app.NewController(context.Background(), m)
	defer c.Close()

	c.SetDraftTitle(" ")
	c.SetDraftContent(" ")

	task, err := c.Submit()
	assert.ErrorIs(t, err, app.ErrEmptyDraft)
	assert.Nil(t, task)
	m.AssertNotCalled(t, "CreateNote", mock.Anything, mock.Anything)
}

func TestControllerTaskCancel(t *testing.T) {
	api := newPendingAPI()
	c := app.NewController(context.Background(), api)
	defer c.Close()

	task, err := c.Refresh()
	require.NoError(t, err)
	api.next(t)

	task.Cancel()
	waitTask(t, task)

	view := c.View()
	assert.False(t, view.Loading)
	assert.Equal(t, context.Canceled.Error(), view.ErrorText())
}

func TestControllerCloseIgnoresResults(t *testing.T) {
	api := newPendingAPI()
	c := app.NewController(context.Background(), api)

	var (
		mu    sync.Mutex
		calls int
	)

	task, err := c.Refresh()
	require.NoError(t, err)
	api.next(t)

	c.Subscribe(func(app.View) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	c.Close()
	waitTask(t, task)

	mu.Lock()
	assert.Zero(t, calls)
	mu.Unlock()
	assert.True(t, c.View().Loading)

	_, err = c.Refresh()
	assert.ErrorIs(t, err, app.ErrClosed)
	_, err = c.Submit()
	assert.ErrorIs(t, err, app.ErrClosed)

	c.Close()
}

func TestControllerSubscribe(t *testing.T) {
	m := new(mockNotesAPI)
	m.On("ListNotes", mock.Anything).Return([]entities.Note{}, nil)

	c := app.NewController(context.Background(), m)
	defer c.Close()

	var (
		mu      sync.Mutex
		loading []bool
	)
	unsubscribe := c.Subscribe(func(v app.View) {
		mu.Lock()
		loading = append(loading, v.Loading)
		mu.Unlock()
	})

	task, err := c.Refresh()
	require.NoError(t, err)
	waitTask(t, task)

	mu.Lock()
	assert.Equal(t, []bool{true, false}, loading)
	mu.Unlock()

	unsubscribe()
	c.SetDraftTitle("ignored")

	mu.Lock()
	assert.Len(t, loading, 2)
	mu.Unlock()
}

func TestControllerSortedViewIsMemoized(t *testing.T) {
	m := new(mockNotesAPI)
	m.On("ListNotes", mock.Anything).Return([]entities.Note{
		note("a", "2026-01-01T00:00:00Z"),
		note("b", "2026-02-01T00:00:00Z"),
	}, nil)

	c := app.NewController(context.Background(), m)
	defer c.Close()

	task, err := c.Refresh()
	require.NoError(t, err)
	waitTask(t, task)

	before := c.View()
	c.SetDraftTitle("typing")
	after := c.View()

	require.Len(t, after.Sorted, 2)
	assert.Same(t, &before.Sorted[0], &after.Sorted[0])
	assert.Equal(t, "b", after.Sorted[0].ID)
}

func TestControllerListenersEndWithLatestView(t *testing.T) {
	c := app.NewController(context.Background(), new(mockNotesAPI))
	defer c.Close()

	var (
		mu   sync.Mutex
		last string
		seen int
	)
	c.Subscribe(func(v app.View) {
		mu.Lock()
		last = v.DraftTitle
		seen++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.SetDraftTitle(fmt.Sprintf("title %d", i))
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Positive(t, seen)
	assert.Equal(t, c.View().DraftTitle, last)
}
