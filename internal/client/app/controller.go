package app

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"gonotes/internal/client/domain/entities"
	"gonotes/internal/client/ports/api"
	"gonotes/pkg/logger"
)

// Константы для логирования.
const (
	LogRefreshStarted   = "refresh started"
	LogRefreshFailed    = "refresh failed"
	LogRefreshStale     = "discarding stale refresh result"
	LogCreateStarted    = "create started"
	LogCreateFailed     = "create failed"
	LogResultAfterClose = "discarding result after close"

	TaskRefresh = "refresh"
	TaskCreate  = "create"
)

// Ошибки контроллера.
var (
	ErrEmptyDraft = errors.New("title and content are both empty")
	ErrClosed     = errors.New("controller is closed")
	ErrNoNote     = errors.New("create returned no note")
)

// View - снимок состояния для отрисовки.
type View struct {
	State
	// Sorted - производный порядок заметок; только для чтения.
	Sorted     []entities.Note
	CanSubmit  bool
	CanRefresh bool
}

// Controller управляет состоянием экрана и асинхронными запросами к API.
type Controller struct {
	api api.NotesAPI

	mu      sync.Mutex
	state   State
	mounted bool
	closed  bool

	// notesVersion растет при каждой замене списка; sorted пересчитывается только при ее изменении.
	notesVersion  uint64
	sortedVersion uint64
	sorted        []entities.Note

	// loadSeq - номер последней начатой загрузки; результаты более ранних загрузок отбрасываются.
	loadSeq uint64

	listeners map[int]func(View)
	nextID    int
	// viewSeq нумерует снимки под mu; delivered - последний отданный слушателям номер под notifyMu.
	viewSeq   uint64
	notifyMu  sync.Mutex
	delivered uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewController создает контроллер. ctx задает время жизни всех запусков операций.
func NewController(ctx context.Context, notesAPI api.NotesAPI) *Controller {
	ctx, cancel := context.WithCancel(ctx)
	return &Controller{
		api:          notesAPI,
		notesVersion: 1,
		listeners:    make(map[int]func(View)),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Subscribe регистрирует слушателя изменений состояния и возвращает функцию отписки.
func (c *Controller) Subscribe(fn func(View)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// View возвращает текущий снимок состояния.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Mount выполняет первичную загрузку. Повторные вызовы ничего не делают.
func (c *Controller) Mount() (*Task, error) {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return nil, nil
	}
	c.mounted = true
	c.mu.Unlock()

	return c.Refresh()
}

// Refresh перезагружает список заметок.
func (c *Controller) Refresh() (*Task, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.loadSeq++
	seq := c.loadSeq
	c.state = StartLoad(c.state)
	task, ctx := c.startTaskLocked(TaskRefresh)
	listeners, view, seq := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(listeners, view, seq)
	logger.Log(ctx).Debug(ctx, LogRefreshStarted, zap.Uint64("seq", seq))

	go func() {
		defer c.finishTask(task)

		var (
			notes []entities.Note
			err   error
		)
		defer func() {
			if r := recover(); r != nil {
				err = panicError(r)
			}
			c.finishRefresh(ctx, seq, notes, err)
		}()

		notes, err = c.api.ListNotes(ctx)
	}()

	return task, nil
}

// SetDraftTitle обновляет заголовок черновика.
func (c *Controller) SetDraftTitle(title string) {
	c.update(func(s State) State {
		s.DraftTitle = title
		return s
	})
}

// SetDraftContent обновляет текст черновика.
func (c *Controller) SetDraftContent(content string) {
	c.update(func(s State) State {
		s.DraftContent = content
		return s
	})
}

// Submit отправляет черновик на сервер. Возвращает ErrEmptyDraft, если отправка запрещена.
func (c *Controller) Submit() (*Task, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if !CanSubmit(c.state) {
		c.mu.Unlock()
		return nil, ErrEmptyDraft
	}
	req := BuildCreateRequest(c.state)
	c.state = StartCreate(c.state)
	task, ctx := c.startTaskLocked(TaskCreate)
	listeners, view, seq := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(listeners, view, seq)
	logger.Log(ctx).Debug(ctx, LogCreateStarted)

	go func() {
		defer c.finishTask(task)

		var (
			note *entities.Note
			err  error
		)
		defer func() {
			if r := recover(); r != nil {
				err = panicError(r)
			}
			c.finishCreate(ctx, note, err)
		}()

		note, err = c.api.CreateNote(ctx, req)
	}()

	return task, nil
}

// Close отменяет выполняющиеся операции и ждет их завершения.
// Результаты, пришедшие после Close, не применяются.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) finishRefresh(ctx context.Context, seq uint64, notes []entities.Note, err error) {
	log := logger.Log(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		log.Debug(ctx, LogResultAfterClose, zap.String("task", TaskRefresh))
		return
	}
	if seq != c.loadSeq {
		latest := c.loadSeq
		c.mu.Unlock()
		log.Debug(ctx, LogRefreshStale, zap.Uint64("seq", seq), zap.Uint64("latest", latest))
		return
	}

	if err != nil {
		c.state = LoadFailed(c.state, err)
	} else {
		c.state = LoadSucceeded(c.state, notes)
		c.notesVersion++
	}
	listeners, view, seq := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		log.Warn(ctx, LogRefreshFailed, zap.Error(err))
	}
	c.notify(listeners, view, seq)
}

func (c *Controller) finishCreate(ctx context.Context, note *entities.Note, err error) {
	log := logger.Log(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		log.Debug(ctx, LogResultAfterClose, zap.String("task", TaskCreate))
		return
	}

	if err == nil && note == nil {
		err = ErrNoNote
	}
	if err != nil {
		c.state = CreateFailed(c.state, err)
	} else {
		c.state = CreateSucceeded(c.state, *note)
		c.notesVersion++
	}
	listeners, view, seq := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		log.Warn(ctx, LogCreateFailed, zap.Error(err))
	}
	c.notify(listeners, view, seq)
}

func (c *Controller) update(fn func(State) State) {
	c.mu.Lock()
	c.state = fn(c.state)
	listeners, view, seq := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(listeners, view, seq)
}

// startTaskLocked регистрирует операцию; вызывается под c.mu при c.closed == false.
func (c *Controller) startTaskLocked(name string) (*Task, context.Context) {
	ctx, cancel := context.WithCancel(c.ctx)
	ctx = logger.NewRequestIDContext(ctx, "")
	c.wg.Add(1)
	return newTask(name, cancel), ctx
}

func (c *Controller) finishTask(t *Task) {
	t.cancel()
	close(t.done)
	c.wg.Done()
}

func (c *Controller) viewLocked() View {
	if c.sortedVersion != c.notesVersion {
		c.sorted = Sorted(c.state.Notes)
		c.sortedVersion = c.notesVersion
	}
	return View{
		State:      c.state,
		Sorted:     c.sorted,
		CanSubmit:  CanSubmit(c.state),
		CanRefresh: CanRefresh(c.state),
	}
}

func (c *Controller) snapshotLocked() ([]func(View), View, uint64) {
	listeners := make([]func(View), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.viewSeq++
	return listeners, c.viewLocked(), c.viewSeq
}

// notify отдает снимок слушателям по одному. Снимок старше уже отданного отбрасывается,
// поэтому последним слушатель всегда видит самое новое состояние.
// Слушатели не должны менять состояние контроллера из обратного вызова.
func (c *Controller) notify(listeners []func(View), view View, seq uint64) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	if seq <= c.delivered {
		return
	}
	c.delivered = seq

	for _, fn := range listeners {
		fn(view)
	}
}
