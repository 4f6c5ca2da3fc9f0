// Package cli реализует построчный терминальный интерфейс экрана заметок.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"gonotes/internal/client/app"
	"gonotes/internal/client/render"
	"gonotes/pkg/logger"
)

// Команды REPL.
const (
	CmdTitle   = "title"
	CmdContent = "content"
	CmdAppend  = "append"
	CmdCreate  = "create"
	CmdRefresh = "refresh"
	CmdShow    = "show"
	CmdHelp    = "help"
	CmdQuit    = "quit"
	CmdExit    = "exit"
)

// Сообщения пользователю.
const (
	MsgRefreshDisabled = "refresh is disabled while loading"
	MsgEmptyDraft      = "nothing to create: title and content are empty"
	MsgUnknownCommand  = "unknown command %q, type \"help\""
	MsgPrompt          = "> "

	LogCommandFailed = "command failed"
	LogDrainFailed   = "failed to wait for pending operations"
	LogRenderFailed  = "failed to render view"
)

const helpText = `Commands:
  title <text>     set draft title
  content <text>   set draft content
  append <text>    append a line to draft content
  create           create a note from the draft
  refresh          reload notes from the server
  show             print the current screen
  help             show this help
  quit             exit
`

// REPL связывает ввод пользователя с контроллером и перерисовывает экран при каждом изменении.
type REPL struct {
	ctrl *app.Controller
	in   io.Reader
	opts render.Options

	outMu sync.Mutex
	out   io.Writer

	pending []*app.Task
}

// New создает REPL поверх контроллера.
func New(ctrl *app.Controller, in io.Reader, out io.Writer, opts render.Options) *REPL {
	return &REPL{
		ctrl: ctrl,
		in:   in,
		out:  out,
		opts: opts,
	}
}

// Run монтирует экран и обрабатывает команды до quit, конца ввода или отмены ctx.
// Перед возвратом дожидается незавершенных операций.
func (r *REPL) Run(ctx context.Context) error {
	unsubscribe := r.ctrl.Subscribe(r.draw)
	defer unsubscribe()

	task, err := r.ctrl.Mount()
	if err != nil {
		return err
	}
	r.track(task)

	done := make(chan struct{})
	defer close(done)
	lines, readErr := r.readLines(done)

loop:
	for {
		r.print(MsgPrompt)
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			quit, err := r.exec(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				break loop
			}
		}
	}

	r.drain(ctx)

	select {
	case err := <-readErr:
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	default:
	}
	return nil
}

// readLines читает ввод в отдельной горутине, чтобы Run не блокировался в Scan при отмене ctx.
// Ошибка чтения отправляется в errc до закрытия канала строк.
func (r *REPL) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

func (r *REPL) exec(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")

	switch cmd {
	case "":
	case CmdTitle:
		r.ctrl.SetDraftTitle(arg)
	case CmdContent:
		r.ctrl.SetDraftContent(arg)
	case CmdAppend:
		content := r.ctrl.View().DraftContent
		if content != "" {
			content += "\n"
		}
		r.ctrl.SetDraftContent(content + arg)
	case CmdCreate:
		task, err := r.ctrl.Submit()
		if errors.Is(err, app.ErrEmptyDraft) {
			r.println(MsgEmptyDraft)
			return false, nil
		}
		if err != nil {
			logger.Log(ctx).Warn(ctx, LogCommandFailed, zap.String("command", cmd), zap.Error(err))
			return false, err
		}
		r.track(task)
	case CmdRefresh:
		if !r.ctrl.View().CanRefresh {
			r.println(MsgRefreshDisabled)
			return false, nil
		}
		task, err := r.ctrl.Refresh()
		if err != nil {
			logger.Log(ctx).Warn(ctx, LogCommandFailed, zap.String("command", cmd), zap.Error(err))
			return false, err
		}
		r.track(task)
	case CmdShow:
		r.draw(r.ctrl.View())
	case CmdHelp:
		r.print(helpText)
	case CmdQuit, CmdExit:
		return true, nil
	default:
		r.println(fmt.Sprintf(MsgUnknownCommand, cmd))
	}

	return false, nil
}

// track запоминает операцию, отбрасывая уже завершенные.
func (r *REPL) track(task *app.Task) {
	if task == nil {
		return
	}
	active := r.pending[:0]
	for _, t := range r.pending {
		select {
		case <-t.Done():
		default:
			active = append(active, t)
		}
	}
	r.pending = append(active, task)
}

func (r *REPL) drain(ctx context.Context) {
	for _, t := range r.pending {
		if err := t.Wait(ctx); err != nil {
			logger.Log(ctx).Warn(ctx, LogDrainFailed, zap.String("task", t.Name()), zap.Error(err))
			return
		}
	}
	r.pending = nil
}

func (r *REPL) draw(view app.View) {
	r.outMu.Lock()
	defer r.outMu.Unlock()

	fmt.Fprintln(r.out)
	if err := render.Render(r.out, view, r.opts); err != nil {
		ctx := context.Background()
		logger.Log(ctx).Warn(ctx, LogRenderFailed, zap.Error(err))
	}
}

func (r *REPL) print(s string) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprint(r.out, s)
}

func (r *REPL) println(s string) {
	r.print(s + "\n")
}
