// Package render выводит снимок экрана заметок в текстовом виде.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"gonotes/internal/client/app"
)

// Тексты экрана.
const (
	Heading     = "Notes"
	Untitled    = "(untitled)"
	LoadingText = "Loading…"
	EmptyText   = "No notes yet."
	ErrorPrefix = "Error: "

	DefaultTimeLayout = "2006-01-02 15:04:05"

	contentIndent = "    "
)

// Options задает формат вывода времени.
type Options struct {
	TimeLayout string
	Location   *time.Location
}

func (o Options) layout() string {
	if o.TimeLayout == "" {
		return DefaultTimeLayout
	}
	return o.TimeLayout
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Render пишет представление view в w.
func Render(w io.Writer, view app.View, opts Options) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, Heading)
	fmt.Fprintln(bw, strings.Repeat("=", len(Heading)))
	fmt.Fprintf(bw, "Title:   %s\n", view.DraftTitle)
	fmt.Fprintf(bw, "Content: %s\n", view.DraftContent)
	fmt.Fprintf(bw, "%s %s\n", button("Create", view.CanSubmit), button("Refresh", view.CanRefresh))

	if view.Loading {
		fmt.Fprintln(bw, LoadingText)
	}
	if view.Error != nil {
		fmt.Fprintln(bw, ErrorPrefix+*view.Error)
	}

	fmt.Fprintln(bw)
	for _, n := range view.Sorted {
		title := n.Title
		if title == "" {
			title = Untitled
		}
		fmt.Fprintf(bw, "* %s\n", title)
		fmt.Fprintf(bw, "  %s\n", FormatTimestamp(n.UpdatedAt, opts))
		if n.Content != "" {
			for _, line := range strings.Split(n.Content, "\n") {
				fmt.Fprintln(bw, contentIndent+line)
			}
		}
	}

	if len(view.Sorted) == 0 && !view.Loading {
		fmt.Fprintln(bw, EmptyText)
	}

	return bw.Flush()
}

// FormatTimestamp показывает RFC 3339 время в локальной зоне.
// Неразбираемое значение возвращается без изменений.
func FormatTimestamp(raw string, opts Options) string {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return raw
	}
	return t.In(opts.location()).Format(opts.layout())
}

func button(label string, enabled bool) string {
	if enabled {
		return "[" + label + "]"
	}
	return "[" + label + " (disabled)]"
}
