// Package render builds the Telegram HTML bodies of game messages as templ components.
package render

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/a-h/templ"
)

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func (h *htmlWriter) text(s string) {
	h.raw("%s", templ.EscapeString(s))
}

func (h *htmlWriter) bold(s string) {
	h.raw("<b>%s</b>", templ.EscapeString(s))
}

func (h *htmlWriter) italic(s string) {
	h.raw("<i>%s</i>", templ.EscapeString(s))
}

func (h *htmlWriter) line(s string) {
	h.text(s)
	h.raw("\n")
}

func component(fn func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(h)
		return h.err
	})
}

// String renders a component into a message body.
func String(c templ.Component) string {
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		log.Printf("render message failed error=%v", err)
		return ""
	}
	return strings.TrimRight(b.String(), "\n")
}

// Notice is a plain escaped line of text.
func Notice(text string) templ.Component {
	return component(func(h *htmlWriter) {
		h.text(text)
	})
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "никого"
	}
	return strings.Join(names, ", ")
}
