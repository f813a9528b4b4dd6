// Package components holds the templ components shared by pages: the
// breadcrumb trail and the error panel.
package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Breadcrumb represents a navigation trail entry. An empty URL marks the
// current page.
type Breadcrumb struct {
	Title string
	URL   string
}

// Breadcrumbs renders the trail as an ordered list, or nothing when empty
func Breadcrumbs(items []Breadcrumb) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(items) == 0 {
			return nil
		}
		out := newWriter(w)
		out.raw(`<nav class="breadcrumbs" aria-label="Breadcrumb"><ol>`)
		for _, item := range items {
			out.raw(`<li>`)
			if item.URL != "" {
				out.raw(`<a href="`)
				out.text(string(templ.URL(item.URL)))
				out.raw(`">`)
				out.text(item.Title)
				out.raw(`</a>`)
			} else {
				out.raw(`<span aria-current="page">`)
				out.text(item.Title)
				out.raw(`</span>`)
			}
			out.raw(`</li>`)
		}
		out.raw(`</ol></nav>`)
		return out.err
	})
}

// writer keeps the first write error so components read top to bottom
type writer struct {
	w   io.Writer
	err error
}

func newWriter(w io.Writer) *writer {
	return &writer{w: w}
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}
