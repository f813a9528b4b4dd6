package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// ErrorPanelProps is everything the error panel shows. The labels arrive
// translated.
type ErrorPanelProps struct {
	Code           int
	Title          string
	Message        string
	Reference      string
	ReferenceLabel string
	HomeLabel      string
	HomeURL        string
}

// ErrorPanel renders the body of the error page
func ErrorPanel(props ErrorPanelProps) templ.Component {
	if props.HomeURL == "" {
		props.HomeURL = "/"
	}
	if props.ReferenceLabel == "" {
		props.ReferenceLabel = "Reference"
	}
	if props.HomeLabel == "" {
		props.HomeLabel = "Back to home"
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := newWriter(w)
		out.raw(`<section class="error-page" role="alert" data-status="`)
		out.text(strconv.Itoa(props.Code))
		out.raw(`"><h1>`)
		out.text(props.Title)
		out.raw(`</h1><p>`)
		out.text(props.Message)
		out.raw(`</p>`)
		if props.Reference != "" {
			out.raw(`<p class="reference">`)
			out.text(props.ReferenceLabel)
			out.raw(`: <code>`)
			out.text(props.Reference)
			out.raw(`</code></p>`)
		}
		out.raw(`<p><a class="button" href="`)
		out.text(string(templ.URL(props.HomeURL)))
		out.raw(`">`)
		out.text(props.HomeLabel)
		out.raw(`</a></p></section>`)
		return out.err
	})
}
