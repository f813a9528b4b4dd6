package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"bridgeway_site_echo/internal/components"
	"bridgeway_site_echo/internal/content"
	"bridgeway_site_echo/internal/i18n"
)

// Context keys set by middleware and read when rendering
const (
	ThemeKey     = "theme"
	LocalizerKey = "localizer"
)

// Breadcrumb represents a navigation trail
type Breadcrumb = components.Breadcrumb

// LanguageOption is an entry in the language switcher
type LanguageOption struct {
	Code   string
	Label  string
	Active bool
}

// PageData is the common data structure passed to page templates.
// Fields left empty by handlers are filled in by the renderer.
type PageData struct {
	Title       string
	Description string
	ActiveNav   string
	Breadcrumbs []Breadcrumb

	Theme           string
	L               *i18n.Localizer
	Languages       []LanguageOption
	Path            string
	Site            *content.Site
	TranslateWidget bool
	Year            int

	Data interface{} // Page-specific data
}

// Options configures the renderer's injected defaults
type Options struct {
	Site            *content.Site
	Bundle          *i18n.Bundle
	DefaultTheme    string
	TranslateWidget bool
}

// TemplateRenderer is an html/template renderer for Echo.
// Each page is parsed into its own clone of the base layout so every page can
// define the same block names.
type TemplateRenderer struct {
	templates map[string]*template.Template
	opts      Options
}

var languageLabels = map[string]string{
	"en":      "English",
	"zh-Hans": "简体中文",
	"vi":      "Tiếng Việt",
	"ar":      "العربية",
}

// NewTemplateRenderer parses layouts/*.html and partials/*.html as the base,
// then clones it once per pages/*.html.
func NewTemplateRenderer(files fs.FS, opts Options) (*TemplateRenderer, error) {
	if opts.DefaultTheme == "" {
		opts.DefaultTheme = "light"
	}

	base, err := template.New("base").Funcs(Funcs()).ParseFS(files, "layouts/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	if _, err := base.ParseFS(files, "partials/*.html"); err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}

	pages, err := fs.Glob(files, "pages/*.html")
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		pageTemplate, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", page, err)
		}
		if _, err := pageTemplate.ParseFS(files, page); err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		templates[path.Base(page)] = pageTemplate
	}

	return &TemplateRenderer{templates: templates, opts: opts}, nil
}

// Has reports whether a page template exists
func (t *TemplateRenderer) Has(name string) bool {
	_, ok := t.templates[name]
	return ok
}

// Render renders a page template inside the base layout
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := t.templates[name]
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "Template not found: "+name)
	}

	var page *PageData
	switch d := data.(type) {
	case *PageData:
		page = d
	case PageData:
		page = &d
	case nil:
		page = &PageData{}
	default:
		page = &PageData{Data: d}
	}
	t.inject(page, c)

	return tmpl.ExecuteTemplate(w, "base", page)
}

// inject fills request-scoped fields the handler did not set
func (t *TemplateRenderer) inject(page *PageData, c echo.Context) {
	if page.Theme == "" {
		if theme, ok := c.Get(ThemeKey).(string); ok && theme != "" {
			page.Theme = theme
		} else {
			page.Theme = t.opts.DefaultTheme
		}
	}
	if page.L == nil {
		if l, ok := c.Get(LocalizerKey).(*i18n.Localizer); ok && l != nil {
			page.L = l
		} else {
			page.L = t.opts.Bundle.For(i18n.Default)
		}
	}
	if page.Path == "" {
		page.Path = c.Request().URL.Path
	}
	if page.Site == nil {
		page.Site = t.opts.Site
	}
	if page.Languages == nil {
		current := page.L.Lang()
		for _, tag := range i18n.Supported {
			code := tag.String()
			page.Languages = append(page.Languages, LanguageOption{
				Code:   code,
				Label:  languageLabels[code],
				Active: code == current,
			})
		}
	}
	page.TranslateWidget = t.opts.TranslateWidget
	if page.Year == 0 {
		page.Year = time.Now().Year()
	}
}

// Funcs are the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("2 January 2006")
		},
		"isoDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"telHref": func(phone string) template.URL {
			return template.URL("tel:" + strings.NewReplacer(" ", "", "(", "", ")", "").Replace(phone))
		},
		"topicLabel": func(topic string) string {
			words := strings.Split(topic, "-")
			for i, w := range words {
				if w != "" {
					words[i] = strings.ToUpper(w[:1]) + w[1:]
				}
			}
			return strings.Join(words, " ")
		},
		"isActive": func(current, path string) bool {
			if path == "/" {
				return current == "/"
			}
			return current == path || strings.HasPrefix(current, path+"/")
		},
		"join":        strings.Join,
		"breadcrumbs": components.Breadcrumbs,
		"component":   renderComponent,
	}
}

// renderComponent embeds a templ component in an html/template page
func renderComponent(c templ.Component) (template.HTML, error) {
	if c == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
