package render

import (
	"bytes"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"bridgeway_site_echo/internal/content"
	"bridgeway_site_echo/internal/i18n"
)

var testFiles = fstest.MapFS{
	"layouts/base.html": {Data: []byte(`{{define "base"}}<html lang="{{.L.Lang}}" data-theme="{{.Theme}}">{{template "nav" .}}|{{template "content" .}}</html>{{end}}`)},
	"partials/nav.html": {Data: []byte(`{{define "nav"}}{{range .Languages}}{{.Code}}{{if .Active}}*{{end}} {{end}}{{end}}`)},
	"pages/one.html":    {Data: []byte(`{{define "content"}}one:{{.Path}}:{{.Data}}{{end}}`)},
	"pages/two.html":    {Data: []byte(`{{define "content"}}two:{{.Title}}:{{.Site.Organisation.Name}}{{end}}`)},
}

func newRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	r, err := NewTemplateRenderer(testFiles, Options{
		Site:   &content.Site{Organisation: content.Organisation{Name: "Org"}},
		Bundle: i18n.MustLoad(),
	})
	require.NoError(t, err)
	return r
}

func newContext(target string) echo.Context {
	e := echo.New()
	return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
}

func TestRenderPerPageContent(t *testing.T) {
	r := newRenderer(t)
	assert.True(t, r.Has("one.html"))
	assert.True(t, r.Has("two.html"))
	assert.False(t, r.Has("three.html"))

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "one.html", "payload", newContext("/one")))
	assert.Equal(t, `<html lang="en" data-theme="light">en* zh-Hans vi ar |one:/one:payload</html>`, buf.String())

	buf.Reset()
	require.NoError(t, r.Render(&buf, "two.html", &PageData{Title: "Second"}, newContext("/two")))
	assert.Contains(t, buf.String(), "two:Second:Org")
}

func TestRenderUsesContextValues(t *testing.T) {
	r := newRenderer(t)
	c := newContext("/")
	c.Set(ThemeKey, "dark")
	c.Set(LocalizerKey, i18n.MustLoad().For(language.Vietnamese))

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "one.html", nil, c))
	assert.Contains(t, buf.String(), `<html lang="vi" data-theme="dark">`)
	assert.Contains(t, buf.String(), "en zh-Hans vi* ar")
}

func TestRenderMissingTemplate(t *testing.T) {
	r := newRenderer(t)
	err := r.Render(&bytes.Buffer{}, "missing.html", nil, newContext("/"))

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.Code)
}

func TestNewTemplateRendererParseError(t *testing.T) {
	files := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)},
		"partials/x.html":   {Data: []byte(`{{define "x"}}`)},
	}
	_, err := NewTemplateRenderer(files, Options{})
	assert.ErrorContains(t, err, "parse partials")
}

func TestFuncs(t *testing.T) {
	f := Funcs()

	telHref := f["telHref"].(func(string) template.URL)
	assert.Equal(t, template.URL("tel:0295550142"), telHref("(02) 9555 0142"))
	assert.Equal(t, template.URL("tel:000"), telHref("000"))

	topicLabel := f["topicLabel"].(func(string) string)
	assert.Equal(t, "Aged Care", topicLabel("aged-care"))
	assert.Equal(t, "General", topicLabel("general"))

	isActive := f["isActive"].(func(string, string) bool)
	assert.True(t, isActive("/", "/"))
	assert.False(t, isActive("/news", "/"))
	assert.True(t, isActive("/services/aged-care", "/services"))
	assert.False(t, isActive("/servicesx", "/services"))

	formatDate := f["formatDate"].(func(time.Time) string)
	assert.Equal(t, "20 June 2024", formatDate(time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)))
}
