package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSocial(t *testing.T) {
	assert.True(t, IsSocial("https://www.youtube.com/watch?v=abc"))
	assert.True(t, IsSocial("https://youtu.be/abc"))
	assert.True(t, IsSocial("https://m.facebook.com/bridgeway/posts/1"))
	assert.True(t, IsSocial("https://x.com/bridgeway/status/1"))
	assert.False(t, IsSocial("https://www.sbs.com.au/news/article/x"))
	assert.False(t, IsSocial("https://box.com/file"))
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "abc.net.au", Hostname("https://www.abc.net.au/news/1"))
	assert.Equal(t, "example.org", Hostname("http://EXAMPLE.org"))
	assert.Equal(t, "", Hostname("://bad"))
}

func TestHTTPFetcherProxy(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Title: Hello from the proxy\n\nPublished Time: 2024-03-18\n"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "http://unused.invalid", 2*time.Second)
	m, err := f.Fetch(context.Background(), "https://www.sbs.com.au/news/article/x")
	require.NoError(t, err)

	assert.Equal(t, "Hello from the proxy", m.Title)
	assert.Equal(t, "2024-03-18", m.Published)
	assert.True(t, strings.HasSuffix(gotPath, "www.sbs.com.au/news/article/x"), gotPath)
}

func TestHTTPFetcherNoembed(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Camp video","thumbnail_url":"https://i.ytimg.com/x.jpg"}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher("http://unused.invalid", srv.URL, 2*time.Second)
	m, err := f.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)

	assert.Equal(t, "https://www.youtube.com/watch?v=abc", gotURL)
	assert.Equal(t, "Camp video", m.Title)
	assert.Equal(t, "https://i.ytimg.com/x.jpg", m.Image)
}

func TestHTTPFetcherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/embed") {
			_, _ = w.Write([]byte(`{"error":"no matching providers found"}`))
			return
		}
		if strings.Contains(r.URL.Path, "empty") {
			_, _ = w.Write([]byte("nothing useful here"))
			return
		}
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, srv.URL, 2*time.Second)

	_, err := f.Fetch(context.Background(), "https://example.org/limited")
	assert.ErrorContains(t, err, "429")

	_, err = f.Fetch(context.Background(), "https://example.org/empty")
	assert.ErrorIs(t, err, ErrNoMetadata)

	_, err = f.Fetch(context.Background(), "https://vimeo.com/1")
	var perr *ProviderError
	assert.ErrorAs(t, err, &perr)
}
