package testimonials

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeShapes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantMeta  bool
	}{
		{name: "array", input: `[{"quote":"A","name":"x"},{"quote":"B","name":"y"}]`, wantCount: 2},
		{name: "object", input: `{"entries":[{"quote":"A","name":"x"}]}`, wantCount: 1},
		{name: "object with meta", input: `{"entries":[{"quote":"A"}],"meta":{"title":"T"}}`, wantCount: 1, wantMeta: true},
		{name: "drops blank quotes", input: `[{"quote":"  ","name":"x"},{"quote":"B"}]`, wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Len(t, doc.Entries, tt.wantCount)
			assert.Equal(t, tt.wantMeta, doc.Meta != nil)
		})
	}
}

func TestDecodeRejectsOtherShapes(t *testing.T) {
	for _, input := range []string{`"just a string"`, ``, `[{"quote": 1}]`, `{"entries": "nope"}`} {
		_, err := Decode(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestFeedMetaOverrides(t *testing.T) {
	doc := Document{
		Entries: []Entry{{Quote: "Q", Name: "N"}},
		Meta:    &Meta{Title: "Custom title", Subtitle: "  "},
	}

	feed := doc.Feed()
	assert.Equal(t, "Custom title", feed.Title)
	assert.Equal(t, Default().Subtitle, feed.Subtitle)
	assert.Equal(t, []Entry{{Quote: "Q", Name: "N"}}, feed.Entries)
}

func TestFeedEmptyEntriesKeepsDefaults(t *testing.T) {
	feed := Document{}.Feed()
	assert.Equal(t, Default(), feed)
}

func TestLoaderEmbedded(t *testing.T) {
	files := fstest.MapFS{
		"data/testimonials.json": {Data: []byte(`{"entries":[{"quote":"Hello","name":"Amal"}],"meta":{"subtitle":"Sub"}}`)},
	}

	feed := NewLoader(files, "data/testimonials.json", "", nil).Load(context.Background())
	require.Len(t, feed.Entries, 1)
	assert.Equal(t, "Amal", feed.Entries[0].Name)
	assert.Equal(t, "Sub", feed.Subtitle)
}

func TestLoaderFallsBackOnFailure(t *testing.T) {
	ctx := context.Background()

	missing := NewLoader(fstest.MapFS{}, "data/testimonials.json", "", nil)
	assert.Equal(t, Default(), missing.Load(ctx))

	broken := NewLoader(fstest.MapFS{"t.json": {Data: []byte("{not json")}}, "t.json", "", nil)
	assert.Equal(t, Default(), broken.Load(ctx))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()
	remote := NewLoader(nil, "", srv.URL, nil)
	assert.Equal(t, Default(), remote.Load(ctx))
}

func TestLoaderRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"quote":"Remote quote","name":"Sofia"}]`))
	}))
	defer srv.Close()

	feed := NewLoader(nil, "", srv.URL, nil).Load(context.Background())
	require.Len(t, feed.Entries, 1)
	assert.Equal(t, "Remote quote", feed.Entries[0].Quote)
}
