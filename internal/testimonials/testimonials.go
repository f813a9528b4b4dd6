// Package testimonials loads the client quotes shown in the home page carousel.
package testimonials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Entry is a single client quote
type Entry struct {
	Quote    string `json:"quote"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Language string `json:"language,omitempty"`
}

// Meta carries optional overrides for the carousel heading
type Meta struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Feed is what the carousel renders
type Feed struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Entries  []Entry `json:"entries"`
}

// Document is the decoded asset. The file is either a bare array of entries
// or an object with "entries" and an optional "meta".
type Document struct {
	Entries []Entry
	Meta    *Meta
}

// Default is shown whenever the asset cannot be loaded
func Default() Feed {
	return Feed{
		Title:    "What our clients say",
		Subtitle: "Stories from the people and families we work alongside.",
		Entries: []Entry{
			{Quote: "When we arrived we did not know anyone. Bridgeway helped us find a home and a school for our children.", Name: "Farah", Role: "Settlement client"},
			{Quote: "The Tuesday group is the highlight of my week. I can speak my own language and make friends.", Name: "Mr Nguyen", Role: "Seniors group member"},
			{Quote: "Volunteering at homework club has taught me as much as the kids.", Name: "Grace", Role: "Volunteer"},
		},
	}
}

// Decode reads a testimonials document. Entries without a quote are dropped.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		return Document{}, fmt.Errorf("read testimonials: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	var doc Document
	switch {
	case strings.HasPrefix(trimmed, "["):
		if err := json.Unmarshal(data, &doc.Entries); err != nil {
			return Document{}, fmt.Errorf("decode testimonials array: %w", err)
		}
	case strings.HasPrefix(trimmed, "{"):
		var obj struct {
			Entries []Entry `json:"entries"`
			Meta    *Meta   `json:"meta"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return Document{}, fmt.Errorf("decode testimonials object: %w", err)
		}
		doc.Entries, doc.Meta = obj.Entries, obj.Meta
	default:
		return Document{}, errors.New("testimonials: expected a JSON array or object")
	}

	kept := doc.Entries[:0]
	for _, e := range doc.Entries {
		e.Quote = strings.TrimSpace(e.Quote)
		if e.Quote == "" {
			continue
		}
		kept = append(kept, e)
	}
	doc.Entries = kept
	return doc, nil
}

// Feed merges the document over the defaults: meta fields override the
// heading only when non-empty, and an empty entry list keeps the default quotes.
func (d Document) Feed() Feed {
	feed := Default()
	if d.Meta != nil {
		if t := strings.TrimSpace(d.Meta.Title); t != "" {
			feed.Title = t
		}
		if s := strings.TrimSpace(d.Meta.Subtitle); s != "" {
			feed.Subtitle = s
		}
	}
	if len(d.Entries) > 0 {
		feed.Entries = d.Entries
	}
	return feed
}

// Loader reads the testimonials asset from a remote URL when configured,
// otherwise from the embedded static files.
type Loader struct {
	files  fs.FS
	path   string
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewLoader creates a Loader. remoteURL may be empty.
func NewLoader(files fs.FS, path, remoteURL string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		files:  files,
		path:   path,
		url:    remoteURL,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
}

// Load returns the feed, or Default() if the asset is missing or malformed
func (l *Loader) Load(ctx context.Context) Feed {
	doc, err := l.read(ctx)
	if err != nil {
		l.logger.Warn("testimonials unavailable, using defaults", zap.Error(err))
		return Default()
	}
	return doc.Feed()
}

func (l *Loader) read(ctx context.Context) (Document, error) {
	if l.url != "" {
		return l.readRemote(ctx)
	}
	if l.files == nil {
		return Document{}, errors.New("no testimonials source configured")
	}
	f, err := l.files.Open(l.path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()
	return Decode(f)
}

func (l *Loader) readRemote(ctx context.Context) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return Document{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return Decode(resp.Body)
}
