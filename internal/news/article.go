// Package news aggregates external articles about the organisation.
//
// Metadata (title, preview image, publish date) is scraped best-effort through a
// read-only rendering proxy, or through noembed for social/video links. Every
// failure falls back to whatever the content table configured, and finally to
// the hostname and the Unix epoch, so callers never see an error.
package news

import (
	"sort"
	"time"
)

// DateSource records which tier produced an article's date
type DateSource string

const (
	DateConfigured DateSource = "configured"
	DateScraped    DateSource = "scraped"
	DateFromURL    DateSource = "url"
	DateUnknown    DateSource = "unknown"
)

// Epoch is the date given to articles whose date could not be derived
var Epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// TopicAll selects every topic in a Filter
const TopicAll = "all"

// Article is a news item ready to render
type Article struct {
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Image      string     `json:"image,omitempty"`
	Author     string     `json:"author,omitempty"`
	Source     string     `json:"source"`
	Published  time.Time  `json:"published"`
	DateSource DateSource `json:"date_source"`
	Topic      string     `json:"topic"`
	Scraped    bool       `json:"scraped"`
}

// HasDate reports whether the article's date is real rather than the epoch fallback
func (a Article) HasDate() bool {
	return a.DateSource != DateUnknown
}

// Filter narrows an article listing
type Filter struct {
	Topic string
	Limit int
}

// Apply filters by topic and truncates to Limit. An empty topic or TopicAll
// keeps everything; Limit <= 0 means no limit.
func (f Filter) Apply(articles []Article) []Article {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if f.Topic != "" && f.Topic != TopicAll && a.Topic != f.Topic {
			continue
		}
		out = append(out, a)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// SortArticles orders newest first; ties by title, then URL
func SortArticles(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]
		if !a.Published.Equal(b.Published) {
			return a.Published.After(b.Published)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.URL < b.URL
	})
}

// Topics returns the distinct topics present in articles, sorted
func Topics(articles []Article) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, a := range articles {
		if a.Topic == "" || seen[a.Topic] {
			continue
		}
		seen[a.Topic] = true
		topics = append(topics, a.Topic)
	}
	sort.Strings(topics)
	return topics
}
