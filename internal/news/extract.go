package news

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Metadata is what a scrape yields. Any field may be empty.
type Metadata struct {
	Title     string `json:"title,omitempty"`
	Image     string `json:"image,omitempty"`
	Published string `json:"published,omitempty"`
	Author    string `json:"author,omitempty"`
}

// Empty reports whether the scrape found nothing usable
func (m Metadata) Empty() bool {
	return m.Title == "" && m.Image == "" && m.Published == ""
}

var (
	proxyTitlePattern     = regexp.MustCompile(`(?m)^Title:\s*(.+?)\s*$`)
	proxyPublishedPattern = regexp.MustCompile(`(?m)^Published Time:\s*(.+?)\s*$`)
	markdownImagePattern  = regexp.MustCompile(`!\[[^\]]*\]\((https?://[^\s)]+)\)`)
	ldDatePublished       = regexp.MustCompile(`"datePublished"\s*:\s*"([^"]+)"`)
	ldImagePattern        = regexp.MustCompile(`"image"\s*:\s*"(https?://[^"]+)"`)
	metaOGTitlePattern    = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:title["'][^>]*content=["']([^"']+)["']`)
	metaOGImagePattern    = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:image["'][^>]*content=["']([^"']+)["']`)
)

// Extract pulls title, image and publish date out of a proxy response. The
// body may be raw HTML or the proxy's text rendering ("Title: ...",
// "Published Time: ...", markdown content); both are tried and the first
// non-empty value per field wins.
func Extract(body string) Metadata {
	var m Metadata
	if looksLikeHTML(body) {
		m = extractHTML(body)
	}

	fill(&m.Title, firstGroup(metaOGTitlePattern, body))
	fill(&m.Title, firstGroup(proxyTitlePattern, body))
	fill(&m.Image, firstGroup(metaOGImagePattern, body))
	fill(&m.Image, firstGroup(ldImagePattern, body))
	fill(&m.Image, firstGroup(markdownImagePattern, body))
	fill(&m.Published, firstGroup(ldDatePublished, body))
	fill(&m.Published, firstGroup(proxyPublishedPattern, body))

	m.Title = html.UnescapeString(strings.TrimSpace(m.Title))
	m.Image = html.UnescapeString(strings.TrimSpace(m.Image))
	m.Published = strings.TrimSpace(m.Published)
	return m
}

func looksLikeHTML(body string) bool {
	head := strings.ToLower(body)
	if len(head) > 4096 {
		head = head[:4096]
	}
	return strings.Contains(head, "<html") || strings.Contains(head, "<head") || strings.Contains(head, "<meta")
}

// extractHTML walks the document for Open Graph, Twitter card and article
// meta tags, with <title> as the last resort for the title.
func extractHTML(body string) Metadata {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return Metadata{}
	}

	meta := make(map[string]string)
	var docTitle string

	var walk func(n *html.Node, depth int)
	walk = func(n *html.Node, depth int) {
		if depth > 64 {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				key := strings.ToLower(attr(n, "property"))
				if key == "" {
					key = strings.ToLower(attr(n, "name"))
				}
				if key == "" {
					key = strings.ToLower(attr(n, "itemprop"))
				}
				if key != "" {
					if _, exists := meta[key]; !exists {
						meta[key] = attr(n, "content")
					}
				}
			case "title":
				if docTitle == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					docTitle = n.FirstChild.Data
				}
			case "body":
				// Metadata lives in <head>; skip the rest of the document.
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, depth+1)
		}
	}
	walk(doc, 0)

	m := Metadata{
		Title:     firstNonEmpty(meta["og:title"], meta["twitter:title"]),
		Image:     firstNonEmpty(meta["og:image"], meta["og:image:url"], meta["twitter:image"]),
		Published: firstNonEmpty(meta["article:published_time"], meta["datepublished"], meta["date"], meta["pubdate"]),
		Author:    firstNonEmpty(meta["author"], meta["article:author"]),
	}
	fill(&m.Title, docTitle)
	return m
}

type noembedResponse struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	AuthorName   string `json:"author_name"`
	ProviderName string `json:"provider_name"`
	Error        string `json:"error"`
}

// decodeNoembed turns a noembed JSON payload into Metadata
func decodeNoembed(data []byte) (Metadata, error) {
	var r noembedResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return Metadata{}, err
	}
	if r.Error != "" {
		return Metadata{}, &ProviderError{Provider: "noembed", Message: r.Error}
	}
	return Metadata{
		Title:  strings.TrimSpace(r.Title),
		Image:  strings.TrimSpace(r.ThumbnailURL),
		Author: strings.TrimSpace(r.AuthorName),
	}, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func fill(dst *string, value string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = value
	}
}
