package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxBodyBytes caps how much of a proxied page is read
const maxBodyBytes = 2 << 20

// ErrNoMetadata is returned when a page was fetched but nothing usable was found
var ErrNoMetadata = errors.New("no metadata found")

// ErrBackingOff is returned for a source that failed recently and is not retried yet
var ErrBackingOff = errors.New("source failed recently")

// ProviderError is an error reported inside a provider's response body
type ProviderError struct {
	Provider string
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Fetcher scrapes metadata for one article URL
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (Metadata, error)
}

// HTTPFetcher fetches metadata through the read-only rendering proxy, or
// noembed for social and video links.
type HTTPFetcher struct {
	client      *http.Client
	proxyBase   string
	noembedBase string
	userAgent   string
}

// NewHTTPFetcher creates a fetcher. Base URLs have no trailing slash, e.g.
// "https://r.jina.ai" and "https://noembed.com".
func NewHTTPFetcher(proxyBase, noembedBase string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:      &http.Client{Timeout: timeout},
		proxyBase:   strings.TrimRight(proxyBase, "/"),
		noembedBase: strings.TrimRight(noembedBase, "/"),
		userAgent:   "Mozilla/5.0 (compatible; BridgewaySite/1.0; +https://bridgeway.org.au)",
	}
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (Metadata, error) {
	if IsSocial(pageURL) {
		return f.fetchNoembed(ctx, pageURL)
	}
	return f.fetchProxy(ctx, pageURL)
}

func (f *HTTPFetcher) fetchProxy(ctx context.Context, pageURL string) (Metadata, error) {
	body, err := f.get(ctx, f.proxyBase+"/"+pageURL, "text/html,text/plain;q=0.9,*/*;q=0.5")
	if err != nil {
		return Metadata{}, err
	}
	m := Extract(string(body))
	if m.Empty() {
		return m, ErrNoMetadata
	}
	return m, nil
}

func (f *HTTPFetcher) fetchNoembed(ctx context.Context, pageURL string) (Metadata, error) {
	endpoint := f.noembedBase + "/embed?url=" + url.QueryEscape(pageURL)
	body, err := f.get(ctx, endpoint, "application/json")
	if err != nil {
		return Metadata{}, err
	}
	m, err := decodeNoembed(body)
	if err != nil {
		return Metadata{}, err
	}
	if m.Empty() {
		return m, ErrNoMetadata
	}
	return m, nil
}

func (f *HTTPFetcher) get(ctx context.Context, endpoint, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

var socialHosts = []string{
	"youtube.com", "youtu.be", "vimeo.com",
	"twitter.com", "x.com",
	"facebook.com", "fb.watch", "instagram.com",
}

// IsSocial reports whether pageURL points at a host better served by noembed
func IsSocial(pageURL string) bool {
	host := Hostname(pageURL)
	for _, h := range socialHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// Hostname returns the URL's host without a leading "www.", or "" if the URL
// does not parse.
func Hostname(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
