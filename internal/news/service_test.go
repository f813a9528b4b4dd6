package news

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridgeway_site_echo/internal/content"
)

type fakeFetcher struct {
	mu      sync.Mutex
	results map[string]Metadata
	errs    map[string]error
	calls   map[string]int
	delay   time.Duration
	total   atomic.Int64
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		results: make(map[string]Metadata),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, pageURL string) (Metadata, error) {
	f.total.Add(1)
	f.mu.Lock()
	f.calls[pageURL]++
	m, err := f.results[pageURL], f.errs[pageURL]
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Metadata{}, ctx.Err()
		}
	}
	if err != nil {
		return Metadata{}, err
	}
	return m, nil
}

func (f *fakeFetcher) callsFor(pageURL string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[pageURL]
}

func testOptions() Options {
	return Options{CacheTTL: time.Hour, FetchTimeout: time.Second, Concurrency: 2}
}

func TestArticlesMergesAndSorts(t *testing.T) {
	sources := []content.NewsSource{
		{URL: "https://news.example.org/a", Topic: "Aged Care"},
		{URL: "https://news.example.org/2023/02/01/b"},
		{URL: "https://news.example.org/c", Title: "Configured title", Date: "2024-08-01"},
		{URL: "https://down.example.org/d"},
	}
	f := newFakeFetcher()
	f.results["https://news.example.org/a"] = Metadata{Title: "Seniors lunch", Published: "2024-05-01T00:00:00Z", Image: "https://img/a.jpg"}
	f.results["https://news.example.org/2023/02/01/b"] = Metadata{Title: "Refugee families welcomed"}
	f.results["https://news.example.org/c"] = Metadata{Title: "Scraped title", Published: "2020-01-01"}
	f.errs["https://down.example.org/d"] = errors.New("boom")

	svc := NewService(sources, f, nil, testOptions(), nil)
	articles := svc.Articles(context.Background(), Filter{})
	require.Len(t, articles, 4)

	// Newest first; the unreachable source sinks to the epoch.
	assert.Equal(t, "Configured title", articles[0].Title)
	assert.Equal(t, DateConfigured, articles[0].DateSource)

	assert.Equal(t, "Seniors lunch", articles[1].Title)
	assert.Equal(t, "aged-care", articles[1].Topic)
	assert.Equal(t, DateScraped, articles[1].DateSource)
	assert.Equal(t, "https://img/a.jpg", articles[1].Image)

	assert.Equal(t, "Refugee families welcomed", articles[2].Title)
	assert.Equal(t, DateFromURL, articles[2].DateSource)
	assert.Equal(t, "settlement", articles[2].Topic)

	down := articles[3]
	assert.Equal(t, "down.example.org", down.Title)
	assert.False(t, down.Scraped)
	assert.Equal(t, Epoch, down.Published)
	assert.False(t, down.HasDate())
	assert.Equal(t, TopicGeneral, down.Topic)
}

func TestArticlesTopicFilterAndLimit(t *testing.T) {
	sources := []content.NewsSource{
		{URL: "https://a.org/1", Title: "One", Topic: "youth", Date: "2024-01-01"},
		{URL: "https://a.org/2", Title: "Two", Topic: "youth", Date: "2024-02-01"},
		{URL: "https://a.org/3", Title: "Three", Topic: "health", Date: "2024-03-01"},
	}
	svc := NewService(sources, nil, nil, testOptions(), nil)
	ctx := context.Background()

	youth := svc.Articles(ctx, Filter{Topic: "youth"})
	require.Len(t, youth, 2)
	assert.Equal(t, "Two", youth[0].Title)

	assert.Len(t, svc.Articles(ctx, Filter{Topic: TopicAll}), 3)
	assert.Len(t, svc.Articles(ctx, Filter{Limit: 1}), 1)
	assert.Empty(t, svc.Articles(ctx, Filter{Topic: "employment"}))

	assert.Equal(t, []string{"health", "youth"}, Topics(svc.Articles(ctx, Filter{})))
	assert.Equal(t, []string{"health", "youth"}, svc.Topics(ctx))
}

func TestArticlesUsesCache(t *testing.T) {
	src := content.NewsSource{URL: "https://a.org/cached"}
	f := newFakeFetcher()
	f.results[src.URL] = Metadata{Title: "Cached once"}

	svc := NewService([]content.NewsSource{src}, f, NewMemoryCache(), testOptions(), nil)
	ctx := context.Background()

	svc.Articles(ctx, Filter{})
	svc.Articles(ctx, Filter{})
	assert.Equal(t, 1, f.callsFor(src.URL))
}

func TestFailuresAreNotCached(t *testing.T) {
	src := content.NewsSource{URL: "https://a.org/flaky"}
	f := newFakeFetcher()
	f.errs[src.URL] = errors.New("timeout")
	cache := NewMemoryCache()

	svc := NewService([]content.NewsSource{src}, f, cache, testOptions(), nil)
	ctx := context.Background()

	svc.Articles(ctx, Filter{})
	svc.Articles(ctx, Filter{})
	assert.Equal(t, 2, f.callsFor(src.URL))
	assert.Equal(t, 0, cache.Len())
}

func TestEmptyMetadataCountsAsFailure(t *testing.T) {
	src := content.NewsSource{URL: "https://a.org/blank", Title: "Configured"}
	f := newFakeFetcher()
	f.results[src.URL] = Metadata{}

	svc := NewService([]content.NewsSource{src}, f, nil, testOptions(), nil)
	articles := svc.Articles(context.Background(), Filter{})
	require.Len(t, articles, 1)
	assert.False(t, articles[0].Scraped)
	assert.Equal(t, "Configured", articles[0].Title)
}

func TestRefreshBypassesCache(t *testing.T) {
	sources := []content.NewsSource{{URL: "https://a.org/1"}, {URL: "https://a.org/2"}}
	f := newFakeFetcher()
	f.results["https://a.org/1"] = Metadata{Title: "Fresh"}
	f.errs["https://a.org/2"] = errors.New("down")

	svc := NewService(sources, f, nil, testOptions(), nil)
	ctx := context.Background()

	svc.Articles(ctx, Filter{})
	result := svc.Refresh(ctx)

	assert.Equal(t, RefreshResult{Total: 2, Scraped: 1, Failed: 1}, result)
	assert.Equal(t, 2, f.callsFor("https://a.org/1"))
}

func TestConcurrentRequestsShareFetch(t *testing.T) {
	src := content.NewsSource{URL: "https://a.org/slow"}
	f := newFakeFetcher()
	f.results[src.URL] = Metadata{Title: "Slow"}
	f.delay = 100 * time.Millisecond

	svc := NewService([]content.NewsSource{src}, f, nil, testOptions(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Articles(context.Background(), Filter{})
		}()
	}
	wg.Wait()

	assert.Less(t, f.total.Load(), int64(8))
}

func TestFetchTimeoutFallsBack(t *testing.T) {
	src := content.NewsSource{URL: "https://slow.example.org/x"}
	f := newFakeFetcher()
	f.results[src.URL] = Metadata{Title: "Too late"}
	f.delay = time.Second

	opts := testOptions()
	opts.FetchTimeout = 20 * time.Millisecond
	svc := NewService([]content.NewsSource{src}, f, nil, opts, nil)

	articles := svc.Articles(context.Background(), Filter{})
	require.Len(t, articles, 1)
	assert.Equal(t, "slow.example.org", articles[0].Title)
}

func failingSources(n int) ([]content.NewsSource, *fakeFetcher) {
	f := newFakeFetcher()
	sources := make([]content.NewsSource, n)
	for i := range sources {
		sources[i] = content.NewsSource{URL: "https://down.example.org/" + string(rune('a'+i))}
		f.errs[sources[i].URL] = errors.New("proxy unreachable")
	}
	return sources, f
}

func TestListingResolvesEachSourceOnce(t *testing.T) {
	sources, f := failingSources(6)
	svc := NewService(sources, f, nil, testOptions(), nil)

	articles, topics := svc.Listing(context.Background(), Filter{})
	assert.Len(t, articles, 6)
	assert.Equal(t, []string{TopicGeneral}, topics)
	assert.Equal(t, int64(6), f.total.Load())
}

func TestCancelledContextSkipsFetches(t *testing.T) {
	sources, f := failingSources(4)
	svc := NewService(sources, f, nil, testOptions(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	articles := svc.Articles(ctx, Filter{})
	require.Len(t, articles, 4)
	for _, a := range articles {
		assert.False(t, a.Scraped)
		assert.Equal(t, "down.example.org", a.Title)
	}
	assert.Zero(t, f.total.Load())
}

func TestCancellationStopsWaiting(t *testing.T) {
	src := content.NewsSource{URL: "https://slow.example.org/y", Title: "Configured"}
	f := newFakeFetcher()
	f.results[src.URL] = Metadata{Title: "Late"}
	f.delay = 300 * time.Millisecond

	svc := NewService([]content.NewsSource{src}, f, nil, testOptions(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	articles := svc.Articles(ctx, Filter{})
	assert.Less(t, time.Since(start), 200*time.Millisecond)
	require.Len(t, articles, 1)
	assert.Equal(t, "Configured", articles[0].Title)
	assert.False(t, articles[0].Scraped)

	// the shared fetch still completes and fills the cache
	assert.Eventually(t, func() bool {
		return svc.Articles(context.Background(), Filter{})[0].Scraped
	}, 2*time.Second, 50*time.Millisecond)
}

func TestFailureBackoff(t *testing.T) {
	sources, f := failingSources(2)
	opts := testOptions()
	opts.FailureBackoff = time.Minute
	svc := NewService(sources, f, nil, opts, nil)

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	svc.Articles(ctx, Filter{})
	svc.Articles(ctx, Filter{})
	assert.Equal(t, int64(2), f.total.Load())

	now = now.Add(2 * time.Minute)
	svc.Articles(ctx, Filter{})
	assert.Equal(t, int64(4), f.total.Load())

	// Refresh ignores the backoff
	result := svc.Refresh(ctx)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, int64(6), f.total.Load())
}
