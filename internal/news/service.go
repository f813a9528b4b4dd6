package news

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"bridgeway_site_echo/internal/content"
)

// Options tunes the Service. FailureBackoff is how long a source that failed
// to scrape is skipped by page requests; zero retries on every request.
type Options struct {
	CacheTTL       time.Duration
	FetchTimeout   time.Duration
	Concurrency    int
	FailureBackoff time.Duration
}

// Service resolves the configured news sources into sorted articles
type Service struct {
	sources []content.NewsSource
	fetcher Fetcher
	cache   Cache
	opts    Options
	logger  *zap.Logger
	group   singleflight.Group
	now     func() time.Time

	mu       sync.Mutex
	failedAt map[string]time.Time
}

// RefreshResult summarises a Refresh run
type RefreshResult struct {
	Total   int `json:"total"`
	Scraped int `json:"scraped"`
	Failed  int `json:"failed"`
}

// NewService creates a Service. A nil cache gets a MemoryCache and a nil
// logger a no-op logger.
func NewService(sources []content.NewsSource, fetcher Fetcher, cache Cache, opts Options, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 8 * time.Second
	}
	return &Service{
		sources:  sources,
		fetcher:  fetcher,
		cache:    cache,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		failedAt: make(map[string]time.Time),
	}
}

// Articles returns every source resolved to an Article, newest first, with f
// applied. It never fails: sources that cannot be scraped fall back to their
// configured values.
func (s *Service) Articles(ctx context.Context, f Filter) []Article {
	articles, _ := s.Listing(ctx, f)
	return articles
}

// Topics returns the distinct topics across all sources, sorted
func (s *Service) Topics(ctx context.Context) []string {
	_, topics := s.Listing(ctx, Filter{})
	return topics
}

// Listing resolves every source once and returns the filtered articles along
// with the topics of the unfiltered set.
func (s *Service) Listing(ctx context.Context, f Filter) ([]Article, []string) {
	articles, _ := s.resolveAll(ctx, true)
	SortArticles(articles)
	return f.Apply(articles), Topics(articles)
}

// Refresh scrapes every source again, ignoring cached values, and stores
// the fresh results.
func (s *Service) Refresh(ctx context.Context) RefreshResult {
	articles, scraped := s.resolveAll(ctx, false)
	return RefreshResult{
		Total:   len(articles),
		Scraped: scraped,
		Failed:  len(articles) - scraped,
	}
}

func (s *Service) resolveAll(ctx context.Context, useCache bool) ([]Article, int) {
	articles := make([]Article, len(s.sources))
	var scraped int64

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, src := range s.sources {
		i, src := i, src
		g.Go(func() error {
			// Sources not started before the caller gave up get their fallback.
			if ctx.Err() != nil {
				articles[i] = buildArticle(src, Metadata{}, false)
				return nil
			}
			meta, err := s.metadata(ctx, src.URL, useCache)
			if err != nil {
				s.logger.Debug("news metadata unavailable, using fallback",
					zap.String("url", src.URL), zap.Error(err))
			} else {
				atomic.AddInt64(&scraped, 1)
			}
			articles[i] = buildArticle(src, meta, err == nil)
			return nil
		})
	}
	_ = g.Wait()

	return articles, int(scraped)
}

// metadata returns cached metadata for pageURL or scrapes it. Concurrent
// callers for the same URL share one fetch. Only successful scrapes are cached;
// a failed source is skipped for FailureBackoff unless useCache is false.
func (s *Service) metadata(ctx context.Context, pageURL string, useCache bool) (Metadata, error) {
	key := CacheKey(pageURL)
	if useCache {
		var cached Metadata
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
		if s.backingOff(pageURL) {
			return Metadata{}, ErrBackingOff
		}
	}

	if s.fetcher == nil {
		return Metadata{}, ErrNoMetadata
	}

	ch := s.group.DoChan(pageURL, func() (interface{}, error) {
		// Detached so one caller's cancellation does not fail the others
		// sharing this fetch; the timeout still bounds it.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.FetchTimeout)
		defer cancel()

		m, err := s.fetcher.Fetch(fetchCtx, pageURL)
		if err == nil && m.Empty() {
			err = ErrNoMetadata
		}
		if err != nil {
			s.recordFailure(pageURL)
			return Metadata{}, err
		}
		s.clearFailure(pageURL)
		if err := s.cache.Set(fetchCtx, key, m, s.opts.CacheTTL); err != nil {
			s.logger.Warn("failed to cache news metadata", zap.String("url", pageURL), zap.Error(err))
		}
		return m, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Metadata{}, res.Err
		}
		return res.Val.(Metadata), nil
	case <-ctx.Done():
		return Metadata{}, ctx.Err()
	}
}

func (s *Service) backingOff(pageURL string) bool {
	if s.opts.FailureBackoff <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	failed, ok := s.failedAt[pageURL]
	return ok && s.now().Sub(failed) < s.opts.FailureBackoff
}

func (s *Service) recordFailure(pageURL string) {
	s.mu.Lock()
	s.failedAt[pageURL] = s.now()
	s.mu.Unlock()
}

func (s *Service) clearFailure(pageURL string) {
	s.mu.Lock()
	delete(s.failedAt, pageURL)
	s.mu.Unlock()
}

// CacheKey is the cache key for a page's metadata
func CacheKey(pageURL string) string {
	return "news:meta:" + pageURL
}

// buildArticle merges configured values, scraped metadata and derived
// fallbacks. Configured values win over scraped ones.
func buildArticle(src content.NewsSource, meta Metadata, scraped bool) Article {
	a := Article{
		URL:     src.URL,
		Source:  Hostname(src.URL),
		Title:   firstNonEmpty(src.Title, meta.Title),
		Image:   firstNonEmpty(src.Image, meta.Image),
		Author:  meta.Author,
		Scraped: scraped,
	}
	if a.Title == "" {
		a.Title = a.Source
	}
	if a.Title == "" {
		a.Title = src.URL
	}

	a.Published, a.DateSource = deriveDate(src.Date, meta.Published, src.URL, a.Image)

	if topic := NormalizeTopic(src.Topic); topic != "" {
		a.Topic = topic
	} else {
		a.Topic = DeriveTopic(a.Title, urlWords(src.URL))
	}
	return a
}

// urlWords strips the scheme and host so a domain such as
// agedcarenews.com.au does not skew topic matching.
func urlWords(pageURL string) string {
	rest := pageURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[i:]
	}
	return ""
}
