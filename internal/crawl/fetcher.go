package crawl

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Fetcher retrieves a single page. ok=false covers every failure mode —
// timeout, non-2xx, transport error — uniformly as "no data for this page";
// callers never distinguish subtypes.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (html string, base string, ok bool)
}

// CollyFetcher implements Fetcher with a Colly collector cloned per request.
type CollyFetcher struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// FetcherConfig controls collector behavior.
type FetcherConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// NewCollyFetcher constructs a configured Colly-based Fetcher.
func NewCollyFetcher(cfg FetcherConfig, logger *zap.Logger) *CollyFetcher {
	base := colly.NewCollector(colly.UserAgent(cfg.UserAgent))
	base.AllowURLRevisit = true
	// Robots handling lives in RobotsPolicy so a disallow can be logged and
	// skipped instead of surfacing as a fetch error.
	base.IgnoreRobotsTxt = true
	base.WithTransport(&http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	base.SetRequestTimeout(timeout)
	return &CollyFetcher{baseCollector: base, logger: logger}
}

type fetchResult struct {
	html string
	base string
	err  error
}

// Fetch executes a single GET and returns the body plus the resolved final
// URL, or ok=false on any failure.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (string, string, bool) {
	collector := f.baseCollector.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() { resultCh <- res })
	}

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{
			html: string(r.Body),
			base: r.Request.URL.String(),
		})
	})
	collector.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		send(fetchResult{err: err})
	})

	if err := collector.Visit(rawURL); err != nil {
		f.logger.Debug("page fetch rejected", zap.String("url", rawURL), zap.Error(err))
		return "", "", false
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if res.err != nil || ctx.Err() != nil {
			f.logger.Debug("page fetch failed", zap.String("url", rawURL), zap.Error(res.err))
			return "", "", false
		}
		return res.html, res.base, true
	default:
		return "", "", false
	}
}
