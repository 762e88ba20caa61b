package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/seedlist/enricher/internal/enrich"
	"github.com/seedlist/enricher/internal/metrics"
)

// SiteResult is everything one site crawl produced: canonical values,
// deduplicatable provenance tags, and the page count for reporting.
type SiteResult struct {
	Values       enrich.Attributes
	Sources      []string
	PagesVisited int
}

// SiteEnricher crawls one company site at a time: homepage first, then a
// bounded set of candidate pages, pausing between fetches and stopping early
// once every web target slot is filled.
type SiteEnricher struct {
	fetcher    Fetcher
	robots     RobotsPolicy
	slugs      []string
	pageBudget int
	pause      time.Duration
	logger     *zap.Logger
}

// NewSiteEnricher wires a SiteEnricher.
func NewSiteEnricher(fetcher Fetcher, robots RobotsPolicy, pageBudget int, pause time.Duration, logger *zap.Logger) *SiteEnricher {
	if pageBudget <= 0 {
		pageBudget = 12
	}
	return &SiteEnricher{
		fetcher:    fetcher,
		robots:     robots,
		slugs:      CandidateSlugs,
		pageBudget: pageBudget,
		pause:      pause,
		logger:     logger,
	}
}

// Enrich crawls the site behind website and returns whatever the heuristics
// could find. An unreachable or unparseable site yields an empty result,
// never an error.
func (s *SiteEnricher) Enrich(ctx context.Context, website string) SiteResult {
	result := SiteResult{Values: enrich.Attributes{}}
	domain := registeredDomain(website)
	if domain == "" {
		return result
	}
	home := "https://" + domain + "/"
	extractor := &Extractor{Domain: domain}

	var candidates []string
	if s.robots.Allowed(ctx, home) {
		if page, ok := s.fetchPage(ctx, home, true); ok {
			result.PagesVisited++
			s.apply(extractor, page, &result)
			candidates = PlanCandidates(page, s.slugs, s.pageBudget)
		}
	} else {
		metrics.ObserveRobotsBlocked()
	}

	for _, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		if result.Values.Has(enrich.WebTargetFields...) {
			break
		}
		if !s.robots.Allowed(ctx, candidate) {
			metrics.ObserveRobotsBlocked()
			continue
		}
		page, ok := s.fetchPage(ctx, candidate, false)
		if !ok {
			continue
		}
		result.PagesVisited++
		s.apply(extractor, page, &result)
	}

	s.applyReasoningDefaults(&result)
	return result
}

func (s *SiteEnricher) fetchPage(ctx context.Context, rawURL string, homepage bool) (*Page, bool) {
	html, base, ok := s.fetcher.Fetch(ctx, rawURL)
	sleepWithContext(ctx, s.pause)
	metrics.ObservePageFetch(ok)
	if !ok {
		return nil, false
	}
	page, err := ParsePage(rawURL, base, html, homepage)
	if err != nil {
		s.logger.Debug("page parse failed", zap.String("url", rawURL), zap.Error(err))
		return nil, false
	}
	return page, true
}

// apply folds one page's extraction into the accumulated result,
// first-found-wins across pages in crawl order.
func (s *SiteEnricher) apply(extractor *Extractor, page *Page, result *SiteResult) {
	extraction := extractor.Extract(page, result.Values)
	for slot, value := range extraction.Values {
		result.Values.SetDefault(slot, value)
	}
	result.Sources = append(result.Sources, extraction.Sources...)
}

func (s *SiteEnricher) applyReasoningDefaults(result *SiteResult) {
	if v, ok := result.Values[enrich.FieldTotalFunding]; ok {
		result.Values.SetDefault(enrich.FieldFinancialsReasoning, fmt.Sprintf("%s (from site)", v))
	}
	if result.Values.Has(enrich.FieldCEOEmail) {
		result.Values.SetDefault(enrich.FieldEmailReasoning, "Found mailto on site")
	}
}

// registeredDomain reduces a website field to its registered domain
// ("https://www.acme.co.uk/x" -> "acme.co.uk"). Empty when the value does
// not resolve to a usable host.
func registeredDomain(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return domain
}

func sleepWithContext(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
