package crawl

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CandidateSlugs are the path keywords that mark a link as a company-profile
// style page worth visiting.
var CandidateSlugs = []string{
	"about", "team", "people", "leadership", "contact", "contacts", "imprint",
	"impressum", "press", "news", "media", "blog", "stories", "updates",
	"company", "who-we-are", "careers",
}

// PlanCandidates enumerates the hyperlinks of a fetched page, resolves each
// against the page's base URL, and keeps the http(s) links whose lowercased
// absolute form contains one of the candidate slugs. The result is
// deduplicated in first-seen order and truncated to budget-1 entries, the
// homepage itself having consumed one slot of the page budget.
func PlanCandidates(p *Page, slugs []string, budget int) []string {
	limit := budget - 1
	if limit <= 0 {
		return nil
	}
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil
	}

	seen := map[string]struct{}{}
	var out []string
	p.doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return true
		}
		absStr := abs.String()
		if !hasSlug(absStr, slugs) {
			return true
		}
		if _, ok := seen[absStr]; ok {
			return true
		}
		seen[absStr] = struct{}{}
		out = append(out, absStr)
		return len(out) < limit
	})
	return out
}
