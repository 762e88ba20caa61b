// Package crawl implements the bounded web-extraction pipeline: candidate
// page planning, polite fetching, robots enforcement, and the per-page
// heuristic cascade that pulls canonical attributes out of markup.
package crawl

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is one fetched document prepared for extraction.
type Page struct {
	URL      string
	BaseURL  string
	Homepage bool

	doc    *goquery.Document
	text   string
	jsonLD []map[string]any
}

// ParsePage builds a Page from raw HTML. BaseURL is the resolved final URL
// used for relative link resolution.
func ParsePage(pageURL, baseURL, rawHTML string, homepage bool) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	return &Page{
		URL:      pageURL,
		BaseURL:  baseURL,
		Homepage: homepage,
		doc:      doc,
	}, nil
}

// Text returns the visible text of the page with element boundaries
// collapsed to single spaces, computed once.
func (p *Page) Text() string {
	if p.text == "" {
		var b strings.Builder
		for _, n := range p.doc.Nodes {
			visibleText(n, &b)
		}
		p.text = strings.TrimSpace(b.String())
	}
	return p.text
}

func visibleText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			b.WriteString(t)
			b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visibleText(c, b)
	}
}

// JSONLD returns every object found in ld+json script blocks, flattening
// top-level arrays and @graph containers. Malformed blocks are skipped.
func (p *Page) JSONLD() []map[string]any {
	if p.jsonLD != nil {
		return p.jsonLD
	}
	objs := []map[string]any{}
	p.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var decoded any
		if err := json.Unmarshal([]byte(s.Text()), &decoded); err != nil {
			return
		}
		objs = append(objs, flattenJSONLD(decoded)...)
	})
	p.jsonLD = objs
	return objs
}

func flattenJSONLD(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := []map[string]any{t}
		if graph, ok := t["@graph"].([]any); ok {
			for _, g := range graph {
				out = append(out, flattenJSONLD(g)...)
			}
		}
		return out
	case []any:
		var out []map[string]any
		for _, item := range t {
			out = append(out, flattenJSONLD(item)...)
		}
		return out
	default:
		return nil
	}
}

func hasSlug(rawURL string, slugs []string) bool {
	low := strings.ToLower(rawURL)
	for _, s := range slugs {
		if strings.Contains(low, s) {
			return true
		}
	}
	return false
}
