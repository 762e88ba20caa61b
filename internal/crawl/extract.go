package crawl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/seedlist/enricher/internal/enrich"
)

// Provenance tags attached to extracted values.
const (
	SourceJSONLD        = "jsonld"
	SourceTeamCount     = "team-count"
	SourceHomepageEmail = "homepage-mailto"
	SourceMailto        = "mailto"
	SourceFooter        = "footer"
	SourceArticle       = "article"
)

var (
	emailRe  = regexp.MustCompile(`(?i)[A-Z0-9._%+\-]+@[A-Z0-9.\-]+\.[A-Z]{2,}`)
	moneyRe  = regexp.MustCompile(`(?i)([$€£]|USD|EUR|GBP)\s?((?:\d{1,3}(?:[,\s]\d{3})+|\d+)(?:\.\d+)?)\s*(million|billion|thousand|bn|m|b|k)?`)
	roundRe  = regexp.MustCompile(`(?i)(pre-?seed|seed|series\s+[abcde]|angel|grant)`)
	raisedRe = regexp.MustCompile(`(?i)\b(raised|raises|raise|secured|closed|financing|funding|investment)\b`)

	// Trailing "City, Region" run at the end of a footer's text.
	footerLocRe = regexp.MustCompile(`([A-Z][A-Za-z\-\s]+),\s*([A-Z][A-Za-z\-\s]+)$`)
)

var execTitleKeywords = []string{
	"ceo", "chief executive", "founder", "co-founder", "owner", "managing director",
}

// NewsSlugs marks URLs worth scanning for funding announcements.
var NewsSlugs = []string{"news", "press", "blog", "stories", "updates", "media"}

// LeadershipSlugs marks pages where a single unambiguous corporate email is
// accepted even without an executive title nearby.
var LeadershipSlugs = []string{"team", "people", "leadership"}

var organizationTypes = map[string]struct{}{
	"organization": {}, "localbusiness": {}, "corp": {}, "corporation": {}, "ngo": {},
}

// Extraction is the partial result of running the cascade on one page.
type Extraction struct {
	Values  enrich.Attributes
	Sources []string
}

// Extractor applies the ordered heuristic cascade to pages of one site.
type Extractor struct {
	// Domain is the site's registered domain; only emails on it are kept.
	Domain string
}

// valueStrategy is one step of a per-attribute cascade: strategies run in
// order until one yields a non-empty value.
type valueStrategy struct {
	source string
	fn     func(p *Page) string
}

var locationStrategies = []valueStrategy{
	{SourceJSONLD, locationFromJSONLD},
	{SourceFooter, footerLocation},
}

var employeeStrategies = []valueStrategy{
	{SourceJSONLD, employeesFromJSONLD},
	{SourceTeamCount, teamCardCount},
}

// Extract runs every heuristic whose slot is still missing from found and
// returns only newly discovered values. Idempotent for identical input; a
// slot already present in found is never touched.
func (e *Extractor) Extract(p *Page, found enrich.Attributes) Extraction {
	out := Extraction{Values: enrich.Attributes{}}
	if !found.Has(enrich.FieldLocation) {
		runCascade(p, locationStrategies, enrich.FieldLocation, &out)
	}
	if !found.Has(enrich.FieldEmployeesCount) {
		runCascade(p, employeeStrategies, enrich.FieldEmployeesCount, &out)
	}
	if !found.Has(enrich.FieldCEOEmail) {
		e.extractEmail(p, &out)
	}
	if !found.Has(enrich.FieldTotalFunding) {
		extractFunding(p, &out)
	}
	return out
}

func runCascade(p *Page, strategies []valueStrategy, slot string, out *Extraction) {
	for _, s := range strategies {
		if v := safeValue(p, s.fn); v != "" {
			out.Values.Set(slot, v)
			out.Sources = append(out.Sources, s.source)
			return
		}
	}
}

// safeValue isolates one heuristic: a panic on a malformed page degrades to
// "no value" instead of aborting the batch.
func safeValue(p *Page, fn func(*Page) string) (v string) {
	defer func() {
		if recover() != nil {
			v = ""
		}
	}()
	return fn(p)
}

// --- location -------------------------------------------------------------

func locationFromJSONLD(p *Page) string {
	for _, obj := range p.JSONLD() {
		if !isOrganization(obj) {
			continue
		}
		addr, ok := obj["address"].(map[string]any)
		if !ok {
			continue
		}
		if loc := cityCountryFromAddress(addr); loc != "" {
			return loc
		}
	}
	return ""
}

func isOrganization(obj map[string]any) bool {
	var types []string
	switch t := obj["@type"].(type) {
	case string:
		types = []string{t}
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok {
				types = append(types, s)
			}
		}
	}
	for _, t := range types {
		if _, ok := organizationTypes[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

func cityCountryFromAddress(addr map[string]any) string {
	city := stringValue(addr["addressLocality"])
	if city == "" {
		city = stringValue(addr["addressRegion"])
	}
	country := ""
	switch c := addr["addressCountry"].(type) {
	case string:
		country = strings.TrimSpace(c)
	case map[string]any:
		country = stringValue(c["name"])
		if country == "" {
			country = stringValue(c["identifier"])
		}
	}
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case country != "":
		return country
	default:
		return city
	}
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func footerLocation(p *Page) string {
	footer := p.doc.Find("footer").First()
	if footer.Length() == 0 {
		return ""
	}
	txt := strings.Join(strings.Fields(footer.Text()), " ")
	m := footerLocRe.FindStringSubmatch(txt)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1]) + ", " + strings.TrimSpace(m[2])
}

// --- employees ------------------------------------------------------------

func employeesFromJSONLD(p *Page) string {
	for _, obj := range p.JSONLD() {
		n := obj["numberOfEmployees"]
		if n == nil {
			continue
		}
		if qv, ok := n.(map[string]any); ok {
			n = qv["value"]
		}
		if s := stringValue(n); s != "" {
			return enrich.BandEmployeeCount(s)
		}
	}
	return ""
}

// teamCardCount counts team-listing-looking elements: class/id hints plus an
// image or heading inside. Fewer than 2 is treated as noise, not a roster.
func teamCardCount(p *Page) string {
	sel := p.doc.Find(`[class*="team"], [class*="member"], [class*="person"], [class*="staff"], [id*="team"]`)
	count := 0
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Find("img, figure").Length() > 0 || s.Find("h1, h2, h3, h4, h5, h6").Length() > 0 {
			count++
		}
		return count < 200
	})
	if count < 2 {
		return ""
	}
	return enrich.BandEmployeeCount(strconv.Itoa(count))
}

// --- email ----------------------------------------------------------------

func (e *Extractor) extractEmail(p *Page, out *Extraction) {
	email, source := safeEmail(p, e.Domain)
	if email == "" {
		return
	}
	out.Values.Set(enrich.FieldCEOEmail, email)
	out.Sources = append(out.Sources, source)
	if p.Homepage {
		out.Values.Set(enrich.FieldEmailReasoning,
			fmt.Sprintf("Found mailto near CEO/Founder on homepage %s", p.URL))
	} else {
		out.Values.Set(enrich.FieldEmailReasoning,
			fmt.Sprintf("Found corporate email on %s", p.URL))
	}
}

func safeEmail(p *Page, domain string) (email, source string) {
	defer func() {
		if recover() != nil {
			email, source = "", ""
		}
	}()
	if em := execEmail(p, domain); em != "" {
		if p.Homepage {
			return em, SourceHomepageEmail
		}
		return em, SourceMailto
	}
	// On leadership-style pages a single domain-matching address is taken
	// at face value; two or more stay unresolved rather than guessed.
	if !p.Homepage && hasSlug(p.URL, LeadershipSlugs) {
		matches := domainEmails(collectEmails(p), domain)
		if len(matches) == 1 {
			return matches[0], SourceMailto
		}
	}
	return "", ""
}

// execEmail returns the first domain-matching email on a page that mentions
// an executive title anywhere in its visible text.
func execEmail(p *Page, domain string) string {
	text := strings.ToLower(p.Text())
	titled := false
	for _, kw := range execTitleKeywords {
		if strings.Contains(text, kw) {
			titled = true
			break
		}
	}
	if !titled {
		return ""
	}
	matches := domainEmails(collectEmails(p), domain)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// collectEmails gathers candidate addresses in document order: mailto links
// first, then email-shaped substrings in the visible text.
func collectEmails(p *Page) []string {
	seen := map[string]struct{}{}
	var emails []string
	add := func(em string) {
		em = strings.TrimSpace(em)
		if em == "" || !emailRe.MatchString(em) {
			return
		}
		key := strings.ToLower(em)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		emails = append(emails, em)
	}

	p.doc.Find(`a[href]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		low := strings.ToLower(href)
		if !strings.HasPrefix(low, "mailto:") {
			return
		}
		addr := href[len("mailto:"):]
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		add(addr)
	})
	for _, m := range emailRe.FindAllString(p.Text(), -1) {
		add(m)
	}
	return emails
}

func domainEmails(emails []string, domain string) []string {
	if domain == "" {
		return nil
	}
	suffix := "@" + strings.ToLower(domain)
	var out []string
	for _, em := range emails {
		if strings.HasSuffix(strings.ToLower(em), suffix) {
			out = append(out, em)
		}
	}
	return out
}

// --- funding --------------------------------------------------------------

var publishedMetaKeys = []string{
	"article:published_time",
	"og:published_time",
	"article:modified_time",
	"og:updated_time",
	"date",
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"2 January 2006",
}

// extractFunding scans news-style pages for a funding announcement: the text
// must carry a funding verb or a round-type token before a currency/amount
// pattern is trusted. The publication date, when discoverable, rides along
// in the reasoning string.
func extractFunding(p *Page, out *Extraction) {
	if !hasSlug(p.URL, NewsSlugs) {
		return
	}
	amount, reasoning := safeFunding(p)
	if amount == "" {
		return
	}
	out.Values.Set(enrich.FieldTotalFunding, amount)
	out.Values.Set(enrich.FieldFinancialsReasoning, reasoning)
	out.Sources = append(out.Sources, SourceArticle)
}

func safeFunding(p *Page) (amount, reasoning string) {
	defer func() {
		if recover() != nil {
			amount, reasoning = "", ""
		}
	}()
	text := p.Text()
	if !raisedRe.MatchString(text) && !roundRe.MatchString(text) {
		return "", ""
	}
	m := moneyRe.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	amount = normalizeMoney(m[1], m[2], m[3])
	if date := publicationDate(p); date != "" {
		reasoning = fmt.Sprintf("%s via site article (%s) %s", amount, date, p.URL)
	} else {
		reasoning = fmt.Sprintf("%s via site article %s", amount, p.URL)
	}
	return amount, reasoning
}

func normalizeMoney(currency, number, suffix string) string {
	out := currency + number
	if suffix != "" {
		out += " " + strings.ToLower(suffix)
	}
	return out
}

func publicationDate(p *Page) string {
	for _, key := range publishedMetaKeys {
		content := metaContent(p.doc, key)
		if content == "" {
			continue
		}
		if d := parseDate(content); d != "" {
			return d
		}
	}
	if dt, ok := p.doc.Find("time[datetime]").First().Attr("datetime"); ok {
		return parseDate(dt)
	}
	return ""
}

func metaContent(doc *goquery.Document, key string) string {
	for _, attr := range []string{"property", "name"} {
		sel := doc.Find(fmt.Sprintf(`meta[%s=%q]`, attr, key)).First()
		if content, ok := sel.Attr("content"); ok && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
	}
	return ""
}

func parseDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
