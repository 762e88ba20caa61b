// Package enrich implements the entity-resolution and merge-planning core:
// key normalization, richness scoring, match indexes over an external
// dataset, attribute extraction, and the never-overwrite patch planner.
package enrich

import (
	"strconv"
	"strings"
)

// Canonical attribute slot names. These double as the record store's
// destination field names.
const (
	FieldLocation          = "location"
	FieldTotalFunding      = "total_funding"
	FieldEmployeesCount    = "employees_count"
	FieldCEOEmail          = "ceo_email"
	FieldLinkedInURL       = "linkedin_url"
	FieldLatestFundingType = "latest funding type"

	FieldEmailReasoning      = "email_reasoning"
	FieldFinancialsReasoning = "financials_reasoning"

	FieldSources    = "enrichment_sources"
	FieldEnrichedAt = "last_enriched_at"
	FieldStatus     = "enrichment_status"
)

// WebTargetFields are the slots the crawl path tries to fill; crawling a
// site stops early once all of them are present.
var WebTargetFields = []string{
	FieldLocation,
	FieldTotalFunding,
	FieldEmployeesCount,
	FieldCEOEmail,
}

// DatasetTargetFields are the slots the dataset path can supply.
var DatasetTargetFields = []string{
	FieldTotalFunding,
	FieldEmployeesCount,
	FieldLocation,
	FieldLinkedInURL,
	FieldLatestFundingType,
}

// Attributes maps canonical slot names to values. The invariant throughout
// the core is that a present slot holds a trimmed non-empty string; absence
// is expressed by a missing key, never by "".
type Attributes map[string]string

// Set stores value under slot unless the trimmed value is empty.
func (a Attributes) Set(slot, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	a[slot] = value
}

// SetDefault stores value only when the slot is not yet present.
func (a Attributes) SetDefault(slot, value string) {
	if _, ok := a[slot]; ok {
		return
	}
	a.Set(slot, value)
}

// Has reports whether every given slot is present.
func (a Attributes) Has(slots ...string) bool {
	for _, s := range slots {
		if _, ok := a[s]; !ok {
			return false
		}
	}
	return true
}

// IsEmptyValue reports whether a record store field value counts as empty:
// nil, an empty or whitespace-only string, or an empty list.
func IsEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	default:
		return false
	}
}

// BandEmployeeCount maps a raw headcount onto the fixed band labels. Values
// that do not parse as integers pass through trimmed, so an upstream band
// label like "11-50" survives untouched.
func BandEmployeeCount(raw string) string {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	switch {
	case n <= 10:
		return "1-10"
	case n <= 50:
		return "11-50"
	case n <= 200:
		return "51-200"
	case n <= 500:
		return "201-500"
	default:
		return "500+"
	}
}

// StripQuotes removes one layer of surrounding straight or curly quotes.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	pairs := [][2]string{
		{`"`, `"`},
		{"'", "'"},
		{"“", "”"},
		{"‘", "’"},
	}
	for _, p := range pairs {
		if strings.HasPrefix(s, p[0]) && strings.HasSuffix(s, p[1]) && len(s) >= len(p[0])+len(p[1]) {
			s = strings.TrimSpace(s[len(p[0]) : len(s)-len(p[1])])
		}
	}
	return s
}
