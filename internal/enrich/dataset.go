package enrich

import "strings"

// ExtractDatasetAttributes maps a matched datapoint's raw attribute bag onto
// the canonical slots. Funding and headcount values are stringified verbatim
// (no re-banding); location prefers the explicit city field and falls back
// to the first geo mention; round-type labels lose surrounding quotes and
// collapse to absent when nothing remains. Every slot is independently
// optional.
func ExtractDatasetAttributes(attr map[string]any) Attributes {
	out := Attributes{}

	if present(attr[datasetFunding]) {
		out.Set(FieldTotalFunding, Stringify(attr[datasetFunding]))
	}
	if present(attr[datasetCompanySize]) {
		out.Set(FieldEmployeesCount, Stringify(attr[datasetCompanySize]))
	}

	if present(attr[datasetHQCity]) {
		out.Set(FieldLocation, strings.TrimSpace(Stringify(attr[datasetHQCity])))
	} else if gm, ok := attr[datasetGeoMentions].([]any); ok && len(gm) > 0 {
		out.Set(FieldLocation, strings.TrimSpace(Stringify(gm[0])))
	}

	if present(attr[datasetLinkedIn]) {
		out.Set(FieldLinkedInURL, strings.TrimSpace(Stringify(attr[datasetLinkedIn])))
	}

	if s, ok := attr[datasetFundingType].(string); ok {
		out.Set(FieldLatestFundingType, StripQuotes(s))
	}

	return out
}
