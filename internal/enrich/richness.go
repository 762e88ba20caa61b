package enrich

// Dataset-native attribute names, as they appear in the external dataset's
// raw attribute bags.
const (
	datasetName        = "Name"
	datasetWebsite     = "Website"
	datasetFunding     = "Total Funding"
	datasetCompanySize = "Company Size"
	datasetHQCity      = "HQ City"
	datasetGeoMentions = "Geo Mentions"
	datasetLinkedIn    = "LinkedIn"
	datasetFundingType = "Last Funding Type"
)

// Richness scores a raw dataset attribute bag by how many canonical target
// slots it can plausibly supply, one point each. The score only ranks
// competing candidates; its absolute value carries no meaning. Pure
// presence check, no quality weighting.
func Richness(attr map[string]any) int {
	score := 0
	if present(attr[datasetFunding]) {
		score++
	}
	if present(attr[datasetCompanySize]) {
		score++
	}
	if present(attr[datasetHQCity]) || listPresent(attr[datasetGeoMentions]) {
		score++
	}
	if present(attr[datasetLinkedIn]) {
		score++
	}
	if present(attr[datasetFundingType]) {
		score++
	}
	return score
}

func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

func listPresent(v any) bool {
	list, ok := v.([]any)
	return ok && len(list) > 0
}
