package enrich

// Match resolves a target record against the index. keyRaw is the record's
// primary key field (usually the company name, sometimes a pasted URL) and
// site its explicit website field; either may be empty.
//
// Three probes, each skipped when its input is absent: the site field
// against BySite, the key field against BySite when it looks like a URL,
// and the key field against ByName. The site-based candidate (explicit
// field preferred over key-as-URL) and the name-based candidate then
// compete on richness, ties going to the site-based match. A miss on every
// probe returns ok=false; unmatched is a normal outcome, not an error.
func (idx MatchIndex) Match(keyRaw, site string) (Datapoint, bool) {
	var siteHit, nameHit *Datapoint

	if site != "" {
		if dp, ok := idx.BySite[NormalizeKey(site)]; ok {
			siteHit = &dp
		}
	}
	if siteHit == nil && LooksLikeURL(keyRaw) {
		if dp, ok := idx.BySite[NormalizeKey(keyRaw)]; ok {
			siteHit = &dp
		}
	}
	if keyRaw != "" {
		if dp, ok := idx.ByName[NormalizeKey(keyRaw)]; ok {
			nameHit = &dp
		}
	}

	switch {
	case siteHit == nil && nameHit == nil:
		return Datapoint{}, false
	case siteHit == nil:
		return *nameHit, true
	case nameHit == nil:
		return *siteHit, true
	case Richness(siteHit.Attr) >= Richness(nameHit.Attr):
		return *siteHit, true
	default:
		return *nameHit, true
	}
}
