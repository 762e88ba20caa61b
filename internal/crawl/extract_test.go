package crawl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seedlist/enricher/internal/enrich"
)

func TestLocationFromJSONLD(t *testing.T) {
	t.Parallel()

	p := mustPage(t, "https://acme.com/", `<html><head>
		<script type="application/ld+json">
		{"@type":"Organization","address":{"addressLocality":"Berlin","addressCountry":"DE"}}
		</script>
	</head><body></body></html>`, true)

	require.Equal(t, "Berlin, DE", locationFromJSONLD(p))
}

func TestLocationFromJSONLDCountryObject(t *testing.T) {
	t.Parallel()

	p := mustPage(t, "https://acme.com/", `<html><head>
		<script type="application/ld+json">
		{"@type":["Thing","LocalBusiness"],
		 "address":{"addressRegion":"Bavaria","addressCountry":{"name":"Germany"}}}
		</script>
	</head><body></body></html>`, true)

	require.Equal(t, "Bavaria, Germany", locationFromJSONLD(p))
}

func TestLocationIgnoresNonOrganization(t *testing.T) {
	t.Parallel()

	p := mustPage(t, "https://acme.com/", `<html><head>
		<script type="application/ld+json">
		{"@type":"Person","address":{"addressLocality":"Berlin"}}
		</script>
	</head><body></body></html>`, true)

	require.Equal(t, "", locationFromJSONLD(p))
}

func TestFooterLocation(t *testing.T) {
	t.Parallel()

	p := mustPage(t, "https://acme.com/", `<html><body>
		<footer><p>Berlin, Germany</p></footer>
	</body></html>`, true)
	require.Equal(t, "Berlin, Germany", footerLocation(p))

	p = mustPage(t, "https://acme.com/", `<html><body>
		<footer>All rights reserved. 2024</footer>
	</body></html>`, true)
	require.Equal(t, "", footerLocation(p))

	p = mustPage(t, "https://acme.com/", `<html><body><p>no footer</p></body></html>`, true)
	require.Equal(t, "", footerLocation(p))
}

func TestEmployeesFromJSONLD(t *testing.T) {
	t.Parallel()

	p := mustPage(t, "https://acme.com/", `<html><head>
		<script type="application/ld+json">
		{"@type":"Organization","numberOfEmployees":42}
		</script>
	</head><body></body></html>`, true)
	require.Equal(t, "11-50", employeesFromJSONLD(p))

	p = mustPage(t, "https://acme.com/", `<html><head>
		<script type="application/ld+json">
		{"@type":"Organization","numberOfEmployees":{"@type":"QuantitativeValue","value":180}}
		</script>
	</head><body></body></html>`, true)
	require.Equal(t, "51-200", employeesFromJSONLD(p))

	// Pre-banded labels pass through untouched.
	p = mustPage(t, "https://acme.com/", `<html><head>
		<script type="application/ld+json">
		{"@type":"Organization","numberOfEmployees":"11-50"}
		</script>
	</head><body></body></html>`, true)
	require.Equal(t, "11-50", employeesFromJSONLD(p))
}

func TestTeamCardCount(t *testing.T) {
	t.Parallel()

	p := mustPage(t, "https://acme.com/team", `<html><body>
		<div class="team-member"><img src="a.jpg"><h3>Jane</h3></div>
		<div class="team-member"><img src="b.jpg"><h3>Bob</h3></div>
		<div class="team-member"><figure></figure></div>
		<div class="team-banner">no face, no heading</div>
	</body></html>`, false)
	require.Equal(t, "1-10", teamCardCount(p))

	// A lone hit is layout noise, not a roster.
	p = mustPage(t, "https://acme.com/", `<html><body>
		<div class="team-member"><img src="a.jpg"></div>
	</body></html>`, true)
	require.Equal(t, "", teamCardCount(p))
}

func TestExtractEmailHomepageExecGate(t *testing.T) {
	t.Parallel()

	ex := &Extractor{Domain: "acme.com"}
	p := mustPage(t, "https://acme.com/", `<html><body>
		<p>Jane Doe, CEO</p>
		<a href="mailto:jane@acme.com">Email Jane</a>
		<a href="mailto:jane@gmail.com">Personal</a>
	</body></html>`, true)

	got := ex.Extract(p, enrich.Attributes{})
	require.Equal(t, "jane@acme.com", got.Values[enrich.FieldCEOEmail])
	require.Contains(t, got.Sources, SourceHomepageEmail)
	require.Equal(t,
		"Found mailto near CEO/Founder on homepage https://acme.com/",
		got.Values[enrich.FieldEmailReasoning])
}

func TestExtractEmailRequiresExecTitle(t *testing.T) {
	t.Parallel()

	ex := &Extractor{Domain: "acme.com"}
	p := mustPage(t, "https://acme.com/", `<html><body>
		<a href="mailto:info@acme.com">Contact</a>
	</body></html>`, true)

	got := ex.Extract(p, enrich.Attributes{})
	require.False(t, got.Values.Has(enrich.FieldCEOEmail))
}

func TestExtractEmailLeadershipSingleCandidate(t *testing.T) {
	t.Parallel()

	ex := &Extractor{Domain: "acme.com"}
	p := mustPage(t, "https://acme.com/team", `<html><body>
		<a href="mailto:bob@acme.com?subject=hi">Bob</a>
	</body></html>`, false)

	got := ex.Extract(p, enrich.Attributes{})
	require.Equal(t, "bob@acme.com", got.Values[enrich.FieldCEOEmail])
	require.Contains(t, got.Sources, SourceMailto)
	require.Equal(t, "Found corporate email on https://acme.com/team",
		got.Values[enrich.FieldEmailReasoning])
}

func TestExtractEmailLeadershipAmbiguous(t *testing.T) {
	t.Parallel()

	ex := &Extractor{Domain: "acme.com"}
	p := mustPage(t, "https://acme.com/team", `<html><body>
		<a href="mailto:bob@acme.com">Bob</a>
		<a href="mailto:sue@acme.com">Sue</a>
	</body></html>`, false)

	got := ex.Extract(p, enrich.Attributes{})
	require.False(t, got.Values.Has(enrich.FieldCEOEmail))
}

func TestExtractEmailOffDomainRejected(t *testing.T) {
	t.Parallel()

	ex := &Extractor{Domain: "acme.com"}
	p := mustPage(t, "https://acme.com/team", `<html><body>
		<p>Our founder</p>
		<a href="mailto:founder@othercorp.com">Mail</a>
	</body></html>`, false)

	got := ex.Extract(p, enrich.Attributes{})
	require.False(t, got.Values.Has(enrich.FieldCEOEmail))
}

func TestCollectEmailsOrderAndDedupe(t *testing.T) {
	t.Parallel()

	p := mustPage(t, "https://acme.com/", `<html><body>
		<p>Write to text-first@acme.com</p>
		<a href="mailto:link@acme.com">Link</a>
		<a href="mailto:LINK@acme.com">Link again</a>
	</body></html>`, true)

	// Mailto links come first, then text matches, case-insensitively deduped.
	require.Equal(t, []string{"link@acme.com", "text-first@acme.com"}, collectEmails(p))
}

func TestExtractFundingOnNewsPage(t *testing.T) {
	t.Parallel()

	ex := &Extractor{Domain: "acme.com"}
	p := mustPage(t, "https://acme.com/news/series-a", `<html><head>
		<meta property="article:published_time" content="2024-03-05T10:00:00Z">
	</head><body>
		<p>Acme today announced it raised $2.5 million in a Series A round.</p>
	</body></html>`, false)

	got := ex.Extract(p, enrich.Attributes{})
	require.Equal(t, "$2.5 million", got.Values[enrich.FieldTotalFunding])
	require.Equal(t, "$2.5 million via site article (2024-03-05) https://acme.com/news/series-a",
		got.Values[enrich.FieldFinancialsReasoning])
	require.Contains(t, got.Sources, SourceArticle)
}

func TestExtractFundingSlugGate(t *testing.T) {
	t.Parallel()

	ex := &Extractor{Domain: "acme.com"}
	p := mustPage(t, "https://acme.com/products", `<html><body>
		<p>Acme raised $2.5 million.</p>
	</body></html>`, false)

	got := ex.Extract(p, enrich.Attributes{})
	require.False(t, got.Values.Has(enrich.FieldTotalFunding))
}

func TestExtractFundingVerbGate(t *testing.T) {
	t.Parallel()

	ex := &Extractor{Domain: "acme.com"}
	p := mustPage(t, "https://acme.com/blog/pricing", `<html><body>
		<p>Enterprise licences start at $5,000 per year.</p>
	</body></html>`, false)

	got := ex.Extract(p, enrich.Attributes{})
	require.False(t, got.Values.Has(enrich.FieldTotalFunding))
}

func TestExtractFundingDateFromTimeElement(t *testing.T) {
	t.Parallel()

	ex := &Extractor{Domain: "acme.com"}
	p := mustPage(t, "https://acme.com/press/seed", `<html><body>
		<time datetime="2023-11-20">November 20</time>
		<p>Acme secured €800,000 in pre-seed funding.</p>
	</body></html>`, false)

	got := ex.Extract(p, enrich.Attributes{})
	require.Equal(t, "€800,000", got.Values[enrich.FieldTotalFunding])
	require.Contains(t, got.Values[enrich.FieldFinancialsReasoning], "(2023-11-20)")
}

func TestExtractSkipsAlreadyFoundSlots(t *testing.T) {
	t.Parallel()

	ex := &Extractor{Domain: "acme.com"}
	p := mustPage(t, "https://acme.com/", `<html><head>
		<script type="application/ld+json">
		{"@type":"Organization","address":{"addressLocality":"Berlin","addressCountry":"DE"}}
		</script>
	</head><body></body></html>`, true)

	got := ex.Extract(p, enrich.Attributes{enrich.FieldLocation: "Lisbon, PT"})
	require.False(t, got.Values.Has(enrich.FieldLocation))
	require.Empty(t, got.Sources)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2024-03-05", parseDate("2024-03-05T10:00:00Z"))
	require.Equal(t, "2024-03-05", parseDate("March 5, 2024"))
	require.Equal(t, "2024-03-05", parseDate("5 March 2024"))
	require.Equal(t, "", parseDate("sometime last year"))
}
