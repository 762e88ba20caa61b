package crawl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustPage(t *testing.T, pageURL, html string, homepage bool) *Page {
	t.Helper()
	p, err := ParsePage(pageURL, pageURL, html, homepage)
	require.NoError(t, err)
	return p
}

func TestPageTextSkipsScriptAndStyle(t *testing.T) {
	t.Parallel()

	p := mustPage(t, "https://acme.com/", `<html><body>
		<h1>Acme</h1>
		<script>var hidden = "nope";</script>
		<style>.x { color: red }</style>
		<noscript>enable js</noscript>
		<p>Widgets  for
		everyone</p>
	</body></html>`, true)

	require.Equal(t, "Acme Widgets for everyone", p.Text())
	// Cached: second call returns the same string.
	require.Equal(t, p.Text(), p.Text())
}

func TestPageJSONLDFlattening(t *testing.T) {
	t.Parallel()

	p := mustPage(t, "https://acme.com/", `<html><head>
		<script type="application/ld+json">{"@type":"Organization","name":"Acme"}</script>
		<script type="application/ld+json">[{"@type":"WebSite"},{"@type":"Person"}]</script>
		<script type="application/ld+json">{"@graph":[{"@type":"LocalBusiness"}]}</script>
		<script type="application/ld+json">not json at all</script>
	</head><body></body></html>`, true)

	objs := p.JSONLD()
	require.Len(t, objs, 5) // org, website, person, graph container, local business

	var types []string
	for _, o := range objs {
		if s, ok := o["@type"].(string); ok {
			types = append(types, s)
		}
	}
	require.ElementsMatch(t, []string{"Organization", "WebSite", "Person", "LocalBusiness"}, types)
}

func TestHasSlug(t *testing.T) {
	t.Parallel()

	require.True(t, hasSlug("https://acme.com/News/round-a", NewsSlugs))
	require.True(t, hasSlug("https://acme.com/our-team", LeadershipSlugs))
	require.False(t, hasSlug("https://acme.com/products", NewsSlugs))
}
