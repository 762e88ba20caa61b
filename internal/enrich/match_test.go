package enrich

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testIndex() MatchIndex {
	return BuildIndex(Dataset{Datapoints: []Datapoint{
		dp(map[string]any{
			"Name":    "Acme Inc",
			"Website": "https://www.acme.com/",
			"HQ City": "Berlin",
		}),
		dp(map[string]any{
			"Name":          "Globex",
			"Total Funding": float64(1000000),
		}),
	}})
}

func TestMatchByName(t *testing.T) {
	t.Parallel()

	got, ok := testIndex().Match("  ACME INC ", "")
	require.True(t, ok)
	require.Equal(t, "Berlin", got.Attr["HQ City"])
}

func TestMatchBySiteField(t *testing.T) {
	t.Parallel()

	got, ok := testIndex().Match("Unrelated Name", "http://acme.com")
	require.True(t, ok)
	require.Equal(t, "Berlin", got.Attr["HQ City"])
}

func TestMatchKeyAsURL(t *testing.T) {
	t.Parallel()

	// The key field holds a pasted URL and there is no explicit site field.
	got, ok := testIndex().Match("https://www.acme.com/", "")
	require.True(t, ok)
	require.Equal(t, "Berlin", got.Attr["HQ City"])

	// A plain name never probes the site index.
	_, ok = testIndex().Match("acme.com is great", "")
	require.False(t, ok)
}

func TestMatchMiss(t *testing.T) {
	t.Parallel()

	_, ok := testIndex().Match("Initech", "https://initech.example")
	require.False(t, ok)

	_, ok = testIndex().Match("", "")
	require.False(t, ok)
}

func TestMatchTiePrefersSite(t *testing.T) {
	t.Parallel()

	idx := BuildIndex(Dataset{Datapoints: []Datapoint{
		dp(map[string]any{"Name": "Acme", "HQ City": "Berlin"}),
		dp(map[string]any{"Website": "acme.com", "HQ City": "Munich"}),
	}})

	// Equal richness: the site-based candidate wins.
	got, ok := idx.Match("Acme", "acme.com")
	require.True(t, ok)
	require.Equal(t, "Munich", got.Attr["HQ City"])
}

func TestMatchRicherNameBeatsSite(t *testing.T) {
	t.Parallel()

	idx := BuildIndex(Dataset{Datapoints: []Datapoint{
		dp(map[string]any{
			"Name":          "Acme",
			"HQ City":       "Berlin",
			"Total Funding": float64(1),
		}),
		dp(map[string]any{"Website": "acme.com", "HQ City": "Munich"}),
	}})

	got, ok := idx.Match("Acme", "acme.com")
	require.True(t, ok)
	require.Equal(t, "Berlin", got.Attr["HQ City"])
}
