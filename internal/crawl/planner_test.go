package crawl

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanCandidatesFiltersAndResolves(t *testing.T) {
	t.Parallel()

	p := mustPage(t, "https://acme.com/", `<html><body>
		<a href="/about">About</a>
		<a href="team/">Team</a>
		<a href="https://acme.com/about">About again</a>
		<a href="/products">Products</a>
		<a href="#contact">Anchor</a>
		<a href="mailto:hi@acme.com">Mail</a>
		<a href="ftp://acme.com/press">FTP</a>
		<a href="https://other.example/press">External press</a>
	</body></html>`, true)

	got := PlanCandidates(p, CandidateSlugs, 12)
	require.Equal(t, []string{
		"https://acme.com/about",
		"https://acme.com/team/",
		"https://other.example/press",
	}, got)
}

func TestPlanCandidatesBudget(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, `<a href="/about-%d">x</a>`, i)
	}
	b.WriteString("</body></html>")
	p := mustPage(t, "https://acme.com/", b.String(), true)

	// The homepage consumes one slot, leaving budget-1 for candidates.
	got := PlanCandidates(p, CandidateSlugs, 5)
	require.Len(t, got, 4)
	require.Equal(t, "https://acme.com/about-0", got[0])

	require.Nil(t, PlanCandidates(p, CandidateSlugs, 1))
	require.Nil(t, PlanCandidates(p, CandidateSlugs, 0))
}

func TestPlanCandidatesNoLinks(t *testing.T) {
	t.Parallel()

	p := mustPage(t, "https://acme.com/", `<html><body><p>nothing here</p></body></html>`, true)
	require.Empty(t, PlanCandidates(p, CandidateSlugs, 12))
}
