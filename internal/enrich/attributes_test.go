package enrich

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttributesSetRejectsEmpty(t *testing.T) {
	t.Parallel()

	a := Attributes{}
	a.Set(FieldLocation, "   ")
	require.False(t, a.Has(FieldLocation))

	a.Set(FieldLocation, " Berlin, BE ")
	require.True(t, a.Has(FieldLocation))
	require.Equal(t, "Berlin, BE", a[FieldLocation])
}

func TestAttributesSetDefault(t *testing.T) {
	t.Parallel()

	a := Attributes{}
	a.SetDefault(FieldCEOEmail, "jane@acme.com")
	a.SetDefault(FieldCEOEmail, "other@acme.com")
	require.Equal(t, "jane@acme.com", a[FieldCEOEmail])
}

func TestAttributesHas(t *testing.T) {
	t.Parallel()

	a := Attributes{FieldLocation: "Berlin", FieldCEOEmail: "x@y.com"}
	require.True(t, a.Has(FieldLocation))
	require.True(t, a.Has(FieldLocation, FieldCEOEmail))
	require.False(t, a.Has(FieldLocation, FieldTotalFunding))
}

func TestIsEmptyValue(t *testing.T) {
	t.Parallel()

	require.True(t, IsEmptyValue(nil))
	require.True(t, IsEmptyValue(""))
	require.True(t, IsEmptyValue("   "))
	require.True(t, IsEmptyValue([]any{}))
	require.True(t, IsEmptyValue([]string{}))

	require.False(t, IsEmptyValue("Berlin"))
	require.False(t, IsEmptyValue(0))
	require.False(t, IsEmptyValue(float64(0)))
	require.False(t, IsEmptyValue([]any{"x"}))
	require.False(t, IsEmptyValue(false))
}

func TestBandEmployeeCount(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"1":     "1-10",
		"10":    "1-10",
		"11":    "11-50",
		"50":    "11-50",
		"51":    "51-200",
		"200":   "51-200",
		"201":   "201-500",
		"500":   "201-500",
		"501":   "500+",
		"9000":  "500+",
		"11-50": "11-50", // already a band label, passes through
		" 42 ":  "11-50",
	}
	for in, want := range cases {
		require.Equal(t, want, BandEmployeeCount(in), "input %q", in)
	}
}

func TestStripQuotes(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Series A", StripQuotes(`"Series A"`))
	require.Equal(t, "Series A", StripQuotes(`  'Series A' `))
	require.Equal(t, "Seed", StripQuotes("“Seed”"))
	require.Equal(t, "Seed", StripQuotes("‘Seed’"))
	require.Equal(t, "no quotes", StripQuotes("no quotes"))
	require.Equal(t, "", StripQuotes(`""`))
	// Only the outermost layer per pair, inner content survives.
	require.Equal(t, `a "b" c`, StripQuotes(`"a "b" c"`))
}
