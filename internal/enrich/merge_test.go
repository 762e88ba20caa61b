package enrich

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanMergeNeverOverwrites(t *testing.T) {
	t.Parallel()

	current := map[string]any{
		FieldLocation:     "Berlin",
		FieldTotalFunding: "",
	}
	found := Attributes{
		FieldLocation:     "Paris",
		FieldTotalFunding: "500000",
	}

	plan := PlanMerge("rec1", current, found, WebTargetFields)
	require.Equal(t, "rec1", plan.Patch.ID)
	require.Equal(t, map[string]any{FieldTotalFunding: "500000"}, plan.Patch.Fields)
	require.Equal(t, []string{FieldTotalFunding}, plan.Filled)
	require.Equal(t, StatusPartial, plan.Status)
}

func TestPlanMergeStatusThresholds(t *testing.T) {
	t.Parallel()

	current := map[string]any{}

	plan := PlanMerge("r", current, Attributes{}, WebTargetFields)
	require.Equal(t, StatusSkipped, plan.Status)
	require.Empty(t, plan.Patch.Fields)

	plan = PlanMerge("r", current, Attributes{
		FieldLocation:       "Berlin",
		FieldEmployeesCount: "11-50",
	}, WebTargetFields)
	require.Equal(t, StatusPartial, plan.Status)

	plan = PlanMerge("r", current, Attributes{
		FieldLocation:       "Berlin",
		FieldEmployeesCount: "11-50",
		FieldTotalFunding:   "500000",
	}, WebTargetFields)
	require.Equal(t, StatusSuccess, plan.Status)
	require.Equal(t, []string{FieldLocation, FieldTotalFunding, FieldEmployeesCount}, plan.Filled)
}

func TestPlanMergeDropsAuxOnlyPatch(t *testing.T) {
	t.Parallel()

	// Reasonings with no backing target fact do not justify a write.
	plan := PlanMerge("r", map[string]any{}, Attributes{
		FieldEmailReasoning: "Found mailto on site",
		FieldSources:        "mailto",
	}, WebTargetFields)
	require.Equal(t, StatusSkipped, plan.Status)
	require.Empty(t, plan.Patch.Fields)
}

func TestPlanMergeAuxRidesAlongWithTargets(t *testing.T) {
	t.Parallel()

	plan := PlanMerge("r", map[string]any{}, Attributes{
		FieldCEOEmail:       "jane@acme.com",
		FieldEmailReasoning: "Found mailto near CEO/Founder on homepage https://acme.com/",
	}, WebTargetFields)
	require.Equal(t, StatusPartial, plan.Status)
	require.Equal(t, []string{FieldCEOEmail}, plan.Filled)
	require.Contains(t, plan.Patch.Fields, FieldEmailReasoning)
}

func TestPlanMergeEmptyValuedCurrentCountsAsEmpty(t *testing.T) {
	t.Parallel()

	current := map[string]any{
		FieldLocation:       "   ",
		FieldEmployeesCount: []any{},
	}
	plan := PlanMerge("r", current, Attributes{
		FieldLocation:       "Berlin",
		FieldEmployeesCount: "11-50",
	}, WebTargetFields)
	require.ElementsMatch(t, []string{FieldLocation, FieldEmployeesCount}, plan.Filled)
}

func TestJoinSources(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", JoinSources(nil))
	require.Equal(t, "footer\njsonld\nmailto",
		JoinSources([]string{"mailto", "jsonld", "footer", "jsonld", " ", ""}))
}

func TestCountFilled(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, CountFilled(nil))
	require.Equal(t, 2, CountFilled(map[string]any{
		"a": "x",
		"b": "",
		"c": nil,
		"d": float64(1),
	}))
}
