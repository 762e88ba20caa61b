package enrich

import (
	"sort"
	"strings"
)

// Status classifies a merge-plan outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusSkipped Status = "skipped"
)

// Patch is the minimal unit of mutation handed to the record store: only
// slots that were empty on the target and non-empty in the extraction
// result. Terminal once submitted.
type Patch struct {
	ID     string
	Fields map[string]any
}

// MergePlan is the result of planning a single record's update.
type MergePlan struct {
	Patch Patch
	// Filled lists the target slots newly supplied, in targetSlots order.
	Filled []string
	Status Status
}

// PlanMerge decides, slot by slot, whether a found value may enter the
// patch. The inclusion rule is an explicit read-before-write check: the
// target's current value must be empty (nil, blank string, empty list) and
// the found value non-empty. Already-populated slots are never overwritten,
// which makes re-runs safe. Status counts only targetSlots: 3+ newly filled
// is success, 1-2 partial, 0 yields an empty patch (skipped).
func PlanMerge(id string, current map[string]any, found Attributes, targetSlots []string) MergePlan {
	plan := MergePlan{
		Patch:  Patch{ID: id, Fields: map[string]any{}},
		Status: StatusSkipped,
	}

	for slot, value := range found {
		if !IsEmptyValue(current[slot]) {
			continue
		}
		plan.Patch.Fields[slot] = value
	}
	for _, slot := range targetSlots {
		if _, ok := plan.Patch.Fields[slot]; ok {
			plan.Filled = append(plan.Filled, slot)
		}
	}

	// A patch made of nothing but auxiliary slots (reasonings, sources)
	// contributes no new facts and is dropped.
	if len(plan.Filled) == 0 {
		plan.Patch.Fields = map[string]any{}
		return plan
	}

	if len(plan.Filled) >= 3 {
		plan.Status = StatusSuccess
	} else {
		plan.Status = StatusPartial
	}
	return plan
}

// JoinSources deduplicates provenance tags and joins them sorted, one per
// line, for the audit field.
func JoinSources(tags []string) string {
	seen := make(map[string]struct{}, len(tags))
	uniq := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	sort.Strings(uniq)
	return strings.Join(uniq, "\n")
}

// CountFilled reports how many fields of a record hold non-empty values.
// Used by the sync dedupe pass to keep the most complete duplicate.
func CountFilled(fields map[string]any) int {
	c := 0
	for _, v := range fields {
		if !IsEmptyValue(v) {
			c++
		}
	}
	return c
}
