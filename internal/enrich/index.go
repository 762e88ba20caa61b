package enrich

import (
	"encoding/json"
	"fmt"
	"os"
)

// Datapoint is one immutable record of the external dataset, a raw attribute
// bag in the dataset's native field names.
type Datapoint struct {
	Attr map[string]any `json:"attr"`
}

// Dataset is the on-disk shape of the external dataset file.
type Dataset struct {
	Datapoints []Datapoint `json:"datapoints"`
}

// LoadDataset reads and decodes an external dataset file.
func LoadDataset(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}

// MatchIndex holds the per-run lookup structures over an external dataset:
// normalized name -> best datapoint and normalized site -> best datapoint.
type MatchIndex struct {
	ByName map[string]Datapoint
	BySite map[string]Datapoint
}

// BuildIndex indexes every datapoint under its normalized name and site
// keys. On key collision the existing entry is kept unless the newcomer's
// richness strictly exceeds it, so ties keep the first-seen record. A
// datapoint carrying both a name and a site lands in both indexes
// independently.
func BuildIndex(ds Dataset) MatchIndex {
	idx := MatchIndex{
		ByName: make(map[string]Datapoint),
		BySite: make(map[string]Datapoint),
	}
	for _, dp := range ds.Datapoints {
		if dp.Attr == nil {
			continue
		}
		r := Richness(dp.Attr)
		insert(idx.ByName, NormalizeKeyValue(dp.Attr[datasetName]), dp, r)
		insert(idx.BySite, NormalizeKeyValue(dp.Attr[datasetWebsite]), dp, r)
	}
	return idx
}

func insert(m map[string]Datapoint, key string, dp Datapoint, richness int) {
	if key == "" {
		return
	}
	existing, ok := m[key]
	if ok && Richness(existing.Attr) >= richness {
		return
	}
	m[key] = dp
}
