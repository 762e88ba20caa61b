package runner

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/seedlist/enricher/internal/airtable"
	"github.com/seedlist/enricher/internal/enrich"
)

// syncFieldMap maps source table field names onto target table fields.
var syncFieldMap = map[string]string{
	"Description":  "description",
	"Employees":    enrich.FieldEmployeesCount,
	"Location":     enrich.FieldLocation,
	"Money Raised": enrich.FieldTotalFunding,
	"URL":          "website",
}

// sourceKeyField is the source table's company name column.
const sourceKeyField = "Company Name"

// RunSync copies the mapped fields from the source table into the target
// table keyed on normalized company name: existing matches get only their
// empty fields patched, unmatched source rows become new records. A dedupe
// pass then collapses duplicate keys in the target, keeping the record with
// the most filled fields.
func (r *Runner) RunSync(ctx context.Context, dryRun bool) error {
	source := r.cfg.Airtable.SourceTable
	if source == "" {
		return fmt.Errorf("airtable.source_table must be set for sync")
	}
	table := r.cfg.Airtable.Table

	targetFields := []string{r.cfg.Fields.Company}
	for _, dst := range syncFieldMap {
		targetFields = append(targetFields, dst)
	}
	sourceFields := []string{sourceKeyField}
	for src := range syncFieldMap {
		sourceFields = append(sourceFields, src)
	}

	targets, err := r.store.ListAll(ctx, table, targetFields)
	if err != nil {
		return fmt.Errorf("load target table: %w", err)
	}
	sources, err := r.store.ListAll(ctx, source, sourceFields)
	if err != nil {
		return fmt.Errorf("load source table: %w", err)
	}
	r.logger.Info("tables loaded",
		zap.Int("target", len(targets)), zap.Int("source", len(sources)))

	byKey := map[string][]airtable.Record{}
	for _, rec := range targets {
		k := enrich.NormalizeKeyValue(rec.Fields[r.cfg.Fields.Company])
		if k == "" {
			continue
		}
		byKey[k] = append(byKey[k], rec)
	}

	var toCreate, toUpdate []airtable.Record
	for _, src := range sources {
		keyRaw := src.Fields[sourceKeyField]
		k := enrich.NormalizeKeyValue(keyRaw)
		if k == "" {
			continue
		}

		payload := map[string]any{}
		for from, to := range syncFieldMap {
			v := src.Fields[from]
			if enrich.IsEmptyValue(v) {
				continue
			}
			// Select and list values collapse to plain strings on the way over.
			payload[to] = enrich.Stringify(v)
		}

		if matches := byKey[k]; len(matches) > 0 {
			tgt := matches[0]
			patch := map[string]any{}
			for dst, v := range payload {
				if enrich.IsEmptyValue(tgt.Fields[dst]) {
					patch[dst] = v
				}
			}
			if len(patch) > 0 {
				toUpdate = append(toUpdate, airtable.Record{ID: tgt.ID, Fields: patch})
			}
		} else {
			fields := map[string]any{r.cfg.Fields.Company: enrich.Stringify(keyRaw)}
			for dst, v := range payload {
				fields[dst] = v
			}
			toCreate = append(toCreate, airtable.Record{Fields: fields})
		}
	}

	r.logger.Info("sync planned",
		zap.Int("create", len(toCreate)), zap.Int("update", len(toUpdate)))
	if dryRun {
		r.logger.Info("dry run; no changes sent")
		return nil
	}
	if len(toCreate) > 0 {
		if err := r.store.BatchCreate(ctx, table, toCreate); err != nil {
			return fmt.Errorf("create records: %w", err)
		}
	}
	if len(toUpdate) > 0 {
		if err := r.store.BatchUpdate(ctx, table, toUpdate); err != nil {
			return fmt.Errorf("update records: %w", err)
		}
	}

	return r.dedupe(ctx, table, targetFields)
}

// dedupe removes duplicate normalized keys from the target table, keeping
// the most complete record of each bucket.
func (r *Runner) dedupe(ctx context.Context, table string, fields []string) error {
	records, err := r.store.ListAll(ctx, table, fields)
	if err != nil {
		return fmt.Errorf("reload target table: %w", err)
	}

	buckets := map[string][]airtable.Record{}
	for _, rec := range records {
		k := enrich.NormalizeKeyValue(rec.Fields[r.cfg.Fields.Company])
		if k == "" {
			continue
		}
		buckets[k] = append(buckets[k], rec)
	}

	var toDelete []string
	for _, bucket := range buckets {
		if len(bucket) <= 1 {
			continue
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			return enrich.CountFilled(bucket[i].Fields) > enrich.CountFilled(bucket[j].Fields)
		})
		for _, rec := range bucket[1:] {
			toDelete = append(toDelete, rec.ID)
		}
	}

	r.logger.Info("duplicates found", zap.Int("count", len(toDelete)))
	if len(toDelete) == 0 {
		return nil
	}
	if err := r.store.BatchDelete(ctx, table, toDelete); err != nil {
		return fmt.Errorf("delete duplicates: %w", err)
	}
	return nil
}
