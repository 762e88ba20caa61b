package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seedlist/enricher/internal/airtable"
	"github.com/seedlist/enricher/internal/enrich"
	"github.com/seedlist/enricher/internal/metrics"
	"github.com/seedlist/enricher/internal/report"
)

// RunDataset enriches target records from an external structured dataset.
// Records with at least one empty dataset target slot are matched against
// the per-run indexes; unmatched records are a normal outcome and land in
// the report as such.
func (r *Runner) RunDataset(ctx context.Context, datasetPath string, dryRun bool) error {
	ds, err := enrich.LoadDataset(datasetPath)
	if err != nil {
		return err
	}
	idx := enrich.BuildIndex(ds)
	r.logger.Info("dataset indexed",
		zap.Int("by_name", len(idx.ByName)), zap.Int("by_site", len(idx.BySite)))

	table := r.cfg.Airtable.Table
	records, err := r.store.ListAll(ctx, table, nil)
	if err != nil {
		return fmt.Errorf("load target table: %w", err)
	}
	r.logger.Info("loaded target records", zap.Int("count", len(records)))

	var needFill []airtable.Record
	for _, rec := range records {
		if anyEmpty(rec.Fields, enrich.DatasetTargetFields) {
			needFill = append(needFill, rec)
		}
	}
	r.logger.Info("records needing fill", zap.Int("count", len(needFill)))

	var (
		updates []airtable.Record
		rows    []report.MatchRow
	)

	for _, rec := range needFill {
		keyRaw := r.fieldString(rec.Fields, r.cfg.Fields.Company)
		site := r.fieldString(rec.Fields, r.cfg.Fields.Website)

		dp, ok := idx.Match(keyRaw, site)
		if !ok {
			metrics.ObserveRecord("unmatched")
			rows = append(rows, report.MatchRow{
				RecordID: rec.ID, Company: keyRaw, Matched: "no",
			})
			continue
		}

		found := enrich.ExtractDatasetAttributes(dp.Attr)
		plan := enrich.PlanMerge(rec.ID, rec.Fields, found, enrich.DatasetTargetFields)
		if len(plan.Patch.Fields) > 0 {
			plan.Patch.Fields[enrich.FieldEnrichedAt] = r.now().UTC().Format(time.RFC3339)
			plan.Patch.Fields[enrich.FieldStatus] = string(plan.Status)
			updates = append(updates, airtable.Record{ID: plan.Patch.ID, Fields: plan.Patch.Fields})
			for _, f := range plan.Filled {
				metrics.ObserveFieldFilled(f)
			}
		}
		metrics.ObserveRecord(string(plan.Status))
		rows = append(rows, report.MatchRow{
			RecordID:     rec.ID,
			Company:      keyRaw,
			Matched:      "yes",
			FilledFields: joinFields(plan.Filled),
		})
	}

	r.logger.Info("dataset enrichment planned", zap.Int("updates", len(updates)))
	if dryRun {
		r.logger.Info("dry run; no changes sent")
	} else if len(updates) > 0 {
		if err := r.store.BatchUpdate(ctx, table, updates); err != nil {
			return fmt.Errorf("apply updates: %w", err)
		}
		r.logger.Info("updates applied", zap.Int("count", len(updates)))
	}

	if len(rows) > 0 {
		path := report.Path(r.cfg.Report.Dir, "dataset_fill_report", report.RunStamp(r.now()), "csv")
		if err := report.WriteMatchCSV(path, rows); err != nil {
			r.logger.Error("failed to write csv report", zap.Error(err))
		} else {
			r.logger.Info("csv report saved", zap.String("path", path), zap.Int("rows", len(rows)))
		}
	}
	return nil
}
