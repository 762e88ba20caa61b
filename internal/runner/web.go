package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seedlist/enricher/internal/airtable"
	"github.com/seedlist/enricher/internal/enrich"
	"github.com/seedlist/enricher/internal/metrics"
	"github.com/seedlist/enricher/internal/report"
)

// webFilterFields are the slots whose emptiness qualifies a record for web
// enrichment; the reasoning fields ride along so a record missing only its
// audit trail still gets a crawl.
var webFilterFields = []string{
	enrich.FieldLocation,
	enrich.FieldTotalFunding,
	enrich.FieldEmployeesCount,
	enrich.FieldCEOEmail,
	enrich.FieldEmailReasoning,
	enrich.FieldFinancialsReasoning,
}

// RunWeb enriches up to limit records from their own websites. Records are
// processed sequentially; each site crawl is followed by the configured
// record pause. With dryRun set nothing is written to the store, but
// reports are still produced.
func (r *Runner) RunWeb(ctx context.Context, limit int, dryRun bool) error {
	if r.site == nil {
		return fmt.Errorf("site enricher not configured")
	}
	table := r.cfg.Airtable.Table
	needFields := append([]string{r.cfg.Fields.Company, r.cfg.Fields.Website},
		append(append([]string{}, webFilterFields...),
			enrich.FieldSources, enrich.FieldEnrichedAt, enrich.FieldStatus)...)

	records, err := r.store.ListAll(ctx, table, needFields)
	if err != nil {
		return fmt.Errorf("load target table: %w", err)
	}
	r.logger.Info("loaded target records", zap.Int("count", len(records)))

	var targets []airtable.Record
	for _, rec := range records {
		if !anyEmpty(rec.Fields, webFilterFields) {
			continue
		}
		if r.fieldString(rec.Fields, r.cfg.Fields.Website) == "" {
			continue
		}
		targets = append(targets, rec)
	}
	r.logger.Info("records eligible for web enrichment", zap.Int("count", len(targets)))
	if limit > 0 && len(targets) > limit {
		targets = targets[:limit]
	}

	var (
		updates     []airtable.Record
		rows        []report.EnrichmentRow
		skipped     int
		fieldCounts = map[string]int{}
	)

	for _, rec := range targets {
		if ctx.Err() != nil {
			break
		}
		website := r.fieldString(rec.Fields, r.cfg.Fields.Website)
		company := r.fieldString(rec.Fields, r.cfg.Fields.Company)

		result := r.site.Enrich(ctx, website)
		found := result.Values
		if len(result.Sources) > 0 {
			found.Set(enrich.FieldSources, enrich.JoinSources(result.Sources))
		}

		plan := enrich.PlanMerge(rec.ID, rec.Fields, found, enrich.WebTargetFields)
		if len(plan.Patch.Fields) == 0 {
			skipped++
			metrics.ObserveRecord(string(enrich.StatusSkipped))
			pause(ctx, r.cfg.Crawler.RecordPause)
			continue
		}

		plan.Patch.Fields[enrich.FieldEnrichedAt] = r.now().UTC().Format(time.RFC3339)
		plan.Patch.Fields[enrich.FieldStatus] = string(plan.Status)
		updates = append(updates, airtable.Record{ID: plan.Patch.ID, Fields: plan.Patch.Fields})

		for _, f := range plan.Filled {
			fieldCounts[f]++
			metrics.ObserveFieldFilled(f)
		}
		metrics.ObserveRecord(string(plan.Status))

		rows = append(rows, report.EnrichmentRow{
			RecordID:            rec.ID,
			Company:             company,
			Website:             website,
			InsertedFields:      joinFields(plan.Filled),
			Location:            patchString(plan.Patch.Fields, enrich.FieldLocation),
			EmployeesCount:      patchString(plan.Patch.Fields, enrich.FieldEmployeesCount),
			TotalFunding:        patchString(plan.Patch.Fields, enrich.FieldTotalFunding),
			CEOEmail:            patchString(plan.Patch.Fields, enrich.FieldCEOEmail),
			EmailReasoning:      patchString(plan.Patch.Fields, enrich.FieldEmailReasoning),
			FinancialsReasoning: patchString(plan.Patch.Fields, enrich.FieldFinancialsReasoning),
		})
		r.logger.Info("planned patch",
			zap.String("record_id", rec.ID),
			zap.String("company", company),
			zap.String("status", string(plan.Status)),
			zap.Strings("fields", plan.Filled),
			zap.Int("pages_visited", result.PagesVisited))

		pause(ctx, r.cfg.Crawler.RecordPause)
	}

	r.logger.Info("web enrichment planned",
		zap.Int("updates", len(updates)), zap.Int("skipped", skipped))

	if dryRun {
		r.logger.Info("dry run; no changes sent")
	} else if len(updates) > 0 {
		if err := r.store.BatchUpdate(ctx, table, updates); err != nil {
			return fmt.Errorf("apply updates: %w", err)
		}
		r.logger.Info("updates applied", zap.Int("count", len(updates)))
	}

	if len(rows) > 0 {
		stamp := report.RunStamp(r.now())
		csvPath := report.Path(r.cfg.Report.Dir, "enrichment_report", stamp, "csv")
		if err := report.WriteEnrichmentCSV(csvPath, rows); err != nil {
			r.logger.Error("failed to write csv report", zap.Error(err))
		} else {
			r.logger.Info("csv report saved", zap.String("path", csvPath))
		}
		jsonlPath := report.Path(r.cfg.Report.Dir, "enrichment_report", stamp, "jsonl")
		if err := report.WriteEnrichmentJSONL(jsonlPath, rows); err != nil {
			r.logger.Error("failed to write jsonl report", zap.Error(err))
		} else {
			r.logger.Info("jsonl report saved", zap.String("path", jsonlPath))
		}
	}

	for _, f := range enrich.WebTargetFields {
		r.logger.Info("field insert summary", zap.String("field", f), zap.Int("inserted", fieldCounts[f]))
	}
	return nil
}

func patchString(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

func joinFields(fields []string) string {
	return strings.Join(fields, ", ")
}
