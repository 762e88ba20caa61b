// Package report writes per-target outcome rows as CSV and JSONL files.
// Reports are a data sink only; nothing reads them back.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EnrichmentRow records what the web enrichment path inserted for one
// target record.
type EnrichmentRow struct {
	RecordID            string `json:"record_id"`
	Company             string `json:"company"`
	Website             string `json:"website"`
	InsertedFields      string `json:"inserted_fields"`
	Location            string `json:"location"`
	EmployeesCount      string `json:"employees_count"`
	TotalFunding        string `json:"total_funding"`
	CEOEmail            string `json:"ceo_email"`
	EmailReasoning      string `json:"email_reasoning"`
	FinancialsReasoning string `json:"financials_reasoning"`
}

// MatchRow records the dataset path's per-target outcome: matched or not,
// and which fields were filled.
type MatchRow struct {
	RecordID     string `json:"record_id"`
	Company      string `json:"company"`
	Matched      string `json:"matched"`
	FilledFields string `json:"filled_fields"`
}

// Path builds a timestamped report filename under dir.
func Path(dir, prefix, runStamp, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", prefix, runStamp, ext))
}

// RunStamp renders a timestamp suitable for report filenames.
func RunStamp(t time.Time) string {
	return t.UTC().Format("20060102_150405")
}

// WriteEnrichmentCSV writes web enrichment rows to a CSV file.
func WriteEnrichmentCSV(path string, rows []EnrichmentRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"record_id", "company", "website", "inserted_fields",
		"location", "employees_count", "total_funding", "ceo_email",
		"email_reasoning", "financials_reasoning",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.RecordID, r.Company, r.Website, r.InsertedFields,
			r.Location, r.EmployeesCount, r.TotalFunding, r.CEOEmail,
			r.EmailReasoning, r.FinancialsReasoning,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return f.Close()
}

// WriteEnrichmentJSONL writes web enrichment rows as one JSON object per line.
func WriteEnrichmentJSONL(path string, rows []EnrichmentRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode row: %w", err)
		}
	}
	return f.Close()
}

// WriteMatchCSV writes dataset match rows to a CSV file.
func WriteMatchCSV(path string, rows []MatchRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"record_id", "company", "matched", "filled_fields"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write([]string{r.RecordID, r.Company, r.Matched, r.FilledFields}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return f.Close()
}
