// Package runner drives the per-record enrichment loops. Each run is a
// single bounded batch: records are processed to completion one at a time,
// with a self-imposed pause between records instead of a scheduler.
package runner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seedlist/enricher/internal/airtable"
	"github.com/seedlist/enricher/internal/config"
	"github.com/seedlist/enricher/internal/crawl"
	"github.com/seedlist/enricher/internal/enrich"
)

// Store is the record store surface the runner needs.
type Store interface {
	ListAll(ctx context.Context, table string, fields []string) ([]airtable.Record, error)
	BatchUpdate(ctx context.Context, table string, records []airtable.Record) error
	BatchCreate(ctx context.Context, table string, records []airtable.Record) error
	BatchDelete(ctx context.Context, table string, ids []string) error
}

// SiteEnricher crawls one company site and reports whatever it found.
type SiteEnricher interface {
	Enrich(ctx context.Context, website string) crawl.SiteResult
}

// Runner executes enrichment runs against one target table.
type Runner struct {
	store  Store
	site   SiteEnricher
	cfg    config.Config
	logger *zap.Logger
	now    func() time.Time
	runID  string
}

// New builds a Runner. site may be nil for dataset-only use.
func New(store Store, site SiteEnricher, cfg config.Config, logger *zap.Logger) *Runner {
	runID := uuid.NewString()
	return &Runner{
		store:  store,
		site:   site,
		cfg:    cfg,
		logger: logger.With(zap.String("run_id", runID)),
		now:    time.Now,
		runID:  runID,
	}
}

func (r *Runner) fieldString(fields map[string]any, name string) string {
	return strings.TrimSpace(enrich.Stringify(fields[name]))
}

func anyEmpty(fields map[string]any, names []string) bool {
	for _, n := range names {
		if enrich.IsEmptyValue(fields[n]) {
			return true
		}
	}
	return false
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
