// Package metrics exposes Prometheus collectors for the enricher.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	recordsTotal       *prometheus.CounterVec
	pagesFetchedTotal  *prometheus.CounterVec
	fieldsFilledTotal  *prometheus.CounterVec
	storeRetriesTotal  prometheus.Counter
	unknownFieldsTotal prometheus.Counter
	robotsBlockedTotal prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		recordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enricher_records_total",
				Help: "Records processed, labeled by outcome (success/partial/skipped/unmatched).",
			},
			[]string{"outcome"},
		)
		pagesFetchedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enricher_pages_fetched_total",
				Help: "Pages fetched during site crawls, labeled by result.",
			},
			[]string{"result"},
		)
		fieldsFilledTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enricher_fields_filled_total",
				Help: "Target slots newly filled, labeled by field.",
			},
			[]string{"field"},
		)
		storeRetriesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "enricher_store_retries_total",
				Help: "Record store requests retried after throttling or server errors.",
			},
		)
		unknownFieldsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "enricher_unknown_fields_dropped_total",
				Help: "Destination fields dropped from batches after unknown-field responses.",
			},
		)
		robotsBlockedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "enricher_robots_blocked_total",
				Help: "Candidate URLs skipped because robots.txt disallowed them.",
			},
		)
	})
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRecord counts one processed record by outcome.
func ObserveRecord(outcome string) {
	if recordsTotal != nil {
		recordsTotal.WithLabelValues(outcome).Inc()
	}
}

// ObservePageFetch counts one page fetch attempt.
func ObservePageFetch(ok bool) {
	if pagesFetchedTotal == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	pagesFetchedTotal.WithLabelValues(result).Inc()
}

// ObserveFieldFilled counts one newly filled target slot.
func ObserveFieldFilled(field string) {
	if fieldsFilledTotal != nil {
		fieldsFilledTotal.WithLabelValues(field).Inc()
	}
}

// ObserveStoreRetry counts one retried record store request.
func ObserveStoreRetry() {
	if storeRetriesTotal != nil {
		storeRetriesTotal.Inc()
	}
}

// ObserveUnknownFieldDropped counts one dropped destination field.
func ObserveUnknownFieldDropped() {
	if unknownFieldsTotal != nil {
		unknownFieldsTotal.Inc()
	}
}

// ObserveRobotsBlocked counts one robots-disallowed skip.
func ObserveRobotsBlocked() {
	if robotsBlockedTotal != nil {
		robotsBlockedTotal.Inc()
	}
}
