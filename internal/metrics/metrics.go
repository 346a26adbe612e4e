// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Import Metrics
	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronica_import_rows_total",
			Help: "Total number of processed import rows by outcome",
		},
		[]string{"outcome"}, // "imported", "skipped", "error"
	)

	ImportRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronica_import_runs_total",
			Help: "Total number of import runs",
		},
		[]string{"format", "status"},
	)

	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chronica_import_duration_seconds",
			Help:    "Wall-clock duration of import runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	ImportBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "chronica_import_batch_rows",
			Help: "Number of rows per import batch",
			// 1 row up to roughly a quarter million per batch
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	ImportLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chronica_import_last_success_timestamp",
			Help: "Unix timestamp of the last successful import",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chronica_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronica_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)
)

// RecordImportRow records the outcome of one processed row.
func RecordImportRow(outcome string) {
	ImportRowsTotal.WithLabelValues(outcome).Inc()
}

// RecordImportRun records a completed import run.
func RecordImportRun(format, status string) {
	ImportRunsTotal.WithLabelValues(format, status).Inc()
	if status == "success" {
		ImportLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// ObserveImportDuration records the wall-clock duration of an import run.
func ObserveImportDuration(seconds float64) {
	ImportDuration.Observe(seconds)
}

// ObserveImportBatchSize records the number of rows an adapter produced.
func ObserveImportBatchSize(rows int) {
	ImportBatchSize.Observe(float64(rows))
}

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}
