package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"wranglecli/internal/pipeline"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wrangle_runs_total",
		Help: "Pipeline runs by outcome.",
	}, []string{"status"})

	tablesCleanedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wrangle_tables_cleaned_total",
		Help: "Tables cleaned across all runs.",
	})

	rowsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wrangle_rows_dropped_total",
		Help: "Rows dropped during cleaning, by reason.",
	}, []string{"reason"})

	warningsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wrangle_warnings_total",
		Help: "Warnings recorded in quality reports.",
	})
)

// observeRun records the metrics of one pipeline run.
func observeRun(status string, out *pipeline.Output) {
	runsTotal.WithLabelValues(status).Inc()
	if out == nil {
		return
	}
	tablesCleanedTotal.Add(float64(len(out.Cleaned)))
	for _, d := range out.Diagnostics {
		rowsDroppedTotal.WithLabelValues("duplicate").Add(float64(d.RowsDroppedDuplicates))
		rowsDroppedTotal.WithLabelValues("na").Add(float64(d.RowsDroppedNA))
	}
	warningsTotal.Add(float64(out.Report.Summary.WarningCount))
}
