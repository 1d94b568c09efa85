package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spendlens",
		Subsystem: "ingest",
		Name:      "files_total",
		Help:      "Statement files processed, by outcome.",
	}, []string{"outcome"})

	rowsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "spendlens",
		Subsystem: "ingest",
		Name:      "rows_inserted_total",
		Help:      "Transaction rows written to storage.",
	})

	rowsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spendlens",
		Subsystem: "ingest",
		Name:      "rows_skipped_total",
		Help:      "Statement rows dropped during extraction, by reason.",
	}, []string{"reason"})
)
