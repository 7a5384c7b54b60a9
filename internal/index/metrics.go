package index

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Index-write failures are swallowed by the synchronizer, so these counters
// are the operator's only live signal of index drift.
var (
	syncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_index_sync_total",
			Help: "Total number of synchronous index operations attempted",
		},
		[]string{"op"},
	)

	syncFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_index_sync_failures_total",
			Help: "Index operations that failed and were dropped (repaired only by a bulk reindex)",
		},
		[]string{"op"},
	)

	reindexDocuments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_reindex_documents_total",
			Help: "Documents submitted by bulk reindex runs",
		},
	)
)
