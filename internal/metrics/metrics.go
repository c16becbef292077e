// Package metrics exposes the counters that make data-quality problems
// observable: cycles and dangling edges are absorbed, not surfaced, so a
// counter is the only place they show up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DroppedEdges counts parent edges excluded during assembly because
	// they closed a cycle.
	DroppedEdges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hearth_graph_dropped_edges_total",
		Help: "Parent edges excluded from assembled graphs due to cycles.",
	})

	// DanglingEdges counts edges that referenced ids absent from the
	// snapshot.
	DanglingEdges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hearth_graph_dangling_edges_total",
		Help: "Edges excluded from assembled graphs due to missing targets.",
	})

	// FallbackLabels counts relationship queries that fell back to the
	// generic unrelated label.
	FallbackLabels = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hearth_kinship_fallback_total",
		Help: "Relationship queries answered with the generic fallback label.",
	})

	// ReconcilePatches counts placeholder-name patches issued by the
	// reconciliation worker.
	ReconcilePatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hearth_reconcile_patches_total",
		Help: "Name patches issued by the reconciliation worker.",
	})
)
