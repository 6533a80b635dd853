package tree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	extensionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frontier_tree_extensions_total",
		Help: "Nodes added to exploration trees",
	})

	collisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frontier_tree_collisions_total",
		Help: "Extensions that hit an existing action sequence",
	})

	maintenanceTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frontier_tree_maintenance_total",
		Help: "Completed maintenance passes",
	})

	maintenanceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "frontier_tree_maintenance_duration_seconds",
		Help:    "Maintenance pass duration, including commit",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
	})

	snapshotsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frontier_tree_snapshots_dropped_total",
		Help: "Interior snapshots discarded by the retention cap",
	})
)
