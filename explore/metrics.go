package explore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	iterationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frontier_explore_iterations_total",
		Help: "Completed exploration iterations across all threads",
	})

	framesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frontier_explore_frames_total",
		Help: "Inputs executed by workers",
	})

	threadsRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "frontier_explore_threads_running",
		Help: "Exploration threads currently in their loop",
	})
)
