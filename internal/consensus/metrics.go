package consensus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("conseq.consensus")

var (
	// binsTotal counts finished bins by strategy and result
	binsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conseq_bins_total",
		Help: "Bins processed by strategy and result",
	}, []string{"strategy", "result"})

	binDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "conseq_bin_duration_seconds",
		Help:    "Time to build one consensus",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
	}, []string{"strategy"})

	refinementRounds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "conseq_refinement_rounds",
		Help:    "Refinement rounds performed per bin",
		Buckets: prometheus.LinearBuckets(0, 1, DefaultMaxRounds+1),
	})

	terminations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conseq_terminations_total",
		Help: "Refinement loop exits by reason",
	}, []string{"termination"})

	// editPoolSize tracks how many edits a round pooled before voting
	editPoolSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "conseq_edit_pool_size",
		Help:    "Edits pooled per refinement round",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
	})
)
