// Package metrics holds the process-wide prometheus collectors. Exposition
// is the embedder's concern; the core only records.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BroadcastAttempts counts per-endpoint submission attempts by outcome
	// (ok, rejected, dial_failed).
	BroadcastAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evmcore",
		Subsystem: "broadcast",
		Name:      "attempts_total",
		Help:      "Raw transaction submission attempts per endpoint.",
	}, []string{"endpoint", "outcome"})

	// SignDuration observes how long the card interaction took. Card taps
	// are human-timescale, hence the wide buckets.
	SignDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "evmcore",
		Subsystem: "signing",
		Name:      "duration_seconds",
		Help:      "Wall time of one card signing interaction.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	// TransfersTotal counts completed pipelines by chain and outcome.
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evmcore",
		Subsystem: "transfer",
		Name:      "total",
		Help:      "Transfer pipeline executions by outcome.",
	}, []string{"chain", "outcome"})
)
