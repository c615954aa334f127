package metrics

import (
	"sync"

	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tower_roster"

var (
	distributionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distributions_total",
			Help:      "Count of generated distributions by source (store, json, csv).",
		},
		[]string{"source"},
	)
	insufficientShiftsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insufficient_captain_shifts_total",
			Help:      "Count of shifts left without groups for lack of captains.",
		},
		[]string{},
	)
	registrationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Count of stored participant registrations by origin (api, import).",
		},
		[]string{"origin"},
	)
	importSkippedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_skipped_total",
			Help:      "Count of roster import rows that were skipped.",
		},
		[]string{},
	)
	rosterSizeHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "roster_size",
			Help:      "Distribution of roster sizes passed to the allocation engine.",
			Buckets:   []float64{0, 10, 25, 50, 100, 200, 400, 800},
		},
		[]string{},
	)
)

var registerMetrics sync.Once

// Register all metrics with the given registerer.
func Register(reg prometheus.Registerer) {
	registerMetrics.Do(func() {
		reg.MustRegister(distributionsCounter)
		reg.MustRegister(insufficientShiftsCounter)
		reg.MustRegister(registrationsCounter)
		reg.MustRegister(importSkippedCounter)
		reg.MustRegister(rosterSizeHistogram)
	})
}

// RecordDistribution records a generated distribution and its insufficient shifts.
func RecordDistribution(source string, dist models.Distribution) {
	distributionsCounter.WithLabelValues(source).Inc()
	rosterSizeHistogram.WithLabelValues().Observe(float64(dist.Players))
	for _, plan := range dist.Shifts {
		if plan.Insufficient {
			insufficientShiftsCounter.WithLabelValues().Inc()
		}
	}
}

// RecordRegistrations records stored registrations.
func RecordRegistrations(origin string, n int) {
	registrationsCounter.WithLabelValues(origin).Add(float64(n))
}

// RecordImportSkipped records skipped import rows.
func RecordImportSkipped(n int) {
	importSkippedCounter.WithLabelValues().Add(float64(n))
}
