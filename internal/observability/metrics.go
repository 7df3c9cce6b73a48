// Package observability holds the Prometheus collectors of the service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Create outcomes.
const (
	OutcomeCreated     = "created"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "weather_unavailable"
	OutcomeStoreFailed = "store_failed"
	OutcomeCancelled   = "cancelled"
)

var (
	recordsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jogging",
		Name:      "records_created_total",
		Help:      "Create requests by outcome.",
	}, []string{"outcome"})
	weatherLookup = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jogging",
		Name:      "weather_lookup_seconds",
		Help:      "Latency of weather condition lookups.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
	recordsStored = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jogging",
		Name:      "records_stored",
		Help:      "Number of jogging records held by the store.",
	})
)

func init() {
	prometheus.MustRegister(recordsCreated, weatherLookup, recordsStored)
}

// RecordCreate counts a create request outcome.
func RecordCreate(outcome string) {
	recordsCreated.WithLabelValues(outcome).Inc()
}

// ObserveWeatherLookup records the latency of a lookup that started at start.
func ObserveWeatherLookup(start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	weatherLookup.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// SetRecordsStored updates the stored-record gauge.
func SetRecordsStored(n int) {
	recordsStored.Set(float64(n))
}
