package web

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// stegoNamespace is the namespace of every metric the server exports.
	stegoNamespace = "stego"

	opLabelName     = "op"
	resultLabelName = "result"
)

var (
	// durationBuckets splits request durations in milliseconds.
	durationBuckets = prometheus.ExponentialBuckets(1, 2, 18)

	// carrierBuckets splits carrier sizes in samples, up to the largest
	// upload the server accepts.
	carrierBuckets = []float64{1024, 16384, 65536, 262144, 1048576, 4194304, 16777216, 50331648}

	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: stegoNamespace,
			Name:      "requests_total",
			Help:      "codec requests by operation and result",
		}, []string{opLabelName, resultLabelName})

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: stegoNamespace,
			Name:      "request_duration_ms",
			Help:      "time spent serving codec requests",
			Buckets:   durationBuckets,
		}, []string{opLabelName})

	CarrierSamples = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: stegoNamespace,
			Name:      "carrier_samples",
			Help:      "sample count of uploaded carriers",
			Buckets:   carrierBuckets,
		}, []string{opLabelName})

	PayloadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: stegoNamespace,
			Name:      "payload_bytes",
			Help:      "byte length of successfully embedded payloads",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		})

	metricRegisterer prometheus.Registerer
)

// GetRegisterer returns the Registerer the metrics were registered on,
// or the default one when Register has not been called.
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register registers all server metrics on r.
func Register(r prometheus.Registerer) {
	r.MustRegister(Requests)
	r.MustRegister(RequestDuration)
	r.MustRegister(CarrierSamples)
	r.MustRegister(PayloadBytes)
	metricRegisterer = r
}
