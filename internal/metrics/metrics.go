package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heartrisk_predictions_total",
			Help: "Predictions served, by label",
		},
		[]string{"label"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heartrisk_prediction_errors_total",
			Help: "Failed predictions, by pipeline stage",
		},
		[]string{"stage"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heartrisk_prediction_duration_seconds",
			Help:    "Time spent encoding, scaling and classifying one record",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)
)
