package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MetricUploadCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caregiver_uploads_total",
			Help: "Number of recipient uploads, by outcome",
		},
		[]string{"outcome"},
	)

	MetricRedactionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caregiver_redactions_total",
			Help: "Number of redaction attempts, by content class and result",
		},
		[]string{"class", "result"},
	)

	MetricRedactionTextTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "caregiver_redaction_text_truncated_total",
			Help: "Number of text payloads truncated before being sent to the detection provider",
		},
	)

	MetricRedactionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "caregiver_redaction_latency_seconds",
			Help:    "Duration of calls to the detection provider",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"class"},
	)
)
