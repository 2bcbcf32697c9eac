package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SweepsTotal          prometheus.Counter
	ItinerariesDue       prometheus.Counter
	SubmissionsCompleted prometheus.Counter
	SubmissionsFailed    prometheus.Counter
	FilingDuration       prometheus.Histogram
	NotificationsSent    *prometheus.CounterVec
	ErrorsCount          *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SweepsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_total",
			Help:      "The total number of completed submission sweeps",
		}),
		ItinerariesDue: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "itineraries_due_total",
			Help:      "The total number of due itineraries picked up by sweeps",
		}),
		SubmissionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_completed_total",
			Help:      "The total number of successfully filed submissions",
		}),
		SubmissionsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_failed_total",
			Help:      "The total number of failed submissions",
		}),
		FilingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filing_duration_seconds",
			Help:      "Time taken by the external filing action",
			Buckets:   prometheus.DefBuckets,
		}),
		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "The total number of notifications sent",
		}, []string{"channel", "event"}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
