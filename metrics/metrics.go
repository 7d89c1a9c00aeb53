package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonexchange_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "phonexchange_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	QuotesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonexchange_quotes_computed_total",
			Help: "Trade-in quotes computed, by outcome",
		},
		[]string{"outcome"},
	)

	LeadsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonexchange_leads_submitted_total",
			Help: "Leads recorded, by lead type",
		},
		[]string{"lead_type"},
	)

	LeadNotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phonexchange_lead_notifications_failed_total",
			Help: "Lead notifications that could not be delivered",
		},
		[]string{"notifier"},
	)
)
