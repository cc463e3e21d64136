package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	DocumentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_documents_created_total",
			Help: "Billing documents created by kind (quote, invoice, change_order)",
		},
		[]string{"kind"},
	)

	PaymentsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_payments_recorded_total",
			Help: "Invoice payments recorded by method (manual, razorpay)",
		},
		[]string{"method"},
	)
)
