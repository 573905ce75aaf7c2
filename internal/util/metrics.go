package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"action"})

	CartRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_rejected_total",
		Help: "Total number of rejected cart mutations",
	}, []string{"reason"})

	CartPersistFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Total number of failed cart writes to storage",
	})

	CartRestoreFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_restore_failures_total",
		Help: "Total number of cart loads that fell back to an empty cart",
	}, []string{"reason"})

	CartItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cart_items",
		Help: "Current number of units in the cart",
	})

	CatalogLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_loads_total",
		Help: "Total number of catalog loads by source",
	}, []string{"source"})

	UpstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_errors_total",
		Help: "Total number of failed calls to the remote API",
	}, []string{"operation"})

	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_latency_seconds",
		Help:    "Latency of remote API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	NormalizationSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_records_skipped_total",
		Help: "Total number of upstream product records dropped during normalization",
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Total number of events published",
	}, []string{"type", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
