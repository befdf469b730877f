package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TasksSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_tasks_submitted_total",
		Help: "Total number of order tasks enqueued",
	})

	TasksStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_tasks_started_total",
		Help: "Total number of order task attempts started",
	})

	TasksSucceededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_tasks_succeeded_total",
		Help: "Total number of order task attempts that succeeded",
	})

	TasksFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_tasks_failed_total",
		Help: "Total number of order task attempts that failed",
	}, []string{"reason"})

	TaskRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_task_retries_total",
		Help: "Total number of task retries scheduled",
	})

	TasksExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_tasks_exhausted_total",
		Help: "Total number of tasks that exhausted their retry budget",
	})

	OrdersUpsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_upserted_total",
		Help: "Total number of processed orders upserted",
	})

	EnrichmentSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enrichment_items_skipped_total",
		Help: "Total number of line items skipped during enrichment",
	}, []string{"reason"})

	CatalogLookupLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_lookup_latency_seconds",
		Help:    "Latency of product catalog lookups",
		Buckets: prometheus.DefBuckets,
	})

	CatalogCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total number of catalog lookups served from the Redis cache",
	})

	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_pipeline_duration_seconds",
		Help:    "End-to-end duration of one pipeline attempt",
		Buckets: prometheus.DefBuckets,
	})

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
