package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProblemsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "problems_created_total",
		Help: "Total number of problems reported by stores",
	})

	ProblemsResolvedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "problems_resolved_total",
		Help: "Total number of problems marked resolved by suppliers",
	})

	ProblemsAdvancedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "problems_advanced_total",
		Help: "Total number of pending problems advanced to in_progress",
	})

	ResponsesUpsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "responses_upserted_total",
		Help: "Total number of formal responses created or replaced",
	})

	MessagesPostedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_posted_total",
		Help: "Total number of conversation messages posted",
	}, []string{"author_role"})

	AttachmentsUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attachments_uploaded_total",
		Help: "Total number of problem attachments uploaded",
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
