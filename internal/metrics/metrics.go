// Package metrics defines the Prometheus instrumentation for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VideosProcessed counts pipeline runs that completed successfully.
	VideosProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_videos_processed_total",
		Help: "Number of videos processed successfully.",
	})

	// VideosFailed counts pipeline runs that ended in error.
	VideosFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_videos_failed_total",
		Help: "Number of video processing runs that failed.",
	})

	// VideosSkipped counts tasks short-circuited by the processed cache.
	VideosSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_videos_skipped_total",
		Help: "Number of tasks skipped because the video was already processed.",
	})

	// ProductsExtracted counts reconciled product links across all runs.
	ProductsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_products_extracted_total",
		Help: "Number of product links extracted across all runs.",
	})

	// HTTPRequests counts API requests by handler and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_http_requests_total",
		Help: "Number of HTTP requests handled, by handler and status.",
	}, []string{"handler", "status"})
)
