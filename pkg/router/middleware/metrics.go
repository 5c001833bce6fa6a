// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// apiRequestsTotal counts API requests by route and status.
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airm_api_requests_total",
			Help: "Total number of API requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// apiRequestDuration observes request latency per route. Submission
	// requests do DB writes plus a queue publish, so the buckets stretch
	// further than a plain CRUD API would need.
	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "airm_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.02, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"method", "route"},
	)
)

// HandleMetrics records per-route request counts and latency. Routes are
// recorded by their gin template (e.g. /v1/workloads/:workload_id) so ids do
// not explode the label space; unmatched paths collapse into one bucket.
func HandleMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		apiRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		apiRequestDuration.WithLabelValues(method, route).Observe(time.Since(startTime).Seconds())
	}
}
