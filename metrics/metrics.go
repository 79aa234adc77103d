// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielhkuo/ballotbox/middleware"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ballotbox_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ballotbox_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// VotesCast counts successfully recorded votes, weighted casts included.
	VotesCast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ballotbox_votes_cast_total",
		Help: "Votes accepted and recorded.",
	})
)

// WithRequestMetrics wraps a handler, recording request count and latency.
// The route label is the registered mux pattern, not the raw URL path,
// to keep label cardinality bounded.
func WithRequestMetrics(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &middleware.StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		next(rec, r)

		requestsTotal.WithLabelValues(route, strconv.Itoa(rec.Status)).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
