// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/ballotbox/cache"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/events"
	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/metrics"
	"github.com/danielhkuo/ballotbox/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, pub events.Publisher, results cache.ResultsCache) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	voterHandler := handlers.NewVoterHandler(db, cfg)
	candidateHandler := handlers.NewCandidateHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg, pub, results)
	resultsHandler := handlers.NewResultsHandler(db, cfg, results)
	ballotHandler := handlers.NewBallotHandler(db, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)
	auditHandler := handlers.NewAuditHandler(db, cfg)

	// Every API route gets logging and per-route metrics.
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(metrics.WithRequestMetrics(pattern, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Voter management
	handle("POST /api/voters", voterHandler.Create)
	handle("GET /api/voters", voterHandler.List)
	handle("GET /api/voters/{id}", voterHandler.Get)
	handle("PUT /api/voters/{id}", voterHandler.Update)
	handle("DELETE /api/voters/{id}", voterHandler.Delete)

	// Candidate registration
	handle("POST /api/candidates", candidateHandler.Register)
	handle("GET /api/candidates", candidateHandler.List)
	handle("GET /api/candidates/{id}/votes", candidateHandler.GetVotes)

	// Vote casting and queries
	handle("POST /api/votes", voteHandler.Cast)
	handle("POST /api/votes/weighted", voteHandler.CastWeighted)
	handle("GET /api/votes/timeline", voteHandler.Timeline)
	handle("GET /api/votes/range", voteHandler.Range)

	// Results
	handle("GET /api/results", resultsHandler.GetResults)
	handle("GET /api/results/winner", resultsHandler.GetWinner)
	handle("POST /api/results/homomorphic", resultsHandler.HomomorphicTally)

	// Verifiable ballots
	handle("POST /api/ballots/encrypted", ballotHandler.SubmitEncrypted)
	handle("POST /api/ballots/ranked", ballotHandler.SubmitRanked)

	// Privacy-preserving analytics
	handle("POST /api/analytics/dp", analyticsHandler.DPAnalytics)

	// Risk-limiting audits
	handle("POST /api/audits/plan", auditHandler.Plan)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
