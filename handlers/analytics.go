// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"math"
	"net/http"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

// Process-lifetime privacy budget, depleted by each analytics query.
const (
	budgetEpsilon = 2.0
	budgetDelta   = 2e-6

	defaultEpsilon = 0.5
	defaultDelta   = 1e-6
)

// ageBuckets define the histogram in ascending order; the last bucket
// is open-ended.
var ageBuckets = []struct {
	label string
	low   int
	high  int
}{
	{"18-24", 18, 24},
	{"25-34", 25, 34},
	{"35-44", 35, 44},
	{"45-64", 45, 64},
	{"65+", 65, math.MaxInt32},
}

type AnalyticsHandler struct {
	db  *sql.DB
	cfg cliparse.Config

	mu               sync.Mutex
	remainingEpsilon float64
}

func NewAnalyticsHandler(db *sql.DB, cfg cliparse.Config) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, cfg: cfg, remainingEpsilon: budgetEpsilon}
}

// DPAnalytics handles POST /api/analytics/dp
// Returns a Gaussian-noised age histogram of registered voters and
// charges the request's epsilon against the remaining privacy budget.
func (h *AnalyticsHandler) DPAnalytics(w http.ResponseWriter, r *http.Request) {
	var req models.DPAnalyticsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	epsilon := req.Epsilon
	if epsilon == 0 {
		epsilon = defaultEpsilon
	}
	delta := req.Delta
	if delta == 0 {
		delta = defaultDelta
	}
	if epsilon < 0 || delta <= 0 || delta >= 1 {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "invalid privacy parameters")
		return
	}

	counts, err := h.ageHistogram()
	if err != nil {
		slog.Error("failed to compute age histogram", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.mu.Lock()
	if epsilon > h.remainingEpsilon {
		remaining := h.remainingEpsilon
		h.mu.Unlock()
		slog.Warn("privacy budget exhausted", "requested", epsilon, "remaining", remaining)
		middleware.ErrorResponse(w, http.StatusConflict, "privacy budget exhausted")
		return
	}
	h.remainingEpsilon -= epsilon
	remaining := h.remainingEpsilon
	h.mu.Unlock()

	// Gaussian mechanism: sigma = sqrt(2 ln(1.25/delta)) / epsilon
	sigma := math.Sqrt(2*math.Log(1.25/delta)) / epsilon
	noise := distuv.Normal{Mu: 0, Sigma: sigma}

	answer := make(map[string]int, len(counts))
	for bucket, count := range counts {
		noisy := int(float64(count) + noise.Rand())
		if noisy < 0 {
			noisy = 0
		}
		answer[bucket] = noisy
	}

	slog.Info("dp analytics served", "epsilon_spent", epsilon, "epsilon_remaining", remaining)

	middleware.JSONResponse(w, http.StatusOK, models.DPAnalyticsResponse{
		Answer:            answer,
		NoiseMechanism:    models.NoiseGaussian,
		EpsilonSpent:      epsilon,
		Delta:             delta,
		RemainingBudget:   models.PrivacyBudget{Epsilon: remaining, Delta: budgetDelta},
		CompositionMethod: "advanced_composition",
	})
}

// ageHistogram counts registered voters per age bucket. Every bucket
// appears in the result, empty ones included.
func (h *AnalyticsHandler) ageHistogram() (map[string]int, error) {
	rows, err := h.db.Query(`SELECT age FROM voter`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int, len(ageBuckets))
	for _, bucket := range ageBuckets {
		counts[bucket.label] = 0
	}

	for rows.Next() {
		var age int
		if err := rows.Scan(&age); err != nil {
			return nil, err
		}
		for _, bucket := range ageBuckets {
			if age >= bucket.low && age <= bucket.high {
				counts[bucket.label]++
				break
			}
		}
	}

	return counts, rows.Err()
}
