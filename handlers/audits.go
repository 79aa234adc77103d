// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/idgen"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

const (
	defaultRiskLimit = 0.05

	// maxInitialSample caps the Kaplan-Markov estimate; tighter
	// margins escalate to a full hand count instead.
	maxInitialSample = 1200
)

type AuditHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAuditHandler(db *sql.DB, cfg cliparse.Config) *AuditHandler {
	return &AuditHandler{db: db, cfg: cfg}
}

// Plan handles POST /api/audits/plan
// Computes the Kaplan-Markov initial sample size from the reported
// margin and records the audit plan.
func (h *AuditHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req models.AuditPlanRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ElectionID == "" {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "election_id is required")
		return
	}
	if len(req.ReportedTallies) < 2 {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "at least two reported tallies are required")
		return
	}

	alpha := req.RiskLimitAlpha
	if alpha == 0 {
		alpha = defaultRiskLimit
	}
	if alpha <= 0 || alpha >= 1 {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "risk_limit_alpha must be in (0, 1)")
		return
	}

	sampleSize, err := initialSampleSize(req.ReportedTallies, alpha)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	plan, err := samplingPlan(req.Stratification)
	if err != nil {
		slog.Error("failed to build sampling plan", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to plan audit")
		return
	}

	auditID, err := idgen.AuditID()
	if err != nil {
		slog.Error("failed to generate audit id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to plan audit")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO audit_plan
			(audit_id, election_id, audit_type, risk_limit, initial_sample_size, sampling_plan, test, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, auditID, req.ElectionID, req.AuditType, alpha, sampleSize, plan,
		models.TestKaplanMarkov, models.StatusPlanned, nowStamp())
	if err != nil {
		slog.Error("failed to insert audit plan", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to plan audit")
		return
	}

	slog.Info("audit planned", "audit_id", auditID, "election_id", req.ElectionID,
		"initial_sample_size", sampleSize)

	middleware.JSONResponse(w, http.StatusCreated, models.AuditPlanResponse{
		AuditID:           auditID,
		InitialSampleSize: sampleSize,
		SamplingPlan:      plan,
		Test:              models.TestKaplanMarkov,
		Status:            models.StatusPlanned,
	})
}

// initialSampleSize estimates the Kaplan-Markov initial sample:
// ceil(-2 ln(alpha) / margin^2), where margin is the diluted margin
// between the two leading reported tallies.
func initialSampleSize(tallies []models.ReportedTally, alpha float64) (int, error) {
	sorted := make([]models.ReportedTally, len(tallies))
	copy(sorted, tallies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Votes > sorted[j].Votes
	})

	total := 0
	for _, t := range sorted {
		if t.Votes < 0 {
			return 0, fmt.Errorf("reported tally for candidate %d is negative", t.CandidateID)
		}
		total += t.Votes
	}
	if total == 0 {
		return 0, fmt.Errorf("reported tallies sum to zero")
	}

	margin := float64(sorted[0].Votes-sorted[1].Votes) / float64(total)
	if margin == 0 {
		return 0, fmt.Errorf("reported margin is zero; a full hand count is required")
	}

	size := int(math.Ceil(-2 * math.Log(alpha) / (margin * margin)))
	if size > maxInitialSample {
		size = maxInitialSample
	}
	return size, nil
}

// samplingPlan renders the stratification as base64 CSV. Without
// strata the whole contest is sampled as a single unit.
func samplingPlan(strata []models.Stratum) (string, error) {
	if len(strata) == 0 {
		strata = []models.Stratum{{County: "all", Proportion: 1.0}}
	}

	var csv strings.Builder
	csv.WriteString("county,proportion,seed")
	for _, s := range strata {
		seed, err := idgen.SamplingSeed()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&csv, "\n%s,%g,%d", s.County, s.Proportion, seed)
	}

	return base64.StdEncoding.EncodeToString([]byte(csv.String())), nil
}
