// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestPlanAudit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAuditHandler(db, cfg)

	t.Run("kaplan-markov sample size", func(t *testing.T) {
		body := models.AuditPlanRequest{
			ElectionID: "election-2026",
			ReportedTallies: []models.ReportedTally{
				{CandidateID: 1, Votes: 60},
				{CandidateID: 2, Votes: 40},
			},
			RiskLimitAlpha: 0.05,
			AuditType:      "ballot_comparison",
		}
		req := testutil.MakeRequest("POST", "/api/audits/plan", body, nil)
		w := httptest.NewRecorder()

		handler.Plan(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.AuditPlanResponse
		testutil.AssertJSON(t, w, &resp)

		// margin = 0.2, so ceil(-2 ln(0.05) / 0.04) = 150.
		if resp.InitialSampleSize != 150 {
			t.Errorf("expected initial sample size 150, got %d", resp.InitialSampleSize)
		}
		if !strings.HasPrefix(resp.AuditID, "rla_") {
			t.Errorf("expected rla_ prefixed audit id, got %q", resp.AuditID)
		}
		if resp.Test != models.TestKaplanMarkov {
			t.Errorf("expected test %q, got %q", models.TestKaplanMarkov, resp.Test)
		}
		if resp.Status != models.StatusPlanned {
			t.Errorf("expected status %q, got %q", models.StatusPlanned, resp.Status)
		}

		// The plan was persisted.
		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM audit_plan WHERE audit_id = $1`, resp.AuditID).Scan(&count); err != nil {
			t.Fatalf("Failed to count audit plans: %v", err)
		}
		if count != 1 {
			t.Error("audit plan was not persisted")
		}
	})

	t.Run("tight margin caps at full escalation threshold", func(t *testing.T) {
		body := models.AuditPlanRequest{
			ElectionID: "election-2026",
			ReportedTallies: []models.ReportedTally{
				{CandidateID: 1, Votes: 501},
				{CandidateID: 2, Votes: 499},
			},
		}
		req := testutil.MakeRequest("POST", "/api/audits/plan", body, nil)
		w := httptest.NewRecorder()

		handler.Plan(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.AuditPlanResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.InitialSampleSize != 1200 {
			t.Errorf("expected capped sample size 1200, got %d", resp.InitialSampleSize)
		}
	})

	t.Run("sampling plan covers the requested strata", func(t *testing.T) {
		body := models.AuditPlanRequest{
			ElectionID: "election-2026",
			ReportedTallies: []models.ReportedTally{
				{CandidateID: 1, Votes: 70},
				{CandidateID: 2, Votes: 30},
			},
			Stratification: []models.Stratum{
				{County: "north", Proportion: 0.6},
				{County: "south", Proportion: 0.4},
			},
		}
		req := testutil.MakeRequest("POST", "/api/audits/plan", body, nil)
		w := httptest.NewRecorder()

		handler.Plan(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.AuditPlanResponse
		testutil.AssertJSON(t, w, &resp)

		decoded, err := base64.StdEncoding.DecodeString(resp.SamplingPlan)
		if err != nil {
			t.Fatalf("sampling plan is not valid base64: %v", err)
		}
		lines := strings.Split(string(decoded), "\n")
		if lines[0] != "county,proportion,seed" {
			t.Errorf("unexpected CSV header: %q", lines[0])
		}
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 strata, got %d lines", len(lines))
		}
		if !strings.HasPrefix(lines[1], "north,0.6,") || !strings.HasPrefix(lines[2], "south,0.4,") {
			t.Errorf("unexpected strata rows: %q", lines[1:])
		}
	})

	t.Run("default single stratum", func(t *testing.T) {
		body := models.AuditPlanRequest{
			ElectionID: "election-2026",
			ReportedTallies: []models.ReportedTally{
				{CandidateID: 1, Votes: 70},
				{CandidateID: 2, Votes: 30},
			},
		}
		req := testutil.MakeRequest("POST", "/api/audits/plan", body, nil)
		w := httptest.NewRecorder()

		handler.Plan(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.AuditPlanResponse
		testutil.AssertJSON(t, w, &resp)

		decoded, _ := base64.StdEncoding.DecodeString(resp.SamplingPlan)
		if !strings.Contains(string(decoded), "\nall,1,") {
			t.Errorf("expected a single all-county stratum, got %q", string(decoded))
		}
	})
}

func TestPlanAuditValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAuditHandler(db, cfg)

	twoTallies := []models.ReportedTally{
		{CandidateID: 1, Votes: 60},
		{CandidateID: 2, Votes: 40},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name: "missing election_id",
			requestBody: models.AuditPlanRequest{
				ReportedTallies: twoTallies,
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "single reported tally",
			requestBody: models.AuditPlanRequest{
				ElectionID:      "election-2026",
				ReportedTallies: twoTallies[:1],
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "risk limit out of range",
			requestBody: models.AuditPlanRequest{
				ElectionID:      "election-2026",
				ReportedTallies: twoTallies,
				RiskLimitAlpha:  1.5,
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "negative reported tally",
			requestBody: models.AuditPlanRequest{
				ElectionID: "election-2026",
				ReportedTallies: []models.ReportedTally{
					{CandidateID: 1, Votes: 60},
					{CandidateID: 2, Votes: -1},
				},
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "zero total votes",
			requestBody: models.AuditPlanRequest{
				ElectionID: "election-2026",
				ReportedTallies: []models.ReportedTally{
					{CandidateID: 1, Votes: 0},
					{CandidateID: 2, Votes: 0},
				},
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "exact tie needs a hand count",
			requestBody: models.AuditPlanRequest{
				ElectionID: "election-2026",
				ReportedTallies: []models.ReportedTally{
					{CandidateID: 1, Votes: 50},
					{CandidateID: 2, Votes: 50},
				},
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not an object",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/audits/plan", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Plan(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}
