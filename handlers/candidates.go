// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type CandidateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCandidateHandler(db *sql.DB, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{db: db, cfg: cfg}
}

// Register handles POST /api/candidates
func (h *CandidateHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.CandidateID == nil || req.Name == nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "missing required field(s)")
		return
	}

	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM candidate WHERE candidate_id = $1)
	`, *req.CandidateID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check candidate existence", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("candidate with id: %d already exists", *req.CandidateID))
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO candidate (candidate_id, name, party)
		VALUES ($1, $2, $3)
	`, *req.CandidateID, *req.Name, req.Party)
	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register candidate")
		return
	}

	slog.Info("candidate registered", "candidate_id", *req.CandidateID, "party", req.Party)

	middleware.JSONResponse(w, http.StatusCreated, models.Candidate{
		CandidateID: *req.CandidateID,
		Name:        *req.Name,
		Party:       req.Party,
	})
}

// List handles GET /api/candidates with an optional ?party= filter
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	party := r.URL.Query().Get("party")

	var rows *sql.Rows
	var err error
	if party != "" {
		rows, err = h.db.Query(`
			SELECT candidate_id, name, party
			FROM candidate
			WHERE party = $1
			ORDER BY candidate_id
		`, party)
	} else {
		rows, err = h.db.Query(`
			SELECT candidate_id, name, party
			FROM candidate
			ORDER BY candidate_id
		`)
	}
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.CandidateID, &c.Name, &c.Party); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CandidateListResponse{Candidates: candidates})
}

// GetVotes handles GET /api/candidates/{id}/votes
func (h *CandidateHandler) GetVotes(w http.ResponseWriter, r *http.Request) {
	candidateID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	var exists bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM candidate WHERE candidate_id = $1)
	`, candidateID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check candidate existence", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound,
			fmt.Sprintf("candidate with id: %d was not found", candidateID))
		return
	}

	var votes int
	err = h.db.QueryRow(`
		SELECT COALESCE(SUM(weight), 0) FROM vote WHERE candidate_id = $1
	`, candidateID).Scan(&votes)
	if err != nil {
		slog.Error("failed to sum candidate votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CandidateVotesResponse{
		CandidateID: candidateID,
		Votes:       votes,
	})
}
