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

const minVotingAge = 18

type VoterHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoterHandler(db *sql.DB, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{db: db, cfg: cfg}
}

// Create handles POST /api/voters
func (h *VoterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VoterID == nil || req.Name == nil || req.Age == nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "missing required field(s)")
		return
	}
	if *req.Age < minVotingAge {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("invalid age: %d, must be 18 or older", *req.Age))
		return
	}

	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM voter WHERE voter_id = $1)
	`, *req.VoterID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check voter existence", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("voter with id: %d already exists", *req.VoterID))
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO voter (voter_id, name, age, has_voted, profile_updated)
		VALUES ($1, $2, $3, FALSE, FALSE)
	`, *req.VoterID, *req.Name, *req.Age)
	if err != nil {
		slog.Error("failed to insert voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create voter")
		return
	}

	slog.Info("voter registered", "voter_id", *req.VoterID)

	middleware.JSONResponse(w, http.StatusCreated, models.Voter{
		VoterID: *req.VoterID,
		Name:    *req.Name,
		Age:     *req.Age,
	})
}

// Get handles GET /api/voters/{id}
func (h *VoterHandler) Get(w http.ResponseWriter, r *http.Request) {
	voterID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid voter id")
		return
	}

	var voter models.Voter
	err = h.db.QueryRow(`
		SELECT voter_id, name, age, has_voted, profile_updated
		FROM voter
		WHERE voter_id = $1
	`, voterID).Scan(&voter.VoterID, &voter.Name, &voter.Age, &voter.HasVoted, &voter.ProfileUpdated)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound,
			fmt.Sprintf("voter with id: %d was not found", voterID))
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voter)
}

// List handles GET /api/voters
func (h *VoterHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT voter_id, name, age
		FROM voter
		ORDER BY voter_id
	`)
	if err != nil {
		slog.Error("failed to query voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	voters := []models.VoterSummary{}
	for rows.Next() {
		var v models.VoterSummary
		if err := rows.Scan(&v.VoterID, &v.Name, &v.Age); err != nil {
			slog.Error("failed to scan voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoterListResponse{Voters: voters})
}

// Update handles PUT /api/voters/{id}
// A successful field update marks the voter profile as updated, which
// doubles the weight of a subsequent weighted vote.
func (h *VoterHandler) Update(w http.ResponseWriter, r *http.Request) {
	voterID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid voter id")
		return
	}

	var req models.UpdateVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Age != nil && *req.Age < minVotingAge {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("invalid age: %d, must be 18 or older", *req.Age))
		return
	}

	var voter models.Voter
	err = h.db.QueryRow(`
		SELECT voter_id, name, age, has_voted, profile_updated
		FROM voter
		WHERE voter_id = $1
	`, voterID).Scan(&voter.VoterID, &voter.Name, &voter.Age, &voter.HasVoted, &voter.ProfileUpdated)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound,
			fmt.Sprintf("voter with id: %d was not found", voterID))
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if req.Name != nil {
		voter.Name = *req.Name
	}
	if req.Age != nil {
		voter.Age = *req.Age
	}
	if req.Name != nil || req.Age != nil {
		voter.ProfileUpdated = true
	}

	_, err = h.db.Exec(`
		UPDATE voter
		SET name = $1, age = $2, profile_updated = $3
		WHERE voter_id = $4
	`, voter.Name, voter.Age, voter.ProfileUpdated, voterID)
	if err != nil {
		slog.Error("failed to update voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update voter")
		return
	}

	slog.Info("voter updated", "voter_id", voterID)

	middleware.JSONResponse(w, http.StatusOK, voter)
}

// Delete handles DELETE /api/voters/{id}
// Previously cast votes stay in the vote log and keep counting toward
// the tally.
func (h *VoterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	voterID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid voter id")
		return
	}

	res, err := h.db.Exec(`DELETE FROM voter WHERE voter_id = $1`, voterID)
	if err != nil {
		slog.Error("failed to delete voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete voter")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound,
			fmt.Sprintf("voter with id: %d was not found", voterID))
		return
	}

	slog.Info("voter deleted", "voter_id", voterID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: fmt.Sprintf("voter with id: %d deleted successfully", voterID),
	})
}
