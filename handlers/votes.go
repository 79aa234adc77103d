// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/ballotbox/cache"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/events"
	"github.com/danielhkuo/ballotbox/metrics"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

// Vote ids are sequential integers above this floor, allocated inside
// the cast transaction.
const voteIDFloor = 100

type VoteHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	pub     events.Publisher
	results cache.ResultsCache
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config, pub events.Publisher, results cache.ResultsCache) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg, pub: pub, results: results}
}

// nowStamp returns the current UTC time as RFC3339 text, the storage
// and wire format for all vote timestamps.
func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Cast handles POST /api/votes
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	h.castVote(w, r, false)
}

// CastWeighted handles POST /api/votes/weighted
// The vote counts double when the voter has updated their profile
// since registration.
func (h *VoteHandler) CastWeighted(w http.ResponseWriter, r *http.Request) {
	h.castVote(w, r, true)
}

func (h *VoteHandler) castVote(w http.ResponseWriter, r *http.Request, weighted bool) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VoterID == nil || req.CandidateID == nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "missing required field(s)")
		return
	}
	voterID, candidateID := *req.VoterID, *req.CandidateID

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var profileUpdated bool
	err = tx.QueryRow(`
		SELECT profile_updated FROM voter WHERE voter_id = $1
	`, voterID).Scan(&profileUpdated)
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

	var candidateExists bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM candidate WHERE candidate_id = $1)
	`, candidateID).Scan(&candidateExists)
	if err != nil {
		slog.Error("failed to check candidate existence", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !candidateExists {
		middleware.ErrorResponse(w, http.StatusNotFound,
			fmt.Sprintf("candidate with id: %d was not found", candidateID))
		return
	}

	// Atomically claim the voter's single vote. Zero rows affected
	// means the flag was already set.
	res, err := tx.Exec(`
		UPDATE voter SET has_voted = TRUE
		WHERE voter_id = $1 AND has_voted = FALSE
	`, voterID)
	if err != nil {
		slog.Error("failed to claim vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if claimed == 0 {
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("voter with id: %d has already voted", voterID))
		return
	}

	weight := 1
	if weighted && profileUpdated {
		weight = 2
	}

	var voteID int
	err = tx.QueryRow(`
		SELECT COALESCE(MAX(vote_id), $1) + 1 FROM vote
	`, voteIDFloor).Scan(&voteID)
	if err != nil {
		slog.Error("failed to allocate vote id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	castAt := nowStamp()
	_, err = tx.Exec(`
		INSERT INTO vote (vote_id, voter_id, candidate_id, weight, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, voterID, candidateID, weight, castAt)
	if err != nil {
		slog.Error("failed to insert vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	metrics.VotesCast.Inc()

	if h.results != nil {
		h.results.Invalidate(r.Context())
	}

	ev := events.VoteEvent{
		VoteID:      voteID,
		VoterID:     voterID,
		CandidateID: candidateID,
		Weight:      weight,
		Timestamp:   castAt,
	}
	if err := h.pub.PublishVote(r.Context(), ev); err != nil {
		// Non-fatal: the vote is already committed.
		slog.Warn("failed to publish vote event", "error", err, "vote_id", voteID)
	}

	slog.Info("vote cast", "vote_id", voteID, "voter_id", voterID,
		"candidate_id", candidateID, "weight", weight)

	middleware.JSONResponse(w, http.StatusCreated, models.Vote{
		VoteID:      voteID,
		VoterID:     voterID,
		CandidateID: candidateID,
		Weight:      weight,
		Timestamp:   castAt,
	})
}

// Timeline handles GET /api/votes/timeline?candidate_id=N
func (h *VoteHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	candidateID, err := strconv.Atoi(r.URL.Query().Get("candidate_id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id query parameter is required")
		return
	}

	if ok := h.requireCandidate(w, candidateID); !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT vote_id, cast_at
		FROM vote
		WHERE candidate_id = $1
		ORDER BY cast_at, vote_id
	`, candidateID)
	if err != nil {
		slog.Error("failed to query vote timeline", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	timeline := []models.TimelineEntry{}
	for rows.Next() {
		var entry models.TimelineEntry
		if err := rows.Scan(&entry.VoteID, &entry.Timestamp); err != nil {
			slog.Error("failed to scan timeline entry", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		timeline = append(timeline, entry)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate timeline", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TimelineResponse{
		CandidateID: candidateID,
		Timeline:    timeline,
	})
}

// Range handles GET /api/votes/range?candidate_id=N&from=...&to=...
// Bounds are inclusive RFC3339 timestamps.
func (h *VoteHandler) Range(w http.ResponseWriter, r *http.Request) {
	candidateID, err := strconv.Atoi(r.URL.Query().Get("candidate_id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id query parameter is required")
		return
	}

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "from must be an RFC3339 timestamp")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "to must be an RFC3339 timestamp")
		return
	}

	if !from.Before(to) {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "invalid interval: from > to")
		return
	}

	if ok := h.requireCandidate(w, candidateID); !ok {
		return
	}

	// Normalized RFC3339 UTC text compares lexicographically in
	// timestamp order on both drivers.
	fromStamp := from.UTC().Format(time.RFC3339)
	toStamp := to.UTC().Format(time.RFC3339)

	var count int
	err = h.db.QueryRow(`
		SELECT COUNT(*)
		FROM vote
		WHERE candidate_id = $1 AND cast_at >= $2 AND cast_at <= $3
	`, candidateID, fromStamp, toStamp).Scan(&count)
	if err != nil {
		slog.Error("failed to count votes in range", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RangeVotesResponse{
		CandidateID: candidateID,
		From:        r.URL.Query().Get("from"),
		To:          r.URL.Query().Get("to"),
		VotesGained: count,
	})
}

// requireCandidate writes a 404 and returns false when the candidate
// does not exist.
func (h *VoteHandler) requireCandidate(w http.ResponseWriter, candidateID int) bool {
	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM candidate WHERE candidate_id = $1)
	`, candidateID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check candidate existence", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound,
			fmt.Sprintf("candidate with id: %d was not found", candidateID))
		return false
	}
	return true
}
