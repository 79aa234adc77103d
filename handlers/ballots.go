// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/idgen"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

// minZKProofLen is the minimum accepted zk-proof payload length.
const minZKProofLen = 10

type BallotHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewBallotHandler(db *sql.DB, cfg cliparse.Config) *BallotHandler {
	return &BallotHandler{db: db, cfg: cfg}
}

// SubmitEncrypted handles POST /api/ballots/encrypted
// The nullifier makes double voting detectable without linking the
// ballot to a voter.
func (h *BallotHandler) SubmitEncrypted(w http.ResponseWriter, r *http.Request) {
	var req models.EncryptedBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ElectionID == "" || req.Ciphertext == "" || req.Nullifier == "" {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "missing required field(s)")
		return
	}
	if len(req.ZKProof) < minZKProofLen {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "invalid zk proof")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var nullifierSeen bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM encrypted_ballot WHERE nullifier = $1)
	`, req.Nullifier).Scan(&nullifierSeen)
	if err != nil {
		slog.Error("failed to check nullifier", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if nullifierSeen {
		middleware.ErrorResponse(w, http.StatusConflict, "double voting detected")
		return
	}

	ballotID, err := idgen.BallotID()
	if err != nil {
		slog.Error("failed to generate ballot id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	anchoredAt := nowStamp()
	_, err = tx.Exec(`
		INSERT INTO encrypted_ballot
			(ballot_id, election_id, ciphertext, zk_proof, voter_pubkey, nullifier, signature, status, anchored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, ballotID, req.ElectionID, req.Ciphertext, req.ZKProof, req.VoterPubkey,
		req.Nullifier, req.Signature, models.StatusAccepted, anchoredAt)
	if err != nil {
		slog.Error("failed to insert encrypted ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit encrypted ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	slog.Info("encrypted ballot anchored", "ballot_id", ballotID, "election_id", req.ElectionID)

	middleware.JSONResponse(w, http.StatusCreated, models.EncryptedBallotResponse{
		BallotID:   ballotID,
		Status:     models.StatusAccepted,
		Nullifier:  req.Nullifier,
		AnchoredAt: anchoredAt,
	})
}

// SubmitRanked handles POST /api/ballots/ranked
func (h *BallotHandler) SubmitRanked(w http.ResponseWriter, r *http.Request) {
	var req models.RankedBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ElectionID == "" {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "election_id is required")
		return
	}
	if len(req.Ranking) == 0 {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "ranking cannot be empty")
		return
	}
	seen := make(map[int]bool, len(req.Ranking))
	for _, candidateID := range req.Ranking {
		if seen[candidateID] {
			middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "ranking contains duplicate candidates")
			return
		}
		seen[candidateID] = true
	}

	ranking, err := json.Marshal(req.Ranking)
	if err != nil {
		slog.Error("failed to marshal ranking", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	ballotID := "rb_" + uuid.NewString()

	var voterID interface{}
	if req.VoterID != nil {
		voterID = *req.VoterID
	}

	submittedAt := req.Timestamp
	if submittedAt == "" {
		submittedAt = nowStamp()
	}

	_, err = h.db.Exec(`
		INSERT INTO ranked_ballot (ballot_id, election_id, voter_id, ranking, submitted_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ballotID, req.ElectionID, voterID, string(ranking), submittedAt, models.StatusAccepted)
	if err != nil {
		slog.Error("failed to insert ranked ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	slog.Info("ranked ballot accepted", "ballot_id", ballotID, "election_id", req.ElectionID)

	middleware.JSONResponse(w, http.StatusCreated, models.RankedBallotResponse{
		BallotID: ballotID,
		Status:   models.StatusAccepted,
	})
}
