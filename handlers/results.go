// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ballotbox/cache"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type ResultsHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	results cache.ResultsCache
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config, results cache.ResultsCache) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg, results: results}
}

// GetResults handles GET /api/results
// The leaderboard includes zero-vote candidates and is ordered by votes
// descending, candidate_id ascending.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	if h.results != nil {
		if payload, ok := h.results.GetResults(r.Context()); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(payload)
			return
		}
	}

	tally, err := ComputeTally(h.db)
	if err != nil {
		slog.Error("failed to compute tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	response := models.ResultsResponse{Results: tally}
	payload, err := json.Marshal(response)
	if err != nil {
		slog.Error("failed to marshal results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to serialize results")
		return
	}

	if h.results != nil {
		h.results.SetResults(r.Context(), payload)
	}

	slog.Info("results computed",
		"candidates", len(tally),
		"total_votes", humanize.Comma(int64(TotalVotes(tally))))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// GetWinner handles GET /api/results/winner
// Exactly one winner: highest total weight, ties broken by lowest
// candidate_id.
func (h *ResultsHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	tally, err := ComputeTally(h.db)
	if err != nil {
		slog.Error("failed to compute tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	winner, ok := Winner(tally)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "no candidates registered")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WinnerResponse{Winner: winner})
}

// HomomorphicTally handles POST /api/results/homomorphic
// Produces the election tally together with deterministic verification
// digests over the stored encrypted ballots and trustee shares.
func (h *ResultsHandler) HomomorphicTally(w http.ResponseWriter, r *http.Request) {
	var req models.HomomorphicTallyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ElectionID == "" {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "election_id is required")
		return
	}

	tally, err := ComputeTally(h.db)
	if err != nil {
		slog.Error("failed to compute tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	tallyRoot, merkleRoot, err := h.ballotDigests(req.ElectionID)
	if err != nil {
		slog.Error("failed to compute ballot digests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	proof := sha256.Sum256([]byte(strings.Join(req.TrusteeDecryptShares, "\n")))

	middleware.JSONResponse(w, http.StatusOK, models.HomomorphicTallyResponse{
		ElectionID:         req.ElectionID,
		EncryptedTallyRoot: tallyRoot,
		CandidateTallies:   tally,
		DecryptionProof:    base64.StdEncoding.EncodeToString(proof[:]),
		Transparency: models.TallyTransparency{
			BallotMerkleRoot: merkleRoot,
			TallyMethod:      models.MethodThresholdPaillier,
			Threshold:        "3-of-5",
		},
	})
}

// ballotDigests hashes the election's stored encrypted ballots into a
// tally root (over ciphertexts) and a merkle-style root (over
// nullifiers). Ballot order is fixed by ballot_id so the digests are
// reproducible.
func (h *ResultsHandler) ballotDigests(electionID string) (string, string, error) {
	rows, err := h.db.Query(`
		SELECT ciphertext, nullifier
		FROM encrypted_ballot
		WHERE election_id = $1
		ORDER BY ballot_id
	`, electionID)
	if err != nil {
		return "", "", err
	}
	defer rows.Close()

	tallyHash := sha256.New()
	merkleHash := sha256.New()
	for rows.Next() {
		var ciphertext, nullifier string
		if err := rows.Scan(&ciphertext, &nullifier); err != nil {
			return "", "", err
		}
		tallyHash.Write([]byte(ciphertext))
		merkleHash.Write([]byte(nullifier))
	}
	if err := rows.Err(); err != nil {
		return "", "", err
	}

	tallyRoot := "0x" + hex.EncodeToString(tallyHash.Sum(nil))
	merkleRoot := "0x" + hex.EncodeToString(merkleHash.Sum(nil))
	return tallyRoot, merkleRoot, nil
}
