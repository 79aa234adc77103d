// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func validEncryptedBallot() models.EncryptedBallotRequest {
	return models.EncryptedBallotRequest{
		ElectionID:  "election-2026",
		Ciphertext:  "0x8f3a2b1c9d4e5f60",
		ZKProof:     "0x1a2b3c4d5e6f70819203",
		VoterPubkey: "0x04a1b2c3",
		Nullifier:   "0xdeadbeef01",
		Signature:   "0x30450221",
	}
}

func TestSubmitEncryptedBallot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewBallotHandler(db, cfg)

	t.Run("valid ballot", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/ballots/encrypted", validEncryptedBallot(), nil)
		w := httptest.NewRecorder()

		handler.SubmitEncrypted(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.EncryptedBallotResponse
		testutil.AssertJSON(t, w, &resp)
		if !strings.HasPrefix(resp.BallotID, "b_") {
			t.Errorf("expected b_ prefixed ballot id, got %q", resp.BallotID)
		}
		if resp.Status != models.StatusAccepted {
			t.Errorf("expected status %q, got %q", models.StatusAccepted, resp.Status)
		}
		if resp.AnchoredAt == "" {
			t.Error("expected an anchored_at timestamp")
		}
	})

	t.Run("replayed nullifier is double voting", func(t *testing.T) {
		replay := validEncryptedBallot()
		replay.Ciphertext = "0xfreshciphertext"

		req := testutil.MakeRequest("POST", "/api/ballots/encrypted", replay, nil)
		w := httptest.NewRecorder()

		handler.SubmitEncrypted(w, req)

		testutil.AssertStatus(t, w, http.StatusConflict)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if !strings.Contains(resp.Message, "double voting") {
			t.Errorf("expected a double-voting message, got %q", resp.Message)
		}
	})

	t.Run("missing ciphertext", func(t *testing.T) {
		body := validEncryptedBallot()
		body.Ciphertext = ""
		body.Nullifier = "0xnullifier02"

		req := testutil.MakeRequest("POST", "/api/ballots/encrypted", body, nil)
		w := httptest.NewRecorder()

		handler.SubmitEncrypted(w, req)

		testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	})

	t.Run("short zk proof", func(t *testing.T) {
		body := validEncryptedBallot()
		body.ZKProof = "0xdead"
		body.Nullifier = "0xnullifier03"

		req := testutil.MakeRequest("POST", "/api/ballots/encrypted", body, nil)
		w := httptest.NewRecorder()

		handler.SubmitEncrypted(w, req)

		testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/ballots/encrypted", "not an object", nil)
		w := httptest.NewRecorder()

		handler.SubmitEncrypted(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestSubmitRankedBallot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewBallotHandler(db, cfg)

	t.Run("valid ranking", func(t *testing.T) {
		body := models.RankedBallotRequest{
			ElectionID: "election-2026",
			VoterID:    intPtr(1),
			Ranking:    []int{3, 1, 2},
		}
		req := testutil.MakeRequest("POST", "/api/ballots/ranked", body, nil)
		w := httptest.NewRecorder()

		handler.SubmitRanked(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.RankedBallotResponse
		testutil.AssertJSON(t, w, &resp)
		if !strings.HasPrefix(resp.BallotID, "rb_") {
			t.Errorf("expected rb_ prefixed ballot id, got %q", resp.BallotID)
		}

		// Ranking round-trips through storage intact.
		var stored string
		err := db.QueryRow(`SELECT ranking FROM ranked_ballot WHERE ballot_id = $1`, resp.BallotID).Scan(&stored)
		if err != nil {
			t.Fatalf("Failed to query ranked ballot: %v", err)
		}
		var ranking []int
		if err := json.Unmarshal([]byte(stored), &ranking); err != nil {
			t.Fatalf("Failed to decode stored ranking: %v", err)
		}
		if len(ranking) != 3 || ranking[0] != 3 || ranking[1] != 1 || ranking[2] != 2 {
			t.Errorf("unexpected stored ranking: %v", ranking)
		}
	})

	t.Run("anonymous ballot", func(t *testing.T) {
		body := models.RankedBallotRequest{
			ElectionID: "election-2026",
			Ranking:    []int{1, 2},
		}
		req := testutil.MakeRequest("POST", "/api/ballots/ranked", body, nil)
		w := httptest.NewRecorder()

		handler.SubmitRanked(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)
	})

	t.Run("empty ranking", func(t *testing.T) {
		body := models.RankedBallotRequest{
			ElectionID: "election-2026",
			Ranking:    []int{},
		}
		req := testutil.MakeRequest("POST", "/api/ballots/ranked", body, nil)
		w := httptest.NewRecorder()

		handler.SubmitRanked(w, req)

		testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	})

	t.Run("duplicate candidate in ranking", func(t *testing.T) {
		body := models.RankedBallotRequest{
			ElectionID: "election-2026",
			Ranking:    []int{1, 2, 1},
		}
		req := testutil.MakeRequest("POST", "/api/ballots/ranked", body, nil)
		w := httptest.NewRecorder()

		handler.SubmitRanked(w, req)

		testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	})

	t.Run("missing election_id", func(t *testing.T) {
		body := models.RankedBallotRequest{Ranking: []int{1, 2}}
		req := testutil.MakeRequest("POST", "/api/ballots/ranked", body, nil)
		w := httptest.NewRecorder()

		handler.SubmitRanked(w, req)

		testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	})
}
