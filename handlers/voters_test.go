// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestCreateVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVoterHandler(db, cfg)

	testutil.CreateTestVoter(t, db, 99, "Existing", 40)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.Voter)
	}{
		{
			name: "valid voter creation",
			requestBody: models.CreateVoterRequest{
				VoterID: intPtr(1),
				Name:    strPtr("Alice"),
				Age:     intPtr(30),
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.Voter) {
				if resp.VoterID != 1 || resp.Name != "Alice" || resp.Age != 30 {
					t.Errorf("unexpected voter: %+v", resp)
				}
				if resp.HasVoted {
					t.Error("new voter should not have voted")
				}

				var count int
				if err := db.QueryRow(`SELECT COUNT(*) FROM voter WHERE voter_id = 1`).Scan(&count); err != nil {
					t.Fatalf("Failed to count voters: %v", err)
				}
				if count != 1 {
					t.Error("voter was not persisted")
				}
			},
		},
		{
			name: "missing name",
			requestBody: models.CreateVoterRequest{
				VoterID: intPtr(2),
				Age:     intPtr(30),
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "missing voter_id",
			requestBody: models.CreateVoterRequest{
				Name: strPtr("Bob"),
				Age:  intPtr(30),
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "underage voter",
			requestBody: models.CreateVoterRequest{
				VoterID: intPtr(3),
				Name:    strPtr("Kid"),
				Age:     intPtr(17),
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "duplicate voter id",
			requestBody: models.CreateVoterRequest{
				VoterID: intPtr(99),
				Name:    strPtr("Clone"),
				Age:     intPtr(25),
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not an object",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/voters", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Create(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.checkResponse != nil {
				var resp models.Voter
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestGetVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVoterHandler(db, cfg)

	testutil.CreateTestVoter(t, db, 5, "Eve", 44)

	t.Run("existing voter round-trips", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/voters/5", nil, nil)
		req.SetPathValue("id", "5")
		w := httptest.NewRecorder()

		handler.Get(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.Voter
		testutil.AssertJSON(t, w, &resp)
		if resp.VoterID != 5 || resp.Name != "Eve" || resp.Age != 44 {
			t.Errorf("unexpected voter: %+v", resp)
		}
	})

	t.Run("unknown voter", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/voters/777", nil, nil)
		req.SetPathValue("id", "777")
		w := httptest.NewRecorder()

		handler.Get(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/voters/abc", nil, nil)
		req.SetPathValue("id", "abc")
		w := httptest.NewRecorder()

		handler.Get(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestListVoters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVoterHandler(db, cfg)

	t.Run("empty list", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/voters", nil, nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.VoterListResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Voters) != 0 {
			t.Errorf("expected empty list, got %d voters", len(resp.Voters))
		}
	})

	t.Run("lists voters ordered by id", func(t *testing.T) {
		testutil.CreateTestVoter(t, db, 2, "Bob", 35)
		testutil.CreateTestVoter(t, db, 1, "Alice", 30)

		req := testutil.MakeRequest("GET", "/api/voters", nil, nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.VoterListResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Voters) != 2 {
			t.Fatalf("expected 2 voters, got %d", len(resp.Voters))
		}
		if resp.Voters[0].VoterID != 1 || resp.Voters[1].VoterID != 2 {
			t.Errorf("voters not ordered by id: %+v", resp.Voters)
		}
	})
}

func TestUpdateVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVoterHandler(db, cfg)

	testutil.CreateTestVoter(t, db, 1, "Alice", 30)

	t.Run("update name marks profile as updated", func(t *testing.T) {
		body := models.UpdateVoterRequest{Name: strPtr("Alicia")}
		req := testutil.MakeRequest("PUT", "/api/voters/1", body, nil)
		req.SetPathValue("id", "1")
		w := httptest.NewRecorder()

		handler.Update(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.Voter
		testutil.AssertJSON(t, w, &resp)
		if resp.Name != "Alicia" || resp.Age != 30 {
			t.Errorf("unexpected voter after update: %+v", resp)
		}
		if !resp.ProfileUpdated {
			t.Error("profile_updated should be set after a field update")
		}
	})

	t.Run("underage update rejected", func(t *testing.T) {
		body := models.UpdateVoterRequest{Age: intPtr(16)}
		req := testutil.MakeRequest("PUT", "/api/voters/1", body, nil)
		req.SetPathValue("id", "1")
		w := httptest.NewRecorder()

		handler.Update(w, req)

		testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)
	})

	t.Run("unknown voter", func(t *testing.T) {
		body := models.UpdateVoterRequest{Name: strPtr("Ghost")}
		req := testutil.MakeRequest("PUT", "/api/voters/404", body, nil)
		req.SetPathValue("id", "404")
		w := httptest.NewRecorder()

		handler.Update(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestDeleteVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVoterHandler(db, cfg)

	testutil.CreateTestVoter(t, db, 1, "Alice", 30)
	testutil.CreateTestCandidate(t, db, 10, "Candidate A", "Indigo")
	testutil.CastTestVote(t, db, 101, 1, 10, 1, "2026-01-01T10:00:00Z")

	t.Run("delete existing voter", func(t *testing.T) {
		req := testutil.MakeRequest("DELETE", "/api/voters/1", nil, nil)
		req.SetPathValue("id", "1")
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM voter WHERE voter_id = 1`).Scan(&count); err != nil {
			t.Fatalf("Failed to count voters: %v", err)
		}
		if count != 0 {
			t.Error("voter was not deleted")
		}
	})

	t.Run("prior votes survive voter deletion", func(t *testing.T) {
		tally, err := ComputeTally(db)
		if err != nil {
			t.Fatal(err)
		}
		if len(tally) != 1 || tally[0].Votes != 1 {
			t.Errorf("expected the deleted voter's vote to remain in the tally, got %+v", tally)
		}
	})

	t.Run("delete unknown voter", func(t *testing.T) {
		req := testutil.MakeRequest("DELETE", "/api/voters/1", nil, nil)
		req.SetPathValue("id", "1")
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
