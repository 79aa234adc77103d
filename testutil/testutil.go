// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. A single connection keeps all queries on the same in-memory
// database and serializes transactions.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         5000,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		AMQPQueue:    "votes",
	}
}

// CreateTestVoter inserts a voter record
func CreateTestVoter(t *testing.T, conn *sql.DB, voterID int, name string, age int) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO voter (voter_id, name, age, has_voted, profile_updated)
		VALUES ($1, $2, $3, FALSE, FALSE)
	`, voterID, name, age)
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
}

// CreateTestCandidate inserts a candidate record
func CreateTestCandidate(t *testing.T, conn *sql.DB, candidateID int, name, party string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO candidate (candidate_id, name, party)
		VALUES ($1, $2, $3)
	`, candidateID, name, party)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
}

// CastTestVote inserts a vote directly and marks the voter as having
// voted
func CastTestVote(t *testing.T, conn *sql.DB, voteID, voterID, candidateID, weight int, castAt string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (vote_id, voter_id, candidate_id, weight, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, voterID, candidateID, weight, castAt)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	_, err = conn.Exec(`UPDATE voter SET has_voted = TRUE WHERE voter_id = $1`, voterID)
	if err != nil {
		t.Fatalf("Failed to mark voter as voted: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
