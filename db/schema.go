// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to the SQLite/PostgreSQL common subset; timestamps are
// stored as RFC3339 UTC text so range comparisons behave identically
// on both drivers.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Voters
CREATE TABLE IF NOT EXISTS voter (
    voter_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    age INTEGER NOT NULL CHECK (age >= 18),
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    profile_updated BOOLEAN NOT NULL DEFAULT FALSE
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    candidate_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    party TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_candidate_party ON candidate(party);

-- Votes
-- Append-only. No foreign key to voter: deleting a voter must not
-- retroactively remove cast votes from the tally.
CREATE TABLE IF NOT EXISTS vote (
    vote_id INTEGER PRIMARY KEY,
    voter_id INTEGER NOT NULL,
    candidate_id INTEGER NOT NULL REFERENCES candidate(candidate_id),
    weight INTEGER NOT NULL DEFAULT 1,
    cast_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_candidate ON vote(candidate_id);
CREATE INDEX IF NOT EXISTS idx_vote_candidate_cast_at ON vote(candidate_id, cast_at);

-- Encrypted Ballots
CREATE TABLE IF NOT EXISTS encrypted_ballot (
    ballot_id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL,
    ciphertext TEXT NOT NULL,
    zk_proof TEXT NOT NULL,
    voter_pubkey TEXT,
    nullifier TEXT NOT NULL UNIQUE,
    signature TEXT,
    status TEXT NOT NULL,
    anchored_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_encrypted_ballot_election ON encrypted_ballot(election_id);

-- Ranked Ballots
CREATE TABLE IF NOT EXISTS ranked_ballot (
    ballot_id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL,
    voter_id INTEGER,
    ranking TEXT NOT NULL,
    submitted_at TEXT,
    status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ranked_ballot_election ON ranked_ballot(election_id);

-- Risk-Limiting Audit Plans
CREATE TABLE IF NOT EXISTS audit_plan (
    audit_id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL,
    audit_type TEXT,
    risk_limit REAL NOT NULL,
    initial_sample_size INTEGER NOT NULL,
    sampling_plan TEXT NOT NULL,
    test TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`
