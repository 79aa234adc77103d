// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voter: registration records with has_voted and profile_updated flags
  - candidate: registered candidates with party affiliation
  - vote: append-only vote log (weight, RFC3339 cast_at)
  - encrypted_ballot: end-to-end verifiable ballots keyed by nullifier
  - ranked_ballot: ranked-choice ballots per election
  - audit_plan: risk-limiting audit plans

# Relationships

	candidate 1──* vote
	voter     ───  vote.voter_id (no FK: votes outlive voter deletion)

# Portability

The DDL targets both modernc.org/sqlite and lib/pq. All timestamps are
RFC3339 UTC text, so lexicographic comparison equals chronological
comparison on either driver.
*/
package db
