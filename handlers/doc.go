// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballotbox API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - VoterHandler: voter CRUD
  - CandidateHandler: registration, listing, per-candidate totals
  - VoteHandler: vote casting (plain and weighted), timeline, range queries
  - ResultsHandler: leaderboard, winner, homomorphic tally
  - BallotHandler: encrypted and ranked ballot intake
  - AnalyticsHandler: differentially private analytics
  - AuditHandler: risk-limiting audit planning

Handlers are created via constructor functions that accept *sql.DB and
Config; VoteHandler and ResultsHandler additionally take the event
publisher and results cache.

# Voting Flow

	POST /api/voters             → register (age >= 18)
	POST /api/candidates         → register
	POST /api/votes              → cast (one vote per voter)
	GET  /api/results            → leaderboard
	GET  /api/results/winner     → winner

A voter's vote is claimed atomically inside the cast transaction, so a
second cast returns 409 even under concurrent requests.

# Tally

The Results Aggregator is implemented in tally.go as pure functions:

	tally, err := handlers.ComputeTally(db)
	winner, ok := handlers.Winner(tally)

Every registered candidate appears in the tally, zero-vote candidates
included. Ordering and the winner tie-break are deterministic: votes
descending, then candidate_id ascending.

# Error Taxonomy

  - 400: malformed JSON or unparseable path/query parameters
  - 404: unknown voter or candidate
  - 409: duplicate id, double vote, duplicate nullifier, spent budget
  - 422: missing fields, underage voter, bad interval, short zk proof
*/
package handlers
