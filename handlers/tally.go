// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/danielhkuo/ballotbox/models"
)

// ComputeTally aggregates the vote log per candidate. Every registered
// candidate appears in the result, zero-vote candidates included.
// Rows are ordered by votes descending, candidate_id ascending.
func ComputeTally(db *sql.DB) ([]models.CandidateResult, error) {
	rows, err := db.Query(`
		SELECT c.candidate_id, c.name, COALESCE(SUM(v.weight), 0)
		FROM candidate c
		LEFT JOIN vote v ON v.candidate_id = c.candidate_id
		GROUP BY c.candidate_id, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tally: %w", err)
	}
	defer rows.Close()

	results := []models.CandidateResult{}
	for rows.Next() {
		var res models.CandidateResult
		if err := rows.Scan(&res.CandidateID, &res.Name, &res.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan tally row: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tally rows: %w", err)
	}

	SortLeaderboard(results)
	return results, nil
}

// SortLeaderboard orders results by votes descending, breaking ties by
// lowest candidate_id so the ordering is deterministic.
func SortLeaderboard(results []models.CandidateResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Votes != results[j].Votes {
			return results[i].Votes > results[j].Votes
		}
		return results[i].CandidateID < results[j].CandidateID
	})
}

// Winner selects the candidate with the highest vote total. Ties go to
// the lowest candidate_id. Returns false when no candidates exist.
func Winner(results []models.CandidateResult) (models.CandidateResult, bool) {
	if len(results) == 0 {
		return models.CandidateResult{}, false
	}

	best := results[0]
	for _, res := range results[1:] {
		if res.Votes > best.Votes ||
			(res.Votes == best.Votes && res.CandidateID < best.CandidateID) {
			best = res
		}
	}
	return best, true
}

// TotalVotes sums accumulated weight across the leaderboard.
func TotalVotes(results []models.CandidateResult) int {
	total := 0
	for _, res := range results {
		total += res.Votes
	}
	return total
}
