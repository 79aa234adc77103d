// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import "context"

// VoteEvent is published after a vote has been committed to the store.
type VoteEvent struct {
	VoteID      int    `json:"vote_id"`
	VoterID     int    `json:"voter_id"`
	CandidateID int    `json:"candidate_id"`
	Weight      int    `json:"weight"`
	Timestamp   string `json:"timestamp"`
}

// Publisher delivers vote events to downstream consumers. Publishing is
// best-effort: the vote is already durable when PublishVote is called.
type Publisher interface {
	PublishVote(ctx context.Context, ev VoteEvent) error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishVote(ctx context.Context, ev VoteEvent) error {
	return nil
}
