// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateVoterRequest: voter_id, name, age
  - UpdateVoterRequest: name, age (both optional)
  - RegisterCandidateRequest: candidate_id, name, party
  - CastVoteRequest: voter_id, candidate_id
  - EncryptedBallotRequest: election_id, ciphertext, zk_proof, nullifier, ...
  - RankedBallotRequest: election_id, voter_id, ranking
  - DPAnalyticsRequest: query, epsilon, delta
  - AuditPlanRequest: reported_tallies, risk_limit_alpha, stratification

Required fields are pointer-typed so handlers can distinguish a missing
key from a zero value.

# Domain Types

  - Voter: registration record with has_voted and profile_updated flags
  - Candidate: id, name, party
  - Vote: one cast vote with weight and timestamp
  - CandidateResult: leaderboard row (candidate + accumulated weight)

# Constants

Statuses:

	StatusAccepted = "accepted"
	StatusPlanned  = "planned"

Methods:

	TestKaplanMarkov        = "kaplan-markov"
	MethodThresholdPaillier = "threshold_paillier"
	NoiseGaussian           = "gaussian"
*/
package models
