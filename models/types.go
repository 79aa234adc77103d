// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Ballot and audit status constants
const (
	StatusAccepted = "accepted"
	StatusPlanned  = "planned"
)

// Tally and audit method constants
const (
	TestKaplanMarkov        = "kaplan-markov"
	MethodThresholdPaillier = "threshold_paillier"
	NoiseGaussian           = "gaussian"
)

// Request types
// Required fields use pointers so a missing key can be told apart
// from a zero value.

type CreateVoterRequest struct {
	VoterID *int    `json:"voter_id"`
	Name    *string `json:"name"`
	Age     *int    `json:"age"`
}

type UpdateVoterRequest struct {
	Name *string `json:"name"`
	Age  *int    `json:"age"`
}

type RegisterCandidateRequest struct {
	CandidateID *int    `json:"candidate_id"`
	Name        *string `json:"name"`
	Party       string  `json:"party"`
}

type CastVoteRequest struct {
	VoterID     *int `json:"voter_id"`
	CandidateID *int `json:"candidate_id"`
}

type EncryptedBallotRequest struct {
	ElectionID  string `json:"election_id"`
	Ciphertext  string `json:"ciphertext"`
	ZKProof     string `json:"zk_proof"`
	VoterPubkey string `json:"voter_pubkey"`
	Nullifier   string `json:"nullifier"`
	Signature   string `json:"signature"`
}

type RankedBallotRequest struct {
	ElectionID string `json:"election_id"`
	VoterID    *int   `json:"voter_id"`
	Ranking    []int  `json:"ranking"`
	Timestamp  string `json:"timestamp"`
}

type HomomorphicTallyRequest struct {
	ElectionID           string   `json:"election_id"`
	TrusteeDecryptShares []string `json:"trustee_decrypt_shares"`
}

type DPAnalyticsRequest struct {
	ElectionID string  `json:"election_id"`
	Query      string  `json:"query"`
	Epsilon    float64 `json:"epsilon"`
	Delta      float64 `json:"delta"`
}

type ReportedTally struct {
	CandidateID int `json:"candidate_id"`
	Votes       int `json:"votes"`
}

type Stratum struct {
	County     string  `json:"county"`
	Proportion float64 `json:"proportion"`
}

type AuditPlanRequest struct {
	ElectionID      string          `json:"election_id"`
	ReportedTallies []ReportedTally `json:"reported_tallies"`
	RiskLimitAlpha  float64         `json:"risk_limit_alpha"`
	AuditType       string          `json:"audit_type"`
	Stratification  []Stratum       `json:"stratification"`
}

// Domain types

type Voter struct {
	VoterID        int    `json:"voter_id"`
	Name           string `json:"name"`
	Age            int    `json:"age"`
	HasVoted       bool   `json:"has_voted"`
	ProfileUpdated bool   `json:"profile_updated"`
}

// VoterSummary is the listing shape: voting state stays private.
type VoterSummary struct {
	VoterID int    `json:"voter_id"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
}

type Candidate struct {
	CandidateID int    `json:"candidate_id"`
	Name        string `json:"name"`
	Party       string `json:"party"`
}

type Vote struct {
	VoteID      int    `json:"vote_id"`
	VoterID     int    `json:"voter_id"`
	CandidateID int    `json:"candidate_id"`
	Weight      int    `json:"weight"`
	Timestamp   string `json:"timestamp"`
}

// CandidateResult is one leaderboard row: a candidate with its
// accumulated vote weight.
type CandidateResult struct {
	CandidateID int    `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int    `json:"votes"`
}

type TimelineEntry struct {
	VoteID    int    `json:"vote_id"`
	Timestamp string `json:"timestamp"`
}

// Response types

type VoterListResponse struct {
	Voters []VoterSummary `json:"voters"`
}

type CandidateListResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type CandidateVotesResponse struct {
	CandidateID int `json:"candidate_id"`
	Votes       int `json:"votes"`
}

type ResultsResponse struct {
	Results []CandidateResult `json:"results"`
}

type WinnerResponse struct {
	Winner CandidateResult `json:"winner"`
}

type TimelineResponse struct {
	CandidateID int             `json:"candidate_id"`
	Timeline    []TimelineEntry `json:"timeline"`
}

type RangeVotesResponse struct {
	CandidateID int    `json:"candidate_id"`
	From        string `json:"from"`
	To          string `json:"to"`
	VotesGained int    `json:"votes_gained"`
}

type EncryptedBallotResponse struct {
	BallotID   string `json:"ballot_id"`
	Status     string `json:"status"`
	Nullifier  string `json:"nullifier"`
	AnchoredAt string `json:"anchored_at"`
}

type RankedBallotResponse struct {
	BallotID string `json:"ballot_id"`
	Status   string `json:"status"`
}

type TallyTransparency struct {
	BallotMerkleRoot string `json:"ballot_merkle_root"`
	TallyMethod      string `json:"tally_method"`
	Threshold        string `json:"threshold"`
}

type HomomorphicTallyResponse struct {
	ElectionID         string            `json:"election_id"`
	EncryptedTallyRoot string            `json:"encrypted_tally_root"`
	CandidateTallies   []CandidateResult `json:"candidate_tallies"`
	DecryptionProof    string            `json:"decryption_proof"`
	Transparency       TallyTransparency `json:"transparency"`
}

type PrivacyBudget struct {
	Epsilon float64 `json:"epsilon"`
	Delta   float64 `json:"delta"`
}

type DPAnalyticsResponse struct {
	Answer            map[string]int `json:"answer"`
	NoiseMechanism    string         `json:"noise_mechanism"`
	EpsilonSpent      float64        `json:"epsilon_spent"`
	Delta             float64        `json:"delta"`
	RemainingBudget   PrivacyBudget  `json:"remaining_privacy_budget"`
	CompositionMethod string         `json:"composition_method"`
}

type AuditPlanResponse struct {
	AuditID           string `json:"audit_id"`
	InitialSampleSize int    `json:"initial_sample_size"`
	SamplingPlan      string `json:"sampling_plan"`
	Test              string `json:"test"`
	Status            string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
