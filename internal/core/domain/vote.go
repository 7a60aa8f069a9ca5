package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID          uuid.UUID  `json:"id"`
	ElectionID  uuid.UUID  `json:"election_id"`
	CandidateID uuid.UUID  `json:"candidate_id"`
	VoterCode   string     `json:"voter_code"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// VoteReceipt confirms a committed vote without echoing ballot content.
type VoteReceipt struct {
	Success    bool      `json:"success"`
	RecordedAt time.Time `json:"recorded_at"`
}

// VoterState drives UI state only. The ledger never reads it.
type VoterState struct {
	CanVote  bool   `json:"can_vote"`
	HasVoted bool   `json:"has_voted"`
	Reason   string `json:"reason,omitempty"`
}
