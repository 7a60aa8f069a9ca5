package domain

import (
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	ID              uuid.UUID  `json:"id"`
	ElectionID      uuid.UUID  `json:"election_id"`
	Name            string     `json:"name"`
	Party           string     `json:"party,omitempty"`
	Symbol          string     `json:"symbol,omitempty"`
	Address         string     `json:"address,omitempty"`
	Age             *int       `json:"age,omitempty"`
	Manifesto       string     `json:"manifesto"`
	Schemes         []string   `json:"schemes"`
	NationalID      string     `json:"-"`
	IDProofProvided bool       `json:"id_proof_provided"`
	CreatedBy       *uuid.UUID `json:"created_by,omitempty"`
	Approved        bool       `json:"approved"`
	CreatedAt       time.Time  `json:"created_at"`
}

type CandidateTally struct {
	ElectionID    uuid.UUID `json:"election_id"`
	CandidateID   uuid.UUID `json:"candidate_id"`
	VoteCount     int64     `json:"vote_count"`
	Percentage    float64   `json:"percentage"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// WithPercentages sets each tally's share of the summed vote count.
func WithPercentages(tallies []CandidateTally) []CandidateTally {
	var total int64
	for _, t := range tallies {
		total += t.VoteCount
	}
	if total == 0 {
		return tallies
	}
	for i := range tallies {
		tallies[i].Percentage = (float64(tallies[i].VoteCount) / float64(total)) * 100
	}
	return tallies
}
