package domain

import (
	"time"

	"github.com/google/uuid"
)

type Election struct {
	ID                   uuid.UUID       `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description,omitempty"`
	StartAt              *time.Time      `json:"start_at,omitempty"`
	EndAt                *time.Time      `json:"end_at,omitempty"`
	IsPublic             bool            `json:"is_public"`
	AllowedVoters        []string        `json:"allowed_voters,omitempty"`
	CandidateEligibility string          `json:"candidate_eligibility,omitempty"`
	Rule                 EligibilityRule `json:"rule"`
	Schemes              []Scheme        `json:"schemes,omitempty"`
	LegacyCandidates     []Candidate     `json:"-"`
	CreatedAt            time.Time       `json:"created_at"`
}

// EligibilityRule is the structured candidacy rule. A zero MinAge means the
// free-text CandidateEligibility field may still carry a minimum age.
type EligibilityRule struct {
	MinAge         int  `json:"min_age,omitempty"`
	RequireIDProof bool `json:"require_id_proof,omitempty"`
}

type Scheme struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

func (e *Election) Validate() error {
	if e.StartAt != nil && e.EndAt != nil && e.StartAt.After(*e.EndAt) {
		return ErrInvalidWindow
	}
	return nil
}
