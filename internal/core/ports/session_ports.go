package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elections/internal/core/domain"
)

type CandidacyForm struct {
	Name            string
	Age             *int
	Manifesto       string
	Party           string
	Symbol          string
	Schemes         []string
	NationalID      string
	Address         string
	IDProofProvided bool
}

type CandidacyResult struct {
	CandidateID     uuid.UUID
	InferredSchemes []string
}

type ElectionSessionService interface {
	RegisterCandidacy(ctx context.Context, electionID uuid.UUID, applicant *domain.Identity, form CandidacyForm) (*CandidacyResult, error)
	CastVote(ctx context.Context, input CastVoteInput) (*domain.VoteReceipt, error)
	ComputeVoterState(ctx context.Context, electionID uuid.UUID, actor *domain.Identity, voterCode string) (*domain.VoterState, error)
	Results(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error)
}

type Clock interface {
	Now() time.Time
}
