package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elections/internal/core/domain"
)

type CandidateRepository interface {
	Save(ctx context.Context, candidate *domain.Candidate) error
	ListByElection(ctx context.Context, electionID uuid.UUID) ([]domain.Candidate, error)
	// FindByCreator and FindByNationalID return nil, nil when nothing matches.
	FindByCreator(ctx context.Context, electionID, userID uuid.UUID) (*domain.Candidate, error)
	FindByNationalID(ctx context.Context, electionID uuid.UUID, nationalID string) (*domain.Candidate, error)
}
