package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elections/internal/core/domain"
)

type ResultRepository interface {
	SummarizeVotes(ctx context.Context, electionID uuid.UUID) error
	// GetCandidateStats reads the tallies stored by SummarizeVotes.
	GetCandidateStats(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error)
	// CountVotes groups the election's vote rows by candidate on every call.
	CountVotes(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error)
}

type SummaryService interface {
	SummarizeAllVotes(ctx context.Context) error
}
