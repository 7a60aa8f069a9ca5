package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elections/internal/core/domain"
)

// StoreCapabilities is queried once per vote to pick a write strategy.
type StoreCapabilities struct {
	Transactions bool
}

// LedgerWriter holds the ledger's point operations. InsertVote must return
// domain.ErrAlreadyVoted when the (election, voter code) uniqueness
// constraint rejects the row.
type LedgerWriter interface {
	HasVoted(ctx context.Context, electionID uuid.UUID, voterCode string) (bool, error)
	InsertVote(ctx context.Context, vote *domain.Vote) error
	MarkVoted(ctx context.Context, voterCode string, at time.Time) error
}

// LedgerTx is a unit of work. LockAllowlistEntry re-reads the entry and
// holds it until the unit commits or rolls back.
type LedgerTx interface {
	LedgerWriter
	LockAllowlistEntry(ctx context.Context, voterCode string) (*domain.AllowlistEntry, error)
}

type VoteRepository interface {
	LedgerWriter
	Capabilities() StoreCapabilities
	// RunInTx commits when fn returns nil. Failures to begin or commit are
	// reported wrapped in domain.ErrTransientStore.
	RunInTx(ctx context.Context, fn func(tx LedgerTx) error) error
	HasVotedByUser(ctx context.Context, electionID, userID uuid.UUID) (bool, error)
	// FindVote returns nil, nil when the voter has no vote in the election.
	FindVote(ctx context.Context, electionID uuid.UUID, voterCode string) (*domain.Vote, error)
}

type CastVoteInput struct {
	ElectionID  uuid.UUID
	CandidateID uuid.UUID
	VoterCode   string
	PIN         string
	Actor       *domain.Identity
}

type VoteLedger interface {
	Cast(ctx context.Context, election *domain.Election, input CastVoteInput) (*domain.VoteReceipt, error)
}
