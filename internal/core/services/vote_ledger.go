package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type writeStrategy string

const (
	strategyAtomic  writeStrategy = "atomic"
	strategyTwoStep writeStrategy = "two_step"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock ports.Clock = systemClock{}

type voteLedger struct {
	candidates ports.CandidateRepository
	votes      ports.VoteRepository
	resolver   *AllowlistResolver
	clock      ports.Clock
	logger     *zap.Logger
}

func NewVoteLedger(candidates ports.CandidateRepository, votes ports.VoteRepository, resolver *AllowlistResolver, clock ports.Clock, logger *zap.Logger) ports.VoteLedger {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &voteLedger{
		candidates: candidates,
		votes:      votes,
		resolver:   resolver,
		clock:      clock,
		logger:     logger,
	}
}

// Cast records one vote for input.VoterCode in election. The checks run in a
// fixed order so that an unknown voter is reported before a wrong PIN, and
// the already-voted check always reads the store rather than a cached entry.
func (l *voteLedger) Cast(ctx context.Context, election *domain.Election, input ports.CastVoteInput) (*domain.VoteReceipt, error) {
	now := l.clock.Now()

	decision := EvaluateVote(election, now, Actor{Identity: input.Actor, VoterCode: input.VoterCode})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	belongs, err := candidateBelongs(ctx, l.candidates, election, input.CandidateID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, domain.ErrInvalidCandidate
	}

	entry, err := l.resolver.Resolve(ctx, input.VoterCode)
	if err != nil {
		return nil, err
	}
	if !entry.MatchPIN(input.PIN) {
		l.logger.Info("vote rejected",
			zap.String("election_id", election.ID.String()),
			zap.String("voter_code", domain.NormalizeVoterCode(entry.VoterCode)),
			zap.String("reason", domain.ErrPinMismatch.Code),
		)
		return nil, domain.ErrPinMismatch
	}

	vote := &domain.Vote{
		ID:          uuid.New(),
		ElectionID:  election.ID,
		CandidateID: input.CandidateID,
		VoterCode:   domain.NormalizeVoterCode(entry.VoterCode),
		CreatedAt:   now,
	}
	if input.Actor != nil && input.Actor.UserID != uuid.Nil {
		userID := input.Actor.UserID
		vote.UserID = &userID
	}

	strategy := strategyTwoStep
	if l.votes.Capabilities().Transactions {
		strategy = strategyAtomic
		err = l.commitAtomic(ctx, entry.VoterCode, vote)
		if errors.Is(err, domain.ErrTransientStore) {
			l.logger.Warn("atomic vote write unavailable, falling back to two-step write",
				zap.String("election_id", vote.ElectionID.String()),
				zap.String("voter_code", vote.VoterCode),
				zap.Error(err),
			)
			strategy = strategyTwoStep
			err = l.commitFallback(ctx, entry.VoterCode, vote)
		}
	} else {
		err = l.commitTwoStep(ctx, entry.VoterCode, vote)
	}

	fields := []zap.Field{
		zap.String("election_id", vote.ElectionID.String()),
		zap.String("candidate_id", vote.CandidateID.String()),
		zap.String("voter_code", vote.VoterCode),
		zap.String("strategy", string(strategy)),
	}
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			l.logger.Info("vote rejected", append(fields, zap.String("reason", domain.ErrAlreadyVoted.Code))...)
			return nil, domain.ErrAlreadyVoted
		}
		l.logger.Error("vote write failed", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	l.logger.Info("vote recorded", fields...)
	return &domain.VoteReceipt{Success: true, RecordedAt: now}, nil
}

// commitAtomic inserts the vote and marks the allowlist entry in one unit of
// work, holding the entry's lock across the already-voted check.
func (l *voteLedger) commitAtomic(ctx context.Context, storedCode string, vote *domain.Vote) error {
	return l.votes.RunInTx(ctx, func(tx ports.LedgerTx) error {
		entry, err := tx.LockAllowlistEntry(ctx, storedCode)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrVoterNotFound
		}

		voted, err := tx.HasVoted(ctx, vote.ElectionID, vote.VoterCode)
		if err != nil {
			return err
		}
		if voted {
			return domain.ErrAlreadyVoted
		}

		if err := tx.InsertVote(ctx, vote); err != nil {
			return err
		}
		return tx.MarkVoted(ctx, storedCode, vote.CreatedAt)
	})
}

// commitFallback runs the two-step path after a failed atomic attempt. A
// failed commit may still have landed, in which case the stored row carries
// this attempt's vote id.
func (l *voteLedger) commitFallback(ctx context.Context, storedCode string, vote *domain.Vote) error {
	existing, err := l.votes.FindVote(ctx, vote.ElectionID, vote.VoterCode)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID == vote.ID {
		l.logger.Info("atomic vote write committed despite reported failure",
			zap.String("election_id", vote.ElectionID.String()),
			zap.String("voter_code", vote.VoterCode),
		)
		return nil
	}
	return l.commitTwoStep(ctx, storedCode, vote)
}

// commitTwoStep is the compensating path for stores without transactions.
// The point lookup narrows the race window; the store's uniqueness
// constraint closes it.
func (l *voteLedger) commitTwoStep(ctx context.Context, storedCode string, vote *domain.Vote) error {
	voted, err := l.votes.HasVoted(ctx, vote.ElectionID, vote.VoterCode)
	if err != nil {
		return err
	}
	if voted {
		return domain.ErrAlreadyVoted
	}

	if err := l.votes.InsertVote(ctx, vote); err != nil {
		return err
	}

	// The vote row is authoritative; the voted flag is a derived cache.
	if err := l.votes.MarkVoted(ctx, storedCode, vote.CreatedAt); err != nil {
		l.logger.Error("vote recorded but allowlist flag not updated",
			zap.String("election_id", vote.ElectionID.String()),
			zap.String("voter_code", vote.VoterCode),
			zap.Error(err),
		)
	}
	return nil
}

// listCandidates reads the normalized candidate store and falls back to the
// election's embedded list only when the store holds none.
func listCandidates(ctx context.Context, repo ports.CandidateRepository, election *domain.Election) ([]domain.Candidate, error) {
	candidates, err := repo.ListByElection(ctx, election.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	if len(candidates) == 0 {
		return election.LegacyCandidates, nil
	}
	return candidates, nil
}

func candidateBelongs(ctx context.Context, repo ports.CandidateRepository, election *domain.Election, candidateID uuid.UUID) (bool, error) {
	if candidateID == uuid.Nil {
		return false, nil
	}
	candidates, err := listCandidates(ctx, repo, election)
	if err != nil {
		return false, err
	}
	for _, c := range candidates {
		if c.ID == candidateID {
			return true, nil
		}
	}
	return false, nil
}
