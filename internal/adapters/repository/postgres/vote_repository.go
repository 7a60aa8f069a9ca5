package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

// ledgerWriter runs the ledger's point operations on either the pool or an
// open transaction.
type ledgerWriter struct {
	q queryer
}

func (w ledgerWriter) HasVoted(ctx context.Context, electionID uuid.UUID, voterCode string) (bool, error) {
	query := `SELECT 1 FROM votes WHERE election_id = $1 AND voter_code = $2 LIMIT 1`
	var exists int
	err := w.q.QueryRowContext(ctx, query, electionID, voterCode).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func (w ledgerWriter) InsertVote(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (id, election_id, candidate_id, voter_code, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := w.q.ExecContext(ctx, query, vote.ID, vote.ElectionID, vote.CandidateID, vote.VoterCode, vote.UserID, vote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyVoted
		}
		if isTransient(err) {
			return transient("save vote", err)
		}
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

func (w ledgerWriter) MarkVoted(ctx context.Context, voterCode string, at time.Time) error {
	query := `UPDATE allowlist_entries SET voted = TRUE, voted_at = $2 WHERE voter_code = $1`
	if _, err := w.q.ExecContext(ctx, query, voterCode, at); err != nil {
		return fmt.Errorf("failed to mark voter: %w", err)
	}
	return nil
}

type voteRepository struct {
	ledgerWriter
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		ledgerWriter: ledgerWriter{q: db},
		db:           db,
	}
}

func (r *voteRepository) Capabilities() ports.StoreCapabilities {
	return ports.StoreCapabilities{Transactions: true}
}

func (r *voteRepository) HasVotedByUser(ctx context.Context, electionID, userID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM votes WHERE election_id = $1 AND user_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, electionID, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func (r *voteRepository) FindVote(ctx context.Context, electionID uuid.UUID, voterCode string) (*domain.Vote, error) {
	query := `
		SELECT id, election_id, candidate_id, voter_code, user_id, created_at
		FROM votes
		WHERE election_id = $1 AND voter_code = $2
	`
	var (
		v      domain.Vote
		userID uuid.NullUUID
	)
	err := r.db.QueryRowContext(ctx, query, electionID, voterCode).
		Scan(&v.ID, &v.ElectionID, &v.CandidateID, &v.VoterCode, &userID, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	if userID.Valid {
		v.UserID = &userID.UUID
	}
	return &v, nil
}

func (r *voteRepository) RunInTx(ctx context.Context, fn func(tx ports.LedgerTx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return transient("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(&pgTx{ledgerWriter: ledgerWriter{q: tx}, tx: tx}); err != nil {
		if isTransient(err) {
			return transient("run transaction", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyVoted
		}
		return transient("commit transaction", err)
	}
	return nil
}

type pgTx struct {
	ledgerWriter
	tx *sql.Tx
}

// LockAllowlistEntry takes a row lock that is held until the transaction
// ends, so concurrent casts for one voter run one after another.
func (t *pgTx) LockAllowlistEntry(ctx context.Context, voterCode string) (*domain.AllowlistEntry, error) {
	query := `SELECT ` + allowlistColumns + ` FROM allowlist_entries WHERE voter_code = $1 FOR UPDATE`
	entry, err := scanEntry(t.tx.QueryRowContext(ctx, query, voterCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if isTransient(err) {
			return nil, transient("lock allowlist entry", err)
		}
		return nil, fmt.Errorf("failed to lock allowlist entry: %w", err)
	}
	return entry, nil
}
