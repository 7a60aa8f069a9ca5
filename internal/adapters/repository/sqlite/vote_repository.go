package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type ledgerWriter struct {
	db *gorm.DB
}

func (w ledgerWriter) HasVoted(ctx context.Context, electionID uuid.UUID, voterCode string) (bool, error) {
	var count int64
	err := w.db.WithContext(ctx).Model(&voteModel{}).
		Where("election_id = ? AND voter_code = ?", electionID.String(), voterCode).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return count > 0, nil
}

func (w ledgerWriter) InsertVote(ctx context.Context, vote *domain.Vote) error {
	row := voteModelFromEntity(vote)
	if err := w.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

func (w ledgerWriter) MarkVoted(ctx context.Context, voterCode string, at time.Time) error {
	err := w.db.WithContext(ctx).Model(&allowlistModel{}).
		Where("voter_code = ?", voterCode).
		Updates(map[string]any{"voted": true, "voted_at": at}).Error
	if err != nil {
		return fmt.Errorf("failed to mark voter: %w", err)
	}
	return nil
}

type voteRepository struct {
	ledgerWriter
}

func NewVoteRepository(db *gorm.DB) ports.VoteRepository {
	return &voteRepository{ledgerWriter: ledgerWriter{db: db}}
}

func (r *voteRepository) Capabilities() ports.StoreCapabilities {
	return ports.StoreCapabilities{Transactions: true}
}

func (r *voteRepository) HasVotedByUser(ctx context.Context, electionID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&voteModel{}).
		Where("election_id = ? AND user_id = ?", electionID.String(), userID.String()).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return count > 0, nil
}

func (r *voteRepository) FindVote(ctx context.Context, electionID uuid.UUID, voterCode string) (*domain.Vote, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("election_id = ? AND voter_code = ?", electionID.String(), voterCode).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	vote, err := row.toEntity()
	if err != nil {
		return nil, fmt.Errorf("failed to decode vote: %w", err)
	}
	return vote, nil
}

// RunInTx holds the only pool connection for the whole unit of work, so
// units run one after another.
func (r *voteRepository) RunInTx(ctx context.Context, fn func(tx ports.LedgerTx) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", domain.ErrTransientStore, tx.Error)
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{ledgerWriter: ledgerWriter{db: tx}}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %v", domain.ErrTransientStore, err)
	}
	return nil
}

type sqliteTx struct {
	ledgerWriter
}

func (t *sqliteTx) LockAllowlistEntry(ctx context.Context, voterCode string) (*domain.AllowlistEntry, error) {
	var row allowlistModel
	err := t.db.WithContext(ctx).Where("voter_code = ?", voterCode).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock allowlist entry: %w", err)
	}
	return row.toEntity(), nil
}
