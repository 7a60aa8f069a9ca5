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

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) ports.CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Save(ctx context.Context, c *domain.Candidate) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	row := candidateModelFromEntity(c)
	err := r.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to save candidate: %w", err)
	}

	// The translated error does not name the index that rejected the row.
	if c.NationalID != "" {
		existing, lookupErr := r.FindByNationalID(ctx, c.ElectionID, c.NationalID)
		if lookupErr == nil && existing != nil {
			return domain.ErrDuplicateNationalID
		}
	}
	return domain.ErrDuplicateCandidacy
}

func (r *candidateRepository) ListByElection(ctx context.Context, electionID uuid.UUID) ([]domain.Candidate, error) {
	var rows []candidateModel
	err := r.db.WithContext(ctx).Where("election_id = ?", electionID.String()).Order("created_at").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(rows))
	for _, row := range rows {
		c, err := row.toEntity()
		if err != nil {
			return nil, fmt.Errorf("failed to decode candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (r *candidateRepository) FindByCreator(ctx context.Context, electionID, userID uuid.UUID) (*domain.Candidate, error) {
	return r.findOne(ctx, "election_id = ? AND created_by = ?", electionID.String(), userID.String())
}

func (r *candidateRepository) FindByNationalID(ctx context.Context, electionID uuid.UUID, nationalID string) (*domain.Candidate, error) {
	return r.findOne(ctx, "election_id = ? AND national_id = ?", electionID.String(), nationalID)
}

func (r *candidateRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).Where(query, args...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	c, err := row.toEntity()
	if err != nil {
		return nil, fmt.Errorf("failed to decode candidate: %w", err)
	}
	return &c, nil
}
