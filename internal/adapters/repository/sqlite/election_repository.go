package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type electionRepository struct {
	db *gorm.DB
}

func NewElectionRepository(db *gorm.DB) ports.ElectionRepository {
	return &electionRepository{db: db}
}

func (r *electionRepository) Save(ctx context.Context, election *domain.Election) error {
	if err := election.Validate(); err != nil {
		return err
	}
	if election.ID == uuid.Nil {
		election.ID = uuid.New()
	}
	if election.CreatedAt.IsZero() {
		election.CreatedAt = time.Now()
	}

	row := electionModelFromEntity(election)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save election: %w", err)
	}
	return nil
}

func (r *electionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, fmt.Errorf("failed to get election: %w", err)
	}
	return row.toEntity()
}

func (r *electionRepository) GetAll(ctx context.Context) ([]*domain.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get all elections: %w", err)
	}

	elections := make([]*domain.Election, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntity()
		if err != nil {
			return nil, fmt.Errorf("failed to decode election: %w", err)
		}
		elections = append(elections, e)
	}
	return elections, nil
}
