package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type allowlistRepository struct {
	db *gorm.DB
}

func NewAllowlistRepository(db *gorm.DB) ports.AllowlistRepository {
	return &allowlistRepository{db: db}
}

func (r *allowlistRepository) FindByCode(ctx context.Context, normalizedCode string) (*domain.AllowlistEntry, error) {
	var row allowlistModel
	err := r.db.WithContext(ctx).Where("voter_code_norm = ?", normalizedCode).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get allowlist entry: %w", err)
	}
	return row.toEntity(), nil
}

func (r *allowlistRepository) Sample(ctx context.Context, limit int) ([]domain.AllowlistEntry, error) {
	var rows []allowlistModel
	if err := r.db.WithContext(ctx).Order("created_at").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to sample allowlist: %w", err)
	}

	entries := make([]domain.AllowlistEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, *row.toEntity())
	}
	return entries, nil
}

func (r *allowlistRepository) Provision(ctx context.Context, entries []domain.AllowlistEntry) (int, error) {
	inserted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, e := range entries {
			row := allowlistModel{
				VoterCode:     e.VoterCode,
				VoterCodeNorm: domain.NormalizeVoterCode(e.VoterCode),
				PIN:           e.PIN,
				Legacy:        e.Legacy,
				CreatedAt:     now,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
			if res.Error != nil {
				return res.Error
			}
			inserted += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to provision allowlist: %w", err)
	}
	return inserted, nil
}
