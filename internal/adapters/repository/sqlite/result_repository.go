package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ports.ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) SummarizeVotes(ctx context.Context, electionID uuid.UUID) error {
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO election_results (election_id, candidate_id, vote_count, last_updated_at)
		SELECT election_id, candidate_id, COUNT(*), ?
		FROM votes
		WHERE election_id = ?
		GROUP BY election_id, candidate_id
		ON CONFLICT (election_id, candidate_id) DO UPDATE
		SET vote_count = excluded.vote_count,
		    last_updated_at = excluded.last_updated_at
	`, time.Now(), electionID.String()).Error
	if err != nil {
		return fmt.Errorf("failed to summarize votes for election %s: %w", electionID, err)
	}
	return nil
}

func (r *resultRepository) GetCandidateStats(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error) {
	var rows []resultModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", electionID.String()).
		Order("vote_count DESC, candidate_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}

	var total int64
	for _, row := range rows {
		total += row.VoteCount
	}

	tallies := make([]domain.CandidateTally, 0, len(rows))
	for _, row := range rows {
		candidateID, err := uuid.Parse(row.CandidateID)
		if err != nil {
			return nil, fmt.Errorf("failed to decode candidate id: %w", err)
		}
		t := domain.CandidateTally{
			ElectionID:    electionID,
			CandidateID:   candidateID,
			VoteCount:     row.VoteCount,
			LastUpdatedAt: row.LastUpdatedAt,
		}
		if total > 0 {
			t.Percentage = (float64(row.VoteCount) / float64(total)) * 100
		}
		tallies = append(tallies, t)
	}
	return tallies, nil
}

type voteCountRow struct {
	CandidateID string
	VoteCount   int64
}

func (r *resultRepository) CountVotes(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error) {
	var rows []voteCountRow
	err := r.db.WithContext(ctx).Model(&voteModel{}).
		Select("candidate_id, COUNT(*) AS vote_count").
		Where("election_id = ?", electionID.String()).
		Group("candidate_id").
		Order("vote_count DESC, candidate_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	now := time.Now()
	tallies := make([]domain.CandidateTally, 0, len(rows))
	for _, row := range rows {
		candidateID, err := uuid.Parse(row.CandidateID)
		if err != nil {
			return nil, fmt.Errorf("failed to decode candidate id: %w", err)
		}
		tallies = append(tallies, domain.CandidateTally{
			ElectionID:    electionID,
			CandidateID:   candidateID,
			VoteCount:     row.VoteCount,
			LastUpdatedAt: now,
		})
	}
	return domain.WithPercentages(tallies), nil
}
