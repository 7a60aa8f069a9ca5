package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type resultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) ports.ResultRepository {
	return &resultRepository{
		db: db,
	}
}

func (r *resultRepository) GetCandidateStats(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error) {
	query := `
		SELECT election_id, candidate_id, vote_count, last_updated_at
		FROM election_results
		WHERE election_id = $1
		ORDER BY vote_count DESC, candidate_id
	`

	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer rows.Close()

	var (
		tallies []domain.CandidateTally
		total   int64
	)
	for rows.Next() {
		var t domain.CandidateTally
		if err := rows.Scan(&t.ElectionID, &t.CandidateID, &t.VoteCount, &t.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		tallies = append(tallies, t)
		total += t.VoteCount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats: %w", err)
	}

	for i := range tallies {
		if total > 0 {
			tallies[i].Percentage = (float64(tallies[i].VoteCount) / float64(total)) * 100
		}
	}
	return tallies, nil
}

// SummarizeVotes rewrites the election's tallies from the vote rows in one
// statement, so readers never observe a partial recount.
func (r *resultRepository) SummarizeVotes(ctx context.Context, electionID uuid.UUID) error {
	query := `
		INSERT INTO election_results (election_id, candidate_id, vote_count, last_updated_at)
		SELECT election_id, candidate_id, COUNT(*), NOW()
		FROM votes
		WHERE election_id = $1
		GROUP BY election_id, candidate_id
		ON CONFLICT (election_id, candidate_id) DO UPDATE
		SET vote_count = EXCLUDED.vote_count,
		    last_updated_at = NOW();
	`

	_, err := r.db.ExecContext(ctx, query, electionID)
	if err != nil {
		return fmt.Errorf("failed to summarize votes for election %s: %w", electionID, err)
	}

	return nil
}

func (r *resultRepository) CountVotes(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error) {
	query := `
		SELECT candidate_id, COUNT(*) AS vote_count, NOW()
		FROM votes
		WHERE election_id = $1
		GROUP BY candidate_id
		ORDER BY vote_count DESC, candidate_id
	`

	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	var tallies []domain.CandidateTally
	for rows.Next() {
		t := domain.CandidateTally{ElectionID: electionID}
		if err := rows.Scan(&t.CandidateID, &t.VoteCount, &t.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}
	return domain.WithPercentages(tallies), nil
}
