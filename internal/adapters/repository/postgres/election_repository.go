package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type electionRepository struct {
	db *sql.DB
}

func NewElectionRepository(db *sql.DB) ports.ElectionRepository {
	return &electionRepository{
		db: db,
	}
}

const electionColumns = `id, title, description, start_at, end_at, is_public, allowed_voters,
	candidate_eligibility, min_age, require_id_proof, schemes, legacy_candidates, created_at`

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

	schemes, err := json.Marshal(nonNilSchemes(election.Schemes))
	if err != nil {
		return fmt.Errorf("failed to encode schemes: %w", err)
	}
	legacy, err := json.Marshal(nonNilCandidates(election.LegacyCandidates))
	if err != nil {
		return fmt.Errorf("failed to encode legacy candidates: %w", err)
	}

	query := `
		INSERT INTO elections (` + electionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			start_at = EXCLUDED.start_at,
			end_at = EXCLUDED.end_at,
			is_public = EXCLUDED.is_public,
			allowed_voters = EXCLUDED.allowed_voters,
			candidate_eligibility = EXCLUDED.candidate_eligibility,
			min_age = EXCLUDED.min_age,
			require_id_proof = EXCLUDED.require_id_proof,
			schemes = EXCLUDED.schemes,
			legacy_candidates = EXCLUDED.legacy_candidates
	`
	_, err = r.db.ExecContext(ctx, query,
		election.ID, election.Title, election.Description, election.StartAt, election.EndAt,
		election.IsPublic, stringArray(election.AllowedVoters), election.CandidateEligibility,
		election.Rule.MinAge, election.Rule.RequireIDProof, schemes, legacy, election.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save election: %w", err)
	}
	return nil
}

func (r *electionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	query := `SELECT ` + electionColumns + ` FROM elections WHERE id = $1`
	election, err := scanElection(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, fmt.Errorf("failed to get election: %w", err)
	}
	return election, nil
}

func (r *electionRepository) GetAll(ctx context.Context) ([]*domain.Election, error) {
	query := `SELECT ` + electionColumns + ` FROM elections ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all elections: %w", err)
	}
	defer rows.Close()

	var elections []*domain.Election
	for rows.Next() {
		election, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, election)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating elections: %w", err)
	}
	return elections, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanElection(row rowScanner) (*domain.Election, error) {
	var (
		e       domain.Election
		schemes []byte
		legacy  []byte
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.StartAt, &e.EndAt, &e.IsPublic,
		pq.Array(&e.AllowedVoters), &e.CandidateEligibility, &e.Rule.MinAge,
		&e.Rule.RequireIDProof, &schemes, &legacy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(schemes) > 0 {
		if err := json.Unmarshal(schemes, &e.Schemes); err != nil {
			return nil, fmt.Errorf("failed to decode schemes: %w", err)
		}
	}
	if len(legacy) > 0 {
		if err := json.Unmarshal(legacy, &e.LegacyCandidates); err != nil {
			return nil, fmt.Errorf("failed to decode legacy candidates: %w", err)
		}
		for i := range e.LegacyCandidates {
			e.LegacyCandidates[i].ElectionID = e.ID
		}
	}
	return &e, nil
}

func stringArray(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}

func nonNilSchemes(s []domain.Scheme) []domain.Scheme {
	if s == nil {
		return []domain.Scheme{}
	}
	return s
}

func nonNilCandidates(c []domain.Candidate) []domain.Candidate {
	if c == nil {
		return []domain.Candidate{}
	}
	return c
}
