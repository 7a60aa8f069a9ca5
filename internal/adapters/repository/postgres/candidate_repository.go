package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type candidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) ports.CandidateRepository {
	return &candidateRepository{
		db: db,
	}
}

const candidateColumns = `id, election_id, name, party, symbol, address, age, manifesto, schemes,
	national_id, id_proof_provided, created_by, approved, created_at`

func (r *candidateRepository) Save(ctx context.Context, c *domain.Candidate) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO candidates (` + candidateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ElectionID, c.Name, c.Party, c.Symbol, c.Address, c.Age, c.Manifesto,
		stringArray(c.Schemes), nullString(c.NationalID), c.IDProofProvided, c.CreatedBy,
		c.Approved, c.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := pqError(err); ok && pqErr.Code == uniqueViolation {
			if pqErr.Constraint == candidateNationalIDIndex {
				return domain.ErrDuplicateNationalID
			}
			return domain.ErrDuplicateCandidacy
		}
		return fmt.Errorf("failed to save candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) ListByElection(ctx context.Context, electionID uuid.UUID) ([]domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE election_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) FindByCreator(ctx context.Context, electionID, userID uuid.UUID) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE election_id = $1 AND created_by = $2`
	return r.findOne(ctx, query, electionID, userID)
}

func (r *candidateRepository) FindByNationalID(ctx context.Context, electionID uuid.UUID, nationalID string) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE election_id = $1 AND national_id = $2`
	return r.findOne(ctx, query, electionID, nationalID)
}

func (r *candidateRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Candidate, error) {
	c, err := scanCandidate(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

func scanCandidate(row rowScanner) (*domain.Candidate, error) {
	var (
		c          domain.Candidate
		nationalID sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.ElectionID, &c.Name, &c.Party, &c.Symbol, &c.Address, &c.Age, &c.Manifesto,
		pq.Array(&c.Schemes), &nationalID, &c.IDProofProvided, &c.CreatedBy, &c.Approved, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.NationalID = nationalID.String
	return &c, nil
}
