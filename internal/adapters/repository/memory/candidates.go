package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type candidateRepository struct {
	s *Store
}

func (s *Store) Candidates() ports.CandidateRepository {
	return &candidateRepository{s: s}
}

// Save enforces the same uniqueness rules as the SQL stores: one candidacy
// per (election, creator) and per (election, national id).
func (r *candidateRepository) Save(ctx context.Context, candidate *domain.Candidate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.candidates {
		if c.ElectionID != candidate.ElectionID {
			continue
		}
		if candidate.CreatedBy != nil && c.CreatedBy != nil && *c.CreatedBy == *candidate.CreatedBy {
			return domain.ErrDuplicateCandidacy
		}
		if candidate.NationalID != "" && c.NationalID == candidate.NationalID {
			return domain.ErrDuplicateNationalID
		}
	}
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = time.Now()
	}
	stored := *candidate
	stored.Schemes = append([]string(nil), candidate.Schemes...)
	r.s.candidates = append(r.s.candidates, stored)
	return nil
}

func (r *candidateRepository) ListByElection(ctx context.Context, electionID uuid.UUID) ([]domain.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Candidate
	for _, c := range r.s.candidates {
		if c.ElectionID == electionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *candidateRepository) FindByCreator(ctx context.Context, electionID, userID uuid.UUID) (*domain.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.candidates {
		if c.ElectionID == electionID && c.CreatedBy != nil && *c.CreatedBy == userID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *candidateRepository) FindByNationalID(ctx context.Context, electionID uuid.UUID, nationalID string) (*domain.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.candidates {
		if c.ElectionID == electionID && c.NationalID == nationalID {
			return &c, nil
		}
	}
	return nil, nil
}
