package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type electionRepository struct {
	s *Store
}

func (s *Store) Elections() ports.ElectionRepository {
	return &electionRepository{s: s}
}

func (r *electionRepository) Save(ctx context.Context, election *domain.Election) error {
	if err := election.Validate(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if election.ID == uuid.Nil {
		election.ID = uuid.New()
	}
	if election.CreatedAt.IsZero() {
		election.CreatedAt = time.Now()
	}
	r.s.elections[election.ID] = *election
	return nil
}

func (r *electionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.elections[id]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	return &e, nil
}

func (r *electionRepository) GetAll(ctx context.Context) ([]*domain.Election, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Election, 0, len(r.s.elections))
	for _, e := range r.s.elections {
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
