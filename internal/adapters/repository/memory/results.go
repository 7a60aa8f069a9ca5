package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

func (s *Store) SummarizeVotes(ctx context.Context, electionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[uuid.UUID]int64)
	var order []uuid.UUID
	for k, v := range s.votes {
		if k.electionID != electionID {
			continue
		}
		if _, ok := counts[v.CandidateID]; !ok {
			order = append(order, v.CandidateID)
		}
		counts[v.CandidateID]++
	}

	now := time.Now()
	tallies := make([]domain.CandidateTally, 0, len(order))
	for _, id := range order {
		tallies = append(tallies, domain.CandidateTally{
			ElectionID:    electionID,
			CandidateID:   id,
			VoteCount:     counts[id],
			LastUpdatedAt: now,
		})
	}
	s.results[electionID] = tallies
	return nil
}

func (s *Store) CountVotes(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCandidate := make(map[uuid.UUID]int64)
	for k, v := range s.votes {
		if k.electionID == electionID {
			byCandidate[v.CandidateID]++
		}
	}

	now := time.Now()
	tallies := make([]domain.CandidateTally, 0, len(byCandidate))
	for id, n := range byCandidate {
		tallies = append(tallies, domain.CandidateTally{
			ElectionID:    electionID,
			CandidateID:   id,
			VoteCount:     n,
			LastUpdatedAt: now,
		})
	}
	sortTallies(tallies)
	return domain.WithPercentages(tallies), nil
}

func (s *Store) GetCandidateStats(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.results[electionID]
	out := append(make([]domain.CandidateTally, 0, len(stored)), stored...)
	sortTallies(out)
	return domain.WithPercentages(out), nil
}

// sortTallies orders by vote count, highest first, with candidate id as the
// tiebreaker.
func sortTallies(t []domain.CandidateTally) {
	sort.Slice(t, func(i, j int) bool {
		if t[i].VoteCount != t[j].VoteCount {
			return t[i].VoteCount > t[j].VoteCount
		}
		return t[i].CandidateID.String() < t[j].CandidateID.String()
	})
}
