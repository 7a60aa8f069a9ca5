package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/elections/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	store      *memory.Store
	elections  ports.ElectionRepository
	candidates ports.CandidateRepository
	resolver   *AllowlistResolver
	ledger     ports.VoteLedger
	service    ports.ElectionSessionService
	election   *domain.Election
	candidateA domain.Candidate
	candidateB domain.Candidate
}

// newFixture seeds an election open from t0 to t0+1h, two candidates and the
// voters V1/9999 and V2/2222. The clock reads now.
func newFixture(t *testing.T, now time.Time, opts ...memory.Option) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore(opts...)
	f := &fixture{
		store:      store,
		elections:  store.Elections(),
		candidates: store.Candidates(),
	}

	start, end := t0, t0.Add(time.Hour)
	f.election = &domain.Election{
		Title:   "Student council",
		StartAt: &start,
		EndAt:   &end,
		Schemes: []domain.Scheme{
			{Code: "EDU", Title: "Free Textbooks"},
			{Code: "SPORT", Title: "Sports Complex"},
		},
	}
	require.NoError(t, f.elections.Save(ctx, f.election))

	f.candidateA = domain.Candidate{ElectionID: f.election.ID, Name: "Ada", Manifesto: "books"}
	f.candidateB = domain.Candidate{ElectionID: f.election.ID, Name: "Grace", Manifesto: "sports"}
	require.NoError(t, f.candidates.Save(ctx, &f.candidateA))
	require.NoError(t, f.candidates.Save(ctx, &f.candidateB))

	_, err := store.Provision(ctx, []domain.AllowlistEntry{
		{VoterCode: "V1", PIN: "9999"},
		{VoterCode: "V2", PIN: "2222"},
	})
	require.NoError(t, err)

	clock := fixedClock{now: now}
	f.resolver = NewAllowlistResolver(store, DefaultLegacyScanLimit, nil)
	f.ledger = NewVoteLedger(f.candidates, store, f.resolver, clock, nil)
	f.service = NewElectionSessionService(ElectionSessionDeps{
		Elections:  f.elections,
		Candidates: f.candidates,
		Votes:      store,
		Results:    store,
		Resolver:   f.resolver,
		Ledger:     f.ledger,
		Clock:      clock,
	})
	return f
}

func (f *fixture) vote(candidate domain.Candidate, voterCode, pin string) (*domain.VoteReceipt, error) {
	return f.service.CastVote(context.Background(), ports.CastVoteInput{
		ElectionID:  f.election.ID,
		CandidateID: candidate.ID,
		VoterCode:   voterCode,
		PIN:         pin,
	})
}

func intPtr(i int) *int { return &i }
