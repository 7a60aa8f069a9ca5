package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

func TestRegisterCandidacy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, t0.Add(10*time.Minute))
	applicant := &domain.Identity{UserID: uuid.New(), Role: domain.RoleCandidate}

	result, err := f.service.RegisterCandidacy(ctx, f.election.ID, applicant, ports.CandidacyForm{
		Name:       "  Margaret ",
		Age:        intPtr(30),
		Manifesto:  "I will provide free textbooks to all students",
		Schemes:    []string{"ROADS"},
		NationalID: "1234-5678 9012",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.CandidateID)
	assert.Equal(t, []string{"EDU", "ROADS"}, result.InferredSchemes)

	stored, err := f.candidates.FindByCreator(ctx, f.election.ID, applicant.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Margaret", stored.Name)
	assert.Equal(t, "123456789012", stored.NationalID)
	assert.Equal(t, []string{"EDU", "ROADS"}, stored.Schemes)

	t.Run("same applicant again", func(t *testing.T) {
		_, err := f.service.RegisterCandidacy(ctx, f.election.ID, applicant, ports.CandidacyForm{
			Name:      "Margaret",
			Manifesto: "second try",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateCandidacy)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})

	t.Run("same national id", func(t *testing.T) {
		other := &domain.Identity{UserID: uuid.New()}
		_, err := f.service.RegisterCandidacy(ctx, f.election.ID, other, ports.CandidacyForm{
			Name:       "Impostor",
			Manifesto:  "anything",
			NationalID: "123456789012",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateNationalID)
	})
}

func TestRegisterCandidacy_AdminAddsOnBehalf(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, t0.Add(10*time.Minute))
	admin := &domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}

	for _, name := range []string{"First", "Second"} {
		result, err := f.service.RegisterCandidacy(ctx, f.election.ID, admin, ports.CandidacyForm{Name: name, Manifesto: "sports"})
		require.NoError(t, err, name)

		candidates, err := f.candidates.ListByElection(ctx, f.election.ID)
		require.NoError(t, err)
		for _, c := range candidates {
			if c.ID == result.CandidateID {
				assert.Nil(t, c.CreatedBy)
			}
		}
	}
}

func TestRegisterCandidacy_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		now     time.Time
		setup   func(e *domain.Election)
		form    ports.CandidacyForm
		wantErr error
	}{
		{
			name:    "missing name",
			form:    ports.CandidacyForm{Manifesto: "m"},
			wantErr: domain.ErrMissingName,
		},
		{
			name:    "missing manifesto",
			form:    ports.CandidacyForm{Name: "n", Manifesto: "   "},
			wantErr: domain.ErrMissingManifesto,
		},
		{
			name:    "malformed national id",
			form:    ports.CandidacyForm{Name: "n", Manifesto: "m", NationalID: "12345"},
			wantErr: domain.ErrInvalidNationalID,
		},
		{
			name:    "non-positive age",
			form:    ports.CandidacyForm{Name: "n", Manifesto: "m", Age: intPtr(0)},
			wantErr: domain.ErrInvalidAge,
		},
		{
			name:    "after the window",
			now:     t0.Add(2 * time.Hour),
			form:    ports.CandidacyForm{Name: "n", Manifesto: "m"},
			wantErr: domain.ErrElectionClosed,
		},
		{
			name:    "underage from the eligibility text",
			setup:   func(e *domain.Election) { e.CandidateEligibility = "Minimum age: 25" },
			form:    ports.CandidacyForm{Name: "n", Manifesto: "m", Age: intPtr(21)},
			wantErr: domain.ErrUnderage,
		},
		{
			name:    "id proof required",
			setup:   func(e *domain.Election) { e.Rule.RequireIDProof = true },
			form:    ports.CandidacyForm{Name: "n", Manifesto: "m"},
			wantErr: domain.ErrMissingIDVerification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			if now.IsZero() {
				now = t0.Add(10 * time.Minute)
			}
			f := newFixture(t, now)
			if tt.setup != nil {
				tt.setup(f.election)
				require.NoError(t, f.elections.Save(ctx, f.election))
			}

			_, err := f.service.RegisterCandidacy(ctx, f.election.ID, nil, tt.form)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown election", func(t *testing.T) {
		f := newFixture(t, t0)
		_, err := f.service.RegisterCandidacy(ctx, uuid.New(), nil, ports.CandidacyForm{Name: "n", Manifesto: "m"})
		assert.ErrorIs(t, err, domain.ErrElectionNotFound)
	})
}

func TestCastVote_Validation(t *testing.T) {
	f := newFixture(t, t0.Add(time.Minute))

	_, err := f.vote(f.candidateA, "V1", "  ")
	assert.ErrorIs(t, err, domain.ErrMissingPIN)

	_, err = f.vote(f.candidateA, " ", "9999")
	assert.ErrorIs(t, err, domain.ErrInvalidVoterCode)

	_, err = f.vote(domain.Candidate{}, "V1", "9999")
	assert.ErrorIs(t, err, domain.ErrInvalidCandidate)

	_, err = f.service.CastVote(context.Background(), ports.CastVoteInput{
		ElectionID: uuid.New(), CandidateID: f.candidateA.ID, VoterCode: "V1", PIN: "9999",
	})
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
}

func TestComputeVoterState(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous without a voter code", func(t *testing.T) {
		f := newFixture(t, t0.Add(time.Minute))
		state, err := f.service.ComputeVoterState(ctx, f.election.ID, nil, "")
		require.NoError(t, err)
		assert.Equal(t, &domain.VoterState{Reason: string(domain.ReasonIdentityRequired)}, state)
	})

	t.Run("before and after voting", func(t *testing.T) {
		f := newFixture(t, t0.Add(time.Minute))

		state, err := f.service.ComputeVoterState(ctx, f.election.ID, nil, "v1")
		require.NoError(t, err)
		assert.Equal(t, &domain.VoterState{CanVote: true}, state)

		_, err = f.vote(f.candidateA, "V1", "9999")
		require.NoError(t, err)

		state, err = f.service.ComputeVoterState(ctx, f.election.ID, nil, "v1")
		require.NoError(t, err)
		assert.Equal(t, &domain.VoterState{HasVoted: true, Reason: string(domain.ReasonAlreadyVoted)}, state)
	})

	t.Run("by identity", func(t *testing.T) {
		f := newFixture(t, t0.Add(time.Minute))
		actor := &domain.Identity{UserID: uuid.New()}

		_, err := f.service.CastVote(ctx, ports.CastVoteInput{
			ElectionID: f.election.ID, CandidateID: f.candidateB.ID, VoterCode: "V2", PIN: "2222", Actor: actor,
		})
		require.NoError(t, err)

		state, err := f.service.ComputeVoterState(ctx, f.election.ID, actor, "")
		require.NoError(t, err)
		assert.True(t, state.HasVoted)
		assert.False(t, state.CanVote)
	})

	t.Run("not started", func(t *testing.T) {
		f := newFixture(t, t0.Add(-time.Hour))
		state, err := f.service.ComputeVoterState(ctx, f.election.ID, nil, "V1")
		require.NoError(t, err)
		assert.False(t, state.CanVote)
		assert.Equal(t, string(domain.ReasonNotStarted), state.Reason)
	})

	t.Run("not on the allowed list", func(t *testing.T) {
		f := newFixture(t, t0.Add(time.Minute))
		f.election.AllowedVoters = []string{"grace@example.com"}
		require.NoError(t, f.elections.Save(ctx, f.election))

		state, err := f.service.ComputeVoterState(ctx, f.election.ID, &domain.Identity{UserID: uuid.New(), Email: "eve@example.com"}, "")
		require.NoError(t, err)
		assert.Equal(t, string(domain.ReasonNotOnAllowlist), state.Reason)
	})

	t.Run("unknown election", func(t *testing.T) {
		f := newFixture(t, t0)
		_, err := f.service.ComputeVoterState(ctx, uuid.New(), nil, "V1")
		assert.ErrorIs(t, err, domain.ErrElectionNotFound)
	})
}

func TestElectionScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, t0.Add(10*time.Minute))

	_, err := f.vote(f.candidateA, "V1", "9999")
	require.NoError(t, err)

	_, err = f.vote(f.candidateA, "V1", "9999")
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	_, err = f.vote(f.candidateA, "V2", "2222")
	require.NoError(t, err)

	tallies, err := f.service.Results(ctx, f.election.ID)
	require.NoError(t, err)
	require.Len(t, tallies, 1)
	assert.Equal(t, f.candidateA.ID, tallies[0].CandidateID)
	assert.Equal(t, int64(2), tallies[0].VoteCount)
	assert.Equal(t, 100.0, tallies[0].Percentage)

	require.NoError(t, NewSummaryService(f.elections, f.store, nil).SummarizeAllVotes(ctx))
	cached, err := f.store.GetCandidateStats(ctx, f.election.ID)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, int64(2), cached[0].VoteCount)

	_, err = f.service.Results(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
}

func TestResults_CountsVotesWithoutSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, t0.Add(10*time.Minute))

	tallies, err := f.service.Results(ctx, f.election.ID)
	require.NoError(t, err)
	assert.Empty(t, tallies)

	_, err = f.vote(f.candidateA, "V1", "9999")
	require.NoError(t, err)
	_, err = f.vote(f.candidateB, "V2", "2222")
	require.NoError(t, err)
	_, err = f.store.Provision(ctx, []domain.AllowlistEntry{{VoterCode: "V3", PIN: "3333"}})
	require.NoError(t, err)
	_, err = f.vote(f.candidateB, "V3", "3333")
	require.NoError(t, err)

	tallies, err = f.service.Results(ctx, f.election.ID)
	require.NoError(t, err)
	require.Len(t, tallies, 2)
	assert.Equal(t, f.candidateB.ID, tallies[0].CandidateID)
	assert.Equal(t, int64(2), tallies[0].VoteCount)
	assert.InDelta(t, 66.67, tallies[0].Percentage, 0.01)
	assert.Equal(t, f.candidateA.ID, tallies[1].CandidateID)
	assert.Equal(t, int64(1), tallies[1].VoteCount)

	stored, err := f.store.GetCandidateStats(ctx, f.election.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
