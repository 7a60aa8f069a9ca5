package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

func windowElection() *domain.Election {
	start, end := t0, t0.Add(time.Hour)
	return &domain.Election{ID: uuid.New(), StartAt: &start, EndAt: &end}
}

func TestEvaluateVote_Window(t *testing.T) {
	e := windowElection()

	tests := []struct {
		name string
		now  time.Time
		want domain.Decision
	}{
		{"before start", t0.Add(-time.Second), domain.Deny(domain.ReasonNotStarted)},
		{"at start", t0, domain.Allow()},
		{"inside", t0.Add(10 * time.Minute), domain.Allow()},
		{"at end", t0.Add(time.Hour), domain.Allow()},
		{"after end", t0.Add(time.Hour + time.Second), domain.Deny(domain.ReasonEnded)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateVote(e, tt.now, Actor{}))
		})
	}
}

func TestEvaluateVote_OpenEnded(t *testing.T) {
	e := &domain.Election{ID: uuid.New()}
	assert.True(t, CanVote(e, t0.AddDate(-10, 0, 0), Actor{}))
	assert.True(t, CanVote(e, t0.AddDate(10, 0, 0), Actor{}))
}

func TestEvaluateVote_AllowedVoters(t *testing.T) {
	userID := uuid.New()
	e := windowElection()
	e.AllowedVoters = []string{"ada@example.com", userID.String(), " v7 "}
	now := t0.Add(time.Minute)

	assert.True(t, CanVote(e, now, Actor{Identity: &domain.Identity{Email: "ADA@example.com"}}))
	assert.True(t, CanVote(e, now, Actor{Identity: &domain.Identity{UserID: userID}}))
	assert.True(t, CanVote(e, now, Actor{VoterCode: "V7"}))

	denied := EvaluateVote(e, now, Actor{Identity: &domain.Identity{UserID: uuid.New(), Email: "eve@example.com"}, VoterCode: "V8"})
	assert.Equal(t, domain.Deny(domain.ReasonNotOnAllowlist), denied)
	assert.ErrorIs(t, denied.Err(), domain.ErrNotOnAllowlist)

	assert.False(t, CanVote(e, now, Actor{}))
}

func TestEvaluateVote_WindowCheckedBeforeAllowlist(t *testing.T) {
	e := windowElection()
	e.AllowedVoters = []string{"someone-else"}

	d := EvaluateVote(e, t0.Add(2*time.Hour), Actor{VoterCode: "V1"})
	assert.Equal(t, domain.ReasonEnded, d.Reason)
	assert.ErrorIs(t, d.Err(), domain.ErrElectionClosed)
}

func TestMinimumAge(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"min age: 25", 25, true},
		{"Minimum age 30 and a resident", 30, true},
		{"minAge=21", 21, true},
		{"candidates: minimum age is 18", 18, true},
		{"must be a registered student", 0, false},
		{"age 40", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := MinimumAge(&domain.Election{CandidateEligibility: tt.text})
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinimumAge_StructuredRuleWins(t *testing.T) {
	e := &domain.Election{
		CandidateEligibility: "min age: 25",
		Rule:                 domain.EligibilityRule{MinAge: 35},
	}
	got, ok := MinimumAge(e)
	assert.True(t, ok)
	assert.Equal(t, 35, got)
}

func TestEvaluateCandidacy(t *testing.T) {
	inside := t0.Add(10 * time.Minute)

	t.Run("open before voting starts", func(t *testing.T) {
		d := EvaluateCandidacy(windowElection(), t0.Add(-24*time.Hour), Applicant{})
		assert.True(t, d.Allowed)
	})

	t.Run("closed after the window", func(t *testing.T) {
		d := EvaluateCandidacy(windowElection(), t0.Add(2*time.Hour), Applicant{})
		assert.Equal(t, domain.Deny(domain.ReasonEnded), d)
	})

	t.Run("underage", func(t *testing.T) {
		e := windowElection()
		e.CandidateEligibility = "min age: 25"

		assert.Equal(t, domain.ReasonUnderage, EvaluateCandidacy(e, inside, Applicant{Age: intPtr(24)}).Reason)
		assert.True(t, EvaluateCandidacy(e, inside, Applicant{Age: intPtr(25)}).Allowed)
	})

	t.Run("missing age with a minimum", func(t *testing.T) {
		e := windowElection()
		e.Rule.MinAge = 18

		d := EvaluateCandidacy(e, inside, Applicant{})
		assert.Equal(t, domain.ReasonUnderage, d.Reason)
		assert.ErrorIs(t, d.Err(), domain.ErrUnderage)
	})

	t.Run("id proof required", func(t *testing.T) {
		e := windowElection()
		e.Rule.RequireIDProof = true

		d := EvaluateCandidacy(e, inside, Applicant{})
		assert.Equal(t, domain.ReasonMissingIDVerification, d.Reason)
		assert.ErrorIs(t, d.Err(), domain.ErrMissingIDVerification)
		assert.True(t, EvaluateCandidacy(e, inside, Applicant{IDProofProvided: true}).Allowed)
	})

	t.Run("pure", func(t *testing.T) {
		e := windowElection()
		e.Rule.MinAge = 30
		a := Applicant{Age: intPtr(29)}
		assert.Equal(t, EvaluateCandidacy(e, inside, a), EvaluateCandidacy(e, inside, a))
	})
}
