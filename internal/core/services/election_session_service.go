package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

var nationalIDPattern = regexp.MustCompile(`^\d{12}$`)

type electionSessionService struct {
	elections  ports.ElectionRepository
	candidates ports.CandidateRepository
	votes      ports.VoteRepository
	results    ports.ResultRepository
	resolver   *AllowlistResolver
	ledger     ports.VoteLedger
	clock      ports.Clock
	logger     *zap.Logger
}

type ElectionSessionDeps struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Votes      ports.VoteRepository
	Results    ports.ResultRepository
	Resolver   *AllowlistResolver
	Ledger     ports.VoteLedger
	Clock      ports.Clock
	Logger     *zap.Logger
}

func NewElectionSessionService(deps ElectionSessionDeps) ports.ElectionSessionService {
	if deps.Clock == nil {
		deps.Clock = SystemClock
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &electionSessionService{
		elections:  deps.Elections,
		candidates: deps.Candidates,
		votes:      deps.Votes,
		results:    deps.Results,
		resolver:   deps.Resolver,
		ledger:     deps.Ledger,
		clock:      deps.Clock,
		logger:     deps.Logger,
	}
}

func (s *electionSessionService) RegisterCandidacy(ctx context.Context, electionID uuid.UUID, applicant *domain.Identity, form ports.CandidacyForm) (*ports.CandidacyResult, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, domain.ErrMissingName
	}
	manifesto := strings.TrimSpace(form.Manifesto)
	if manifesto == "" {
		return nil, domain.ErrMissingManifesto
	}
	if form.Age != nil && *form.Age <= 0 {
		return nil, domain.ErrInvalidAge
	}
	nationalID := normalizeNationalID(form.NationalID)
	if nationalID != "" && !nationalIDPattern.MatchString(nationalID) {
		return nil, domain.ErrInvalidNationalID
	}

	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}

	decision := EvaluateCandidacy(election, s.clock.Now(), Applicant{
		Age:             form.Age,
		IDProofProvided: form.IDProofProvided,
	})
	if err := decision.Err(); err != nil {
		s.logger.Info("candidacy rejected",
			zap.String("election_id", election.ID.String()),
			zap.String("reason", string(decision.Reason)),
		)
		return nil, err
	}

	// Administrators add candidates on someone else's behalf, so those rows
	// carry no creator and are not deduplicated by identity.
	var createdBy *uuid.UUID
	if applicant != nil && !applicant.IsAdmin() && applicant.UserID != uuid.Nil {
		userID := applicant.UserID
		createdBy = &userID

		existing, err := s.candidates.FindByCreator(ctx, election.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing candidacy: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrDuplicateCandidacy
		}
	}
	if nationalID != "" {
		existing, err := s.candidates.FindByNationalID(ctx, election.ID, nationalID)
		if err != nil {
			return nil, fmt.Errorf("failed to check national id: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrDuplicateNationalID
		}
	}

	schemes := InferSchemes(manifesto, election.Schemes, form.Schemes)

	candidate := &domain.Candidate{
		ID:              uuid.New(),
		ElectionID:      election.ID,
		Name:            name,
		Party:           strings.TrimSpace(form.Party),
		Symbol:          strings.TrimSpace(form.Symbol),
		Address:         strings.TrimSpace(form.Address),
		Age:             form.Age,
		Manifesto:       manifesto,
		Schemes:         schemes,
		NationalID:      nationalID,
		IDProofProvided: form.IDProofProvided,
		CreatedBy:       createdBy,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.candidates.Save(ctx, candidate); err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save candidate: %w", err)
	}

	s.logger.Info("candidacy registered",
		zap.String("election_id", election.ID.String()),
		zap.String("candidate_id", candidate.ID.String()),
		zap.Strings("schemes", schemes),
	)

	return &ports.CandidacyResult{
		CandidateID:     candidate.ID,
		InferredSchemes: schemes,
	}, nil
}

func (s *electionSessionService) CastVote(ctx context.Context, input ports.CastVoteInput) (*domain.VoteReceipt, error) {
	if domain.NormalizeVoterCode(input.VoterCode) == "" {
		return nil, domain.ErrInvalidVoterCode
	}
	if strings.TrimSpace(input.PIN) == "" {
		return nil, domain.ErrMissingPIN
	}
	if input.CandidateID == uuid.Nil {
		return nil, domain.ErrInvalidCandidate
	}

	election, err := s.elections.GetByID(ctx, input.ElectionID)
	if err != nil {
		return nil, err
	}

	return s.ledger.Cast(ctx, election, input)
}

func (s *electionSessionService) ComputeVoterState(ctx context.Context, electionID uuid.UUID, actor *domain.Identity, voterCode string) (*domain.VoterState, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}

	state := &domain.VoterState{}

	// Votes are keyed by the resolved entry's code, which differs from the
	// typed one for records found through the legacy scan.
	code := domain.NormalizeVoterCode(voterCode)
	unknownVoter := false
	if code != "" {
		entry, err := s.resolver.Resolve(ctx, code)
		switch {
		case err == nil:
			voted, err := s.votes.HasVoted(ctx, election.ID, domain.NormalizeVoterCode(entry.VoterCode))
			if err != nil {
				return nil, fmt.Errorf("failed to check vote: %w", err)
			}
			state.HasVoted = voted
		case errors.Is(err, domain.ErrVoterNotFound), errors.Is(err, domain.ErrInvalidVoterCode):
			unknownVoter = true
		default:
			return nil, err
		}
	}
	if !state.HasVoted && actor != nil && actor.UserID != uuid.Nil {
		voted, err := s.votes.HasVotedByUser(ctx, election.ID, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check vote: %w", err)
		}
		state.HasVoted = voted
	}

	switch {
	case state.HasVoted:
		state.Reason = string(domain.ReasonAlreadyVoted)
	case unknownVoter:
		state.Reason = string(domain.ReasonVoterNotFound)
	case actor == nil && code == "":
		state.Reason = string(domain.ReasonIdentityRequired)
	default:
		decision := EvaluateVote(election, s.clock.Now(), Actor{Identity: actor, VoterCode: code})
		state.CanVote = decision.Allowed
		state.Reason = string(decision.Reason)
	}

	return state, nil
}

func (s *electionSessionService) Results(ctx context.Context, electionID uuid.UUID) ([]domain.CandidateTally, error) {
	if _, err := s.elections.GetByID(ctx, electionID); err != nil {
		return nil, err
	}
	tallies, err := s.results.CountVotes(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	return tallies, nil
}

func normalizeNationalID(id string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.TrimSpace(id))
}
