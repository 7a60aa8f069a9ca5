package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/elections/internal/core/domain"
)

// Actor is whoever asks to vote: an authenticated identity, a voter code, or
// both. Any of them may satisfy an election's allowed-voter list.
type Actor struct {
	Identity  *domain.Identity
	VoterCode string
}

// Applicant is the subject of a candidacy evaluation.
type Applicant struct {
	Age             *int
	IDProofProvided bool
}

// EvaluateVote decides whether actor may vote in e at now. Both window
// bounds are inclusive.
func EvaluateVote(e *domain.Election, now time.Time, actor Actor) domain.Decision {
	if e.StartAt != nil && now.Before(*e.StartAt) {
		return domain.Deny(domain.ReasonNotStarted)
	}
	if e.EndAt != nil && now.After(*e.EndAt) {
		return domain.Deny(domain.ReasonEnded)
	}
	if len(e.AllowedVoters) > 0 && !onAllowedList(e.AllowedVoters, actor) {
		return domain.Deny(domain.ReasonNotOnAllowlist)
	}
	return domain.Allow()
}

func CanVote(e *domain.Election, now time.Time, actor Actor) bool {
	return EvaluateVote(e, now, actor).Allowed
}

// EvaluateCandidacy decides whether applicant may register in e at now.
// Registration stays open before voting starts and closes with the window.
func EvaluateCandidacy(e *domain.Election, now time.Time, applicant Applicant) domain.Decision {
	if e.EndAt != nil && now.After(*e.EndAt) {
		return domain.Deny(domain.ReasonEnded)
	}
	if minAge, ok := MinimumAge(e); ok {
		if applicant.Age == nil || *applicant.Age < minAge {
			return domain.Deny(domain.ReasonUnderage)
		}
	}
	if e.Rule.RequireIDProof && !applicant.IDProofProvided {
		return domain.Deny(domain.ReasonMissingIDVerification)
	}
	return domain.Allow()
}

var minAgePattern = regexp.MustCompile(`(?i)\bmin(?:imum)?[\s_-]*age\b\s*(?:[:=]|is|of)?\s*(\d{1,3})\b`)

// MinimumAge prefers the structured rule and falls back to a labeled integer
// in the free-text eligibility field, e.g. "minimum age: 25".
func MinimumAge(e *domain.Election) (int, bool) {
	if e.Rule.MinAge > 0 {
		return e.Rule.MinAge, true
	}
	m := minAgePattern.FindStringSubmatch(e.CandidateEligibility)
	if m == nil {
		return 0, false
	}
	age, err := strconv.Atoi(m[1])
	if err != nil || age <= 0 {
		return 0, false
	}
	return age, true
}

func onAllowedList(allowed []string, actor Actor) bool {
	var keys []string
	if actor.Identity != nil {
		if actor.Identity.UserID != uuid.Nil {
			keys = append(keys, actor.Identity.UserID.String())
		}
		if actor.Identity.Email != "" {
			keys = append(keys, actor.Identity.Email)
		}
	}
	if code := domain.NormalizeVoterCode(actor.VoterCode); code != "" {
		keys = append(keys, code)
	}

	for _, a := range allowed {
		a = strings.TrimSpace(a)
		for _, k := range keys {
			if strings.EqualFold(a, k) {
				return true
			}
		}
	}
	return false
}
