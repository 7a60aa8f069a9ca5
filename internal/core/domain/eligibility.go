package domain

type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonNotStarted            Reason = "not_started"
	ReasonEnded                 Reason = "ended"
	ReasonNotOnAllowlist        Reason = "not_on_allowlist"
	ReasonUnderage              Reason = "underage"
	ReasonMissingIDVerification Reason = "missing_id_verification"
	ReasonAlreadyVoted          Reason = "already_voted"
	ReasonIdentityRequired      Reason = "identity_required"
	ReasonVoterNotFound         Reason = "voter_not_found"
)

// Decision is the outcome of an eligibility evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Err converts a denial into the matching typed error, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonNotStarted:
		return ErrNotStarted
	case ReasonEnded:
		return ErrElectionClosed
	case ReasonNotOnAllowlist:
		return ErrNotOnAllowlist
	case ReasonUnderage:
		return ErrUnderage
	case ReasonMissingIDVerification:
		return ErrMissingIDVerification
	case ReasonAlreadyVoted:
		return ErrAlreadyVoted
	case ReasonVoterNotFound:
		return ErrVoterNotFound
	default:
		return ErrInternal
	}
}
