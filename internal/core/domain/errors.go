package domain

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidInput
	KindForbidden
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindForbidden:
		return "forbidden"
	case KindTransient:
		return "transient_store_failure"
	default:
		return "internal"
	}
}

// Error is a typed engine failure. Sentinels are compared by identity, so
// wrapped values still match with errors.Is.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrElectionNotFound  = newError(KindNotFound, "election_not_found", "election not found")
	ErrCandidateNotFound = newError(KindNotFound, "candidate_not_found", "candidate not found")
	ErrVoterNotFound     = newError(KindNotFound, "voter_not_found", "voter code is not on the allowlist")

	ErrAlreadyVoted        = newError(KindConflict, "already_voted", "voter has already voted in this election")
	ErrDuplicateCandidacy  = newError(KindConflict, "duplicate_candidacy", "applicant is already registered as a candidate for this election")
	ErrDuplicateNationalID = newError(KindConflict, "duplicate_national_id", "national id is already registered for this election")

	ErrInvalidElectionID = newError(KindInvalidInput, "invalid_election_id", "invalid election id")
	ErrInvalidCandidate  = newError(KindInvalidInput, "invalid_candidate", "candidate does not belong to this election")
	ErrInvalidVoterCode  = newError(KindInvalidInput, "invalid_voter_code", "voter code is missing or malformed")
	ErrMissingPIN        = newError(KindInvalidInput, "missing_pin", "pin is required")
	ErrMissingName       = newError(KindInvalidInput, "missing_name", "candidate name is required")
	ErrMissingManifesto  = newError(KindInvalidInput, "missing_manifesto", "manifesto is required")
	ErrInvalidNationalID = newError(KindInvalidInput, "invalid_national_id", "national id must be 12 digits")
	ErrInvalidAge        = newError(KindInvalidInput, "invalid_age", "age must be a positive number")
	ErrInvalidWindow     = newError(KindInvalidInput, "invalid_window", "election start must not be after its end")

	ErrPinMismatch           = newError(KindForbidden, "pin_mismatch", "pin does not match")
	ErrNotStarted            = newError(KindForbidden, "not_started", "voting has not started yet")
	ErrElectionClosed        = newError(KindForbidden, "election_closed", "voting has ended")
	ErrNotOnAllowlist        = newError(KindForbidden, "not_on_allowlist", "you are not permitted to vote in this election")
	ErrUnderage              = newError(KindForbidden, "underage", "applicant does not meet the minimum age")
	ErrMissingIDVerification = newError(KindForbidden, "missing_id_verification", "id verification is required for candidacy")

	ErrTransientStore = newError(KindTransient, "transient_store_failure", "store temporarily unavailable")

	ErrInternal = newError(KindInternal, "internal", "internal server error")
)

// KindOf reports the taxonomy bucket of err. Untyped errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError returns the typed error carried by err, or ErrInternal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal
}
