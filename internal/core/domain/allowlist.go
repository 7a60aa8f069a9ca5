package domain

import (
	"strings"
	"time"
)

// AllowlistEntry is one row of the pre-provisioned voter roll.
type AllowlistEntry struct {
	VoterCode string
	PIN       string
	Voted     bool
	VotedAt   *time.Time
	// Legacy holds the raw fields of records written before the voter code
	// column was canonical. Only the resolver's bounded scan reads it.
	Legacy map[string]string
}

// NormalizeVoterCode is the case-insensitive key of a voter code.
func NormalizeVoterCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// MatchPIN compares both sides after trimming. Exact match only.
func (a *AllowlistEntry) MatchPIN(pin string) bool {
	return strings.TrimSpace(a.PIN) == strings.TrimSpace(pin)
}
