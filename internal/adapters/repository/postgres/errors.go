package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

const (
	uniqueViolation      pq.ErrorCode = "23505"
	serializationFailure pq.ErrorCode = "40001"
	deadlockDetected     pq.ErrorCode = "40P01"
)

const candidateNationalIDIndex = "candidates_election_national_id_key"

func pqError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

func isUniqueViolation(err error) bool {
	pqErr, ok := pqError(err)
	return ok && pqErr.Code == uniqueViolation
}

// isTransient reports failures worth retrying on another write path:
// serialization conflicts, deadlocks and lost connections.
func isTransient(err error) bool {
	pqErr, ok := pqError(err)
	if !ok {
		return false
	}
	return pqErr.Code == serializationFailure ||
		pqErr.Code == deadlockDetected ||
		pqErr.Code.Class() == "08"
}

func transient(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %v", domain.ErrTransientStore, op, err)
}
