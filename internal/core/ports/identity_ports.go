package ports

import (
	"context"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

// IdentityVerifier turns a session token issued elsewhere into an identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}
