package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

// Verifier checks HS256 access tokens minted by the identity service. It
// never issues tokens.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret []byte) ports.IdentityVerifier {
	return &Verifier{secret: secret}
}

func (v *Verifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("subject is not a user id: %w", err)
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	identity := &domain.Identity{
		UserID: userID,
		Email:  email,
		Role:   domain.Role(role),
	}
	if identity.Role == "" {
		identity.Role = domain.RoleVoter
	}
	return identity, nil
}
