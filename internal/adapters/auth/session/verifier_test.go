package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

var secret = []byte("test-secret")

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestVerify(t *testing.T) {
	userID := uuid.New()
	v := NewVerifier(secret)

	t.Run("valid token", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
			"sub":   userID.String(),
			"email": "ada@example.com",
			"role":  "admin",
			"exp":   time.Now().Add(15 * time.Minute).Unix(),
			"iat":   time.Now().Unix(),
		})

		identity, err := v.Verify(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, userID, identity.UserID)
		assert.Equal(t, "ada@example.com", identity.Email)
		assert.True(t, identity.IsAdmin())
	})

	t.Run("missing role defaults to voter", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
			"sub": userID.String(),
			"exp": time.Now().Add(time.Minute).Unix(),
		})

		identity, err := v.Verify(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleVoter, identity.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
			"sub": userID.String(),
			"exp": time.Now().Add(-time.Minute).Unix(),
		})

		_, err := v.Verify(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{
			"sub": userID.String(),
			"exp": time.Now().Add(time.Minute).Unix(),
		})

		_, err := v.Verify(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("subject is not a uuid", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
			"sub": "someone",
			"exp": time.Now().Add(time.Minute).Unix(),
		})

		_, err := v.Verify(context.Background(), token)
		assert.Error(t, err)
	})
}
