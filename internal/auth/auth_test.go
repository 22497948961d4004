package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/punch/internal/models"
)

func TestRequire(t *testing.T) {
	t.Parallel()

	manager := Identity{WorkerID: 1, Subject: "m", Role: models.RoleManager}
	worker := Identity{WorkerID: 2, Subject: "w", Role: models.RoleWorker}

	assert.NoError(t, Require(manager, models.RoleManager))
	assert.NoError(t, Require(worker, ""))
	assert.ErrorIs(t, Require(worker, models.RoleManager), ErrUnauthorized)
	assert.ErrorIs(t, Require(Identity{Subject: "new"}, ""), ErrUnauthorized)
	assert.ErrorIs(t, Require(Identity{}, models.RoleWorker), ErrUnauthorized)
}

func TestTokens_RoundTrip(t *testing.T) {
	t.Parallel()

	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	signed, err := tokens.Sign("auth0|42", models.RoleManager)
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "auth0|42", claims.Subject)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestTokens_Rejects(t *testing.T) {
	t.Parallel()

	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewTokens("other", time.Hour)
	require.NoError(t, err)

	signed, err := other.Sign("auth0|42", models.RoleWorker)
	require.NoError(t, err)
	_, err = tokens.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	expired, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, err = expired.Sign("auth0|42", models.RoleWorker)
	require.NoError(t, err)
	_, err = tokens.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")

	_, err = NewTokens("", time.Hour)
	assert.Error(t, err)
}
