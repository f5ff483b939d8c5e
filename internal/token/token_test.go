package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "wardflow/pkg/domain"
	dErrors "wardflow/pkg/domain-errors"
)

// signAccessToken mints a token the way the external auth system does, so the
// validation path can be exercised without it.
func signAccessToken(t *testing.T, signingKey string, userID id.UserID, name string, expiresIn time.Duration) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.String(),
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
			Audience:  []string{audience},
			ID:        uuid.NewString(),
		},
	}).SignedString([]byte(signingKey))
	require.NoError(t, err)
	return signed
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewService("test-signing-key")
	userID := id.UserID(uuid.New())

	signed := signAccessToken(t, "test-signing-key", userID, "Dr. Weber", time.Hour)

	got, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	signed := signAccessToken(t, "key-one", id.UserID(uuid.New()), "", time.Hour)

	_, err := NewService("key-two").ValidateToken(signed)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewService("test-signing-key")
	signed := signAccessToken(t, "test-signing-key", id.UserID(uuid.New()), "", -time.Minute)

	_, err := svc.ValidateToken(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, dErrors.MessageOf(err), "expired")
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := NewService("test-signing-key").ValidateToken("not-a-token")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
