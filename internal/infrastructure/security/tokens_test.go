package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/infrastructure/config"
)

func newTestTokenService(secret string) *TokenService {
	return NewTokenService(&config.AuthConfig{
		JWTSecret:     secret,
		JWTExpiration: time.Hour,
	}, zap.NewNop())
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestTokenService("test-secret")

	token, expiresAt, err := svc.Issue("user-123", "jo@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "jo@example.com", claims.Email)
	assert.Equal(t, "mealpathway", claims.Issuer)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _, err := newTestTokenService("secret-a").Issue("user-123", "jo@example.com")
	require.NoError(t, err)

	_, err = newTestTokenService("secret-b").Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newTestTokenService("test-secret").Validate("not.a.token")
	assert.Error(t, err)
}
