package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "forkful-test", 15*time.Minute)
	subject := AdminSubject("chef@example.com")

	token, expires, err := m.GenerateAccessToken(subject, "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expires, 5*time.Second)

	gotSubject, role, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, subject, gotSubject)
	assert.Equal(t, "admin", role)
}

func TestJWTManager_ValidateAccessToken_Rejects(t *testing.T) {
	t.Parallel()

	good := NewJWTManager(testSecret, "forkful-test", time.Hour)
	subject := uuid.New()

	expired := NewJWTManager(testSecret, "forkful-test", -time.Hour)
	expiredToken, _, err := expired.GenerateAccessToken(subject, "admin")
	require.NoError(t, err)

	otherSecret := NewJWTManager("another-secret-that-is-also-32-chars-long", "forkful-test", time.Hour)
	forgedToken, _, err := otherSecret.GenerateAccessToken(subject, "admin")
	require.NoError(t, err)

	otherIssuer := NewJWTManager(testSecret, "someone-else", time.Hour)
	wrongIssuerToken, _, err := otherIssuer.GenerateAccessToken(subject, "admin")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   subject.String(),
		Issuer:    "forkful-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "malformed", token: "not.a.jwt"},
		{name: "expired", token: expiredToken},
		{name: "wrong secret", token: forgedToken},
		{name: "wrong issuer", token: wrongIssuerToken},
		{name: "alg none", token: noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := good.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAdminSubject_Stable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AdminSubject("Chef@Example.com "), AdminSubject("chef@example.com"))
	assert.NotEqual(t, AdminSubject("a@example.com"), AdminSubject("b@example.com"))
	assert.NotEqual(t, uuid.Nil, AdminSubject("a@example.com"))
}
