package services_test

import (
	"testing"
	"time"

	"songvault/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret = "test_jwt_secret"
	testIssuer    = "http://localhost"
)

func newTokenService(t *testing.T) *services.TokenService {
	t.Helper()
	tokens, err := services.NewTokenService(testJWTSecret, testIssuer, 72*time.Hour, nil)
	require.NoError(t, err)
	return tokens
}

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := services.NewTokenService("", testIssuer, time.Hour, nil)
	assert.Error(t, err)
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := newTokenService(t)

	token, err := tokens.Issue("user-123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)

	parsed := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, parsed)
	require.NoError(t, err)
	assert.Equal(t, testIssuer, parsed.Issuer)
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), parsed.ExpiresAt.Time, time.Minute)
}

func TestTokenService_VerifyRejects(t *testing.T) {
	tokens := newTokenService(t)
	now := time.Now()

	valid := jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    testIssuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
	wrongIssuer := valid
	wrongIssuer.Issuer = "http://evil.example"
	noExpiry := valid
	noExpiry.ExpiresAt = nil
	noSubject := valid
	noSubject.Subject = ""

	cases := map[string]string{
		"garbage":      "invalid.token.string",
		"empty":        "",
		"expired":      signClaims(t, jwt.SigningMethodHS256, []byte(testJWTSecret), expired),
		"wrong secret": signClaims(t, jwt.SigningMethodHS256, []byte("other_secret"), valid),
		"wrong issuer": signClaims(t, jwt.SigningMethodHS256, []byte(testJWTSecret), wrongIssuer),
		"no expiry":    signClaims(t, jwt.SigningMethodHS256, []byte(testJWTSecret), noExpiry),
		"no subject":   signClaims(t, jwt.SigningMethodHS256, []byte(testJWTSecret), noSubject),
		"wrong alg":    signClaims(t, jwt.SigningMethodHS512, []byte(testJWTSecret), valid),
		"alg none":     signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			subject, err := tokens.Verify(token)
			assert.ErrorIs(t, err, services.ErrUnauthenticated)
			assert.Empty(t, subject)
		})
	}
}
