package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/auth"
)

const (
	testKey      = "test-secret-key-for-testing-only"
	testIssuer   = "https://api.nutrilog.app"
	testAudience = "nutrilog-api"
)

func newService(key, issuer, audience string) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: key,
		Issuer:     issuer,
		Audience:   audience,
	})
}

func TestJWTService_GenerateAndValidateAccessToken(t *testing.T) {
	svc := newService(testKey, testIssuer, testAudience)

	token, expiresAt, err := svc.GenerateAccessToken("usr_test123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_test123", claims.UserID)
	assert.Equal(t, "usr_test123", claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)

	userID, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_test123", userID)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newService(testKey, testIssuer, testAudience)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
		})
	}
}

func TestJWTService_Mismatch(t *testing.T) {
	tests := []struct {
		name      string
		validator *auth.JWTService
	}{
		{"wrong signing key", newService("key-two", testIssuer, testAudience)},
		{"wrong issuer", newService(testKey, "issuer-two", testAudience)},
		{"wrong audience", newService(testKey, testIssuer, "audience-two")},
	}

	token, _, err := newService(testKey, testIssuer, testAudience).GenerateAccessToken("usr_test123")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.validator.ValidateAccessToken(token)
			assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
		})
	}
}

func signed(t *testing.T, claims auth.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	require.NoError(t, err)
	return token
}

func TestJWTService_Expired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	token := signed(t, auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(auth.AccessTokenExpiry)),
		},
		UserID: "usr_test123",
	})

	_, err := newService(testKey, testIssuer, testAudience).Authenticate(token)
	assert.ErrorIs(t, err, auth.ErrAccessTokenExpired)
}

func TestJWTService_MissingUserClaim(t *testing.T) {
	token := signed(t, auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := newService(testKey, testIssuer, testAudience).Authenticate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestJWTService_SubjectMismatch(t *testing.T) {
	token := signed(t, auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "usr_other",
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "usr_test123",
	})

	_, err := newService(testKey, testIssuer, testAudience).Authenticate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestJWTService_ToleratesClockSkew(t *testing.T) {
	token := signed(t, auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-10 * time.Second)),
		},
		UserID: "usr_test123",
	})

	userID, err := newService(testKey, testIssuer, testAudience).Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_test123", userID)
}

func TestJWTConfigFromEnv(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "")
	_, err := auth.JWTConfigFromEnv()
	assert.ErrorIs(t, err, auth.ErrMissingSigningKey)

	t.Setenv("JWT_SIGNING_KEY", "secret")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_AUDIENCE", "mobile")
	cfg, err := auth.JWTConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.SigningKey)
	assert.Equal(t, testIssuer, cfg.Issuer)
	assert.Equal(t, "mobile", cfg.Audience)
}
