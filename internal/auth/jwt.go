// Package auth validates the bearer tokens that authenticate API requests.
//
// Access tokens are short-lived HS256 JWTs minted by the account service.
// NutriLog only verifies them; the uid claim names the acting user and
// scopes every profile, food entry and report the request touches.
package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// AccessTokenExpiry is how long issued access tokens are valid.
	AccessTokenExpiry = 1 * time.Hour

	// clockSkew tolerates small drift between the issuer and this service.
	clockSkew = 30 * time.Second

	defaultIssuer   = "https://api.nutrilog.app"
	defaultAudience = "nutrilog-api"
)

var (
	ErrInvalidAccessToken = errors.New("invalid access token")
	ErrAccessTokenExpired = errors.New("access token has expired")
	ErrMissingSigningKey  = errors.New("JWT signing key is required")
)

// JWTClaims are the claims carried by an access token.
type JWTClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
}

// JWTConfig holds configuration for the JWT service.
type JWTConfig struct {
	SigningKey string
	Issuer     string
	Audience   string

	// AccessTokenExpiry overrides the default token lifetime when non-zero.
	// Tests use a negative value to mint already-expired tokens.
	AccessTokenExpiry time.Duration
}

// JWTConfigFromEnv reads JWT_SIGNING_KEY, JWT_ISSUER and JWT_AUDIENCE.
// The signing key has no default.
func JWTConfigFromEnv() (JWTConfig, error) {
	cfg := JWTConfig{
		SigningKey: os.Getenv("JWT_SIGNING_KEY"),
		Issuer:     envOr("JWT_ISSUER", defaultIssuer),
		Audience:   envOr("JWT_AUDIENCE", defaultAudience),
	}
	if cfg.SigningKey == "" {
		return cfg, ErrMissingSigningKey
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// JWTService mints and verifies access tokens.
type JWTService struct {
	key    []byte
	expiry time.Duration
	parser *jwt.Parser
	cfg    JWTConfig
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg JWTConfig) *JWTService {
	expiry := cfg.AccessTokenExpiry
	if expiry == 0 {
		expiry = AccessTokenExpiry
	}
	return &JWTService{
		key:    []byte(cfg.SigningKey),
		expiry: expiry,
		cfg:    cfg,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

// GenerateAccessToken mints a token for userID. The API never calls it
// outside tests and local tooling; production tokens come from the
// account service with the same key.
func (s *JWTService) GenerateAccessToken(userID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing access token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken verifies signature, issuer, audience and expiry.
func (s *JWTService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrAccessTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccessToken, err)
	}
	return claims, nil
}

// Authenticate validates tokenString and returns the user it was issued to.
// A token whose sub disagrees with its uid is rejected.
func (s *JWTService) Authenticate(tokenString string) (string, error) {
	claims, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return "", err
	}
	switch {
	case claims.UserID == "":
		return "", fmt.Errorf("%w: missing uid claim", ErrInvalidAccessToken)
	case claims.Subject != "" && claims.Subject != claims.UserID:
		return "", fmt.Errorf("%w: subject does not match uid", ErrInvalidAccessToken)
	}
	return claims.UserID, nil
}
