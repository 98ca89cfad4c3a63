// Package auth provides token issuance, password hashing and the request
// authentication middleware.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. Client registers (POST /api/users) or logs in (POST /api/auth)
//  2. Server answers with {"token": "<jwt>"}
//  3. Client sends the token back on every private call in the x-auth-token
//     header (or Authorization: Bearer <jwt>)
//  4. RequireAuth validates the JWT and stores the caller's Identity in the
//     request context
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"user":{"id":"...","email":"..."},"iat":...,"exp":...,"iss":"donation-hub"}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "donation-hub"

// DefaultTokenTTL is the lifetime of issued tokens: 360000 seconds (100 hours).
const DefaultTokenTTL = 360000 * time.Second

// Identity is the authenticated caller, as carried in the token payload.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenService handles JWT creation and validation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. A zero ttl falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims is the JWT payload. The identity lives under "user" so existing
// clients can keep decoding payload.user.id.
type claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// Generate creates and signs a token for the given identity using the
// service's fixed lifetime.
func (s *TokenService) Generate(id Identity) (string, error) {
	return s.GenerateWithDuration(id, s.ttl)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(id Identity, d time.Duration) (string, error) {
	if id.ID == "" {
		return "", errors.New("auth: identity has no user id")
	}

	now := time.Now()
	c := claims{
		User: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the identity it
// carries.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid
//   - Token is not expired, and has an expiry at all
//   - Issuer matches
//   - Algorithm is HS256 (prevents "alg":"none" and key-confusion tricks)
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid token claims")
	}
	if c.User.ID == "" {
		return Identity{}, fmt.Errorf("auth: token has no user id")
	}

	return c.User, nil
}
