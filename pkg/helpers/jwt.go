package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret     = errors.New("jwt: signing secret is empty")
	ErrInvalidLifetime = errors.New("jwt: token lifetime must be positive")
)

// JWTManager signs and validates access tokens with HMAC-SHA256.
type JWTManager struct {
	Secret     []byte
	Issuer     string
	Audience   string
	Expiration time.Duration

	now func() time.Time
}

func NewJWTManager(secret, issuer, audience string, expiration time.Duration) *JWTManager {
	return &JWTManager{
		Secret:     []byte(secret),
		Issuer:     issuer,
		Audience:   audience,
		Expiration: expiration,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	m.now = now
	return m
}

func (m *JWTManager) Now() time.Time { return m.now() }

// IdentityClaims is the claim set of an access token.
// unique_name carries an opaque identity document and role repeats the role
// name; existing consumers read both.
type IdentityClaims struct {
	UniqueName string `json:"unique_name"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Sign issues a token for uniqueName and role that expires after the
// configured lifetime.
func (m *JWTManager) Sign(uniqueName, role string) (string, time.Time, error) {
	if len(m.Secret) == 0 {
		return "", time.Time{}, ErrEmptySecret
	}
	if m.Expiration <= 0 {
		return "", time.Time{}, fmt.Errorf("%w, got %s", ErrInvalidLifetime, m.Expiration)
	}

	exp := m.now().Add(m.Expiration)
	claims := &IdentityClaims{
		UniqueName: uniqueName,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Audience:  jwt.ClaimStrings{m.Audience},
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

// ParseToken validates signature, issuer, audience and expiry.
func (m *JWTManager) ParseToken(tokenStr string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.Issuer),
		jwt.WithAudience(m.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
