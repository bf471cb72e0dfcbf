package helpers

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialPolicy is the single place where stored credentials are produced
// and compared.
type CredentialPolicy interface {
	Protect(plain string) (string, error)
	Matches(stored, supplied string) bool
}

// PlainCredentials stores passwords verbatim and compares them exactly.
type PlainCredentials struct{}

func (PlainCredentials) Protect(plain string) (string, error) { return plain, nil }

func (PlainCredentials) Matches(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// BcryptCredentials stores bcrypt hashes.
type BcryptCredentials struct{}

func (BcryptCredentials) Protect(plain string) (string, error) { return HashPassword(plain) }

func (BcryptCredentials) Matches(stored, supplied string) bool {
	return CompareHashAndPassword(stored, supplied)
}

// NewCredentialPolicy returns the policy registered under name.
func NewCredentialPolicy(name string) (CredentialPolicy, error) {
	switch name {
	case "", "plain":
		return PlainCredentials{}, nil
	case "bcrypt":
		return BcryptCredentials{}, nil
	default:
		return nil, fmt.Errorf("unknown password policy %q", name)
	}
}

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
