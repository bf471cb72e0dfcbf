// Package token adapts the HS256 JWT manager to the domain's TokenIssuer.
package token

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/domainerr"
	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-users-api/pkg/helpers"
)

// identityPayload is the JSON layout of the unique_name claim.
type identityPayload struct {
	ID          string     `json:"Id"`
	FirstName   string     `json:"FirstName"`
	LastName    string     `json:"LastName"`
	Email       string     `json:"Email"`
	Role        string     `json:"Role"`
	AccessToken *string    `json:"AccessToken"`
	Expiration  *time.Time `json:"Expiration"`
	SignedAt    time.Time  `json:"SignedAt"`
}

type Issuer struct {
	jwt *helpers.JWTManager
}

func NewIssuer(m *helpers.JWTManager) *Issuer {
	return &Issuer{jwt: m}
}

// CreateToken signs identity and returns a copy carrying the token, its
// expiration and a fresh SignedAt. Failures are configuration faults.
func (i *Issuer) CreateToken(identity entity.AuthenticatedIdentity) (entity.AuthenticatedIdentity, error) {
	payload, err := json.Marshal(toPayload(identity))
	if err != nil {
		return entity.AuthenticatedIdentity{}, domainerr.Configuration(fmt.Errorf("serialize identity: %w", err))
	}
	s, exp, err := i.jwt.Sign(string(payload), identity.Role)
	if err != nil {
		return entity.AuthenticatedIdentity{}, domainerr.Configuration(err)
	}

	out := identity
	out.AccessToken = s
	out.Expiration = exp
	out.SignedAt = i.jwt.Now()
	return out, nil
}

// ParseToken validates tokenStr and decodes the identity it carries. The
// role comes from the role claim.
func (i *Issuer) ParseToken(tokenStr string) (entity.AuthenticatedIdentity, error) {
	claims, err := i.jwt.ParseToken(tokenStr)
	if err != nil {
		return entity.AuthenticatedIdentity{}, err
	}
	return Identity(claims)
}

// Identity decodes the identity carried by the unique_name claim.
func Identity(c *helpers.IdentityClaims) (entity.AuthenticatedIdentity, error) {
	var p identityPayload
	if err := json.Unmarshal([]byte(c.UniqueName), &p); err != nil {
		return entity.AuthenticatedIdentity{}, fmt.Errorf("decode identity claim: %w", err)
	}
	id := entity.AuthenticatedIdentity{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      c.Role,
		SignedAt:  p.SignedAt,
	}
	if p.AccessToken != nil {
		id.AccessToken = *p.AccessToken
	}
	if p.Expiration != nil {
		id.Expiration = *p.Expiration
	}
	return id, nil
}

func toPayload(id entity.AuthenticatedIdentity) identityPayload {
	p := identityPayload{
		ID:        id.ID,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Email:     id.Email,
		Role:      id.Role,
		SignedAt:  id.SignedAt,
	}
	if id.AccessToken != "" {
		tok := id.AccessToken
		p.AccessToken = &tok
	}
	if !id.Expiration.IsZero() {
		exp := id.Expiration
		p.Expiration = &exp
	}
	return p
}
