package service

import (
	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
)

// TokenIssuer signs an identity into a bearer credential.
type TokenIssuer interface {
	CreateToken(identity entity.AuthenticatedIdentity) (entity.AuthenticatedIdentity, error)
}

// NotificationDispatcher accepts a notice for asynchronous, best-effort
// delivery. Send must not block on delivery and reports nothing back.
type NotificationDispatcher interface {
	Send(notice entity.CreationNotice)
}

// CredentialPolicy produces and compares stored credentials.
type CredentialPolicy interface {
	Protect(plain string) (string, error)
	Matches(stored, supplied string) bool
}
