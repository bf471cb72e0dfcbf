// Package domainerr defines the fault kinds raised by the domain services.
//
// Every fault is a *Error carrying a Kind. Callers branch on the kind with
// errors.Is against the sentinels below or with KindOf.
package domainerr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain fault.
type Kind int

const (
	KindInternal Kind = iota
	KindEmailAlreadyExists
	KindRoleNotFound
	KindAccessDenied
	KindConfiguration
	KindMissingIdentifier
	KindUserNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindEmailAlreadyExists:
		return "email_already_exists"
	case KindRoleNotFound:
		return "role_not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindConfiguration:
		return "configuration"
	case KindMissingIdentifier:
		return "missing_identifier"
	case KindUserNotFound:
		return "user_not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a domain fault of a given Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInternal           = &Error{Kind: KindInternal, Message: "internal error"}
	ErrEmailAlreadyExists = &Error{Kind: KindEmailAlreadyExists, Message: "email already exists"}
	ErrRoleNotFound       = &Error{Kind: KindRoleNotFound, Message: "role not found"}
	ErrAccessDenied       = &Error{Kind: KindAccessDenied, Message: "access denied"}
	ErrConfiguration      = &Error{Kind: KindConfiguration, Message: "configuration fault"}
	ErrMissingIdentifier  = &Error{Kind: KindMissingIdentifier, Message: "missing identifier"}
	ErrUserNotFound       = &Error{Kind: KindUserNotFound, Message: "user not found"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "conflict"}
)

func EmailAlreadyExists(email string) *Error {
	return &Error{Kind: KindEmailAlreadyExists, Message: fmt.Sprintf("email %q is already registered", email)}
}

func RoleNotFound(roleID string) *Error {
	return &Error{Kind: KindRoleNotFound, Message: fmt.Sprintf("role %q does not exist", roleID)}
}

// AccessDenied carries the same message whatever factor failed.
func AccessDenied() *Error {
	return &Error{Kind: KindAccessDenied, Message: "access denied: invalid credentials"}
}

func Configuration(err error) *Error {
	return &Error{Kind: KindConfiguration, Message: "token issuer misconfigured", Err: err}
}

func MissingIdentifier() *Error {
	return &Error{Kind: KindMissingIdentifier, Message: "user id must be provided"}
}

func UserNotFound(id string) *Error {
	return &Error{Kind: KindUserNotFound, Message: fmt.Sprintf("user %q not found", id)}
}

// Conflict reports a name already taken by another access-catalog entry.
func Conflict(what, name string) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf("%s %q already exists", what, name)}
}

// Internal wraps an unexpected error. Domain faults pass through unchanged.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf returns the kind of err, KindInternal for non-domain errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
