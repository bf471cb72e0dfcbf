package repository

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
	// ErrReference is returned when a write points at a missing parent row.
	ErrReference = errors.New("broken reference")
)

// Where is an equality predicate keyed by column name.
// All entries must match. Unknown columns are rejected by the implementation.
type Where map[string]any

// Repository is the contract every aggregate repository exposes.
// Lookups return ErrNotFound when nothing matches.
type Repository[T any] interface {
	GetByID(ctx context.Context, id string) (*T, error)
	Get(ctx context.Context, where Where) (*T, error)
	GetAll(ctx context.Context) ([]T, error)
	Add(ctx context.Context, v *T) error
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, v *T) error
}
