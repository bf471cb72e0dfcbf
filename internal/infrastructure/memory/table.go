package memory

import (
	"context"
	"fmt"
	"sort"

	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
)

// schema describes how a table reads its rows.
type schema[T any] struct {
	name    string
	id      func(T) string
	field   func(T, string) (any, bool)
	created func(T) int64
}

// table is the working copy of one table inside a unit of work.
// changed records upserts (true) and deletions (false) by id.
type table[T any] struct {
	schema[T]
	rows    map[string]T
	changed map[string]bool
}

func newTable[T any](s schema[T], live map[string]T) *table[T] {
	rows := make(map[string]T, len(live))
	for k, v := range live {
		rows[k] = v
	}
	return &table[T]{schema: s, rows: rows, changed: map[string]bool{}}
}

func (t *table[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := t.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &v, nil
}

func (t *table[T]) Get(ctx context.Context, where repo.Where) (*T, error) {
	matches, err := t.filter(ctx, where)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, repo.ErrNotFound
	}
	return &matches[0], nil
}

func (t *table[T]) GetAll(ctx context.Context) ([]T, error) {
	return t.filter(ctx, nil)
}

func (t *table[T]) Add(ctx context.Context, v *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := t.id(*v)
	if id == "" {
		return fmt.Errorf("%s: id is required", t.name)
	}
	if _, ok := t.rows[id]; ok {
		return fmt.Errorf("%s %s: %w", t.name, id, repo.ErrDuplicate)
	}
	t.rows[id] = *v
	t.changed[id] = true
	return nil
}

func (t *table[T]) Update(ctx context.Context, v *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := t.id(*v)
	if _, ok := t.rows[id]; !ok {
		return repo.ErrNotFound
	}
	t.rows[id] = *v
	t.changed[id] = true
	return nil
}

func (t *table[T]) Delete(ctx context.Context, v *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := t.id(*v)
	if _, ok := t.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(t.rows, id)
	t.changed[id] = false
	return nil
}

// filter returns matching rows ordered by creation time then id.
func (t *table[T]) filter(ctx context.Context, where repo.Where) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		ok, err := t.matches(v, where)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := t.created(out[i]), t.created(out[j])
		if ci != cj {
			return ci < cj
		}
		return t.id(out[i]) < t.id(out[j])
	})
	return out, nil
}

func (t *table[T]) matches(v T, where repo.Where) (bool, error) {
	for col, want := range where {
		got, ok := t.field(v, col)
		if !ok {
			return false, fmt.Errorf("%s: unknown column %q", t.name, col)
		}
		if got != want {
			return false, nil
		}
	}
	return true, nil
}

// apply writes the staged changes into live.
func (t *table[T]) apply(live map[string]T) {
	for id, upsert := range t.changed {
		if upsert {
			live[id] = t.rows[id]
		} else {
			delete(live, id)
		}
	}
}

// merged returns live with the staged changes applied, without touching live.
func (t *table[T]) merged(live map[string]T) map[string]T {
	out := make(map[string]T, len(live))
	for k, v := range live {
		out[k] = v
	}
	t.apply(out)
	return out
}
