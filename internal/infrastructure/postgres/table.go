package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	repo "github.com/oksasatya/go-ddd-users-api/internal/domain/repository"
)

// querier is the subset of pgx.Tx the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// table implements the generic repository contract over one SQL table.
// columns[0] must be the primary key and values must follow column order.
type table[T any] struct {
	q       querier
	name    string
	columns []string
	scan    func(scanner) (T, error)
	values  func(*T) []any
}

func (t *table[T]) selectSQL() string {
	return "SELECT " + strings.Join(t.columns, ", ") + " FROM " + t.name
}

func (t *table[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if !isUUID(id) {
		return nil, repo.ErrNotFound
	}
	row := t.q.QueryRow(ctx, t.selectSQL()+" WHERE id = $1", id)
	v, err := t.scan(row)
	if err != nil {
		return nil, mapError(err)
	}
	return &v, nil
}

func (t *table[T]) Get(ctx context.Context, where repo.Where) (*T, error) {
	clause, args, err := buildWhere(t.columns, where)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.name, err)
	}
	if malformedID(where) {
		return nil, repo.ErrNotFound
	}
	row := t.q.QueryRow(ctx, t.selectSQL()+clause+" ORDER BY created_at, id LIMIT 1", args...)
	v, err := t.scan(row)
	if err != nil {
		return nil, mapError(err)
	}
	return &v, nil
}

func (t *table[T]) GetAll(ctx context.Context) ([]T, error) {
	return t.list(ctx, nil)
}

func (t *table[T]) list(ctx context.Context, where repo.Where) ([]T, error) {
	clause, args, err := buildWhere(t.columns, where)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.name, err)
	}
	if malformedID(where) {
		return []T{}, nil
	}
	rows, err := t.q.Query(ctx, t.selectSQL()+clause+" ORDER BY created_at, id", args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := t.scan(rows)
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (t *table[T]) Add(ctx context.Context, v *T) error {
	placeholders := make([]string, len(t.columns))
	for i := range t.columns {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	sql := "INSERT INTO " + t.name + " (" + strings.Join(t.columns, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
	if _, err := t.q.Exec(ctx, sql, t.values(v)...); err != nil {
		return mapError(err)
	}
	return nil
}

func (t *table[T]) Update(ctx context.Context, v *T) error {
	sets := make([]string, 0, len(t.columns)-1)
	for i, col := range t.columns[1:] {
		sets = append(sets, col+" = $"+strconv.Itoa(i+2))
	}
	args := t.values(v)
	if !isUUIDValue(args[0]) {
		return repo.ErrNotFound
	}
	sql := "UPDATE " + t.name + " SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	res, err := t.q.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (t *table[T]) Delete(ctx context.Context, v *T) error {
	id := t.values(v)[0]
	if !isUUIDValue(id) {
		return repo.ErrNotFound
	}
	res, err := t.q.Exec(ctx, "DELETE FROM "+t.name+" WHERE id = $1", id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// buildWhere renders an equality predicate. Keys are sorted so the SQL text
// is stable, and only known columns are accepted.
func buildWhere(columns []string, where repo.Where) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	keys := make([]string, 0, len(where))
	for k := range where {
		if !known[k] {
			return "", nil, fmt.Errorf("unknown column %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		parts[i] = k + " = $" + strconv.Itoa(i+1)
		args[i] = where[k]
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// Key columns are UUID typed. A key that does not parse cannot match a row,
// so it is reported as absent instead of reaching the server.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func isUUIDValue(v any) bool {
	s, ok := v.(string)
	return !ok || isUUID(s)
}

func isKeyColumn(col string) bool {
	return col == "id" || strings.HasSuffix(col, "_id")
}

func malformedID(where repo.Where) bool {
	for col, v := range where {
		if isKeyColumn(col) && !isUUIDValue(v) {
			return true
		}
	}
	return false
}

const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, repo.ErrDuplicate)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, repo.ErrReference)
		case invalidTextRepresentation:
			return repo.ErrNotFound
		}
	}
	return err
}
