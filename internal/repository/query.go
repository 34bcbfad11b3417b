package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aiws-admin-api/internal/models"
)

// equalityClause renders a single "WHERE column = $1" from an allow-listed predicate.
func equalityClause(p models.Predicate, columns map[string]string) (string, []interface{}, error) {
	if p.IsZero() {
		return "", nil, nil
	}
	column, ok := columns[p.Field]
	if !ok {
		return "", nil, fmt.Errorf("unsupported filter field %q", p.Field)
	}
	return fmt.Sprintf(" WHERE %s = $1", column), []interface{}{p.Value}, nil
}

// insertReturningID runs a named INSERT ... RETURNING id on a DB or Tx.
func insertReturningID(ctx context.Context, ext sqlx.ExtContext, query string, arg interface{}) (int64, error) {
	bound, args, err := sqlx.Named(query, arg)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := ext.QueryRowxContext(ctx, ext.Rebind(bound), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// expectAffected maps a zero-row write to sql.ErrNoRows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
