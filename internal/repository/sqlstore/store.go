// Package sqlstore implements the repository ports over database/sql.
// Driver differences go through a db.Dialect, so sqlite, mysql and postgres share one code path.
package sqlstore

import (
	"context"
	"database/sql"

	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
)

// store is embedded by every repository / Embarqué par chaque repository
type store struct {
	db      ports.DBTX
	dialect db.Dialect
}

func newStore(dbtx ports.DBTX, dialect db.Dialect) store {
	return store{db: dbtx, dialect: dialect}
}

func (s store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, s.dialect.TranslateError(err)
	}
	return res, nil
}

func (s store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, s.dialect.TranslateError(err)
	}
	return rows, nil
}

func (s store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

// insert runs an INSERT and returns the new id / Exécute un INSERT et retourne le nouvel id
func (s store) insert(ctx context.Context, query string, args ...any) (int64, error) {
	if s.dialect.SupportsReturning() {
		var id int64
		err := s.queryRow(ctx, query+" RETURNING id", args...).Scan(&id)
		if err != nil {
			return 0, s.dialect.TranslateError(err)
		}
		return id, nil
	}

	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, s.dialect.TranslateError(err)
	}
	return id, nil
}

// count runs a COUNT query / Exécute une requête COUNT
func (s store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, s.dialect.TranslateError(err)
	}
	return n, nil
}

// exists runs a boolean EXISTS query / Exécute une requête EXISTS
func (s store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := s.queryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, s.dialect.TranslateError(err)
	}
	return ok, nil
}

// requireAffected returns ErrNoRecord when nothing changed / Retourne ErrNoRecord si rien n'a changé
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return db.ErrNoRecord
	}
	return nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
