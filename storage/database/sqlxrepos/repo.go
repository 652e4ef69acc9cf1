// Package sqlxrepos implements the core repositories on top of sqlx.
// Queries are written with `?` placeholders and rebound for the executor's driver.
package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
)

type baseRepository struct {
	exec core.DBExecutor
}

func (repo baseRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps "no rows" to notFound.
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func get(ctx context.Context, exec core.DBExecutor, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, exec, dest, exec.Rebind(query), args...)
}

func sel(ctx context.Context, exec core.DBExecutor, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, exec, dest, exec.Rebind(query), args...)
}

// execAffected runs query and returns the number of affected rows.
func execAffected(ctx context.Context, exec core.DBExecutor, query string, args ...interface{}) (int64, error) {
	res, err := exec.ExecContext(ctx, exec.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// execOne fails with notFound when query affects no row.
func execOne(ctx context.Context, exec core.DBExecutor, notFound error, query string, args ...interface{}) error {
	n, err := execAffected(ctx, exec, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// upsert runs stmt, an `INSERT … ON CONFLICT … DO UPDATE … RETURNING id`, and reports whether
// it inserted the row. Postgres tells from the new tuple's xmax. sqlite writers share a single
// connection, so the exists lookup and the upsert cannot interleave with another writer as
// long as both run in the same transaction.
func upsert(
	ctx context.Context,
	exec core.DBExecutor,
	stmt string,
	args []interface{},
	exists string,
	existsArgs ...interface{},
) (id int64, inserted bool, err error) {
	if isPostgres(exec) {
		var row struct {
			ID       int64 `db:"id"`
			Inserted bool  `db:"inserted"`
		}
		if err = get(ctx, exec, &row, stmt+", (xmax = 0) AS inserted", args...); err != nil {
			return 0, false, err
		}
		return row.ID, row.Inserted, nil
	}

	var found bool
	if err = get(ctx, exec, &found, "SELECT EXISTS ("+exists+")", existsArgs...); err != nil {
		return 0, false, err
	}
	if err = get(ctx, exec, &id, stmt, args...); err != nil {
		return 0, false, err
	}
	return id, !found, nil
}

func isPostgres(exec core.DBExecutor) bool {
	return exec.DriverName() == core.EnginePostgres
}
