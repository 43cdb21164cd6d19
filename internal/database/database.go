// Package database opens the SQLite store and runs schema migrations.
package database

import (
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Connect opens the SQLite database behind dsn and wraps it with bun.
func Connect(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}

	if err := sqldb.Ping(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to reach database")
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
