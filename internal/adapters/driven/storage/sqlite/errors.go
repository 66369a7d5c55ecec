package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// constraintCategory maps a SQLite constraint failure onto the domain
// taxonomy. It returns nil for errors that are not constraint failures.
func constraintCategory(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return nil
	}
	msg := se.Error()
	switch {
	case strings.Contains(msg, "already promoted"):
		return domain.ErrAlreadyPromoted
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "PRIMARY KEY"):
		return domain.ErrAlreadyExists
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return domain.ErrNotFound
	default:
		return domain.ErrConstraintViolation
	}
}

// translate wraps err with context. Constraint failures are rewrapped onto
// their domain category; unique replaces the category of UNIQUE conflicts
// when the caller knows a more precise error.
func translate(err, unique error, msg string, opts ...goerr.Option) error {
	if err == nil {
		return nil
	}
	category := constraintCategory(err)
	if category == nil {
		return goerr.Wrap(err, msg, opts...)
	}
	if unique != nil && errors.Is(category, domain.ErrAlreadyExists) {
		category = unique
	}
	opts = append(opts, goerr.V("cause", err.Error()))
	return goerr.Wrap(category, msg, opts...)
}

// notFound converts sql.ErrNoRows into the given domain error.
func notFound(err, missing error, msg string, opts ...goerr.Option) error {
	if errors.Is(err, sql.ErrNoRows) {
		return goerr.Wrap(missing, msg, opts...)
	}
	return goerr.Wrap(err, msg, opts...)
}

// requireAffected returns missing when an update or delete touched no row.
func requireAffected(res sql.Result, missing error, msg string, opts ...goerr.Option) error {
	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, msg, opts...)
	}
	if n == 0 {
		return goerr.Wrap(missing, msg, opts...)
	}
	return nil
}
