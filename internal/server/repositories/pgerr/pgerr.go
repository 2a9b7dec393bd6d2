// Package pgerr translates database errors into the sentinels of
// internal/common so services never see driver types.
package pgerr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Wrap maps sql.ErrNoRows to common.ErrorNotFound, unique violations to
// common.ErrorAlreadyExists and wraps everything else as a db error.
func Wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case IsUniqueViolation(err):
		return common.ErrorAlreadyExists
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ExpectOne turns a zero RowsAffected into common.ErrorNotFound.
func ExpectOne(res sql.Result, err error) error {
	if err != nil {
		return Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Wrap(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
