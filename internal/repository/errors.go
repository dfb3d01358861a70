package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateEmail is returned when an actor email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrStatusChanged is returned when a compare-and-set review finds the
	// request no longer in the expected status.
	ErrStatusChanged = errors.New("leave request status changed")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
