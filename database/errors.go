package database

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors surfaced to the handlers. The handlers translate them to
// HTTP status codes; no driver detail ever reaches a response body.
var (
	// ErrNotFound covers both a genuinely missing row and a row owned by
	// another organization. The two cases are deliberately merged so that
	// existence never leaks across tenants.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a uniqueness violation, e.g. a duplicate project
	// slug within an organization.
	ErrConflict = errors.New("already exists")

	// ErrForbidden signals a valid credential scoped away from the
	// requested resource.
	ErrForbidden = errors.New("access denied")

	// ErrInvalidAPIKey covers both an unknown key and a hash mismatch;
	// callers must not be able to tell the two apart.
	ErrInvalidAPIKey = errors.New("invalid API key")

	// ErrExpiredAPIKey signals a recognized key past its expiry.
	ErrExpiredAPIKey = errors.New("API key has expired")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// isForeignKeyViolation reports whether err is a Postgres foreign-key
// violation, e.g. inserting a run for a deleted project.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
