package main

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Failure classes the HTTP layer maps to status codes. Every store
// operation reports failures through one of these, wrapped or bare.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrExpired    = errors.New("expired")
	ErrValidation = errors.New("validation")
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isFKViolation reports whether err is a foreign key violation (SQLSTATE
// 23503), which surfaces when an insert references a missing parent row.
func isFKViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
