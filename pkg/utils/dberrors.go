package utils

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes surfaced to clients
const (
	pgUniqueViolation       = "23505"
	pgInvalidTextRepr       = "22P02"
	pgCheckViolation        = "23514"
	pgNotNullViolation      = "23502"
	pgForeignKeyViolation   = "23503"
	MessageDuplicateDefault = "Duplicate field value entered"
)

// messages for unique constraints, keyed by constraint name
var uniqueMessages = map[string]string{
	"users_email_key":       "Email address already exists",
	"users_username_key":    "Username already exists",
	"books_isbn_key":        "ISBN already exists",
	"reviews_book_user_key": "You have already reviewed this book",
}

// FromPgError translates a PostgreSQL error into the AppError clients see.
// ok is false when err carries no PgError or the code is not client-facing.
func FromPgError(err error) (*AppError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil, false
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		msg, ok := uniqueMessages[pgErr.ConstraintName]
		if !ok {
			msg = MessageDuplicateDefault
		}
		return NewConflict(msg, err), true
	case pgInvalidTextRepr:
		return &AppError{Kind: KindNotFound, Message: "Resource not found", Err: err}, true
	case pgCheckViolation, pgNotNullViolation, pgForeignKeyViolation:
		return &AppError{Kind: KindBadRequest, Message: "Invalid field value", Err: err}, true
	}

	return nil, false
}

// IsUniqueViolation reports whether err is a unique violation on the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}
