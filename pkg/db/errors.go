package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation reports whether the provided error is a unique violation.
// Identifiers narrow the match to one logical constraint: callers pass the
// Postgres constraint name plus the table.column form SQLite puts in its
// message ("UNIQUE constraint failed: users.email"). When identifiers are
// given, a violation of a different constraint returns false rather than
// being claimed by the first caller to ask.
func IsUniqueViolation(err error, identifiers ...string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" {
			return false
		}
		if len(identifiers) == 0 {
			return true
		}
		for _, id := range identifiers {
			if pgErr.ConstraintName == id {
				return true
			}
		}
		return false
	}

	// SQLite (tests) and drivers that do not surface structured errors.
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") &&
		!strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if len(identifiers) == 0 {
		return true
	}
	for _, id := range identifiers {
		if strings.Contains(msg, id) {
			return true
		}
	}
	return false
}
