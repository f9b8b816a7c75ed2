package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func IsPgUniqueViolation(err error) bool {
	_, ok := uniqueConstraint(err)
	return ok
}

// ViolatedConstraint returns the unique constraint name behind err, if any.
func ViolatedConstraint(err error) string {
	name, _ := uniqueConstraint(err)
	return name
}

func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
