package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes
const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

// Constraint names generated by the schema migrations
const (
	RoomsCapacityCheck = "rooms_capacity_check"
	SeatNoCheck        = "seat_assignments_seat_no_check"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return hasCode(err, codeUniqueViolation, constraintName)
}

// IsCheckViolation reports whether err is a CHECK constraint failure on constraintName.
func IsCheckViolation(err error, constraintName string) bool {
	return hasCode(err, codeCheckViolation, constraintName)
}

func hasCode(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code && pgErr.ConstraintName == constraintName
}
