package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the application reacts to.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	CodeNotNullViolation    = "23502"
	CodeInvalidTextRep      = "22P02"
)

// OrderNumberConstraint is the unique key on orders.order_number. Inserts that
// collide on it are retried with a fresh number.
const OrderNumberConstraint = "orders_order_number_key"

// PgError returns the underlying *pgconn.PgError, if any.
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsUniqueViolation reports whether err is a unique violation, optionally
// restricted to one constraint.
func IsUniqueViolation(err error, constraint string) bool {
	pgErr, ok := PgError(err)
	if !ok || pgErr.Code != CodeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	pgErr, ok := PgError(err)
	return ok && pgErr.Code == CodeForeignKeyViolation
}

// IsCheckViolation reports whether err is a check or not-null violation.
func IsCheckViolation(err error) bool {
	pgErr, ok := PgError(err)
	return ok && (pgErr.Code == CodeCheckViolation || pgErr.Code == CodeNotNullViolation)
}
