package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staykart/internal/database"
	"staykart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// txBeginner implements TxBeginner on top of a pool.
type txBeginner struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTxBeginner creates a TxBeginner for the given pool.
func NewTxBeginner(pool *pgxpool.Pool, logger zerolog.Logger) TxBeginner {
	return &txBeginner{
		pool:   pool,
		logger: logger.With().Str("repository", "tx").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (b *txBeginner) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// mapWriteError converts constraint violations raised by INSERT/UPDATE into
// domain errors. Other errors are returned unchanged.
func mapWriteError(err error) error {
	pgErr, ok := database.PgError(err)
	if !ok {
		return err
	}
	switch pgErr.Code {
	case database.CodeUniqueViolation:
		return model.Errorf(model.ErrCodeConflict, "%s already exists", constraintSubject(pgErr.ConstraintName))
	case database.CodeForeignKeyViolation:
		return model.ErrInvalidReference
	case database.CodeCheckViolation, database.CodeNotNullViolation:
		field := pgErr.ColumnName
		if field == "" {
			field = constraintSubject(pgErr.ConstraintName)
		}
		return model.NewValidationError(model.FieldError{Field: field, Msg: "violates constraint " + pgErr.ConstraintName})
	case database.CodeInvalidTextRep:
		return model.NewValidationError(model.FieldError{Field: "", Msg: pgErr.Message})
	}
	return err
}

// mapDeleteError is mapWriteError for DELETE, where a foreign key violation
// means the row is still referenced.
func mapDeleteError(err error) error {
	if database.IsForeignKeyViolation(err) {
		return model.ErrResourceInUse
	}
	return mapWriteError(err)
}

// constraintSubject turns "products_slug_key" into "products slug".
func constraintSubject(constraint string) string {
	s := strings.TrimSuffix(constraint, "_key")
	s = strings.TrimPrefix(s, "idx_")
	if s == "" {
		return "record"
	}
	return strings.ReplaceAll(s, "_", " ")
}

// isNoRows reports whether err signals an empty result.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// expectOne returns model.ErrNotFound when a write touched no rows.
func expectOne(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// pageArgs clamps limit/offset to the listing bounds.
func pageArgs(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
