package service

import (
	"context"
	"fmt"

	"staykart/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// inTx runs fn in a transaction, committing when fn succeeds and rolling
// back otherwise. fn's error is returned unwrapped so callers can match
// domain errors.
func inTx(ctx context.Context, beginner repository.TxBeginner, logger zerolog.Logger, fn func(tx pgx.Tx) error) (err error) {
	tx, err := beginner.BeginTx(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
