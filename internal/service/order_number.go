package service

import (
	"context"
	"crypto/rand"
	"time"

	"staykart/internal/database"
	"staykart/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const (
	orderNumberAttempts = 3
	orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// newOrderNumber returns ORD-YYYYMMDD-XXXXXX with a random suffix.
func newOrderNumber(now time.Time) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return "ORD-" + now.UTC().Format("20060102") + "-" + string(buf)
}

// placeWithOrderNumber runs fn in a fresh transaction for each attempt and
// retries with a new number while the order number collides.
func placeWithOrderNumber(
	ctx context.Context,
	beginner repository.TxBeginner,
	logger zerolog.Logger,
	next func() string,
	fn func(tx pgx.Tx, number string) error,
) error {
	var err error
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		number := next()
		err = inTx(ctx, beginner, logger, func(tx pgx.Tx) error {
			return fn(tx, number)
		})
		if !database.IsUniqueViolation(err, database.OrderNumberConstraint) {
			return err
		}
		logger.Warn().
			Str("order_number", number).
			Int("attempt", attempt).
			Msg("order number collision, retrying")
	}
	return err
}
