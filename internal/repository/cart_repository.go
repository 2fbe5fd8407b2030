package repository

import (
	"context"
	"fmt"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// ownerClause matches rows of the owner passed as ($1 user_id, $2 session_id).
const ownerClause = `c.user_id IS NOT DISTINCT FROM $1 AND c.session_id IS NOT DISTINCT FROM $2`

const cartItemSelect = `
	SELECT c.id, c.user_id, c.session_id, c.product_id, c.variant_id, c.quantity, c.price,
	       COALESCE(v.price, p.price), p.is_active,
	       p.name, p.slug, COALESCE(v.sku, p.sku), v.name,
	       CASE WHEN c.variant_id IS NULL THEN p.quantity ELSE COALESCE(v.quantity, 0) END,
	       c.created_at, c.updated_at
	FROM carts c
	JOIN products p ON p.id = c.product_id
	LEFT JOIN product_variants v ON v.id = c.variant_id
`

func scanCartItem(row pgx.Row) (*model.CartItem, error) {
	var it model.CartItem
	err := row.Scan(&it.ID, &it.UserID, &it.SessionID, &it.ProductID, &it.VariantID, &it.Quantity, &it.Price,
		&it.CurrentPrice, &it.Active, &it.ProductName, &it.ProductSlug, &it.SKU, &it.VariantName, &it.Available, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// LockOwner takes a transaction-scoped advisory lock on the owner key.
func (r *cartRepository) LockOwner(ctx context.Context, tx pgx.Tx, owner model.CartOwner) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, owner.LockKey()); err != nil {
		r.logger.Error().Err(err).Str("owner", owner.LockKey()).Msg("failed to lock cart")
		return fmt.Errorf("failed to lock cart: %w", err)
	}
	return nil
}

// FindItem returns the owner's row for the product/variant pair.
func (r *cartRepository) FindItem(ctx context.Context, tx pgx.Tx, owner model.CartOwner, productID uuid.UUID, variantID *uuid.UUID) (*model.CartItem, error) {
	query := cartItemSelect + `
		WHERE ` + ownerClause + `
		  AND c.product_id = $3 AND c.variant_id IS NOT DISTINCT FROM $4
	`

	it, err := scanCartItem(tx.QueryRow(ctx, query, owner.UserID, owner.SessionPtr(), productID, variantID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}
	return it, nil
}

// Insert adds a new cart row.
func (r *cartRepository) Insert(ctx context.Context, tx pgx.Tx, item *model.CartItem) error {
	query := `
		INSERT INTO carts (id, user_id, session_id, product_id, variant_id, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query, item.ID, item.UserID, item.SessionID, item.ProductID, item.VariantID,
		item.Quantity, item.Price, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", item.ProductID.String()).Msg("failed to insert cart item")
		return fmt.Errorf("failed to insert cart item: %w", mapWriteError(err))
	}
	return nil
}

// SetQuantity overwrites the quantity of a row already known to the caller.
func (r *cartRepository) SetQuantity(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error {
	tag, err := tx.Exec(ctx, `UPDATE carts SET quantity = $2, updated_at = NOW() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", mapWriteError(err))
	}
	return expectOne(tag)
}

// List returns the owner's cart rows, oldest first.
func (r *cartRepository) List(ctx context.Context, owner model.CartOwner) ([]model.CartItem, error) {
	return r.list(ctx, r.pool, owner)
}

// ListTx is List inside a transaction.
func (r *cartRepository) ListTx(ctx context.Context, tx pgx.Tx, owner model.CartOwner) ([]model.CartItem, error) {
	return r.list(ctx, tx, owner)
}

func (r *cartRepository) list(ctx context.Context, q DBTX, owner model.CartOwner) ([]model.CartItem, error) {
	query := cartItemSelect + ` WHERE ` + ownerClause + ` ORDER BY c.created_at, c.id`

	rows, err := q.Query(ctx, query, owner.UserID, owner.SessionPtr())
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart: %w", err)
	}
	return items, nil
}

// GetItem returns one of the owner's rows inside tx, with availability
// read from the current product or variant stock.
func (r *cartRepository) GetItem(ctx context.Context, tx pgx.Tx, owner model.CartOwner, id uuid.UUID) (*model.CartItem, error) {
	query := cartItemSelect + ` WHERE ` + ownerClause + ` AND c.id = $3`

	it, err := scanCartItem(tx.QueryRow(ctx, query, owner.UserID, owner.SessionPtr(), id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}
	return it, nil
}

// DeleteItem removes one of the owner's rows.
func (r *cartRepository) DeleteItem(ctx context.Context, owner model.CartOwner, id uuid.UUID) error {
	query := `DELETE FROM carts c WHERE ` + ownerClause + ` AND c.id = $3`

	tag, err := r.pool.Exec(ctx, query, owner.UserID, owner.SessionPtr(), id)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return expectOne(tag)
}

// Clear empties the owner's cart.
func (r *cartRepository) Clear(ctx context.Context, tx pgx.Tx, owner model.CartOwner) error {
	query := `DELETE FROM carts c WHERE ` + ownerClause

	if _, err := tx.Exec(ctx, query, owner.UserID, owner.SessionPtr()); err != nil {
		r.logger.Error().Err(err).Str("owner", owner.LockKey()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// MergeSession folds the guest rows of sessionID into the user's cart:
// matching rows add their quantity to the user's row and are deleted, the
// rest are re-keyed to the user.
func (r *cartRepository) MergeSession(ctx context.Context, tx pgx.Tx, sessionID string, userID uuid.UUID) (int, error) {
	merge := `
		UPDATE carts u
		SET quantity = u.quantity + g.quantity, updated_at = NOW()
		FROM carts g
		WHERE u.user_id = $2 AND g.session_id = $1
		  AND u.product_id = g.product_id
		  AND u.variant_id IS NOT DISTINCT FROM g.variant_id
	`
	drop := `
		DELETE FROM carts g
		WHERE g.session_id = $1
		  AND EXISTS (
		      SELECT 1 FROM carts u
		      WHERE u.user_id = $2 AND u.product_id = g.product_id
		        AND u.variant_id IS NOT DISTINCT FROM g.variant_id
		  )
	`
	rekey := `UPDATE carts SET user_id = $2, session_id = NULL, updated_at = NOW() WHERE session_id = $1`

	if _, err := tx.Exec(ctx, merge, sessionID, userID); err != nil {
		return 0, fmt.Errorf("failed to merge cart quantities: %w", err)
	}
	dropped, err := tx.Exec(ctx, drop, sessionID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to drop merged cart rows: %w", err)
	}
	moved, err := tx.Exec(ctx, rekey, sessionID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to move cart rows: %w", err)
	}

	n := int(dropped.RowsAffected() + moved.RowsAffected())
	r.logger.Debug().
		Str("user_id", userID.String()).
		Int("rows", n).
		Msg("guest cart merged")
	return n, nil
}
