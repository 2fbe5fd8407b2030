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

// addressRepository implements the AddressRepository interface using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

const addressColumns = `id, user_id, type, first_name, last_name, line1, line2, city, state, postal_code,
	country, phone, is_default, created_at, updated_at`

func addressDest(a *model.Address) []any {
	return []any{&a.ID, &a.UserID, &a.Type, &a.FirstName, &a.LastName, &a.Line1, &a.Line2, &a.City, &a.State,
		&a.PostalCode, &a.Country, &a.Phone, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt}
}

// ListByUser retrieves a user's addresses, defaults first.
func (r *addressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query addresses")
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	addresses := []model.Address{}
	for rows.Next() {
		var a model.Address
		if err := rows.Scan(addressDest(&a)...); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}
	return addresses, nil
}

// Get retrieves one of the user's addresses.
func (r *addressRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.Address, error) {
	var a model.Address
	err := r.pool.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(addressDest(&a)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query address: %w", err)
	}
	return &a, nil
}

// ClearDefault unsets the default address of the given type.
func (r *addressRepository) ClearDefault(ctx context.Context, tx pgx.Tx, userID uuid.UUID, t model.AddressType) error {
	query := `UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND type = $2 AND is_default`
	if _, err := tx.Exec(ctx, query, userID, t); err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	return nil
}

// Create inserts a new address.
func (r *addressRepository) Create(ctx context.Context, tx pgx.Tx, a *model.Address) error {
	query := `
		INSERT INTO addresses (` + addressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := tx.Exec(ctx, query, a.ID, a.UserID, a.Type, a.FirstName, a.LastName, a.Line1, a.Line2, a.City,
		a.State, a.PostalCode, a.Country, a.Phone, a.IsDefault, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", a.UserID.String()).Msg("failed to create address")
		return fmt.Errorf("failed to create address: %w", mapWriteError(err))
	}
	return nil
}

// Update overwrites one of the user's addresses.
func (r *addressRepository) Update(ctx context.Context, tx pgx.Tx, a *model.Address) error {
	query := `
		UPDATE addresses
		SET type = $3, first_name = $4, last_name = $5, line1 = $6, line2 = $7, city = $8, state = $9,
		    postal_code = $10, country = $11, phone = $12, is_default = $13, updated_at = $14
		WHERE id = $1 AND user_id = $2
	`

	tag, err := tx.Exec(ctx, query, a.ID, a.UserID, a.Type, a.FirstName, a.LastName, a.Line1, a.Line2, a.City,
		a.State, a.PostalCode, a.Country, a.Phone, a.IsDefault, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", mapWriteError(err))
	}
	return expectOne(tag)
}

// Delete removes one of the user's addresses.
func (r *addressRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	return expectOne(tag)
}
