package repository

import (
	"context"
	"fmt"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// hotelRepository implements the HotelRepository interface using PostgreSQL.
type hotelRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewHotelRepository creates a new PostgreSQL-backed hotel repository.
func NewHotelRepository(pool *pgxpool.Pool, logger zerolog.Logger) HotelRepository {
	return &hotelRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "hotel").Logger(),
	}
}

const hotelColumns = `id, name, slug, description, location, city, country, price, offer_price, currency,
	image_url, rating, offer_title, offer_details, offer_valid_from, offer_valid_until, booking_deadline,
	blackout_dates, vip_benefits, hotel_details, is_featured, is_popular, is_active, display_order,
	created_at, updated_at`

func hotelDest(h *model.Hotel) []any {
	return []any{&h.ID, &h.Name, &h.Slug, &h.Description, &h.Location, &h.City, &h.Country, &h.Price,
		&h.OfferPrice, &h.Currency, &h.ImageURL, &h.Rating, &h.OfferTitle, &h.OfferDetails,
		&h.OfferValidFrom, &h.OfferValidUntil, &h.BookingDeadline, &h.BlackoutDates, &h.VIPBenefits,
		&h.HotelDetails, &h.IsFeatured, &h.IsPopular, &h.IsActive, &h.DisplayOrder, &h.CreatedAt, &h.UpdatedAt}
}

// hotelArgs returns the column values in hotelColumns order. Array columns
// are NOT NULL, so nil slices are sent as empty arrays.
func hotelArgs(h *model.Hotel) []any {
	blackout := h.BlackoutDates
	if blackout == nil {
		blackout = []model.Date{}
	}
	benefits := h.VIPBenefits
	if benefits == nil {
		benefits = []string{}
	}
	return []any{h.ID, h.Name, h.Slug, h.Description, h.Location, h.City, h.Country, h.Price,
		h.OfferPrice, h.Currency, h.ImageURL, h.Rating, h.OfferTitle, h.OfferDetails,
		h.OfferValidFrom, h.OfferValidUntil, h.BookingDeadline, blackout, benefits,
		h.HotelDetails, h.IsFeatured, h.IsPopular, h.IsActive, h.DisplayOrder, h.CreatedAt, h.UpdatedAt}
}

func (r *hotelRepository) query(ctx context.Context, query string, args ...any) ([]model.Hotel, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query hotels")
		return nil, fmt.Errorf("failed to query hotels: %w", err)
	}
	defer rows.Close()

	hotels := []model.Hotel{}
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(hotelDest(&h)...); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan hotel row")
			return nil, fmt.Errorf("failed to scan hotel: %w", err)
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hotels: %w", err)
	}
	return hotels, nil
}

// List retrieves hotels in display order.
func (r *hotelRepository) List(ctx context.Context, includeInactive bool) ([]model.Hotel, error) {
	return r.query(ctx, `
		SELECT `+hotelColumns+`
		FROM hotels
		WHERE $1 OR is_active
		ORDER BY display_order, name
	`, includeInactive)
}

// ListSpecialOffers retrieves active hotels carrying an offer that is still
// bookable on today.
func (r *hotelRepository) ListSpecialOffers(ctx context.Context, today model.Date) ([]model.Hotel, error) {
	return r.query(ctx, `
		SELECT `+hotelColumns+`
		FROM hotels
		WHERE is_active
		  AND (offer_title <> '' OR offer_price IS NOT NULL)
		  AND (offer_valid_until IS NULL OR offer_valid_until >= $1)
		  AND (booking_deadline IS NULL OR booking_deadline >= $1)
		ORDER BY display_order, name
	`, today)
}

// ListPopular retrieves active hotels flagged as popular.
func (r *hotelRepository) ListPopular(ctx context.Context, limit int) ([]model.Hotel, error) {
	limit, _ = pageArgs(limit, 0)
	return r.query(ctx, `
		SELECT `+hotelColumns+`
		FROM hotels
		WHERE is_active AND is_popular
		ORDER BY rating DESC NULLS LAST, display_order, name
		LIMIT $1
	`, limit)
}

// GetByID retrieves a hotel by id.
func (r *hotelRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Hotel, error) {
	return r.getOne(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id = $1`, id)
}

// GetBySlug retrieves a hotel by slug.
func (r *hotelRepository) GetBySlug(ctx context.Context, slug string) (*model.Hotel, error) {
	return r.getOne(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE slug = $1`, slug)
}

func (r *hotelRepository) getOne(ctx context.Context, query string, key any) (*model.Hotel, error) {
	var h model.Hotel
	if err := r.pool.QueryRow(ctx, query, key).Scan(hotelDest(&h)...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Interface("hotel", key).Msg("failed to query hotel")
		return nil, fmt.Errorf("failed to query hotel: %w", err)
	}
	return &h, nil
}

// Create inserts a new hotel.
func (r *hotelRepository) Create(ctx context.Context, h *model.Hotel) error {
	query := `
		INSERT INTO hotels (` + hotelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		        $21, $22, $23, $24, $25, $26)
	`

	if _, err := r.pool.Exec(ctx, query, hotelArgs(h)...); err != nil {
		r.logger.Warn().Err(err).Str("slug", h.Slug).Msg("failed to create hotel")
		return fmt.Errorf("failed to create hotel: %w", mapWriteError(err))
	}
	return nil
}

// Update overwrites the editable fields of a hotel. created_at is kept.
func (r *hotelRepository) Update(ctx context.Context, h *model.Hotel) error {
	query := `
		UPDATE hotels
		SET name = $2, slug = $3, description = $4, location = $5, city = $6, country = $7, price = $8,
		    offer_price = $9, currency = $10, image_url = $11, rating = $12, offer_title = $13,
		    offer_details = $14, offer_valid_from = $15, offer_valid_until = $16, booking_deadline = $17,
		    blackout_dates = $18, vip_benefits = $19, hotel_details = $20, is_featured = $21,
		    is_popular = $22, is_active = $23, display_order = $24, updated_at = $25
		WHERE id = $1
	`

	args := hotelArgs(h)
	// drop created_at, keep updated_at
	args = append(args[:24], args[25])

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Warn().Err(err).Str("hotel_id", h.ID.String()).Msg("failed to update hotel")
		return fmt.Errorf("failed to update hotel: %w", mapWriteError(err))
	}
	return expectOne(tag)
}

// Delete removes a hotel. Booking items keep their snapshot with a NULL hotel_id.
func (r *hotelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM hotels WHERE id = $1`, id)
	if err != nil {
		r.logger.Warn().Err(err).Str("hotel_id", id.String()).Msg("failed to delete hotel")
		return fmt.Errorf("failed to delete hotel: %w", mapDeleteError(err))
	}
	return expectOne(tag)
}
