package repository

import (
	"context"
	"fmt"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// galleryRepository implements the GalleryRepository interface using PostgreSQL.
type galleryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewGalleryRepository creates a new PostgreSQL-backed gallery repository.
func NewGalleryRepository(pool *pgxpool.Pool, logger zerolog.Logger) GalleryRepository {
	return &galleryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "gallery").Logger(),
	}
}

// List retrieves gallery items in display order.
func (r *galleryRepository) List(ctx context.Context, includeInactive bool) ([]model.Gallery, error) {
	query := `
		SELECT id, title, image_url, caption, sort_order, is_active, created_at
		FROM galleries
		WHERE $1 OR is_active
		ORDER BY sort_order, created_at
	`

	rows, err := r.pool.Query(ctx, query, includeInactive)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query galleries")
		return nil, fmt.Errorf("failed to query galleries: %w", err)
	}
	defer rows.Close()

	items := []model.Gallery{}
	for rows.Next() {
		var g model.Gallery
		if err := rows.Scan(&g.ID, &g.Title, &g.ImageURL, &g.Caption, &g.SortOrder, &g.IsActive, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gallery: %w", err)
		}
		items = append(items, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating galleries: %w", err)
	}
	return items, nil
}

// Create inserts a new gallery item.
func (r *galleryRepository) Create(ctx context.Context, g *model.Gallery) error {
	query := `
		INSERT INTO galleries (id, title, image_url, caption, sort_order, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query, g.ID, g.Title, g.ImageURL, g.Caption, g.SortOrder, g.IsActive, g.CreatedAt)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to create gallery item")
		return fmt.Errorf("failed to create gallery item: %w", mapWriteError(err))
	}
	return nil
}

// Delete removes a gallery item.
func (r *galleryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM galleries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gallery item: %w", err)
	}
	return expectOne(tag)
}
