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

// categoryRepository implements the CategoryRepository interface using PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

const categoryColumns = `id, name, slug, description, parent_id, image_url, is_active, sort_order, created_at, updated_at`

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.ImageURL,
		&c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List retrieves categories ordered for display.
func (r *categoryRepository) List(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE $1 OR is_active
		ORDER BY sort_order, name
	`

	rows, err := r.pool.Query(ctx, query, includeInactive)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetByID retrieves a category by id.
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

// GetBySlug retrieves a category by slug.
func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
}

func (r *categoryRepository) getOne(ctx context.Context, query string, arg any) (*model.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Interface("key", arg).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return c, nil
}

// Create inserts a new category.
func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, description, parent_id, image_url, is_active, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.ParentID, c.ImageURL,
		c.IsActive, c.SortOrder, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		r.logger.Warn().Err(err).Str("slug", c.Slug).Msg("failed to create category")
		return fmt.Errorf("failed to create category: %w", mapWriteError(err))
	}
	return nil
}

// Update overwrites the editable fields of a category.
func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, parent_id = $5, image_url = $6,
		    is_active = $7, sort_order = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.ParentID, c.ImageURL,
		c.IsActive, c.SortOrder, c.UpdatedAt)
	if err != nil {
		r.logger.Warn().Err(err).Str("category_id", c.ID.String()).Msg("failed to update category")
		return fmt.Errorf("failed to update category: %w", mapWriteError(err))
	}
	return expectOne(tag)
}

// Delete removes a category. Products referencing it keep existing with a
// NULL category_id.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.logger.Warn().Err(err).Str("category_id", id.String()).Msg("failed to delete category")
		return fmt.Errorf("failed to delete category: %w", mapDeleteError(err))
	}
	return expectOne(tag)
}
