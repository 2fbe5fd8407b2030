package repository

import (
	"context"
	"fmt"
	"time"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// editorialRepository implements the EditorialRepository interface using PostgreSQL.
type editorialRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewEditorialRepository creates a new PostgreSQL-backed editorial repository.
func NewEditorialRepository(pool *pgxpool.Pool, logger zerolog.Logger) EditorialRepository {
	return &editorialRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "editorial").Logger(),
	}
}

const editorialColumns = `id, title, slug, excerpt, content, hero_media_url, hero_media_type, author,
	status, published_at, created_at, updated_at`

func editorialDest(e *model.Editorial) []any {
	return []any{&e.ID, &e.Title, &e.Slug, &e.Excerpt, &e.Content, &e.HeroMediaURL, &e.HeroMediaType,
		&e.Author, &e.Status, &e.PublishedAt, &e.CreatedAt, &e.UpdatedAt}
}

// List retrieves one page of editorials. Published stories sort by
// publication date, drafts by last edit.
func (r *editorialRepository) List(ctx context.Context, status model.EditorialStatus, limit, offset int) ([]model.Editorial, int, error) {
	limit, offset = pageArgs(limit, offset)

	query := `
		SELECT ` + editorialColumns + `, COUNT(*) OVER()
		FROM editorials
		WHERE $1 = '' OR status::text = $1
		ORDER BY COALESCE(published_at, updated_at) DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query editorials")
		return nil, 0, fmt.Errorf("failed to query editorials: %w", err)
	}
	defer rows.Close()

	editorials := []model.Editorial{}
	total := 0
	for rows.Next() {
		var e model.Editorial
		if err := rows.Scan(append(editorialDest(&e), &total)...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan editorial: %w", err)
		}
		editorials = append(editorials, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating editorials: %w", err)
	}
	return editorials, total, nil
}

// GetByID retrieves an editorial by id.
func (r *editorialRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Editorial, error) {
	return r.getOne(ctx, `SELECT `+editorialColumns+` FROM editorials WHERE id = $1`, id)
}

// GetBySlug retrieves an editorial by slug.
func (r *editorialRepository) GetBySlug(ctx context.Context, slug string) (*model.Editorial, error) {
	return r.getOne(ctx, `SELECT `+editorialColumns+` FROM editorials WHERE slug = $1`, slug)
}

func (r *editorialRepository) getOne(ctx context.Context, query string, key any) (*model.Editorial, error) {
	var e model.Editorial
	if err := r.pool.QueryRow(ctx, query, key).Scan(editorialDest(&e)...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Interface("editorial", key).Msg("failed to query editorial")
		return nil, fmt.Errorf("failed to query editorial: %w", err)
	}
	return &e, nil
}

// Create inserts a new editorial.
func (r *editorialRepository) Create(ctx context.Context, e *model.Editorial) error {
	query := `
		INSERT INTO editorials (` + editorialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query, e.ID, e.Title, e.Slug, e.Excerpt, e.Content, e.HeroMediaURL,
		e.HeroMediaType, e.Author, e.Status, e.PublishedAt, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		r.logger.Warn().Err(err).Str("slug", e.Slug).Msg("failed to create editorial")
		return fmt.Errorf("failed to create editorial: %w", mapWriteError(err))
	}
	return nil
}

// Update overwrites the content fields of an editorial. Status and
// published_at change only through Publish.
func (r *editorialRepository) Update(ctx context.Context, e *model.Editorial) error {
	query := `
		UPDATE editorials
		SET title = $2, slug = $3, excerpt = $4, content = $5, hero_media_url = $6,
		    hero_media_type = $7, author = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, e.ID, e.Title, e.Slug, e.Excerpt, e.Content, e.HeroMediaURL,
		e.HeroMediaType, e.Author, e.UpdatedAt)
	if err != nil {
		r.logger.Warn().Err(err).Str("editorial_id", e.ID.String()).Msg("failed to update editorial")
		return fmt.Errorf("failed to update editorial: %w", mapWriteError(err))
	}
	return expectOne(tag)
}

// Publish marks an editorial published. An already published editorial
// keeps its original publication time.
func (r *editorialRepository) Publish(ctx context.Context, id uuid.UUID, at time.Time) (*model.Editorial, error) {
	query := `
		UPDATE editorials
		SET status = 'published', published_at = COALESCE(published_at, $2), updated_at = $2
		WHERE id = $1
		RETURNING ` + editorialColumns

	var e model.Editorial
	if err := r.pool.QueryRow(ctx, query, id, at).Scan(editorialDest(&e)...); err != nil {
		if isNoRows(err) {
			return nil, model.ErrNotFound
		}
		r.logger.Error().Err(err).Str("editorial_id", id.String()).Msg("failed to publish editorial")
		return nil, fmt.Errorf("failed to publish editorial: %w", err)
	}
	return &e, nil
}

// Delete removes an editorial.
func (r *editorialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM editorials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete editorial: %w", mapDeleteError(err))
	}
	return expectOne(tag)
}
