package repository

import (
	"context"
	"fmt"

	"staykart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// settingRepository implements the SettingRepository interface using PostgreSQL.
type settingRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSettingRepository creates a new PostgreSQL-backed settings repository.
func NewSettingRepository(pool *pgxpool.Pool, logger zerolog.Logger) SettingRepository {
	return &settingRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "setting").Logger(),
	}
}

const settingColumns = `id, key, value, category, is_public, description, created_at, updated_at`

func settingDest(s *model.Setting) []any {
	return []any{&s.ID, &s.Key, &s.Value, &s.Category, &s.IsPublic, &s.Description, &s.CreatedAt, &s.UpdatedAt}
}

// List retrieves settings ordered by category and key.
func (r *settingRepository) List(ctx context.Context, publicOnly bool) ([]model.Setting, error) {
	query := `
		SELECT ` + settingColumns + `
		FROM settings
		WHERE NOT $1 OR is_public
		ORDER BY category, key
	`

	rows, err := r.pool.Query(ctx, query, publicOnly)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query settings")
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := []model.Setting{}
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(settingDest(&s)...); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}
	return settings, nil
}

// Get retrieves a setting by key.
func (r *settingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	var s model.Setting
	err := r.pool.QueryRow(ctx, `SELECT `+settingColumns+` FROM settings WHERE key = $1`, key).Scan(settingDest(&s)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("key", key).Msg("failed to query setting")
		return nil, fmt.Errorf("failed to query setting: %w", err)
	}
	return &s, nil
}

// Values retrieves the values stored under the given keys.
func (r *settingRepository) Values(ctx context.Context, keys []string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return values, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT key, value FROM settings WHERE key = ANY($1)`, keys)
	if err != nil {
		r.logger.Error().Err(err).Strs("keys", keys).Msg("failed to query setting values")
		return nil, fmt.Errorf("failed to query setting values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan setting value: %w", err)
		}
		values[k] = v
	}
	return values, rows.Err()
}

// Upsert creates or replaces the setting stored under s.Key. s is refreshed
// from the stored row.
func (r *settingRepository) Upsert(ctx context.Context, s *model.Setting) error {
	query := `
		INSERT INTO settings (id, key, value, category, is_public, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, category = EXCLUDED.category, is_public = EXCLUDED.is_public,
		    description = EXCLUDED.description, updated_at = EXCLUDED.updated_at
		RETURNING ` + settingColumns

	err := r.pool.QueryRow(ctx, query, s.ID, s.Key, s.Value, s.Category, s.IsPublic, s.Description, s.UpdatedAt).
		Scan(settingDest(s)...)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", s.Key).Msg("failed to upsert setting")
		return fmt.Errorf("failed to upsert setting: %w", mapWriteError(err))
	}
	return nil
}

// Delete removes a setting by key.
func (r *settingRepository) Delete(ctx context.Context, key string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	return expectOne(tag)
}
