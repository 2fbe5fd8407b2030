package repository

import (
	"context"
	"fmt"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `p.id, p.name, p.slug, p.sku, p.description, p.price, p.compare_price, p.cost_price,
	p.quantity, p.category_id, p.is_active, p.is_featured, p.created_at, p.updated_at`

func productDest(p *model.Product) []any {
	return []any{&p.ID, &p.Name, &p.Slug, &p.SKU, &p.Description, &p.Price, &p.ComparePrice, &p.CostPrice,
		&p.Quantity, &p.CategoryID, &p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt}
}

const variantColumns = `id, product_id, sku, name, price, quantity, attributes, created_at, updated_at`

func variantDest(v *model.ProductVariant) []any {
	return []any{&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.Price, &v.Quantity, &v.Attributes, &v.CreatedAt, &v.UpdatedAt}
}

// List retrieves one page of products matching the filter.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	limit, offset := pageArgs(filter.Limit, filter.Offset)

	query := `
		SELECT ` + productColumns + `, COUNT(*) OVER()
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ($1 OR p.is_active)
		  AND ($2 = '' OR c.slug = $2)
		  AND ($3::boolean IS NULL OR p.is_featured = $3)
		  AND ($4 = '' OR p.name ILIKE '%' || $4 || '%')
		ORDER BY p.created_at DESC, p.name
		LIMIT $5 OFFSET $6
	`

	rows, err := r.pool.Query(ctx, query, filter.IncludeInactive, filter.CategorySlug, filter.Featured,
		filter.Search, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	total := 0
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(append(productDest(&p), &total)...); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// GetByID retrieves a product with its images and variants.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.getDetailed(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
}

// GetBySlug retrieves a product with its images and variants.
func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.getDetailed(ctx, `SELECT `+productColumns+` FROM products p WHERE p.slug = $1`, slug)
}

func (r *productRepository) getDetailed(ctx context.Context, query string, key any) (*model.Product, error) {
	var p model.Product
	err := r.pool.QueryRow(ctx, query, key).Scan(productDest(&p)...)
	if err != nil {
		if isNoRows(err) {
			r.logger.Debug().Interface("product", key).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Interface("product", key).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	if p.Images, err = r.listImages(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Variants, err = r.listVariants(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) listImages(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error) {
	query := `
		SELECT id, product_id, url, alt_text, sort_order, is_main, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY is_main DESC, sort_order, created_at
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	images := []model.ProductImage{}
	for rows.Next() {
		var img model.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.AltText, &img.SortOrder, &img.IsMain, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *productRepository) listVariants(ctx context.Context, productID uuid.UUID) ([]model.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE product_id = $1 ORDER BY name, sku`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product variants: %w", err)
	}
	defer rows.Close()

	variants := []model.ProductVariant{}
	for rows.Next() {
		var v model.ProductVariant
		if err := rows.Scan(variantDest(&v)...); err != nil {
			return nil, fmt.Errorf("failed to scan product variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (id, name, slug, sku, description, price, compare_price, cost_price,
		                      quantity, category_id, is_active, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Slug, p.SKU, p.Description, p.Price, p.ComparePrice,
		p.CostPrice, p.Quantity, p.CategoryID, p.IsActive, p.IsFeatured, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		r.logger.Warn().Err(err).Str("sku", p.SKU).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", mapWriteError(err))
	}

	r.logger.Debug().Str("product_id", p.ID.String()).Msg("product created")
	return nil
}

// Update overwrites the editable fields of a product.
func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, slug = $3, sku = $4, description = $5, price = $6, compare_price = $7,
		    cost_price = $8, quantity = $9, category_id = $10, is_active = $11, is_featured = $12,
		    updated_at = $13
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Slug, p.SKU, p.Description, p.Price, p.ComparePrice,
		p.CostPrice, p.Quantity, p.CategoryID, p.IsActive, p.IsFeatured, p.UpdatedAt)
	if err != nil {
		r.logger.Warn().Err(err).Str("product_id", p.ID.String()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", mapWriteError(err))
	}
	return expectOne(tag)
}

// Delete removes a product with its images, variants and cart rows.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Warn().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", mapDeleteError(err))
	}
	return expectOne(tag)
}

// CreateVariant inserts a new variant.
func (r *productRepository) CreateVariant(ctx context.Context, v *model.ProductVariant) error {
	query := `
		INSERT INTO product_variants (id, product_id, sku, name, price, quantity, attributes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	attrs := v.Attributes
	if attrs == nil {
		attrs = model.Attributes{}
	}
	_, err := r.pool.Exec(ctx, query, v.ID, v.ProductID, v.SKU, v.Name, v.Price, v.Quantity, attrs, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		r.logger.Warn().Err(err).Str("sku", v.SKU).Msg("failed to create variant")
		return fmt.Errorf("failed to create variant: %w", mapWriteError(err))
	}
	return nil
}

// GetVariant retrieves a variant by id.
func (r *productRepository) GetVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.pool.QueryRow(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE id = $1`, id).Scan(variantDest(&v)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("variant_id", id.String()).Msg("failed to query variant")
		return nil, fmt.Errorf("failed to query variant: %w", err)
	}
	return &v, nil
}

// ClearMainImage unsets the main flag on every image of the product.
func (r *productRepository) ClearMainImage(ctx context.Context, tx pgx.Tx, productID uuid.UUID) error {
	_, err := tx.Exec(ctx, `UPDATE product_images SET is_main = FALSE WHERE product_id = $1 AND is_main`, productID)
	if err != nil {
		return fmt.Errorf("failed to clear main image: %w", err)
	}
	return nil
}

// CreateImage inserts a new product image.
func (r *productRepository) CreateImage(ctx context.Context, tx pgx.Tx, img *model.ProductImage) error {
	query := `
		INSERT INTO product_images (id, product_id, url, alt_text, sort_order, is_main, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query, img.ID, img.ProductID, img.URL, img.AltText, img.SortOrder, img.IsMain, img.CreatedAt)
	if err != nil {
		r.logger.Warn().Err(err).Str("product_id", img.ProductID.String()).Msg("failed to create image")
		return fmt.Errorf("failed to create image: %w", mapWriteError(err))
	}
	return nil
}

// LockProducts selects the given products FOR UPDATE.
func (r *productRepository) LockProducts(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	locked := make(map[uuid.UUID]*model.Product, len(ids))
	if len(ids) == 0 {
		return locked, nil
	}

	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = ANY($1) ORDER BY p.id FOR UPDATE`

	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to lock products")
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := new(model.Product)
		if err := rows.Scan(productDest(p)...); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		locked[p.ID] = p
	}
	return locked, rows.Err()
}

// LockVariants selects the given variants FOR UPDATE.
func (r *productRepository) LockVariants(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (map[uuid.UUID]*model.ProductVariant, error) {
	locked := make(map[uuid.UUID]*model.ProductVariant, len(ids))
	if len(ids) == 0 {
		return locked, nil
	}

	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to lock variants")
		return nil, fmt.Errorf("failed to lock variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v := new(model.ProductVariant)
		if err := rows.Scan(variantDest(v)...); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		locked[v.ID] = v
	}
	return locked, rows.Err()
}

// AdjustStock changes the stock of a variant or product by delta.
func (r *productRepository) AdjustStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, variantID *uuid.UUID, delta int) error {
	var (
		tag pgconn.CommandTag
		err error
	)
	if variantID != nil {
		tag, err = tx.Exec(ctx,
			`UPDATE product_variants SET quantity = quantity + $2, updated_at = NOW() WHERE id = $1`,
			*variantID, delta)
	} else {
		tag, err = tx.Exec(ctx,
			`UPDATE products SET quantity = quantity + $2, updated_at = NOW() WHERE id = $1`,
			productID, delta)
	}
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", productID.String()).
			Int("delta", delta).
			Msg("failed to adjust stock")
		return fmt.Errorf("failed to adjust stock: %w", mapWriteError(err))
	}
	return expectOne(tag)
}
