package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staykart/internal/model"
	"staykart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	tx          repository.TxBeginner
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(tx repository.TxBeginner, productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		tx:          tx,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List returns one page of products. Only admins see inactive products.
func (s *productService) List(ctx context.Context, viewer model.Viewer, filter model.ProductFilter) (*model.Page[model.Product], error) {
	filter.Limit, filter.Offset = pageBounds(filter.Limit, filter.Offset)
	filter.IncludeInactive = filter.IncludeInactive && viewer.IsAdmin()
	filter.Search = strings.TrimSpace(filter.Search)

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	for i := range products {
		redactProduct(viewer, &products[i])
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("total", total).
		Msg("retrieved products")

	return model.NewPage(products, total, filter.Limit, filter.Offset), nil
}

func (s *productService) Get(ctx context.Context, viewer model.Viewer, ref string) (*model.Product, error) {
	var (
		product *model.Product
		err     error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		product, err = s.productRepo.GetByID(ctx, id)
	} else {
		product, err = s.productRepo.GetBySlug(ctx, ref)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("ref", ref).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil || (!product.IsActive && !viewer.IsAdmin()) {
		s.logger.Debug().Str("ref", ref).Msg("product not found")
		return nil, model.ErrNotFound
	}

	redactProduct(viewer, product)
	return product, nil
}

// redactProduct hides the cost price from everyone but admins.
func redactProduct(viewer model.Viewer, p *model.Product) {
	if !viewer.IsAdmin() {
		p.CostPrice = nil
	}
}

func (s *productService) Create(ctx context.Context, in *model.ProductInput) (*model.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:        uuid.New(),
		IsActive:  true,
		CreatedAt: now,
	}
	if err := applyProductInput(product, in, now); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID.String()).Str("sku", product.SKU).Msg("product created")
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, in *model.ProductInput) (*model.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrNotFound
	}

	if err := applyProductInput(product, in, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product updated")
	return product, nil
}

func applyProductInput(p *model.Product, in *model.ProductInput, now time.Time) error {
	slug := in.Slug
	if slug == "" {
		slug = model.Slugify(in.Name)
	}
	if slug == "" {
		return model.NewValidationError(model.FieldError{Field: "slug", Msg: "cannot be derived from name, provide one"})
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Slug = slug
	p.SKU = strings.TrimSpace(in.SKU)
	p.Description = in.Description
	p.Price = model.RoundMoney(in.Price)
	p.ComparePrice = in.ComparePrice
	p.CostPrice = in.CostPrice
	p.Quantity = in.Quantity
	p.CategoryID = in.CategoryID
	p.IsFeatured = in.IsFeatured
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.UpdatedAt = now
	return nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

func (s *productService) AddVariant(ctx context.Context, productID uuid.UUID, in *model.ProductVariantInput) (*model.ProductVariant, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	attrs := in.Attributes
	if attrs == nil {
		attrs = model.Attributes{}
	}

	now := time.Now().UTC()
	variant := &model.ProductVariant{
		ID:         uuid.New(),
		ProductID:  productID,
		SKU:        strings.TrimSpace(in.SKU),
		Name:       strings.TrimSpace(in.Name),
		Price:      in.Price,
		Quantity:   in.Quantity,
		Attributes: attrs,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.productRepo.CreateVariant(ctx, variant); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("product_id", productID.String()).
		Str("variant_id", variant.ID.String()).
		Msg("variant created")
	return variant, nil
}

// AddImage stores an image; a main image replaces the previous main image
// in the same transaction.
func (s *productService) AddImage(ctx context.Context, productID uuid.UUID, in *model.ProductImageInput) (*model.ProductImage, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	image := &model.ProductImage{
		ID:        uuid.New(),
		ProductID: productID,
		URL:       in.URL,
		AltText:   in.AltText,
		SortOrder: in.SortOrder,
		IsMain:    in.IsMain,
		CreatedAt: time.Now().UTC(),
	}

	err := inTx(ctx, s.tx, s.logger, func(tx pgx.Tx) error {
		if image.IsMain {
			if err := s.productRepo.ClearMainImage(ctx, tx, productID); err != nil {
				return err
			}
		}
		return s.productRepo.CreateImage(ctx, tx, image)
	})
	if err != nil {
		return nil, err
	}

	return image, nil
}

func (s *productService) ensureProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return model.ErrNotFound
	}
	return nil
}
