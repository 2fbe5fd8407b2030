package service

import (
	"context"
	"fmt"
	"time"

	"staykart/internal/model"
	"staykart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type cartService struct {
	tx       repository.TxBeginner
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(tx repository.TxBeginner, carts repository.CartRepository, products repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		tx:       tx,
		carts:    carts,
		products: products,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Get(ctx context.Context, owner model.CartOwner) (*model.Cart, error) {
	items, err := s.carts.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	return model.NewCart(items), nil
}

// AddItem adds quantity to the (product, variant) row of the owner's cart,
// creating the row on first add. The unit price is captured on insert.
func (s *cartService) AddItem(ctx context.Context, owner model.CartOwner, req *model.AddCartItemRequest) (*model.Cart, error) {
	if req.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrNotFound
	}
	if !product.IsActive {
		return nil, model.ErrProductUnavailable
	}

	var variant *model.ProductVariant
	available := product.Quantity
	if req.VariantID != nil {
		variant, err = s.products.GetVariant(ctx, *req.VariantID)
		if err != nil {
			return nil, fmt.Errorf("failed to get variant: %w", err)
		}
		if variant == nil || variant.ProductID != product.ID {
			return nil, model.ErrNotFound
		}
		available = variant.Quantity
	}

	err = inTx(ctx, s.tx, s.logger, func(tx pgx.Tx) error {
		if err := s.carts.LockOwner(ctx, tx, owner); err != nil {
			return err
		}

		existing, err := s.carts.FindItem(ctx, tx, owner, product.ID, req.VariantID)
		if err != nil {
			return err
		}

		wanted := req.Quantity
		if existing != nil {
			wanted += existing.Quantity
		}
		if wanted > available {
			return model.Errorf(model.ErrCodeInsufficientStock,
				"only %d of %s available", available, product.Name)
		}

		if existing != nil {
			return s.carts.SetQuantity(ctx, tx, existing.ID, wanted)
		}

		now := time.Now().UTC()
		return s.carts.Insert(ctx, tx, &model.CartItem{
			ID:        uuid.New(),
			UserID:    owner.UserID,
			SessionID: owner.SessionPtr(),
			ProductID: product.ID,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
			Price:     model.UnitPrice(product, variant),
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("owner", owner.LockKey()).
		Str("product_id", product.ID.String()).
		Int("quantity", req.Quantity).
		Msg("item added to cart")

	return s.Get(ctx, owner)
}

func (s *cartService) UpdateItem(ctx context.Context, owner model.CartOwner, id uuid.UUID, quantity int) (*model.Cart, error) {
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, owner, id)
	}

	err := inTx(ctx, s.tx, s.logger, func(tx pgx.Tx) error {
		if err := s.carts.LockOwner(ctx, tx, owner); err != nil {
			return err
		}

		item, err := s.carts.GetItem(ctx, tx, owner, id)
		if err != nil {
			return fmt.Errorf("failed to get cart item: %w", err)
		}
		if item == nil {
			return model.ErrNotFound
		}
		if quantity > item.Available {
			return model.Errorf(model.ErrCodeInsufficientStock,
				"only %d of %s available", item.Available, item.ProductName)
		}

		return s.carts.SetQuantity(ctx, tx, item.ID, quantity)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, owner)
}

func (s *cartService) RemoveItem(ctx context.Context, owner model.CartOwner, id uuid.UUID) (*model.Cart, error) {
	if err := s.carts.DeleteItem(ctx, owner, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, owner)
}
