package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staykart/internal/model"
	"staykart/internal/promo"
	"staykart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	tx          repository.TxBeginner
	carts       repository.CartRepository
	products    repository.ProductRepository
	orders      repository.OrderRepository
	users       repository.UserRepository
	pricing     PricingSource
	promos      promo.Resolver
	now         func() time.Time
	orderNumber func(time.Time) string
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	tx repository.TxBeginner,
	carts repository.CartRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	pricing PricingSource,
	promos promo.Resolver,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		tx:          tx,
		carts:       carts,
		products:    products,
		orders:      orders,
		users:       users,
		pricing:     pricing,
		promos:      promos,
		now:         time.Now,
		orderNumber: newOrderNumber,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// Summary prices the cart at current prices without reserving stock. An
// unknown promo code is reported through PromoActive rather than an error.
// Rows of deactivated products are returned apart and not priced, matching
// PlaceOrder which refuses them.
func (s *checkoutService) Summary(ctx context.Context, owner model.CartOwner, promoCode *string) (*model.CheckoutSummary, error) {
	items, err := s.carts.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}

	priced := []model.CartItem{}
	unavailable := []model.CartItem{}
	subtotal := decimal.Zero
	for _, it := range items {
		if !it.Active {
			unavailable = append(unavailable, it)
			continue
		}
		priced = append(priced, it)
		subtotal = subtotal.Add(it.CurrentPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	rules, err := s.pricing.PricingRules(ctx)
	if err != nil {
		return nil, err
	}

	summary := &model.CheckoutSummary{Items: priced, Unavailable: unavailable, Currency: rules.Currency}

	percent := decimal.Zero
	if code := normalizePromo(promoCode); code != nil {
		summary.PromoCode = code
		percent, err = s.promos.Resolve(ctx, *code)
		switch {
		case err == nil:
			summary.PromoActive = true
		case errors.Is(err, model.ErrInvalidPromoCode):
			percent = decimal.Zero
		default:
			return nil, err
		}
	}

	totals := model.ComputeTotals(subtotal, percent, rules)
	summary.Subtotal = totals.Subtotal
	summary.Discount = totals.Discount
	summary.Tax = totals.Tax
	summary.Shipping = totals.Shipping
	summary.Total = totals.Total
	return summary, nil
}

// PlaceOrder converts the viewer's cart into a pending product order. Stock is
// decremented and the cart cleared in the same transaction as the insert.
func (s *checkoutService) PlaceOrder(ctx context.Context, viewer model.Viewer, req *model.CheckoutRequest) (*model.Order, error) {
	owner, err := viewer.CartOwner()
	if err != nil {
		return nil, err
	}

	email, name, err := resolveCustomer(ctx, s.users, viewer, req.CustomerEmail, req.CustomerName)
	if err != nil {
		return nil, err
	}

	code := normalizePromo(req.PromoCode)
	percent := decimal.Zero
	if code != nil {
		if percent, err = s.promos.Resolve(ctx, *code); err != nil {
			return nil, err
		}
	}

	rules, err := s.pricing.PricingRules(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &model.Order{
		UserID:          viewer.UserID,
		SessionID:       owner.SessionPtr(),
		OrderType:       model.OrderTypeProduct,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentPending,
		Currency:        rules.Currency,
		PromoCode:       code,
		CustomerEmail:   email,
		CustomerName:    name,
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if order.BillingAddress == nil {
		order.BillingAddress = req.ShippingAddress
	}

	err = placeWithOrderNumber(ctx, s.tx, s.logger,
		func() string { return s.orderNumber(now) },
		func(tx pgx.Tx, number string) error {
			order.ID = uuid.New()
			order.OrderNumber = number
			return s.reserveAndCreate(ctx, tx, owner, order, percent, rules)
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("total", order.Total.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("order placed")

	return order, nil
}

func (s *checkoutService) reserveAndCreate(
	ctx context.Context,
	tx pgx.Tx,
	owner model.CartOwner,
	order *model.Order,
	percent decimal.Decimal,
	rules model.PricingRules,
) error {
	if err := s.carts.LockOwner(ctx, tx, owner); err != nil {
		return err
	}

	cart, err := s.carts.ListTx(ctx, tx, owner)
	if err != nil {
		return err
	}
	if len(cart) == 0 {
		return model.ErrEmptyCart
	}

	productIDs := make([]uuid.UUID, 0, len(cart))
	var variantIDs []uuid.UUID
	for _, it := range cart {
		productIDs = append(productIDs, it.ProductID)
		if it.VariantID != nil {
			variantIDs = append(variantIDs, *it.VariantID)
		}
	}

	products, err := s.products.LockProducts(ctx, tx, productIDs)
	if err != nil {
		return err
	}
	variants := map[uuid.UUID]*model.ProductVariant{}
	if len(variantIDs) > 0 {
		if variants, err = s.products.LockVariants(ctx, tx, variantIDs); err != nil {
			return err
		}
	}

	subtotal := decimal.Zero
	items := make([]model.OrderItem, 0, len(cart))
	for _, it := range cart {
		p := products[it.ProductID]
		if p == nil || !p.IsActive {
			return model.Errorf(model.ErrCodeProductUnavailable, "%s is no longer available", it.ProductName)
		}

		var v *model.ProductVariant
		stock := p.Quantity
		sku := p.SKU
		var attrs model.Attributes
		if it.VariantID != nil {
			v = variants[*it.VariantID]
			if v == nil {
				return model.Errorf(model.ErrCodeProductUnavailable, "%s is no longer available", it.ProductName)
			}
			stock = v.Quantity
			sku = v.SKU
			attrs = v.Attributes
		}
		if it.Quantity > stock {
			return model.Errorf(model.ErrCodeInsufficientStock, "only %d of %s available", stock, it.ProductName)
		}

		if err := s.products.AdjustStock(ctx, tx, p.ID, it.VariantID, -it.Quantity); err != nil {
			return err
		}

		price := model.UnitPrice(p, v)
		line := model.RoundMoney(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		subtotal = subtotal.Add(line)

		productID := p.ID
		items = append(items, model.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ItemType:    model.OrderTypeProduct,
			ProductID:   &productID,
			VariantID:   it.VariantID,
			ProductName: p.Name,
			SKU:         sku,
			Price:       price,
			Quantity:    it.Quantity,
			Total:       line,
			Attributes:  attrs,
			CreatedAt:   order.CreatedAt,
		})
	}

	totals := model.ComputeTotals(subtotal, percent, rules)
	order.Subtotal = totals.Subtotal
	order.Discount = totals.Discount
	order.Tax = totals.Tax
	order.Shipping = totals.Shipping
	order.Total = totals.Total
	order.Items = items

	if err := s.orders.CreateOrder(ctx, tx, order); err != nil {
		return err
	}
	if err := s.orders.CreateOrderItems(ctx, tx, items); err != nil {
		return err
	}
	return s.carts.Clear(ctx, tx, owner)
}

func normalizePromo(code *string) *string {
	if code == nil {
		return nil
	}
	c := strings.ToUpper(strings.TrimSpace(*code))
	if c == "" {
		return nil
	}
	return &c
}
