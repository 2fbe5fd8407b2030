package service

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"staykart/internal/model"
	"staykart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	tx        repository.TxBeginner
	orderRepo repository.OrderRepository
	products  repository.ProductRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	tx repository.TxBeginner,
	orderRepo repository.OrderRepository,
	products repository.ProductRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		tx:        tx,
		orderRepo: orderRepo,
		products:  products,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Get returns the order when the viewer owns it. Orders owned by someone
// else look exactly like missing ones.
func (s *orderService) Get(ctx context.Context, viewer model.Viewer, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || !order.OwnedBy(viewer) {
		return nil, model.ErrNotFound
	}
	return order, nil
}

// List returns the viewer's own orders. Admins see every order and may filter
// by user.
func (s *orderService) List(ctx context.Context, viewer model.Viewer, filter model.OrderFilter) (*model.Page[model.Order], error) {
	filter.Limit, filter.Offset = pageBounds(filter.Limit, filter.Offset)

	if !viewer.IsAdmin() {
		switch {
		case viewer.UserID != nil:
			filter.UserID = viewer.UserID
			filter.SessionID = ""
		case viewer.SessionID != "":
			filter.UserID = nil
			filter.SessionID = viewer.SessionID
		default:
			return nil, model.ErrSessionRequired
		}
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return model.NewPage(orders, total, filter.Limit, filter.Offset), nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, to model.OrderStatus) (*model.Order, error) {
	return s.transition(ctx, id, to, nil)
}

// Cancel lets the owner cancel an order that has not started processing.
func (s *orderService) Cancel(ctx context.Context, viewer model.Viewer, id uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, id, model.StatusCancelled, func(o *model.Order) error {
		if !o.OwnedBy(viewer) {
			return model.ErrNotFound
		}
		if o.Status != model.StatusPending {
			return model.ErrOrderNotCancellable
		}
		return nil
	})
}

// transition moves an order to a new status under a row lock. Cancelling a
// product order puts its items back in stock; refunding a paid order also
// refunds the payment.
func (s *orderService) transition(ctx context.Context, id uuid.UUID, to model.OrderStatus, guard func(*model.Order) error) (*model.Order, error) {
	var from model.OrderStatus

	err := inTx(ctx, s.tx, s.logger, func(tx pgx.Tx) error {
		order, err := s.orderRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return model.ErrNotFound
		}
		if guard != nil {
			if err := guard(order); err != nil {
				return err
			}
		}
		if !model.CanTransition(order.OrderType, order.Status, to) {
			return model.Errorf(model.ErrCodeInvalidTransition,
				"cannot move %s order from %s to %s", order.OrderType, order.Status, to)
		}

		from = order.Status
		if err := s.orderRepo.UpdateStatus(ctx, tx, id, order.Status, to); err != nil {
			return err
		}

		if to == model.StatusCancelled && order.OrderType == model.OrderTypeProduct {
			if err := s.restock(ctx, tx, order); err != nil {
				return err
			}
		}

		if to == model.StatusRefunded && order.PaymentStatus == model.PaymentPaid {
			return s.orderRepo.UpdatePaymentStatus(ctx, tx, id, model.PaymentPaid, model.PaymentRefunded)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("order status updated")

	return s.reload(ctx, id)
}

// restock puts cancelled items back in stock. Rows are locked and updated in
// (product, variant) order, the same order checkout locks them in. An item
// whose variant was removed after the sale has a SKU that no longer matches
// its product and is left alone rather than credited to the base product.
func (s *orderService) restock(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	items := make([]model.OrderItem, 0, len(order.Items))
	productIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		items = append(items, item)
		productIDs = append(productIDs, *item.ProductID)
	}
	if len(items) == 0 {
		return nil
	}
	slices.SortFunc(items, compareStockKey)

	products, err := s.products.LockProducts(ctx, tx, productIDs)
	if err != nil {
		return err
	}

	for _, item := range items {
		product, ok := products[*item.ProductID]
		if !ok {
			continue
		}
		if item.VariantID == nil && item.SKU != "" && item.SKU != product.SKU {
			s.logger.Warn().
				Str("order_id", order.ID.String()).
				Str("sku", item.SKU).
				Msg("variant no longer exists, skipping restock")
			continue
		}
		if err := s.products.AdjustStock(ctx, tx, *item.ProductID, item.VariantID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func compareStockKey(a, b model.OrderItem) int {
	if c := bytes.Compare(a.ProductID[:], b.ProductID[:]); c != 0 {
		return c
	}
	switch {
	case a.VariantID == nil && b.VariantID == nil:
		return 0
	case a.VariantID == nil:
		return -1
	case b.VariantID == nil:
		return 1
	}
	return bytes.Compare(a.VariantID[:], b.VariantID[:])
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, to model.PaymentStatus) (*model.Order, error) {
	err := inTx(ctx, s.tx, s.logger, func(tx pgx.Tx) error {
		order, err := s.orderRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return model.ErrNotFound
		}
		if !model.CanTransitionPayment(order.PaymentStatus, to) {
			return model.Errorf(model.ErrCodeInvalidPayment,
				"cannot move payment from %s to %s", order.PaymentStatus, to)
		}
		return s.orderRepo.UpdatePaymentStatus(ctx, tx, id, order.PaymentStatus, to)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("payment_status", string(to)).
		Msg("payment status updated")

	return s.reload(ctx, id)
}

func (s *orderService) reload(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrNotFound
	}
	return order, nil
}
