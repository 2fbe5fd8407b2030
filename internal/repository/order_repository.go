package repository

import (
	"context"
	"fmt"

	"staykart/internal/database"
	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `id, order_number, user_id, session_id, order_type, status, payment_status,
	subtotal, tax, shipping, discount, total, currency, promo_code,
	customer_email, customer_name, customer_phone, shipping_address, billing_address, notes,
	booking_details, check_in, check_out, guests, special_requests, created_at, updated_at`

func orderDest(o *model.Order) []any {
	return []any{&o.ID, &o.OrderNumber, &o.UserID, &o.SessionID, &o.OrderType, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.Tax, &o.Shipping, &o.Discount, &o.Total, &o.Currency, &o.PromoCode,
		&o.CustomerEmail, &o.CustomerName, &o.CustomerPhone, &o.ShippingAddress, &o.BillingAddress, &o.Notes,
		&o.BookingDetails, &o.CheckIn, &o.CheckOut, &o.Guests, &o.SpecialRequests, &o.CreatedAt, &o.UpdatedAt}
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		        $21, $22, $23, $24, $25, $26, $27)
	`

	_, err := tx.Exec(ctx, query, o.ID, o.OrderNumber, o.UserID, o.SessionID, o.OrderType, o.Status, o.PaymentStatus,
		o.Subtotal, o.Tax, o.Shipping, o.Discount, o.Total, o.Currency, o.PromoCode,
		o.CustomerEmail, o.CustomerName, o.CustomerPhone, o.ShippingAddress, o.BillingAddress, o.Notes,
		o.BookingDetails, o.CheckIn, o.CheckOut, o.Guests, o.SpecialRequests, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", o.ID.String()).
			Str("order_number", o.OrderNumber).
			Msg("failed to create order")
		// The caller retries on a duplicate order number, so that error
		// keeps the driver error in the chain.
		if database.IsUniqueViolation(err, database.OrderNumberConstraint) {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return fmt.Errorf("failed to create order: %w", mapWriteError(err))
	}

	r.logger.Debug().
		Str("order_id", o.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, item_type, product_id, variant_id, hotel_id,
		                         product_name, sku, price, quantity, total, attributes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		attrs := item.Attributes
		if attrs == nil {
			attrs = model.Attributes{}
		}
		batch.Queue(query, item.ID, item.OrderID, item.ItemType, item.ProductID, item.VariantID, item.HotelID,
			item.ProductName, item.SKU, item.Price, item.Quantity, item.Total, attrs, item.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_name", items[i].ProductName).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", mapWriteError(err))
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.get(ctx, r.pool, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate retrieves and row-locks an order inside tx.
func (r *orderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	return r.get(ctx, tx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *orderRepository) get(ctx context.Context, q DBTX, query string, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := q.QueryRow(ctx, query, id).Scan(orderDest(&order)...)
	if err != nil {
		if isNoRows(err) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.items(ctx, q, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]
	if order.Items == nil {
		order.Items = []model.OrderItem{}
	}
	return &order, nil
}

// items loads the items of the given orders, grouped by order id.
func (r *orderRepository) items(ctx context.Context, q DBTX, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	query := `
		SELECT id, order_id, item_type, product_id, variant_id, hotel_id,
		       product_name, sku, price, quantity, total, attributes, created_at
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("orders", len(orderIDs)).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	grouped := make(map[uuid.UUID][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ItemType, &item.ProductID, &item.VariantID, &item.HotelID,
			&item.ProductName, &item.SKU, &item.Price, &item.Quantity, &item.Total, &item.Attributes, &item.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		grouped[item.OrderID] = append(grouped[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return grouped, nil
}

// List retrieves one page of orders, newest first, with their items.
func (r *orderRepository) List(ctx context.Context, f model.OrderFilter) ([]model.Order, int, error) {
	limit, offset := pageArgs(f.Limit, f.Offset)

	var sessionID *string
	if f.SessionID != "" {
		sessionID = &f.SessionID
	}

	query := `
		SELECT ` + orderColumns + `, COUNT(*) OVER()
		FROM orders
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2::varchar IS NULL OR (session_id = $2 AND user_id IS NULL))
		  AND ($3 = '' OR status::text = $3)
		  AND ($4 = '' OR order_type::text = $4)
		ORDER BY created_at DESC, id
		LIMIT $5 OFFSET $6
	`

	rows, err := r.pool.Query(ctx, query, f.UserID, sessionID, string(f.Status), string(f.OrderType), limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	total := 0
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(append(orderDest(&o), &total)...); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}
	rows.Close()

	if len(orders) == 0 {
		return orders, total, nil
	}

	ids := make([]uuid.UUID, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	grouped, err := r.items(ctx, r.pool, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = grouped[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []model.OrderItem{}
		}
	}

	return orders, total, nil
}

// UpdateStatus applies a status transition guarded by the expected current status.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) error {
	query := `UPDATE orders SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	tag, err := tx.Exec(ctx, query, id, from, to)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Str("order_id", id.String()).
			Str("expected", string(from)).
			Msg("order status changed concurrently")
		return model.ErrConcurrentUpdate
	}
	return nil
}

// UpdatePaymentStatus applies a payment transition guarded by the expected current value.
func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.PaymentStatus) error {
	query := `UPDATE orders SET payment_status = $3, updated_at = NOW() WHERE id = $1 AND payment_status = $2`

	tag, err := tx.Exec(ctx, query, id, from, to)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update payment status")
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrConcurrentUpdate
	}
	return nil
}

// AssignSessionOrders attaches guest orders of a session to a user.
func (r *orderRepository) AssignSessionOrders(ctx context.Context, tx pgx.Tx, sessionID string, userID uuid.UUID) (int64, error) {
	query := `UPDATE orders SET user_id = $2, updated_at = NOW() WHERE session_id = $1 AND user_id IS NULL`

	tag, err := tx.Exec(ctx, query, sessionID, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to assign guest orders")
		return 0, fmt.Errorf("failed to assign guest orders: %w", err)
	}
	return tag.RowsAffected(), nil
}
