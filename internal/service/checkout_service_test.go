package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutMocks struct {
	tx       *MockTxBeginner
	carts    *MockCartRepository
	products *MockProductRepository
	orders   *MockOrderRepository
	users    *MockUserRepository
	pricing  *MockPricingSource
	promos   *MockPromoResolver
}

func newCheckoutService() (*checkoutService, *checkoutMocks) {
	m := &checkoutMocks{
		tx:       new(MockTxBeginner),
		carts:    new(MockCartRepository),
		products: new(MockProductRepository),
		orders:   new(MockOrderRepository),
		users:    new(MockUserRepository),
		pricing:  new(MockPricingSource),
		promos:   new(MockPromoResolver),
	}
	svc := NewCheckoutService(m.tx, m.carts, m.products, m.orders, m.users, m.pricing, m.promos, zerolog.Nop())
	return svc.(*checkoutService), m
}

func testRules() model.PricingRules {
	return model.PricingRules{
		TaxRate:               decimal.RequireFromString("0.08"),
		ShippingFlatRate:      decimal.RequireFromString("9.95"),
		FreeShippingThreshold: decimal.RequireFromString("150.00"),
		Currency:              "USD",
	}
}

func testAddress() *model.AddressSnapshot {
	return &model.AddressSnapshot{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Line1:      "1 Analytical Way",
		City:       "London",
		PostalCode: "N1",
		Country:    "GB",
	}
}

func orderNumberCollision() error {
	return fmt.Errorf("failed to create order: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "orders_order_number_key",
	})
}

func TestNewOrderNumber_Format(t *testing.T) {
	at := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^ORD-20250309-[A-Z2-9]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := newOrderNumber(at)
		assert.Regexp(t, pattern, n)
		seen[n] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestCheckoutService_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	svc, m := newCheckoutService()
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }

	viewer := model.Viewer{SessionID: "guest-session-checkout"}
	owner := model.CartOwner{SessionID: viewer.SessionID}

	product := testProduct(true)
	product.Price = decimal.RequireFromString("40.00")
	variantPrice := decimal.RequireFromString("55.00")
	variant := &model.ProductVariant{
		ID:         uuid.New(),
		ProductID:  product.ID,
		SKU:        "TG-001-BLK",
		Price:      &variantPrice,
		Quantity:   3,
		Attributes: model.Attributes{"color": "black"},
	}
	plain := testProduct(true)
	plain.ID = uuid.New()
	plain.Price = decimal.RequireFromString("10.00")

	cart := []model.CartItem{
		// Captured price is stale; checkout charges the current variant price.
		{ID: uuid.New(), ProductID: product.ID, VariantID: &variant.ID, Quantity: 2, Price: decimal.NewFromInt(50), ProductName: product.Name},
		{ID: uuid.New(), ProductID: plain.ID, Quantity: 1, Price: plain.Price, ProductName: plain.Name},
	}

	mockTx := newMockTx(ctx, true)
	var noVariant *uuid.UUID

	m.promos.On("Resolve", ctx, "SUMMER10").Return(decimal.NewFromInt(10), nil)
	m.pricing.On("PricingRules", ctx).Return(testRules(), nil)
	m.tx.On("BeginTx", ctx).Return(mockTx, nil)
	m.carts.On("LockOwner", ctx, mockTx, owner).Return(nil)
	m.carts.On("ListTx", ctx, mockTx, owner).Return(cart, nil)
	m.products.On("LockProducts", ctx, mockTx, []uuid.UUID{product.ID, plain.ID}).
		Return(map[uuid.UUID]*model.Product{product.ID: product, plain.ID: plain}, nil)
	m.products.On("LockVariants", ctx, mockTx, []uuid.UUID{variant.ID}).
		Return(map[uuid.UUID]*model.ProductVariant{variant.ID: variant}, nil)
	m.products.On("AdjustStock", ctx, mockTx, product.ID, &variant.ID, -2).Return(nil)
	m.products.On("AdjustStock", ctx, mockTx, plain.ID, noVariant, -1).Return(nil)
	m.orders.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	m.orders.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	m.carts.On("Clear", ctx, mockTx, owner).Return(nil)

	promo := " summer10 "
	order, err := svc.PlaceOrder(ctx, viewer, &model.CheckoutRequest{
		CustomerEmail:   "Guest@Example.com",
		ShippingAddress: testAddress(),
		PromoCode:       &promo,
	})

	require.NoError(t, err)
	assert.Regexp(t, `^ORD-20250501-`, order.OrderNumber)
	assert.Equal(t, "guest@example.com", order.CustomerEmail)
	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, model.PaymentPending, order.PaymentStatus)
	assert.Nil(t, order.UserID)
	require.NotNil(t, order.SessionID)
	assert.Equal(t, viewer.SessionID, *order.SessionID)
	require.NotNil(t, order.PromoCode)
	assert.Equal(t, "SUMMER10", *order.PromoCode)
	assert.Equal(t, order.ShippingAddress, order.BillingAddress)

	// 2 x 55.00 + 10.00 = 120.00; 10% off = 12.00; tax 8% of 108.00 = 8.64;
	// shipping 9.95 below the 150.00 threshold.
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("120.00")), order.Subtotal.String())
	assert.True(t, order.Discount.Equal(decimal.RequireFromString("12.00")), order.Discount.String())
	assert.True(t, order.Tax.Equal(decimal.RequireFromString("8.64")), order.Tax.String())
	assert.True(t, order.Shipping.Equal(decimal.RequireFromString("9.95")), order.Shipping.String())
	assert.True(t, order.Total.Equal(decimal.RequireFromString("126.59")), order.Total.String())

	require.Len(t, order.Items, 2)
	assert.Equal(t, "TG-001-BLK", order.Items[0].SKU)
	assert.True(t, order.Items[0].Price.Equal(variantPrice))
	assert.Equal(t, "black", order.Items[0].Attributes["color"])
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	m.products.AssertExpectations(t)
	m.carts.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestCheckoutService_PlaceOrder_RetriesOrderNumberCollision(t *testing.T) {
	ctx := context.Background()
	svc, m := newCheckoutService()

	numbers := []string{"ORD-20250501-AAAAAA", "ORD-20250501-BBBBBB"}
	calls := 0
	svc.orderNumber = func(time.Time) string {
		n := numbers[calls]
		calls++
		return n
	}

	userID := uuid.New()
	viewer := model.Viewer{UserID: &userID, Role: model.RoleCustomer}
	owner := model.CartOwner{UserID: &userID}
	product := testProduct(true)
	cart := []model.CartItem{{ID: uuid.New(), ProductID: product.ID, Quantity: 1, ProductName: product.Name}}

	firstTx := newMockTx(ctx, false)
	secondTx := newMockTx(ctx, true)

	m.users.On("GetByID", ctx, userID).Return(&model.User{ID: userID, Email: "ada@example.com", FirstName: "Ada"}, nil)
	m.pricing.On("PricingRules", ctx).Return(testRules(), nil)
	m.tx.On("BeginTx", ctx).Return(firstTx, nil).Once()
	m.tx.On("BeginTx", ctx).Return(secondTx, nil).Once()
	m.carts.On("LockOwner", ctx, mock.Anything, owner).Return(nil)
	m.carts.On("ListTx", ctx, mock.Anything, owner).Return(cart, nil)
	m.products.On("LockProducts", ctx, mock.Anything, []uuid.UUID{product.ID}).
		Return(map[uuid.UUID]*model.Product{product.ID: product}, nil)
	m.products.On("AdjustStock", ctx, mock.Anything, product.ID, mock.Anything, -1).Return(nil)
	m.orders.On("CreateOrder", ctx, firstTx, mock.Anything).Return(orderNumberCollision())
	m.orders.On("CreateOrder", ctx, secondTx, mock.Anything).Return(nil)
	m.orders.On("CreateOrderItems", ctx, secondTx, mock.Anything).Return(nil)
	m.carts.On("Clear", ctx, secondTx, owner).Return(nil)

	order, err := svc.PlaceOrder(ctx, viewer, &model.CheckoutRequest{ShippingAddress: testAddress()})

	require.NoError(t, err)
	assert.Equal(t, "ORD-20250501-BBBBBB", order.OrderNumber)
	assert.Equal(t, "ada@example.com", order.CustomerEmail)
	assert.Equal(t, "Ada", order.CustomerName)
	assert.Equal(t, &userID, order.UserID)
	assert.Nil(t, order.SessionID)
	assert.True(t, firstTx.rolledBack)
	assert.True(t, secondTx.committed)
	m.promos.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestCheckoutService_PlaceOrder_Failures(t *testing.T) {
	viewer := model.Viewer{SessionID: "guest-session-failures"}
	owner := model.CartOwner{SessionID: viewer.SessionID}
	product := testProduct(true)
	product.Quantity = 1
	inactive := testProduct(false)
	inactive.ID = uuid.New()

	tests := []struct {
		name    string
		cart    []model.CartItem
		locked  map[uuid.UUID]*model.Product
		wantErr error
	}{
		{
			name:    "Empty cart",
			cart:    []model.CartItem{},
			wantErr: model.ErrEmptyCart,
		},
		{
			name:    "Stock dropped since add",
			cart:    []model.CartItem{{ProductID: product.ID, Quantity: 2, ProductName: product.Name}},
			locked:  map[uuid.UUID]*model.Product{product.ID: product},
			wantErr: model.ErrInsufficientStock,
		},
		{
			name:    "Product deactivated",
			cart:    []model.CartItem{{ProductID: inactive.ID, Quantity: 1, ProductName: inactive.Name}},
			locked:  map[uuid.UUID]*model.Product{inactive.ID: inactive},
			wantErr: model.ErrProductUnavailable,
		},
		{
			name:    "Product deleted",
			cart:    []model.CartItem{{ProductID: product.ID, Quantity: 1, ProductName: product.Name}},
			locked:  map[uuid.UUID]*model.Product{},
			wantErr: model.ErrProductUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newCheckoutService()
			mockTx := newMockTx(ctx, false)

			m.pricing.On("PricingRules", ctx).Return(testRules(), nil)
			m.tx.On("BeginTx", ctx).Return(mockTx, nil)
			m.carts.On("LockOwner", ctx, mockTx, owner).Return(nil)
			m.carts.On("ListTx", ctx, mockTx, owner).Return(tt.cart, nil)
			m.products.On("LockProducts", ctx, mockTx, mock.Anything).Return(tt.locked, nil)

			order, err := svc.PlaceOrder(ctx, viewer, &model.CheckoutRequest{
				CustomerEmail:   "guest@example.com",
				ShippingAddress: testAddress(),
			})

			assert.Nil(t, order)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, mockTx.rolledBack)
			m.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
			m.products.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCheckoutService_PlaceOrder_BeforeTransaction(t *testing.T) {
	code := "NOTREAL1"

	tests := []struct {
		name    string
		viewer  model.Viewer
		req     *model.CheckoutRequest
		wantErr error
	}{
		{
			name:    "No identity",
			viewer:  model.Viewer{},
			req:     &model.CheckoutRequest{CustomerEmail: "a@example.com", ShippingAddress: testAddress()},
			wantErr: model.ErrSessionRequired,
		},
		{
			name:    "Guest without email",
			viewer:  model.Viewer{SessionID: "guest-session-noemail"},
			req:     &model.CheckoutRequest{ShippingAddress: testAddress()},
			wantErr: model.ErrValidation,
		},
		{
			name:    "Invalid promo code",
			viewer:  model.Viewer{SessionID: "guest-session-badpromo"},
			req:     &model.CheckoutRequest{CustomerEmail: "a@example.com", ShippingAddress: testAddress(), PromoCode: &code},
			wantErr: model.ErrInvalidPromoCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newCheckoutService()
			m.promos.On("Resolve", ctx, code).Return(decimal.Zero, model.ErrInvalidPromoCode)

			_, err := svc.PlaceOrder(ctx, tt.viewer, tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			m.tx.AssertNotCalled(t, "BeginTx", mock.Anything)
		})
	}
}

func TestCheckoutService_Summary(t *testing.T) {
	owner := model.CartOwner{SessionID: "guest-session-summary"}
	items := []model.CartItem{
		{ProductID: uuid.New(), Quantity: 2, Price: decimal.NewFromInt(70), CurrentPrice: decimal.NewFromInt(80), Active: true},
	}
	valid, invalid := "SAVE20NOW", "EXPIRED1"

	tests := []struct {
		name       string
		code       *string
		wantActive bool
		wantTotal  string
	}{
		{
			// 160.00 reaches free shipping; tax 12.80.
			name:      "No promo",
			wantTotal: "172.80",
		},
		{
			// 160.00 - 32.00 = 128.00; tax 10.24; shipping free on subtotal.
			name:       "Valid promo",
			code:       &valid,
			wantActive: true,
			wantTotal:  "138.24",
		},
		{
			name:      "Unknown promo is reported, not rejected",
			code:      &invalid,
			wantTotal: "172.80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newCheckoutService()

			m.carts.On("List", ctx, owner).Return(items, nil)
			m.pricing.On("PricingRules", ctx).Return(testRules(), nil)
			m.promos.On("Resolve", ctx, valid).Return(decimal.NewFromInt(20), nil)
			m.promos.On("Resolve", ctx, invalid).Return(decimal.Zero, model.ErrInvalidPromoCode)

			summary, err := svc.Summary(ctx, owner, tt.code)

			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, summary.PromoActive)
			assert.True(t, summary.Subtotal.Equal(decimal.NewFromInt(160)))
			assert.True(t, summary.Total.Equal(decimal.RequireFromString(tt.wantTotal)), summary.Total.String())
			assert.Equal(t, "USD", summary.Currency)
		})
	}
}

func TestCheckoutService_Summary_SkipsInactiveProducts(t *testing.T) {
	ctx := context.Background()
	svc, m := newCheckoutService()

	owner := model.CartOwner{SessionID: "guest-session-summary-2"}
	active := model.CartItem{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, CurrentPrice: decimal.NewFromInt(30), Active: true}
	retired := model.CartItem{ID: uuid.New(), ProductID: uuid.New(), Quantity: 3, CurrentPrice: decimal.NewFromInt(500), Active: false}

	m.carts.On("List", ctx, owner).Return([]model.CartItem{active, retired}, nil)
	m.pricing.On("PricingRules", ctx).Return(testRules(), nil)

	summary, err := svc.Summary(ctx, owner, nil)

	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, active.ID, summary.Items[0].ID)
	require.Len(t, summary.Unavailable, 1)
	assert.Equal(t, retired.ID, summary.Unavailable[0].ID)
	assert.True(t, summary.Subtotal.Equal(decimal.NewFromInt(30)), summary.Subtotal.String())
}
