package service

import (
	"context"
	"testing"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderMocks struct {
	tx       *MockTxBeginner
	orders   *MockOrderRepository
	products *MockProductRepository
}

func newOrderService() (OrderService, *orderMocks) {
	m := &orderMocks{
		tx:       new(MockTxBeginner),
		orders:   new(MockOrderRepository),
		products: new(MockProductRepository),
	}
	return NewOrderService(m.tx, m.orders, m.products, zerolog.Nop()), m
}

func guestOrder(session string, status model.OrderStatus) *model.Order {
	productID := uuid.New()
	variantID := uuid.New()
	return &model.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-20250501-TEST01",
		SessionID:     &session,
		OrderType:     model.OrderTypeProduct,
		Status:        status,
		PaymentStatus: model.PaymentPending,
		Items: []model.OrderItem{
			{ID: uuid.New(), ProductID: &productID, VariantID: &variantID, Quantity: 2},
			// Product deleted after purchase.
			{ID: uuid.New(), Quantity: 1},
		},
	}
}

func TestOrderService_Get_Ownership(t *testing.T) {
	order := guestOrder("guest-session-owner-01", model.StatusPending)

	tests := []struct {
		name    string
		viewer  model.Viewer
		wantErr error
	}{
		{name: "Owning session", viewer: model.Viewer{SessionID: "guest-session-owner-01"}},
		{name: "Admin", viewer: adminViewer()},
		{name: "Other session", viewer: model.Viewer{SessionID: "guest-session-owner-02"}, wantErr: model.ErrNotFound},
		{name: "Signed-in stranger", viewer: customerViewer(model.TierStandard), wantErr: model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newOrderService()
			m.orders.On("GetByID", ctx, order.ID).Return(order, nil)

			got, err := svc.Get(ctx, tt.viewer, order.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, order.ID, got.ID)
		})
	}
}

func TestOrderService_List_ScopesToViewer(t *testing.T) {
	user := customerViewer(model.TierStandard)
	other := uuid.New()

	tests := []struct {
		name       string
		viewer     model.Viewer
		filter     model.OrderFilter
		wantFilter model.OrderFilter
		wantErr    error
	}{
		{
			name:       "Customer filter is forced to self",
			viewer:     user,
			filter:     model.OrderFilter{UserID: &other, SessionID: "x", Status: model.StatusPending},
			wantFilter: model.OrderFilter{UserID: user.UserID, Status: model.StatusPending, Limit: 20},
		},
		{
			name:       "Guest sees session orders",
			viewer:     model.Viewer{SessionID: "guest-session-list-01"},
			filter:     model.OrderFilter{UserID: &other},
			wantFilter: model.OrderFilter{SessionID: "guest-session-list-01", Limit: 20},
		},
		{
			name:       "Admin filter passes through",
			viewer:     adminViewer(),
			filter:     model.OrderFilter{UserID: &other, Limit: 5},
			wantFilter: model.OrderFilter{UserID: &other, Limit: 5},
		},
		{
			name:    "Anonymous without session",
			viewer:  model.Viewer{},
			wantErr: model.ErrSessionRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newOrderService()
			m.orders.On("List", ctx, tt.wantFilter).Return([]model.Order{}, 0, nil)

			page, err := svc.List(ctx, tt.viewer, tt.filter)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, page.Items)
			m.orders.AssertExpectations(t)
		})
	}
}

// lockedProducts returns the product rows LockProducts would return for the
// order's items.
func lockedProducts(order *model.Order, sku string) map[uuid.UUID]*model.Product {
	locked := map[uuid.UUID]*model.Product{}
	for _, item := range order.Items {
		if item.ProductID != nil {
			locked[*item.ProductID] = &model.Product{ID: *item.ProductID, SKU: sku}
		}
	}
	return locked
}

func TestOrderService_UpdateStatus_CancelRestocks(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()

	tests := []struct {
		name          string
		item          model.OrderItem
		expectRestock bool
	}{
		{
			name:          "Variant item restocks the variant",
			item:          model.OrderItem{ProductID: &productID, VariantID: &variantID, SKU: "TOWEL-BLUE-L", Quantity: 2},
			expectRestock: true,
		},
		{
			name:          "Base product item restocks the product",
			item:          model.OrderItem{ProductID: &productID, SKU: "TOWEL", Quantity: 3},
			expectRestock: true,
		},
		{
			name:          "Removed variant is not credited to the product",
			item:          model.OrderItem{ProductID: &productID, SKU: "TOWEL-BLUE-L", Quantity: 5},
			expectRestock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newOrderService()
			mockTx := newMockTx(ctx, true)

			order := guestOrder("guest-session-cancel-01", model.StatusProcessing)
			tt.item.ID = uuid.New()
			order.Items = []model.OrderItem{tt.item, {ID: uuid.New(), Quantity: 1}}
			cancelled := *order
			cancelled.Status = model.StatusCancelled

			m.tx.On("BeginTx", ctx).Return(mockTx, nil)
			m.orders.On("GetForUpdate", ctx, mockTx, order.ID).Return(order, nil)
			m.orders.On("UpdateStatus", ctx, mockTx, order.ID, model.StatusProcessing, model.StatusCancelled).Return(nil)
			m.products.On("LockProducts", ctx, mockTx, []uuid.UUID{productID}).Return(lockedProducts(order, "TOWEL"), nil)
			m.products.On("AdjustStock", ctx, mockTx, productID, tt.item.VariantID, tt.item.Quantity).Return(nil)
			m.orders.On("GetByID", ctx, order.ID).Return(&cancelled, nil)

			got, err := svc.UpdateStatus(ctx, order.ID, model.StatusCancelled)

			require.NoError(t, err)
			assert.Equal(t, model.StatusCancelled, got.Status)
			if tt.expectRestock {
				m.products.AssertNumberOfCalls(t, "AdjustStock", 1)
			} else {
				m.products.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			m.orders.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			mockTx.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateStatus_CancelRestocksInIDOrder(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService()
	mockTx := newMockTx(ctx, true)

	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("ffffffff-0000-0000-0000-000000000001")
	variantA := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	variantB := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	order := guestOrder("guest-session-cancel-04", model.StatusPending)
	order.Items = []model.OrderItem{
		{ID: uuid.New(), ProductID: &high, Quantity: 1},
		{ID: uuid.New(), ProductID: &low, VariantID: &variantB, Quantity: 2},
		{ID: uuid.New(), ProductID: &low, VariantID: &variantA, Quantity: 3},
		{ID: uuid.New(), ProductID: &low, Quantity: 4},
	}

	m.tx.On("BeginTx", ctx).Return(mockTx, nil)
	m.orders.On("GetForUpdate", ctx, mockTx, order.ID).Return(order, nil)
	m.orders.On("UpdateStatus", ctx, mockTx, order.ID, model.StatusPending, model.StatusCancelled).Return(nil)
	m.products.On("LockProducts", ctx, mockTx, mock.Anything).Return(lockedProducts(order, ""), nil)
	m.products.On("AdjustStock", ctx, mockTx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.orders.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.UpdateStatus(ctx, order.ID, model.StatusCancelled)
	require.NoError(t, err)

	var quantities []int
	for _, call := range m.products.Calls {
		if call.Method == "AdjustStock" {
			quantities = append(quantities, call.Arguments.Int(4))
		}
	}
	// low/base, low/variantA, low/variantB, high/base
	assert.Equal(t, []int{4, 3, 2, 1}, quantities)
}

func TestOrderService_UpdateStatus_RefundPaidOrder(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService()
	mockTx := newMockTx(ctx, true)

	order := guestOrder("guest-session-refund-1", model.StatusShipped)
	order.PaymentStatus = model.PaymentPaid

	m.tx.On("BeginTx", ctx).Return(mockTx, nil)
	m.orders.On("GetForUpdate", ctx, mockTx, order.ID).Return(order, nil)
	m.orders.On("UpdateStatus", ctx, mockTx, order.ID, model.StatusShipped, model.StatusRefunded).Return(nil)
	m.orders.On("UpdatePaymentStatus", ctx, mockTx, order.ID, model.PaymentPaid, model.PaymentRefunded).Return(nil)
	m.orders.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.UpdateStatus(ctx, order.ID, model.StatusRefunded)

	require.NoError(t, err)
	m.orders.AssertExpectations(t)
	m.products.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_Rejections(t *testing.T) {
	hotel := guestOrder("guest-session-hotel-01", model.StatusPending)
	hotel.OrderType = model.OrderTypeHotel

	tests := []struct {
		name    string
		order   *model.Order
		to      model.OrderStatus
		wantErr error
	}{
		{
			name:    "Skipping a step",
			order:   guestOrder("guest-session-reject-1", model.StatusPending),
			to:      model.StatusShipped,
			wantErr: model.ErrInvalidTransition,
		},
		{
			name:    "Terminal state",
			order:   guestOrder("guest-session-reject-2", model.StatusDelivered),
			to:      model.StatusCancelled,
			wantErr: model.ErrInvalidTransition,
		},
		{
			name:    "Product status on a hotel order",
			order:   hotel,
			to:      model.StatusProcessing,
			wantErr: model.ErrInvalidTransition,
		},
		{
			name:    "Missing order",
			to:      model.StatusProcessing,
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newOrderService()
			mockTx := newMockTx(ctx, false)

			id := uuid.New()
			if tt.order != nil {
				id = tt.order.ID
			}
			m.tx.On("BeginTx", ctx).Return(mockTx, nil)
			m.orders.On("GetForUpdate", ctx, mockTx, id).Return(tt.order, nil)

			_, err := svc.UpdateStatus(ctx, id, tt.to)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, mockTx.rolledBack)
			m.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_Cancel(t *testing.T) {
	const session = "guest-session-cancel-2"

	tests := []struct {
		name    string
		viewer  model.Viewer
		status  model.OrderStatus
		wantErr error
	}{
		{name: "Owner cancels pending order", viewer: model.Viewer{SessionID: session}, status: model.StatusPending},
		{name: "Owner cannot cancel processing order", viewer: model.Viewer{SessionID: session}, status: model.StatusProcessing, wantErr: model.ErrOrderNotCancellable},
		{name: "Stranger", viewer: model.Viewer{SessionID: "guest-session-cancel-3"}, status: model.StatusPending, wantErr: model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newOrderService()
			mockTx := newMockTx(ctx, tt.wantErr == nil)

			order := guestOrder(session, tt.status)
			m.tx.On("BeginTx", ctx).Return(mockTx, nil)
			m.orders.On("GetForUpdate", ctx, mockTx, order.ID).Return(order, nil)
			m.orders.On("UpdateStatus", ctx, mockTx, order.ID, model.StatusPending, model.StatusCancelled).Return(nil)
			m.products.On("LockProducts", ctx, mockTx, mock.Anything).Return(lockedProducts(order, ""), nil)
			m.products.On("AdjustStock", ctx, mockTx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
			m.orders.On("GetByID", ctx, order.ID).Return(order, nil)

			_, err := svc.Cancel(ctx, tt.viewer, order.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			m.orders.AssertCalled(t, "UpdateStatus", ctx, mockTx, order.ID, model.StatusPending, model.StatusCancelled)
		})
	}
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    model.PaymentStatus
		to      model.PaymentStatus
		wantErr error
	}{
		{name: "Pending to paid", from: model.PaymentPending, to: model.PaymentPaid},
		{name: "Failed retried", from: model.PaymentFailed, to: model.PaymentPaid},
		{name: "Refund unpaid", from: model.PaymentPending, to: model.PaymentRefunded, wantErr: model.ErrInvalidPayment},
		{name: "Refunded is final", from: model.PaymentRefunded, to: model.PaymentPaid, wantErr: model.ErrInvalidPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newOrderService()
			mockTx := newMockTx(ctx, tt.wantErr == nil)

			order := guestOrder("guest-session-payment", model.StatusPending)
			order.PaymentStatus = tt.from
			m.tx.On("BeginTx", ctx).Return(mockTx, nil)
			m.orders.On("GetForUpdate", ctx, mockTx, order.ID).Return(order, nil)
			m.orders.On("UpdatePaymentStatus", ctx, mockTx, order.ID, tt.from, tt.to).Return(nil)
			m.orders.On("GetByID", ctx, order.ID).Return(order, nil)

			_, err := svc.UpdatePaymentStatus(ctx, order.ID, tt.to)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			mockTx.AssertExpectations(t)
		})
	}
}
