package service

import (
	"context"
	"testing"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cartMocks struct {
	tx       *MockTxBeginner
	carts    *MockCartRepository
	products *MockProductRepository
}

func newCartService() (CartService, *cartMocks) {
	m := &cartMocks{
		tx:       new(MockTxBeginner),
		carts:    new(MockCartRepository),
		products: new(MockProductRepository),
	}
	return NewCartService(m.tx, m.carts, m.products, zerolog.Nop()), m
}

func TestCartService_AddItem(t *testing.T) {
	owner := model.CartOwner{SessionID: "guest-session-cart-01"}
	product := testProduct(true)
	product.Quantity = 5

	tests := []struct {
		name     string
		quantity int
		existing *model.CartItem
		wantErr  error
		wantSet  int
	}{
		{
			name:     "New row captures unit price",
			quantity: 2,
		},
		{
			name:     "Existing row is incremented",
			quantity: 2,
			existing: &model.CartItem{ID: uuid.New(), Quantity: 3},
			wantSet:  5,
		},
		{
			name:     "Increment beyond stock",
			quantity: 3,
			existing: &model.CartItem{ID: uuid.New(), Quantity: 3},
			wantErr:  model.ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newCartService()
			mockTx := newMockTx(ctx, tt.wantErr == nil)

			var noVariant *uuid.UUID
			m.products.On("GetByID", ctx, product.ID).Return(product, nil)
			m.tx.On("BeginTx", ctx).Return(mockTx, nil)
			m.carts.On("LockOwner", ctx, mockTx, owner).Return(nil)
			m.carts.On("FindItem", ctx, mockTx, owner, product.ID, noVariant).Return(tt.existing, nil)
			m.carts.On("SetQuantity", ctx, mockTx, mock.Anything, tt.wantSet).Return(nil)
			m.carts.On("Insert", ctx, mockTx, mock.MatchedBy(func(it *model.CartItem) bool {
				return it.Price.Equal(product.Price) && it.Quantity == tt.quantity && *it.SessionID == owner.SessionID
			})).Return(nil)
			m.carts.On("List", ctx, owner).Return([]model.CartItem{}, nil)

			cart, err := svc.AddItem(ctx, owner, &model.AddCartItemRequest{ProductID: product.ID, Quantity: tt.quantity})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, mockTx.rolledBack)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cart)
			assert.True(t, mockTx.committed)
			if tt.existing != nil {
				m.carts.AssertCalled(t, "SetQuantity", ctx, mockTx, tt.existing.ID, tt.wantSet)
				m.carts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
			} else {
				m.carts.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCartService_AddItem_Rejections(t *testing.T) {
	owner := model.CartOwner{SessionID: "guest-session-cart-02"}
	inactive := testProduct(false)
	active := testProduct(true)
	foreignVariant := &model.ProductVariant{ID: uuid.New(), ProductID: uuid.New(), Quantity: 10}
	missing := uuid.New()

	tests := []struct {
		name    string
		req     *model.AddCartItemRequest
		wantErr error
	}{
		{
			name:    "Zero quantity",
			req:     &model.AddCartItemRequest{ProductID: active.ID, Quantity: 0},
			wantErr: model.ErrInvalidQuantity,
		},
		{
			name:    "Unknown product",
			req:     &model.AddCartItemRequest{ProductID: missing, Quantity: 1},
			wantErr: model.ErrNotFound,
		},
		{
			name:    "Inactive product",
			req:     &model.AddCartItemRequest{ProductID: inactive.ID, Quantity: 1},
			wantErr: model.ErrProductUnavailable,
		},
		{
			name:    "Variant of another product",
			req:     &model.AddCartItemRequest{ProductID: active.ID, VariantID: &foreignVariant.ID, Quantity: 1},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newCartService()

			m.products.On("GetByID", ctx, active.ID).Return(active, nil)
			m.products.On("GetByID", ctx, inactive.ID).Return(inactive, nil)
			m.products.On("GetByID", ctx, missing).Return(nil, nil)
			m.products.On("GetVariant", ctx, foreignVariant.ID).Return(foreignVariant, nil)

			_, err := svc.AddItem(ctx, owner, tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			m.tx.AssertNotCalled(t, "BeginTx", mock.Anything)
		})
	}
}

func TestCartService_UpdateItem(t *testing.T) {
	owner := model.CartOwner{SessionID: "guest-session-cart-03"}
	item := &model.CartItem{ID: uuid.New(), Quantity: 2, Available: 4, Price: decimal.NewFromInt(10)}

	tests := []struct {
		name     string
		quantity int
		wantCall string
		wantErr  error
	}{
		{name: "Set quantity", quantity: 4, wantCall: "SetQuantity"},
		{name: "Zero removes", quantity: 0, wantCall: "DeleteItem"},
		{name: "Above stock", quantity: 5, wantErr: model.ErrInsufficientStock},
		{name: "Negative", quantity: -1, wantErr: model.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newCartService()
			mockTx := newMockTx(ctx, tt.wantErr == nil)

			m.tx.On("BeginTx", ctx).Return(mockTx, nil)
			m.carts.On("LockOwner", ctx, mockTx, owner).Return(nil)
			m.carts.On("GetItem", ctx, mockTx, owner, item.ID).Return(item, nil)
			m.carts.On("SetQuantity", ctx, mockTx, item.ID, tt.quantity).Return(nil)
			m.carts.On("DeleteItem", ctx, owner, item.ID).Return(nil)
			m.carts.On("List", ctx, owner).Return([]model.CartItem{*item}, nil)

			cart, err := svc.UpdateItem(ctx, owner, item.ID, tt.quantity)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.carts.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, cart.ItemCount)
			m.carts.AssertNumberOfCalls(t, tt.wantCall, 1)
		})
	}
}

func TestCartService_UpdateItem_ChecksStockUnderOwnerLock(t *testing.T) {
	ctx := context.Background()
	svc, m := newCartService()

	owner := model.CartOwner{SessionID: "guest-session-cart-05"}
	item := &model.CartItem{ID: uuid.New(), Quantity: 1, Available: 3, Price: decimal.NewFromInt(10)}
	mockTx := newMockTx(ctx, true)

	var order []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) { order = append(order, name) }
	}
	m.tx.On("BeginTx", ctx).Return(mockTx, nil)
	m.carts.On("LockOwner", ctx, mockTx, owner).Return(nil).Run(record("LockOwner"))
	m.carts.On("GetItem", ctx, mockTx, owner, item.ID).Return(item, nil).Run(record("GetItem"))
	m.carts.On("SetQuantity", ctx, mockTx, item.ID, 3).Return(nil).Run(record("SetQuantity"))
	m.carts.On("List", ctx, owner).Return([]model.CartItem{*item}, nil)

	_, err := svc.UpdateItem(ctx, owner, item.ID, 3)

	require.NoError(t, err)
	assert.Equal(t, []string{"LockOwner", "GetItem", "SetQuantity"}, order)
	assert.True(t, mockTx.committed)
}

func TestCartService_UpdateItem_OtherOwner(t *testing.T) {
	ctx := context.Background()
	svc, m := newCartService()

	owner := model.CartOwner{SessionID: "guest-session-cart-04"}
	id := uuid.New()
	mockTx := newMockTx(ctx, false)
	m.tx.On("BeginTx", ctx).Return(mockTx, nil)
	m.carts.On("LockOwner", ctx, mockTx, owner).Return(nil)
	m.carts.On("GetItem", ctx, mockTx, owner, id).Return(nil, nil)

	_, err := svc.UpdateItem(ctx, owner, id, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.True(t, mockTx.rolledBack)
}
