package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartOwner identifies whose cart a row belongs to: exactly one of UserID or
// SessionID is set.
type CartOwner struct {
	UserID    *uuid.UUID
	SessionID string
}

// LockKey is the string used to serialize cart writes per owner.
func (o CartOwner) LockKey() string {
	if o.UserID != nil {
		return "cart:user:" + o.UserID.String()
	}
	return "cart:session:" + o.SessionID
}

// SessionPtr returns the session id as a nullable column value.
func (o CartOwner) SessionPtr() *string {
	if o.UserID != nil || o.SessionID == "" {
		return nil
	}
	s := o.SessionID
	return &s
}

// CartItem is one (owner, product, variant) row. Price is captured when the
// item is first added; CurrentPrice is what checkout would charge now.
type CartItem struct {
	ID           uuid.UUID       `json:"id"`
	UserID       *uuid.UUID      `json:"-"`
	SessionID    *string         `json:"-"`
	ProductID    uuid.UUID       `json:"productId"`
	VariantID    *uuid.UUID      `json:"variantId,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Active       bool            `json:"-"`
	ProductName  string          `json:"productName"`
	ProductSlug  string          `json:"productSlug"`
	SKU          string          `json:"sku"`
	VariantName  *string         `json:"variantName,omitempty"`
	Available    int             `json:"available"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// LineTotal returns price × quantity.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// Cart is the owner's full cart.
type Cart struct {
	Items     []CartItem      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// NewCart totals the given rows.
func NewCart(items []CartItem) *Cart {
	cart := &Cart{Items: items, Subtotal: decimal.Zero}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	for _, it := range items {
		cart.ItemCount += it.Quantity
		cart.Subtotal = cart.Subtotal.Add(it.LineTotal())
	}
	cart.Subtotal = RoundMoney(cart.Subtotal)
	return cart
}

// AddCartItemRequest is the payload of POST /api/cart/items.
type AddCartItemRequest struct {
	ProductID uuid.UUID  `json:"productId" validate:"required"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
	Quantity  int        `json:"quantity" validate:"required,min=1,max=100"`
}

// UpdateCartItemRequest is the payload of PUT /api/cart/items/{id}. Zero
// removes the row.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=100"`
}
