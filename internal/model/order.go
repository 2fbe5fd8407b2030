package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressSnapshot is an address copied into an order at purchase time.
type AddressSnapshot struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Line1      string `json:"line1" validate:"required,max=255"`
	Line2      string `json:"line2,omitempty" validate:"max=255"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state,omitempty" validate:"max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,len=2"`
	Phone      string `json:"phone,omitempty" validate:"max=50"`
}

// Order is a product purchase or a hotel booking.
type Order struct {
	ID              uuid.UUID        `json:"id"`
	OrderNumber     string           `json:"orderNumber"`
	UserID          *uuid.UUID       `json:"userId,omitempty"`
	SessionID       *string          `json:"-"`
	OrderType       OrderType        `json:"orderType"`
	Status          OrderStatus      `json:"status"`
	PaymentStatus   PaymentStatus    `json:"paymentStatus"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	Tax             decimal.Decimal  `json:"tax"`
	Shipping        decimal.Decimal  `json:"shipping"`
	Discount        decimal.Decimal  `json:"discount"`
	Total           decimal.Decimal  `json:"total"`
	Currency        string           `json:"currency"`
	PromoCode       *string          `json:"promoCode,omitempty"`
	CustomerEmail   string           `json:"customerEmail"`
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone,omitempty"`
	ShippingAddress *AddressSnapshot `json:"shippingAddress,omitempty"`
	BillingAddress  *AddressSnapshot `json:"billingAddress,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	BookingDetails  Attributes       `json:"bookingDetails,omitempty"`
	CheckIn         *Date            `json:"checkIn,omitempty"`
	CheckOut        *Date            `json:"checkOut,omitempty"`
	Guests          *int             `json:"guests,omitempty"`
	SpecialRequests *string          `json:"specialRequests,omitempty"`
	Items           []OrderItem      `json:"items"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// OwnedBy reports whether the viewer may read the order.
func (o *Order) OwnedBy(v Viewer) bool {
	if v.IsAdmin() {
		return true
	}
	if v.UserID != nil {
		return o.UserID != nil && *o.UserID == *v.UserID
	}
	return v.SessionID != "" && o.UserID == nil && o.SessionID != nil && *o.SessionID == v.SessionID
}

// OrderItem is a line of an order: a denormalized snapshot of a purchased
// product/variant or a hotel stay, stable if the source record changes.
type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"orderId"`
	ItemType    OrderType       `json:"itemType"`
	ProductID   *uuid.UUID      `json:"productId,omitempty"`
	VariantID   *uuid.UUID      `json:"variantId,omitempty"`
	HotelID     *uuid.UUID      `json:"hotelId,omitempty"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	Attributes  Attributes      `json:"attributes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID    *uuid.UUID
	SessionID string
	Status    OrderStatus
	OrderType OrderType
	Limit     int
	Offset    int
}

// CheckoutRequest is the payload of POST /api/checkout.
type CheckoutRequest struct {
	CustomerEmail   string           `json:"customerEmail" validate:"omitempty,email,max=255"`
	CustomerName    string           `json:"customerName" validate:"max=255"`
	CustomerPhone   string           `json:"customerPhone" validate:"max=50"`
	ShippingAddress *AddressSnapshot `json:"shippingAddress" validate:"required"`
	BillingAddress  *AddressSnapshot `json:"billingAddress,omitempty"`
	PromoCode       *string          `json:"promoCode,omitempty" validate:"omitempty,min=6,max=20"`
	Notes           string           `json:"notes" validate:"max=2000"`
}

// CheckoutSummary is a priced preview of the owner's cart. Rows whose
// product has been deactivated are listed in Unavailable and left out of
// the totals.
type CheckoutSummary struct {
	Items       []CartItem      `json:"items"`
	Unavailable []CartItem      `json:"unavailable"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	Tax         decimal.Decimal `json:"tax"`
	Shipping    decimal.Decimal `json:"shipping"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	PromoCode   *string         `json:"promoCode,omitempty"`
	PromoActive bool            `json:"promoActive"`
}

// UpdateOrderStatusRequest is the payload of PUT /api/orders/{id}/status.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled refunded confirmed checked_in checked_out"`
}

// UpdatePaymentStatusRequest is the payload of PUT /api/orders/{id}/payment-status.
type UpdatePaymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"required,oneof=pending paid failed refunded"`
}
