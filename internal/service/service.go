package service

import (
	"context"
	"time"

	"staykart/internal/model"

	"github.com/google/uuid"
)

// AuthService defines account and session operations.
type AuthService interface {
	// Register creates a customer account. When sessionID is set the guest
	// cart and guest orders of that session move to the new account.
	Register(ctx context.Context, req *model.RegisterRequest, sessionID string) (*model.AuthResponse, error)

	// Login verifies credentials and merges the guest session like Register.
	Login(ctx context.Context, req *model.LoginRequest, sessionID string) (*model.AuthResponse, error)

	// Logout revokes the token with the given id until it would have expired.
	Logout(ctx context.Context, jti string, expiresAt time.Time) error

	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

// ProductService defines catalogue operations on products.
type ProductService interface {
	List(ctx context.Context, viewer model.Viewer, filter model.ProductFilter) (*model.Page[model.Product], error)

	// Get resolves ref as a product id, falling back to a slug.
	Get(ctx context.Context, viewer model.Viewer, ref string) (*model.Product, error)

	Create(ctx context.Context, in *model.ProductInput) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, in *model.ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddVariant(ctx context.Context, productID uuid.UUID, in *model.ProductVariantInput) (*model.ProductVariant, error)
	AddImage(ctx context.Context, productID uuid.UUID, in *model.ProductImageInput) (*model.ProductImage, error)
}

// CategoryService defines operations on product categories.
type CategoryService interface {
	List(ctx context.Context, viewer model.Viewer) ([]model.Category, error)
	GetBySlug(ctx context.Context, viewer model.Viewer, slug string) (*model.Category, error)
	Create(ctx context.Context, in *model.CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, in *model.CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CartService defines operations on the cart of one owner.
type CartService interface {
	Get(ctx context.Context, owner model.CartOwner) (*model.Cart, error)
	AddItem(ctx context.Context, owner model.CartOwner, req *model.AddCartItemRequest) (*model.Cart, error)
	// UpdateItem sets an absolute quantity; zero removes the row.
	UpdateItem(ctx context.Context, owner model.CartOwner, id uuid.UUID, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, owner model.CartOwner, id uuid.UUID) (*model.Cart, error)
}

// CheckoutService turns a cart into a product order.
type CheckoutService interface {
	Summary(ctx context.Context, owner model.CartOwner, promoCode *string) (*model.CheckoutSummary, error)
	PlaceOrder(ctx context.Context, viewer model.Viewer, req *model.CheckoutRequest) (*model.Order, error)
}

// OrderService defines order queries and lifecycle transitions.
type OrderService interface {
	Get(ctx context.Context, viewer model.Viewer, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, viewer model.Viewer, filter model.OrderFilter) (*model.Page[model.Order], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to model.OrderStatus) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, to model.PaymentStatus) (*model.Order, error)
	// Cancel lets the owner cancel a pending order.
	Cancel(ctx context.Context, viewer model.Viewer, id uuid.UUID) (*model.Order, error)
}

// HotelService defines hotel listing and administration.
type HotelService interface {
	List(ctx context.Context, viewer model.Viewer) ([]model.Hotel, error)
	SpecialOffers(ctx context.Context, viewer model.Viewer) ([]model.Hotel, error)
	Popular(ctx context.Context, viewer model.Viewer, limit int) ([]model.Hotel, error)
	GetBySlug(ctx context.Context, viewer model.Viewer, slug string) (*model.Hotel, error)
	Create(ctx context.Context, in *model.HotelInput) (*model.Hotel, error)
	Update(ctx context.Context, id uuid.UUID, in *model.HotelInput) (*model.Hotel, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingService prices and books hotel stays.
type BookingService interface {
	Quote(ctx context.Context, req *model.BookingRequest) (*model.StayQuote, error)
	Book(ctx context.Context, viewer model.Viewer, req *model.BookingRequest) (*model.Order, error)
}

// EditorialService defines editorial publishing.
type EditorialService interface {
	// List returns published editorials to the public; admins may filter by
	// any status or pass an empty status for all.
	List(ctx context.Context, viewer model.Viewer, status model.EditorialStatus, limit, offset int) (*model.Page[model.Editorial], error)
	GetBySlug(ctx context.Context, viewer model.Viewer, slug string) (*model.Editorial, error)
	Create(ctx context.Context, in *model.EditorialInput) (*model.Editorial, error)
	Update(ctx context.Context, id uuid.UUID, in *model.EditorialInput) (*model.Editorial, error)
	Publish(ctx context.Context, id uuid.UUID) (*model.Editorial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingService defines the settings store and derived pricing rules.
type SettingService interface {
	List(ctx context.Context, viewer model.Viewer) ([]model.Setting, error)
	Upsert(ctx context.Context, key string, in *model.SettingInput) (*model.Setting, error)
	Delete(ctx context.Context, key string) error
	PricingSource
}

// PricingSource provides the store-wide pricing rules used at checkout.
type PricingSource interface {
	PricingRules(ctx context.Context) (model.PricingRules, error)
}

// GalleryService defines gallery operations.
type GalleryService interface {
	List(ctx context.Context, viewer model.Viewer) ([]model.Gallery, error)
	Create(ctx context.Context, in *model.GalleryInput) (*model.Gallery, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AddressService manages a user's address book.
type AddressService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	Create(ctx context.Context, userID uuid.UUID, in *model.AddressInput) (*model.Address, error)
	Update(ctx context.Context, userID, id uuid.UUID, in *model.AddressInput) (*model.Address, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *model.User) (string, time.Time, error)
}

// TokenRevoker records revoked token ids.
type TokenRevoker interface {
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
}

// pageBounds clamps listing bounds: limit 1-100 (default 20), offset ≥ 0.
func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
