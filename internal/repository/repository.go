package repository

import (
	"context"
	"time"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Get* methods return (nil, nil) when the row does not exist. Update and
// Delete return model.ErrNotFound when no row matched.

// TxBeginner starts database transactions for multi-row writes.
type TxBeginner interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// UserRepository defines data access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, tx pgx.Tx, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail matches the lower-cased address.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// CategoryRepository defines data access for product categories.
type CategoryRepository interface {
	List(ctx context.Context, includeInactive bool) ([]model.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	// Delete removes the category; its products become uncategorised.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines data access for products, variants and images.
type ProductRepository interface {
	// List returns one page of products and the total number of matches.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)

	// GetByID and GetBySlug load the product with its images and variants.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)

	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error

	// Delete fails with model.ErrResourceInUse while order items reference
	// the product.
	Delete(ctx context.Context, id uuid.UUID) error

	CreateVariant(ctx context.Context, variant *model.ProductVariant) error
	GetVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error)

	// ClearMainImage and CreateImage run inside the caller's transaction so a
	// product never ends up with two main images.
	ClearMainImage(ctx context.Context, tx pgx.Tx, productID uuid.UUID) error
	CreateImage(ctx context.Context, tx pgx.Tx, image *model.ProductImage) error

	// LockProducts and LockVariants select rows FOR UPDATE, keyed by id.
	LockProducts(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error)
	LockVariants(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (map[uuid.UUID]*model.ProductVariant, error)

	// AdjustStock adds delta to the variant's quantity when variantID is set,
	// otherwise to the product's.
	AdjustStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, variantID *uuid.UUID, delta int) error
}

// CartRepository defines data access for cart rows. Every method is scoped
// to a cart owner.
type CartRepository interface {
	// LockOwner serializes cart writes for one owner until tx ends.
	LockOwner(ctx context.Context, tx pgx.Tx, owner model.CartOwner) error
	FindItem(ctx context.Context, tx pgx.Tx, owner model.CartOwner, productID uuid.UUID, variantID *uuid.UUID) (*model.CartItem, error)
	Insert(ctx context.Context, tx pgx.Tx, item *model.CartItem) error
	SetQuantity(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error

	List(ctx context.Context, owner model.CartOwner) ([]model.CartItem, error)
	ListTx(ctx context.Context, tx pgx.Tx, owner model.CartOwner) ([]model.CartItem, error)
	GetItem(ctx context.Context, tx pgx.Tx, owner model.CartOwner, id uuid.UUID) (*model.CartItem, error)
	DeleteItem(ctx context.Context, owner model.CartOwner, id uuid.UUID) error
	Clear(ctx context.Context, tx pgx.Tx, owner model.CartOwner) error

	// MergeSession moves a guest cart into a user's cart and returns the
	// number of guest rows consumed.
	MergeSession(ctx context.Context, tx pgx.Tx, sessionID string, userID uuid.UUID) (int, error)
}

// OrderRepository defines data access for orders and their items.
type OrderRepository interface {
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID loads the order with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// GetForUpdate loads and locks the order row inside tx.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error)

	// UpdateStatus moves the order from one status to another and returns
	// model.ErrConcurrentUpdate when the stored status is no longer from.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.PaymentStatus) error

	// AssignSessionOrders attaches guest orders placed with sessionID to userID.
	AssignSessionOrders(ctx context.Context, tx pgx.Tx, sessionID string, userID uuid.UUID) (int64, error)
}

// HotelRepository defines data access for hotels.
type HotelRepository interface {
	List(ctx context.Context, includeInactive bool) ([]model.Hotel, error)
	// ListSpecialOffers returns active hotels whose offer has not expired on today.
	ListSpecialOffers(ctx context.Context, today model.Date) ([]model.Hotel, error)
	ListPopular(ctx context.Context, limit int) ([]model.Hotel, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Hotel, error)
	GetBySlug(ctx context.Context, slug string) (*model.Hotel, error)
	Create(ctx context.Context, hotel *model.Hotel) error
	Update(ctx context.Context, hotel *model.Hotel) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EditorialRepository defines data access for editorials.
type EditorialRepository interface {
	// List filters by status when status is non-empty.
	List(ctx context.Context, status model.EditorialStatus, limit, offset int) ([]model.Editorial, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Editorial, error)
	GetBySlug(ctx context.Context, slug string) (*model.Editorial, error)
	Create(ctx context.Context, editorial *model.Editorial) error
	Update(ctx context.Context, editorial *model.Editorial) error
	Publish(ctx context.Context, id uuid.UUID, at time.Time) (*model.Editorial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingRepository defines data access for the key-value settings store.
type SettingRepository interface {
	List(ctx context.Context, publicOnly bool) ([]model.Setting, error)
	Get(ctx context.Context, key string) (*model.Setting, error)
	// Values returns the values of the given keys that exist.
	Values(ctx context.Context, keys []string) (map[string]string, error)
	Upsert(ctx context.Context, setting *model.Setting) error
	Delete(ctx context.Context, key string) error
}

// GalleryRepository defines data access for gallery items.
type GalleryRepository interface {
	List(ctx context.Context, includeInactive bool) ([]model.Gallery, error)
	Create(ctx context.Context, gallery *model.Gallery) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AddressRepository defines data access for a user's address book.
type AddressRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Address, error)
	// ClearDefault unsets the default flag on the user's addresses of type t.
	ClearDefault(ctx context.Context, tx pgx.Tx, userID uuid.UUID, t model.AddressType) error
	Create(ctx context.Context, tx pgx.Tx, address *model.Address) error
	Update(ctx context.Context, tx pgx.Tx, address *model.Address) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
