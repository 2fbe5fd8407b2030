package service

import (
	"context"
	"time"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// MockTxBeginner hands out the configured MockTx.
type MockTxBeginner struct {
	mock.Mock
}

func (m *MockTxBeginner) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a MockTx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

// ptr returns args.Get(i) as *T, or nil.
func ptr[T any](args mock.Arguments, i int) *T {
	if v, ok := args.Get(i).(*T); ok {
		return v
	}
	return nil
}

// slice returns args.Get(i) as []T, or nil.
func slice[T any](args mock.Arguments, i int) []T {
	if v, ok := args.Get(i).([]T); ok {
		return v
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, tx pgx.Tx, user *model.User) error {
	return m.Called(ctx, tx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	return ptr[model.User](args, 0), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	return ptr[model.User](args, 0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	args := m.Called(ctx, includeInactive)
	return slice[model.Category](args, 0), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, id)
	return ptr[model.Category](args, 0), args.Error(1)
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	args := m.Called(ctx, slug)
	return ptr[model.Category](args, 0), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	args := m.Called(ctx, filter)
	return slice[model.Product](args, 0), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	return ptr[model.Product](args, 0), args.Error(1)
}

func (m *MockProductRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	args := m.Called(ctx, slug)
	return ptr[model.Product](args, 0), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) CreateVariant(ctx context.Context, v *model.ProductVariant) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockProductRepository) GetVariant(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	args := m.Called(ctx, id)
	return ptr[model.ProductVariant](args, 0), args.Error(1)
}

func (m *MockProductRepository) ClearMainImage(ctx context.Context, tx pgx.Tx, productID uuid.UUID) error {
	return m.Called(ctx, tx, productID).Error(0)
}

func (m *MockProductRepository) CreateImage(ctx context.Context, tx pgx.Tx, image *model.ProductImage) error {
	return m.Called(ctx, tx, image).Error(0)
}

func (m *MockProductRepository) LockProducts(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	args := m.Called(ctx, tx, ids)
	locked, _ := args.Get(0).(map[uuid.UUID]*model.Product)
	return locked, args.Error(1)
}

func (m *MockProductRepository) LockVariants(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (map[uuid.UUID]*model.ProductVariant, error) {
	args := m.Called(ctx, tx, ids)
	locked, _ := args.Get(0).(map[uuid.UUID]*model.ProductVariant)
	return locked, args.Error(1)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, variantID *uuid.UUID, delta int) error {
	return m.Called(ctx, tx, productID, variantID, delta).Error(0)
}

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) LockOwner(ctx context.Context, tx pgx.Tx, owner model.CartOwner) error {
	return m.Called(ctx, tx, owner).Error(0)
}

func (m *MockCartRepository) FindItem(ctx context.Context, tx pgx.Tx, owner model.CartOwner, productID uuid.UUID, variantID *uuid.UUID) (*model.CartItem, error) {
	args := m.Called(ctx, tx, owner, productID, variantID)
	return ptr[model.CartItem](args, 0), args.Error(1)
}

func (m *MockCartRepository) Insert(ctx context.Context, tx pgx.Tx, item *model.CartItem) error {
	return m.Called(ctx, tx, item).Error(0)
}

func (m *MockCartRepository) SetQuantity(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error {
	return m.Called(ctx, tx, id, quantity).Error(0)
}

func (m *MockCartRepository) List(ctx context.Context, owner model.CartOwner) ([]model.CartItem, error) {
	args := m.Called(ctx, owner)
	return slice[model.CartItem](args, 0), args.Error(1)
}

func (m *MockCartRepository) ListTx(ctx context.Context, tx pgx.Tx, owner model.CartOwner) ([]model.CartItem, error) {
	args := m.Called(ctx, tx, owner)
	return slice[model.CartItem](args, 0), args.Error(1)
}

func (m *MockCartRepository) GetItem(ctx context.Context, tx pgx.Tx, owner model.CartOwner, id uuid.UUID) (*model.CartItem, error) {
	args := m.Called(ctx, tx, owner, id)
	return ptr[model.CartItem](args, 0), args.Error(1)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, owner model.CartOwner, id uuid.UUID) error {
	return m.Called(ctx, owner, id).Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, tx pgx.Tx, owner model.CartOwner) error {
	return m.Called(ctx, tx, owner).Error(0)
}

func (m *MockCartRepository) MergeSession(ctx context.Context, tx pgx.Tx, sessionID string, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, tx, sessionID, userID)
	return args.Int(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	return m.Called(ctx, tx, order).Error(0)
}

func (m *MockOrderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	return m.Called(ctx, tx, items).Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	return ptr[model.Order](args, 0), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, tx, id)
	return ptr[model.Order](args, 0), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
	args := m.Called(ctx, filter)
	return slice[model.Order](args, 0), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) error {
	return m.Called(ctx, tx, id, from, to).Error(0)
}

func (m *MockOrderRepository) UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.PaymentStatus) error {
	return m.Called(ctx, tx, id, from, to).Error(0)
}

func (m *MockOrderRepository) AssignSessionOrders(ctx context.Context, tx pgx.Tx, sessionID string, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, sessionID, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockHotelRepository is a mock implementation of HotelRepository.
type MockHotelRepository struct {
	mock.Mock
}

func (m *MockHotelRepository) List(ctx context.Context, includeInactive bool) ([]model.Hotel, error) {
	args := m.Called(ctx, includeInactive)
	return slice[model.Hotel](args, 0), args.Error(1)
}

func (m *MockHotelRepository) ListSpecialOffers(ctx context.Context, today model.Date) ([]model.Hotel, error) {
	args := m.Called(ctx, today)
	return slice[model.Hotel](args, 0), args.Error(1)
}

func (m *MockHotelRepository) ListPopular(ctx context.Context, limit int) ([]model.Hotel, error) {
	args := m.Called(ctx, limit)
	return slice[model.Hotel](args, 0), args.Error(1)
}

func (m *MockHotelRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Hotel, error) {
	args := m.Called(ctx, id)
	return ptr[model.Hotel](args, 0), args.Error(1)
}

func (m *MockHotelRepository) GetBySlug(ctx context.Context, slug string) (*model.Hotel, error) {
	args := m.Called(ctx, slug)
	return ptr[model.Hotel](args, 0), args.Error(1)
}

func (m *MockHotelRepository) Create(ctx context.Context, h *model.Hotel) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHotelRepository) Update(ctx context.Context, h *model.Hotel) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHotelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockEditorialRepository is a mock implementation of EditorialRepository.
type MockEditorialRepository struct {
	mock.Mock
}

func (m *MockEditorialRepository) List(ctx context.Context, status model.EditorialStatus, limit, offset int) ([]model.Editorial, int, error) {
	args := m.Called(ctx, status, limit, offset)
	return slice[model.Editorial](args, 0), args.Int(1), args.Error(2)
}

func (m *MockEditorialRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Editorial, error) {
	args := m.Called(ctx, id)
	return ptr[model.Editorial](args, 0), args.Error(1)
}

func (m *MockEditorialRepository) GetBySlug(ctx context.Context, slug string) (*model.Editorial, error) {
	args := m.Called(ctx, slug)
	return ptr[model.Editorial](args, 0), args.Error(1)
}

func (m *MockEditorialRepository) Create(ctx context.Context, e *model.Editorial) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEditorialRepository) Update(ctx context.Context, e *model.Editorial) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEditorialRepository) Publish(ctx context.Context, id uuid.UUID, at time.Time) (*model.Editorial, error) {
	args := m.Called(ctx, id, at)
	return ptr[model.Editorial](args, 0), args.Error(1)
}

func (m *MockEditorialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockSettingRepository is a mock implementation of SettingRepository.
type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) List(ctx context.Context, publicOnly bool) ([]model.Setting, error) {
	args := m.Called(ctx, publicOnly)
	return slice[model.Setting](args, 0), args.Error(1)
}

func (m *MockSettingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	args := m.Called(ctx, key)
	return ptr[model.Setting](args, 0), args.Error(1)
}

func (m *MockSettingRepository) Values(ctx context.Context, keys []string) (map[string]string, error) {
	args := m.Called(ctx, keys)
	values, _ := args.Get(0).(map[string]string)
	return values, args.Error(1)
}

func (m *MockSettingRepository) Upsert(ctx context.Context, s *model.Setting) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSettingRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// MockGalleryRepository is a mock implementation of GalleryRepository.
type MockGalleryRepository struct {
	mock.Mock
}

func (m *MockGalleryRepository) List(ctx context.Context, includeInactive bool) ([]model.Gallery, error) {
	args := m.Called(ctx, includeInactive)
	return slice[model.Gallery](args, 0), args.Error(1)
}

func (m *MockGalleryRepository) Create(ctx context.Context, g *model.Gallery) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockGalleryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockAddressRepository is a mock implementation of AddressRepository.
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	return slice[model.Address](args, 0), args.Error(1)
}

func (m *MockAddressRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.Address, error) {
	args := m.Called(ctx, userID, id)
	return ptr[model.Address](args, 0), args.Error(1)
}

func (m *MockAddressRepository) ClearDefault(ctx context.Context, tx pgx.Tx, userID uuid.UUID, t model.AddressType) error {
	return m.Called(ctx, tx, userID, t).Error(0)
}

func (m *MockAddressRepository) Create(ctx context.Context, tx pgx.Tx, a *model.Address) error {
	return m.Called(ctx, tx, a).Error(0)
}

func (m *MockAddressRepository) Update(ctx context.Context, tx pgx.Tx, a *model.Address) error {
	return m.Called(ctx, tx, a).Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

// MockPricingSource is a mock implementation of PricingSource.
type MockPricingSource struct {
	mock.Mock
}

func (m *MockPricingSource) PricingRules(ctx context.Context) (model.PricingRules, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.PricingRules), args.Error(1)
}

// MockPromoResolver is a mock implementation of promo.Resolver.
type MockPromoResolver struct {
	mock.Mock
}

func (m *MockPromoResolver) Resolve(ctx context.Context, code string) (decimal.Decimal, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPromoResolver) Close() error {
	return m.Called().Error(0)
}

// MockTokenIssuer is a mock implementation of TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(user *model.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// MockTokenRevoker is a mock implementation of TokenRevoker.
type MockTokenRevoker struct {
	mock.Mock
}

func (m *MockTokenRevoker) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	return m.Called(ctx, jti, ttl).Error(0)
}

// newMockTx returns a transaction expected to end with the given outcome.
func newMockTx(ctx context.Context, commit bool) *MockTx {
	tx := new(MockTx)
	if commit {
		tx.On("Commit", ctx).Return(nil)
	} else {
		tx.On("Rollback", ctx).Return(nil)
	}
	return tx
}
