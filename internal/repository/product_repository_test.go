package repository

import (
	"context"
	"testing"
	"time"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewProductRepository(pool, logger)
	categories := NewCategoryRepository(pool, logger)

	shoes := seedCategory(t, categories, "shoes")
	seedProduct(t, repo, "SKU-001", "10.00", 5, &shoes.ID)
	seedProduct(t, repo, "SKU-002", "20.00", 5, &shoes.ID)
	seedProduct(t, repo, "SKU-003", "30.00", 5, nil)

	inactive := seedProduct(t, repo, "SKU-004", "40.00", 5, nil)
	inactive.IsActive = false
	inactive.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(context.Background(), inactive))

	featured := true

	tests := []struct {
		name          string
		filter        model.ProductFilter
		expectedCount int
		expectedTotal int
	}{
		{
			name:          "Active only",
			filter:        model.ProductFilter{},
			expectedCount: 3,
			expectedTotal: 3,
		},
		{
			name:          "Include inactive",
			filter:        model.ProductFilter{IncludeInactive: true},
			expectedCount: 4,
			expectedTotal: 4,
		},
		{
			name:          "By category slug",
			filter:        model.ProductFilter{CategorySlug: "shoes"},
			expectedCount: 2,
			expectedTotal: 2,
		},
		{
			name:          "Search by name",
			filter:        model.ProductFilter{Search: "sku-003"},
			expectedCount: 1,
			expectedTotal: 1,
		},
		{
			name:          "Featured none",
			filter:        model.ProductFilter{Featured: &featured},
			expectedCount: 0,
			expectedTotal: 0,
		},
		{
			name:          "Paged",
			filter:        model.ProductFilter{Limit: 2, Offset: 2},
			expectedCount: 1,
			expectedTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := repo.List(context.Background(), tt.filter)

			require.NoError(t, err)
			assert.Len(t, products, tt.expectedCount)
			if tt.expectedCount > 0 {
				assert.Equal(t, tt.expectedTotal, total)
			}
		})
	}
}

func TestProductRepository_UniqueSlugAndSKU(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(pool, zerolog.Nop())
	existing := seedProduct(t, repo, "SKU-100", "10.00", 1, nil)

	tests := []struct {
		name   string
		mutate func(p *model.Product)
	}{
		{
			name:   "Duplicate slug",
			mutate: func(p *model.Product) { p.Slug = existing.Slug },
		},
		{
			name:   "Duplicate sku",
			mutate: func(p *model.Product) { p.SKU = existing.SKU },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Now().UTC()
			p := &model.Product{
				ID:        uuid.New(),
				Name:      "Other",
				Slug:      "other-" + uuid.NewString()[:8],
				SKU:       "SKU-" + uuid.NewString()[:8],
				Price:     decimal.NewFromInt(1),
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			tt.mutate(p)

			err := repo.Create(ctx, p)
			assert.ErrorIs(t, err, model.ErrConflict)
		})
	}
}

func TestProductRepository_CheckViolation(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	now := time.Now().UTC()
	err := repo.Create(context.Background(), &model.Product{
		ID:        uuid.New(),
		Name:      "Negative",
		Slug:      "negative",
		SKU:       "NEG-1",
		Price:     decimal.NewFromInt(-1),
		CreatedAt: now,
		UpdatedAt: now,
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestProductRepository_GetDetailed(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(pool, zerolog.Nop())
	beginner := NewTxBeginner(pool, zerolog.Nop())
	p := seedProduct(t, repo, "SKU-200", "15.50", 3, nil)

	override := decimal.RequireFromString("17.25")
	now := time.Now().UTC()
	require.NoError(t, repo.CreateVariant(ctx, &model.ProductVariant{
		ID:         uuid.New(),
		ProductID:  p.ID,
		SKU:        "SKU-200-RED",
		Name:       "Red",
		Price:      &override,
		Quantity:   2,
		Attributes: model.Attributes{"color": "red"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	for i, main := range []bool{true, true} {
		tx, err := beginner.BeginTx(ctx)
		require.NoError(t, err)
		if main {
			require.NoError(t, repo.ClearMainImage(ctx, tx, p.ID))
		}
		require.NoError(t, repo.CreateImage(ctx, tx, &model.ProductImage{
			ID:        uuid.New(),
			ProductID: p.ID,
			URL:       "https://cdn.example.com/" + uuid.NewString(),
			SortOrder: i,
			IsMain:    main,
			CreatedAt: now,
		}))
		require.NoError(t, tx.Commit(ctx))
	}

	got, err := repo.GetBySlug(ctx, p.Slug)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.True(t, got.Price.Equal(decimal.RequireFromString("15.50")))
	require.Len(t, got.Variants, 1)
	assert.Equal(t, "red", got.Variants[0].Attributes["color"])
	assert.True(t, got.Variants[0].Price.Equal(override))

	require.Len(t, got.Images, 2)
	mains := 0
	for _, img := range got.Images {
		if img.IsMain {
			mains++
		}
	}
	assert.Equal(t, 1, mains)

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepository_DeleteCategoryNullsProduct(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(pool, zerolog.Nop())
	categories := NewCategoryRepository(pool, zerolog.Nop())

	c := seedCategory(t, categories, "bags")
	p := seedProduct(t, repo, "SKU-300", "5.00", 1, &c.ID)

	require.NoError(t, categories.Delete(ctx, c.ID))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.CategoryID)

	assert.ErrorIs(t, categories.Delete(ctx, c.ID), model.ErrNotFound)
}

func TestProductRepository_DeleteReferencedProduct(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	repo := NewProductRepository(pool, logger)
	orders := NewOrderRepository(pool, logger)
	beginner := NewTxBeginner(pool, logger)

	p := seedProduct(t, repo, "SKU-400", "12.00", 10, nil)
	order := newTestOrder(nil, "guest-session-0001")
	item := model.OrderItem{
		ID:          uuid.New(),
		OrderID:     order.ID,
		ItemType:    model.OrderTypeProduct,
		ProductID:   &p.ID,
		ProductName: p.Name,
		SKU:         p.SKU,
		Price:       p.Price,
		Quantity:    1,
		Total:       p.Price,
		CreatedAt:   order.CreatedAt,
	}

	tx, err := beginner.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, orders.CreateOrder(ctx, tx, order))
	require.NoError(t, orders.CreateOrderItems(ctx, tx, []model.OrderItem{item}))
	require.NoError(t, tx.Commit(ctx))

	err = repo.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, model.ErrResourceInUse)

	stored, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, p.Name, stored.Items[0].ProductName)
	assert.Equal(t, "SKU-400", stored.Items[0].SKU)
}

func TestProductRepository_LockAndAdjustStock(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(pool, zerolog.Nop())
	beginner := NewTxBeginner(pool, zerolog.Nop())
	p := seedProduct(t, repo, "SKU-500", "9.99", 4, nil)

	tx, err := beginner.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	locked, err := repo.LockProducts(ctx, tx, []uuid.UUID{p.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, locked, 1)
	assert.Equal(t, 4, locked[p.ID].Quantity)

	require.NoError(t, repo.AdjustStock(ctx, tx, p.ID, nil, -3))
	// Going below zero trips the CHECK constraint.
	assert.ErrorIs(t, repo.AdjustStock(ctx, tx, p.ID, nil, -3), model.ErrValidation)
}
