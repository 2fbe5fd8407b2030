package service

import (
	"context"
	"testing"
	"time"

	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEditorialService_List_PublicSeesPublishedOnly(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEditorialRepository)
	svc := NewEditorialService(repo, zerolog.Nop())

	repo.On("List", ctx, model.EditorialPublished, 20, 0).Return([]model.Editorial{}, 0, nil)
	repo.On("List", ctx, model.EditorialDraft, 10, 0).Return([]model.Editorial{{Title: "Draft"}}, 1, nil)

	_, err := svc.List(ctx, model.Viewer{}, model.EditorialDraft, 0, 0)
	require.NoError(t, err)

	page, err := svc.List(ctx, adminViewer(), model.EditorialDraft, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	repo.AssertExpectations(t)
}

func TestEditorialService_GetBySlug_DraftHidden(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEditorialRepository)
	svc := NewEditorialService(repo, zerolog.Nop())

	draft := &model.Editorial{ID: uuid.New(), Slug: "draft", Status: model.EditorialDraft}
	repo.On("GetBySlug", ctx, "draft").Return(draft, nil)

	_, err := svc.GetBySlug(ctx, customerViewer(model.TierPremium), "draft")
	assert.ErrorIs(t, err, model.ErrNotFound)

	got, err := svc.GetBySlug(ctx, adminViewer(), "draft")
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestEditorialService_CreateAndPublish(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEditorialRepository)
	svc := NewEditorialService(repo, zerolog.Nop()).(*editorialService)
	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	repo.On("Create", ctx, mock.AnythingOfType("*model.Editorial")).Return(nil)

	e, err := svc.Create(ctx, &model.EditorialInput{Title: "Hidden Beaches of the Algarve"})
	require.NoError(t, err)
	assert.Equal(t, "hidden-beaches-of-the-algarve", e.Slug)
	assert.Equal(t, model.EditorialDraft, e.Status)
	assert.Equal(t, model.MediaImage, e.HeroMediaType)

	published := *e
	published.Status = model.EditorialPublished
	published.PublishedAt = &at
	repo.On("Publish", ctx, e.ID, at).Return(&published, nil)

	got, err := svc.Publish(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EditorialPublished, got.Status)
}

func TestAddressService_DefaultClearsPrevious(t *testing.T) {
	tests := []struct {
		name      string
		isDefault bool
	}{
		{name: "Default address", isDefault: true},
		{name: "Secondary address", isDefault: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			beginner := new(MockTxBeginner)
			repo := new(MockAddressRepository)
			svc := NewAddressService(beginner, repo, zerolog.Nop())
			mockTx := newMockTx(ctx, true)

			userID := uuid.New()
			beginner.On("BeginTx", ctx).Return(mockTx, nil)
			repo.On("ClearDefault", ctx, mockTx, userID, model.AddressBilling).Return(nil)
			repo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Address")).Return(nil)

			a, err := svc.Create(ctx, userID, &model.AddressInput{
				Type:       model.AddressBilling,
				FirstName:  "Ada",
				LastName:   "Lovelace",
				Line1:      "1 Analytical Way",
				City:       "London",
				PostalCode: "N1",
				Country:    "gb",
				IsDefault:  tt.isDefault,
			})

			require.NoError(t, err)
			assert.Equal(t, "GB", a.Country)
			assert.Equal(t, userID, a.UserID)
			if tt.isDefault {
				repo.AssertCalled(t, "ClearDefault", ctx, mockTx, userID, model.AddressBilling)
			} else {
				repo.AssertNotCalled(t, "ClearDefault", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestAddressService_Update_OtherUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAddressRepository)
	svc := NewAddressService(new(MockTxBeginner), repo, zerolog.Nop())

	userID, id := uuid.New(), uuid.New()
	repo.On("Get", ctx, userID, id).Return(nil, nil)

	_, err := svc.Update(ctx, userID, id, &model.AddressInput{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGalleryService_Create_DefaultsActive(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGalleryRepository)
	svc := NewGalleryService(repo, zerolog.Nop())
	repo.On("Create", ctx, mock.AnythingOfType("*model.Gallery")).Return(nil)

	g, err := svc.Create(ctx, &model.GalleryInput{Title: "Sunset", ImageURL: "https://cdn.example.com/sunset.jpg"})
	require.NoError(t, err)
	assert.True(t, g.IsActive)

	hidden := false
	g, err = svc.Create(ctx, &model.GalleryInput{Title: "Draft", ImageURL: "https://cdn.example.com/d.jpg", IsActive: &hidden})
	require.NoError(t, err)
	assert.False(t, g.IsActive)
}

func TestCategoryService_Update_SelfParent(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, zerolog.Nop())

	c := &model.Category{ID: uuid.New(), Name: "Bags", Slug: "bags", IsActive: true}
	repo.On("GetByID", ctx, c.ID).Return(c, nil)

	_, err := svc.Update(ctx, c.ID, &model.CategoryInput{Name: "Bags", ParentID: &c.ID})
	assert.ErrorIs(t, err, model.ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCategoryService_List_InactiveForAdmins(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, zerolog.Nop())

	repo.On("List", ctx, false).Return(nil, nil)
	repo.On("List", ctx, true).Return([]model.Category{{Slug: "hidden"}}, nil)

	public, err := svc.List(ctx, model.Viewer{})
	require.NoError(t, err)
	assert.NotNil(t, public)

	all, err := svc.List(ctx, adminViewer())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
