package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staykart/internal/model"
	"staykart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type categoryService struct {
	categories repository.CategoryRepository
	logger     zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(categories repository.CategoryRepository, logger zerolog.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		logger:     logger.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) List(ctx context.Context, viewer model.Viewer) ([]model.Category, error) {
	categories, err := s.categories.List(ctx, viewer.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

func (s *categoryService) GetBySlug(ctx context.Context, viewer model.Viewer, slug string) (*model.Category, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if c == nil || (!c.IsActive && !viewer.IsAdmin()) {
		return nil, model.ErrNotFound
	}
	return c, nil
}

func (s *categoryService) Create(ctx context.Context, in *model.CategoryInput) (*model.Category, error) {
	now := time.Now().UTC()
	c := &model.Category{ID: uuid.New(), IsActive: true, CreatedAt: now}
	if err := applyCategoryInput(c, in, now); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("category_id", c.ID.String()).Str("slug", c.Slug).Msg("category created")
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, in *model.CategoryInput) (*model.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if c == nil {
		return nil, model.ErrNotFound
	}
	if in.ParentID != nil && *in.ParentID == id {
		return nil, model.NewValidationError(model.FieldError{Field: "parentId", Msg: "category cannot be its own parent"})
	}

	if err := applyCategoryInput(c, in, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func applyCategoryInput(c *model.Category, in *model.CategoryInput, now time.Time) error {
	slug := in.Slug
	if slug == "" {
		slug = model.Slugify(in.Name)
	}
	if slug == "" {
		return model.NewValidationError(model.FieldError{Field: "slug", Msg: "cannot be derived from name, provide one"})
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Slug = slug
	c.Description = in.Description
	c.ParentID = in.ParentID
	c.ImageURL = in.ImageURL
	c.SortOrder = in.SortOrder
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	c.UpdatedAt = now
	return nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("category_id", id.String()).Msg("category deleted")
	return nil
}
