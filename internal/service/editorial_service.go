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

type editorialService struct {
	editorials repository.EditorialRepository
	now        func() time.Time
	logger     zerolog.Logger
}

// NewEditorialService creates a new editorial service.
func NewEditorialService(editorials repository.EditorialRepository, logger zerolog.Logger) EditorialService {
	return &editorialService{
		editorials: editorials,
		now:        time.Now,
		logger:     logger.With().Str("service", "editorial").Logger(),
	}
}

func (s *editorialService) List(ctx context.Context, viewer model.Viewer, status model.EditorialStatus, limit, offset int) (*model.Page[model.Editorial], error) {
	limit, offset = pageBounds(limit, offset)
	if !viewer.IsAdmin() {
		status = model.EditorialPublished
	}

	items, total, err := s.editorials.List(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list editorials: %w", err)
	}
	return model.NewPage(items, total, limit, offset), nil
}

func (s *editorialService) GetBySlug(ctx context.Context, viewer model.Viewer, slug string) (*model.Editorial, error) {
	e, err := s.editorials.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get editorial: %w", err)
	}
	if e == nil || (e.Status != model.EditorialPublished && !viewer.IsAdmin()) {
		return nil, model.ErrNotFound
	}
	return e, nil
}

// Create stores a new draft.
func (s *editorialService) Create(ctx context.Context, in *model.EditorialInput) (*model.Editorial, error) {
	now := s.now().UTC()
	e := &model.Editorial{
		ID:        uuid.New(),
		Status:    model.EditorialDraft,
		CreatedAt: now,
	}
	if err := applyEditorialInput(e, in, now); err != nil {
		return nil, err
	}
	if err := s.editorials.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info().Str("editorial_id", e.ID.String()).Str("slug", e.Slug).Msg("editorial created")
	return e, nil
}

func (s *editorialService) Update(ctx context.Context, id uuid.UUID, in *model.EditorialInput) (*model.Editorial, error) {
	e, err := s.editorials.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get editorial: %w", err)
	}
	if e == nil {
		return nil, model.ErrNotFound
	}

	if err := applyEditorialInput(e, in, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.editorials.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func applyEditorialInput(e *model.Editorial, in *model.EditorialInput, now time.Time) error {
	slug := in.Slug
	if slug == "" {
		slug = model.Slugify(in.Title)
	}
	if slug == "" {
		return model.NewValidationError(model.FieldError{Field: "slug", Msg: "cannot be derived from title, provide one"})
	}

	media := in.HeroMediaType
	if media == "" {
		media = model.MediaImage
	}

	e.Title = strings.TrimSpace(in.Title)
	e.Slug = slug
	e.Excerpt = in.Excerpt
	e.Content = in.Content
	e.HeroMediaURL = in.HeroMediaURL
	e.HeroMediaType = media
	e.Author = in.Author
	e.UpdatedAt = now
	return nil
}

// Publish marks the editorial published. Republishing keeps the original
// publication time.
func (s *editorialService) Publish(ctx context.Context, id uuid.UUID) (*model.Editorial, error) {
	e, err := s.editorials.Publish(ctx, id, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("editorial_id", id.String()).Msg("editorial published")
	return e, nil
}

func (s *editorialService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.editorials.Delete(ctx, id)
}
