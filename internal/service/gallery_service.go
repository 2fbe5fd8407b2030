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

type galleryService struct {
	gallery repository.GalleryRepository
	logger  zerolog.Logger
}

// NewGalleryService creates a new gallery service.
func NewGalleryService(gallery repository.GalleryRepository, logger zerolog.Logger) GalleryService {
	return &galleryService{
		gallery: gallery,
		logger:  logger.With().Str("service", "gallery").Logger(),
	}
}

func (s *galleryService) List(ctx context.Context, viewer model.Viewer) ([]model.Gallery, error) {
	items, err := s.gallery.List(ctx, viewer.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery: %w", err)
	}
	if items == nil {
		items = []model.Gallery{}
	}
	return items, nil
}

func (s *galleryService) Create(ctx context.Context, in *model.GalleryInput) (*model.Gallery, error) {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	g := &model.Gallery{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(in.Title),
		ImageURL:  in.ImageURL,
		Caption:   in.Caption,
		SortOrder: in.SortOrder,
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.gallery.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *galleryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.gallery.Delete(ctx, id)
}
