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

const (
	defaultPopularLimit = 6
	maxPopularLimit     = 50
)

type hotelService struct {
	hotels repository.HotelRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewHotelService creates a new hotel service.
func NewHotelService(hotels repository.HotelRepository, logger zerolog.Logger) HotelService {
	return &hotelService{
		hotels: hotels,
		now:    time.Now,
		logger: logger.With().Str("service", "hotel").Logger(),
	}
}

func (s *hotelService) List(ctx context.Context, viewer model.Viewer) ([]model.Hotel, error) {
	hotels, err := s.hotels.List(ctx, viewer.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	return redactHotels(viewer, hotels), nil
}

// SpecialOffers returns active hotels whose offer is still running today.
func (s *hotelService) SpecialOffers(ctx context.Context, viewer model.Viewer) ([]model.Hotel, error) {
	hotels, err := s.hotels.ListSpecialOffers(ctx, model.NewDate(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to list special offers: %w", err)
	}
	return redactHotels(viewer, hotels), nil
}

func (s *hotelService) Popular(ctx context.Context, viewer model.Viewer, limit int) ([]model.Hotel, error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	if limit > maxPopularLimit {
		limit = maxPopularLimit
	}

	hotels, err := s.hotels.ListPopular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list popular hotels: %w", err)
	}
	return redactHotels(viewer, hotels), nil
}

func (s *hotelService) GetBySlug(ctx context.Context, viewer model.Viewer, slug string) (*model.Hotel, error) {
	h, err := s.hotels.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	if h == nil || (!h.IsActive && !viewer.IsAdmin()) {
		return nil, model.ErrNotFound
	}
	redactHotel(viewer, h)
	return h, nil
}

// redactHotels hides VIP benefits from viewers without a premium membership.
func redactHotels(viewer model.Viewer, hotels []model.Hotel) []model.Hotel {
	if hotels == nil {
		return []model.Hotel{}
	}
	for i := range hotels {
		redactHotel(viewer, &hotels[i])
	}
	return hotels
}

func redactHotel(viewer model.Viewer, h *model.Hotel) {
	if !viewer.IsPremium() {
		h.VIPBenefits = nil
	}
}

func (s *hotelService) Create(ctx context.Context, in *model.HotelInput) (*model.Hotel, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	h := &model.Hotel{ID: uuid.New(), IsActive: true, CreatedAt: now}
	if err := applyHotelInput(h, in, now); err != nil {
		return nil, err
	}
	if err := s.hotels.Create(ctx, h); err != nil {
		return nil, err
	}

	s.logger.Info().Str("hotel_id", h.ID.String()).Str("slug", h.Slug).Msg("hotel created")
	return h, nil
}

func (s *hotelService) Update(ctx context.Context, id uuid.UUID, in *model.HotelInput) (*model.Hotel, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	h, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	if h == nil {
		return nil, model.ErrNotFound
	}

	if err := applyHotelInput(h, in, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.hotels.Update(ctx, h); err != nil {
		return nil, err
	}

	s.logger.Info().Str("hotel_id", id.String()).Msg("hotel updated")
	return h, nil
}

func applyHotelInput(h *model.Hotel, in *model.HotelInput, now time.Time) error {
	slug := in.Slug
	if slug == "" {
		slug = model.Slugify(in.Name)
	}
	if slug == "" {
		return model.NewValidationError(model.FieldError{Field: "slug", Msg: "cannot be derived from name, provide one"})
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = model.DefaultCurrency
	}

	blackout := in.BlackoutDates
	if blackout == nil {
		blackout = []model.Date{}
	}

	h.Name = strings.TrimSpace(in.Name)
	h.Slug = slug
	h.Description = in.Description
	h.Location = in.Location
	h.City = in.City
	h.Country = in.Country
	h.Price = model.RoundMoney(in.Price)
	h.OfferPrice = in.OfferPrice
	h.Currency = currency
	h.ImageURL = in.ImageURL
	h.Rating = in.Rating
	h.OfferTitle = in.OfferTitle
	h.OfferDetails = in.OfferDetails
	h.OfferValidFrom = in.OfferValidFrom
	h.OfferValidUntil = in.OfferValidUntil
	h.BookingDeadline = in.BookingDeadline
	h.BlackoutDates = blackout
	h.VIPBenefits = in.VIPBenefits
	h.HotelDetails = in.HotelDetails
	h.IsFeatured = in.IsFeatured
	h.IsPopular = in.IsPopular
	if in.IsActive != nil {
		h.IsActive = *in.IsActive
	}
	h.DisplayOrder = in.DisplayOrder
	h.UpdatedAt = now
	return nil
}

func (s *hotelService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.hotels.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("hotel_id", id.String()).Msg("hotel deleted")
	return nil
}
