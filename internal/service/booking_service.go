package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"staykart/internal/model"
	"staykart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// bookingService implements BookingService. A booking is an order of type
// hotel with a single item covering every night of the stay.
type bookingService struct {
	tx          repository.TxBeginner
	hotels      repository.HotelRepository
	orders      repository.OrderRepository
	users       repository.UserRepository
	now         func() time.Time
	orderNumber func(time.Time) string
	logger      zerolog.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(
	tx repository.TxBeginner,
	hotels repository.HotelRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	logger zerolog.Logger,
) BookingService {
	return &bookingService{
		tx:          tx,
		hotels:      hotels,
		orders:      orders,
		users:       users,
		now:         time.Now,
		orderNumber: newOrderNumber,
		logger:      logger.With().Str("service", "booking").Logger(),
	}
}

func (s *bookingService) Quote(ctx context.Context, req *model.BookingRequest) (*model.StayQuote, error) {
	_, quote, err := s.quote(ctx, req)
	return quote, err
}

func (s *bookingService) quote(ctx context.Context, req *model.BookingRequest) (*model.Hotel, *model.StayQuote, error) {
	if req.Guests < 1 {
		return nil, nil, model.NewValidationError(model.FieldError{Field: "guests", Msg: "must be at least 1"})
	}
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	hotel, err := s.hotel(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	quote, err := model.QuoteStay(hotel, req.CheckIn, req.CheckOut, model.NewDate(s.now()))
	if err != nil {
		return nil, nil, err
	}
	return hotel, quote, nil
}

func (s *bookingService) hotel(ctx context.Context, req *model.BookingRequest) (*model.Hotel, error) {
	var (
		h   *model.Hotel
		err error
	)
	switch {
	case req.HotelID != nil:
		h, err = s.hotels.GetByID(ctx, *req.HotelID)
	case req.HotelSlug != "":
		h, err = s.hotels.GetBySlug(ctx, req.HotelSlug)
	default:
		return nil, model.NewValidationError(model.FieldError{Field: "hotelId", Msg: "hotelId or hotelSlug is required"})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	if h == nil {
		return nil, model.ErrNotFound
	}
	if !h.IsActive {
		return nil, model.ErrHotelUnavailable
	}
	return h, nil
}

// Book creates a pending hotel order for the quoted stay.
func (s *bookingService) Book(ctx context.Context, viewer model.Viewer, req *model.BookingRequest) (*model.Order, error) {
	owner, err := viewer.CartOwner()
	if err != nil {
		return nil, err
	}

	hotel, quote, err := s.quote(ctx, req)
	if err != nil {
		return nil, err
	}

	email, name, err := resolveCustomer(ctx, s.users, viewer, req.CustomerEmail, req.CustomerName)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	checkIn, checkOut, guests := quote.CheckIn, quote.CheckOut, req.Guests
	hotelID := hotel.ID

	details := req.BookingDetails
	if details == nil {
		details = model.Attributes{}
	}

	order := &model.Order{
		UserID:          viewer.UserID,
		SessionID:       owner.SessionPtr(),
		OrderType:       model.OrderTypeHotel,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentPending,
		Subtotal:        quote.Total,
		Tax:             decimal.Zero,
		Shipping:        decimal.Zero,
		Discount:        decimal.Zero,
		Total:           quote.Total,
		Currency:        quote.Currency,
		CustomerEmail:   email,
		CustomerName:    name,
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		BookingDetails:  details,
		CheckIn:         &checkIn,
		CheckOut:        &checkOut,
		Guests:          &guests,
		SpecialRequests: req.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = placeWithOrderNumber(ctx, s.tx, s.logger,
		func() string { return s.orderNumber(now) },
		func(tx pgx.Tx, number string) error {
			order.ID = uuid.New()
			order.OrderNumber = number
			order.Items = []model.OrderItem{{
				ID:          uuid.New(),
				OrderID:     order.ID,
				ItemType:    model.OrderTypeHotel,
				HotelID:     &hotelID,
				ProductName: hotel.Name,
				SKU:         hotel.Slug,
				Price:       quote.NightlyRate,
				Quantity:    quote.Nights,
				Total:       quote.Total,
				Attributes: model.Attributes{
					"check_in":      checkIn.String(),
					"check_out":     checkOut.String(),
					"offer_applied": strconv.FormatBool(quote.OfferApplied),
				},
				CreatedAt: now,
			}}

			if err := s.orders.CreateOrder(ctx, tx, order); err != nil {
				return err
			}
			return s.orders.CreateOrderItems(ctx, tx, order.Items)
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("hotel_id", hotelID.String()).
		Int("nights", quote.Nights).
		Bool("offer_applied", quote.OfferApplied).
		Msg("hotel booked")

	return order, nil
}
