package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Hotel is a bookable property with an optional special offer.
type Hotel struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Description     string           `json:"description"`
	Location        string           `json:"location"`
	City            string           `json:"city"`
	Country         string           `json:"country"`
	Price           decimal.Decimal  `json:"price"`
	OfferPrice      *decimal.Decimal `json:"offerPrice,omitempty"`
	Currency        string           `json:"currency"`
	ImageURL        string           `json:"imageUrl"`
	Rating          *decimal.Decimal `json:"rating,omitempty"`
	OfferTitle      string           `json:"offerTitle,omitempty"`
	OfferDetails    string           `json:"offerDetails,omitempty"`
	OfferValidFrom  *Date            `json:"offerValidFrom,omitempty"`
	OfferValidUntil *Date            `json:"offerValidUntil,omitempty"`
	BookingDeadline *Date            `json:"bookingDeadline,omitempty"`
	BlackoutDates   []Date           `json:"blackoutDates"`
	VIPBenefits     []string         `json:"vipBenefits,omitempty"`
	HotelDetails    HotelDetails     `json:"hotelDetails"`
	IsFeatured      bool             `json:"isFeatured"`
	IsPopular       bool             `json:"isPopular"`
	IsActive        bool             `json:"isActive"`
	DisplayOrder    int              `json:"displayOrder"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// HasSpecialOffer reports whether the hotel carries a promotional offer.
func (h *Hotel) HasSpecialOffer() bool {
	return h.OfferTitle != "" || h.OfferPrice != nil
}

// HotelInput is the create/update payload for hotels.
type HotelInput struct {
	Name            string           `json:"name" validate:"required,max=255"`
	Slug            string           `json:"slug" validate:"omitempty,max=255,slug"`
	Description     string           `json:"description"`
	Location        string           `json:"location" validate:"max=255"`
	City            string           `json:"city" validate:"max=100"`
	Country         string           `json:"country" validate:"max=100"`
	Price           decimal.Decimal  `json:"price"`
	OfferPrice      *decimal.Decimal `json:"offerPrice,omitempty"`
	Currency        string           `json:"currency" validate:"omitempty,len=3"`
	ImageURL        string           `json:"imageUrl" validate:"omitempty,url"`
	Rating          *decimal.Decimal `json:"rating,omitempty"`
	OfferTitle      string           `json:"offerTitle" validate:"max=255"`
	OfferDetails    string           `json:"offerDetails"`
	OfferValidFrom  *Date            `json:"offerValidFrom,omitempty"`
	OfferValidUntil *Date            `json:"offerValidUntil,omitempty"`
	BookingDeadline *Date            `json:"bookingDeadline,omitempty"`
	BlackoutDates   []Date           `json:"blackoutDates"`
	VIPBenefits     []string         `json:"vipBenefits" validate:"dive,required,max=255"`
	HotelDetails    HotelDetails     `json:"hotelDetails"`
	IsFeatured      bool             `json:"isFeatured"`
	IsPopular       bool             `json:"isPopular"`
	IsActive        *bool            `json:"isActive,omitempty"`
	DisplayOrder    int              `json:"displayOrder"`
}

// Validate checks money, rating and the offer window.
func (in *HotelInput) Validate() error {
	var details []FieldError
	details = append(details, nonNegative("price", &in.Price)...)
	details = append(details, nonNegative("offerPrice", in.OfferPrice)...)
	if in.Rating != nil && (in.Rating.IsNegative() || in.Rating.GreaterThan(decimal.NewFromInt(5))) {
		details = append(details, FieldError{Field: "rating", Msg: "must be between 0 and 5"})
	}
	if in.OfferValidFrom != nil && in.OfferValidUntil != nil && in.OfferValidUntil.Before(in.OfferValidFrom.Time) {
		details = append(details, FieldError{Field: "offerValidUntil", Msg: "must not be before offerValidFrom"})
	}
	if len(details) > 0 {
		return NewValidationError(details...)
	}
	return nil
}

// BookingRequest is the payload of POST /api/bookings and /api/bookings/quote.
type BookingRequest struct {
	HotelID         *uuid.UUID `json:"hotelId,omitempty" validate:"required_without=HotelSlug"`
	HotelSlug       string     `json:"hotelSlug,omitempty" validate:"omitempty,slug"`
	CheckIn         Date       `json:"checkIn" validate:"required"`
	CheckOut        Date       `json:"checkOut" validate:"required"`
	Guests          int        `json:"guests" validate:"required,min=1,max=20"`
	CustomerEmail   string     `json:"customerEmail" validate:"omitempty,email,max=255"`
	CustomerName    string     `json:"customerName" validate:"max=255"`
	CustomerPhone   string     `json:"customerPhone" validate:"max=50"`
	SpecialRequests *string    `json:"specialRequests,omitempty" validate:"omitempty,max=2000"`
	BookingDetails  Attributes `json:"bookingDetails,omitempty"`
}

// Validate checks the booking detail keys.
func (r *BookingRequest) Validate() error {
	if details := ValidateAttributes("bookingDetails", r.BookingDetails, BookingDetailKeys); len(details) > 0 {
		return NewValidationError(details...)
	}
	return nil
}
