package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// StayQuote is the priced result of a hotel stay request.
type StayQuote struct {
	HotelID      string          `json:"hotelId"`
	HotelName    string          `json:"hotelName"`
	CheckIn      Date            `json:"checkIn"`
	CheckOut     Date            `json:"checkOut"`
	Nights       int             `json:"nights"`
	NightlyRate  decimal.Decimal `json:"nightlyRate"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	OfferApplied bool            `json:"offerApplied"`
}

// NightsBetween returns ceil((checkOut - checkIn) / 1 day). A non-positive
// span yields 0.
func NightsBetween(checkIn, checkOut time.Time) int {
	span := checkOut.Sub(checkIn)
	if span <= 0 {
		return 0
	}
	return int(math.Ceil(float64(span) / float64(day)))
}

// QuoteStay prices a stay at hotel h. today is the booking date (UTC).
func QuoteStay(h *Hotel, checkIn, checkOut, today Date) (*StayQuote, error) {
	if checkIn.IsZero() || checkOut.IsZero() || !checkOut.After(checkIn.Time) {
		return nil, ErrInvalidStayDates
	}
	if checkIn.Before(today.Time) {
		return nil, ErrCheckInPast
	}
	nights := NightsBetween(checkIn.Time, checkOut.Time)
	if nights == 0 {
		return nil, ErrZeroNights
	}

	rate := h.Price
	offer := offerApplies(h, checkIn, nights, today)
	if offer {
		rate = *h.OfferPrice
	}

	currency := h.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	return &StayQuote{
		HotelID:      h.ID.String(),
		HotelName:    h.Name,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Nights:       nights,
		NightlyRate:  RoundMoney(rate),
		Total:        RoundMoney(rate.Mul(decimal.NewFromInt(int64(nights)))),
		Currency:     currency,
		OfferApplied: offer,
	}, nil
}

// offerApplies reports whether the special-offer rate covers every night of
// the stay: booked by the deadline, inside the validity window and clear of
// blackout dates.
func offerApplies(h *Hotel, checkIn Date, nights int, today Date) bool {
	if h.OfferPrice == nil {
		return false
	}
	if h.BookingDeadline != nil && today.After(h.BookingDeadline.Time) {
		return false
	}

	blackout := make(map[Date]bool, len(h.BlackoutDates))
	for _, d := range h.BlackoutDates {
		blackout[NewDate(d.Time)] = true
	}

	for i := 0; i < nights; i++ {
		night := checkIn.AddDays(i)
		if h.OfferValidFrom != nil && night.Before(h.OfferValidFrom.Time) {
			return false
		}
		if h.OfferValidUntil != nil && night.After(h.OfferValidUntil.Time) {
			return false
		}
		if blackout[NewDate(night.Time)] {
			return false
		}
	}
	return true
}
