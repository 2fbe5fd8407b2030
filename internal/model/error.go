package model

import "fmt"

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeValidation          = "VALIDATION_FAILED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeResourceInUse       = "RESOURCE_IN_USE"
	ErrCodeInvalidReference    = "INVALID_REFERENCE"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken          = "EMAIL_TAKEN"
	ErrCodeInvalidPromoCode    = "INVALID_PROMO_CODE"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeProductUnavailable  = "PRODUCT_UNAVAILABLE"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeSessionRequired     = "SESSION_REQUIRED"
	ErrCodeInvalidStayDates    = "INVALID_STAY_DATES"
	ErrCodeCheckInPast         = "CHECK_IN_IN_PAST"
	ErrCodeZeroNights          = "ZERO_NIGHTS"
	ErrCodeHotelUnavailable    = "HOTEL_UNAVAILABLE"
	ErrCodeInvalidTransition   = "INVALID_STATUS_TRANSITION"
	ErrCodeInvalidPayment      = "INVALID_PAYMENT_TRANSITION"
	ErrCodeConcurrentUpdate    = "CONCURRENT_UPDATE"
	ErrCodeOrderNotCancellable = "ORDER_NOT_CANCELLABLE"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// DomainError is a business rule violation that is safe to show to clients.
type DomainError struct {
	Code    string
	Message string
	Details []FieldError
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that errors created with a specific
// message still compare equal to the sentinel for their code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a domain error with a formatted message.
func Errorf(code, format string, args ...any) *DomainError {
	return NewDomainError(code, fmt.Sprintf(format, args...))
}

// NewValidationError creates a validation error carrying per-field details.
func NewValidationError(details ...FieldError) *DomainError {
	msg := "request validation failed"
	if len(details) > 0 {
		msg = details[0].Msg
	}
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: msg,
		Details: details,
	}
}

// Common domain errors
var (
	ErrValidation          = NewDomainError(ErrCodeValidation, "request validation failed")
	ErrNotFound            = NewDomainError(ErrCodeNotFound, "resource not found")
	ErrConflict            = NewDomainError(ErrCodeConflict, "resource already exists")
	ErrResourceInUse       = NewDomainError(ErrCodeResourceInUse, "resource is referenced by other records")
	ErrInvalidReference    = NewDomainError(ErrCodeInvalidReference, "referenced resource does not exist")
	ErrUnauthorised        = NewDomainError(ErrCodeUnauthorised, "authentication required")
	ErrForbidden           = NewDomainError(ErrCodeForbidden, "insufficient permissions")
	ErrInvalidCredentials  = NewDomainError(ErrCodeInvalidCredentials, "invalid email or password")
	ErrEmailTaken          = NewDomainError(ErrCodeEmailTaken, "email is already registered")
	ErrInvalidPromoCode    = NewDomainError(ErrCodeInvalidPromoCode, "promo code is not valid")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "quantity must be greater than zero")
	ErrInsufficientStock   = NewDomainError(ErrCodeInsufficientStock, "not enough stock available")
	ErrProductUnavailable  = NewDomainError(ErrCodeProductUnavailable, "product is not available")
	ErrEmptyCart           = NewDomainError(ErrCodeEmptyCart, "cart is empty")
	ErrSessionRequired     = NewDomainError(ErrCodeSessionRequired, "sign in or provide an X-Session-ID header")
	ErrInvalidStayDates    = NewDomainError(ErrCodeInvalidStayDates, "check-out must be after check-in")
	ErrCheckInPast         = NewDomainError(ErrCodeCheckInPast, "check-in date cannot be in the past")
	ErrZeroNights          = NewDomainError(ErrCodeZeroNights, "stay must be at least one night")
	ErrHotelUnavailable    = NewDomainError(ErrCodeHotelUnavailable, "hotel is not available for booking")
	ErrInvalidTransition   = NewDomainError(ErrCodeInvalidTransition, "order status transition is not allowed")
	ErrInvalidPayment      = NewDomainError(ErrCodeInvalidPayment, "payment status transition is not allowed")
	ErrConcurrentUpdate    = NewDomainError(ErrCodeConcurrentUpdate, "resource was modified concurrently, retry")
	ErrOrderNotCancellable = NewDomainError(ErrCodeOrderNotCancellable, "only pending orders can be cancelled")
)
