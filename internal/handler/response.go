package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"staykart/internal/model"

	"github.com/rs/zerolog"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool               `json:"success"`
	Data    any                `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
	Code    string             `json:"code,omitempty"`
	Details []model.FieldError `json:"details,omitempty"`
}

// statusByCode maps domain error codes to HTTP statuses.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:         http.StatusBadRequest,
	model.ErrCodeValidation:          http.StatusBadRequest,
	model.ErrCodeInvalidReference:    http.StatusBadRequest,
	model.ErrCodeInvalidPromoCode:    http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:     http.StatusBadRequest,
	model.ErrCodeSessionRequired:     http.StatusBadRequest,
	model.ErrCodeInvalidStayDates:    http.StatusBadRequest,
	model.ErrCodeCheckInPast:         http.StatusBadRequest,
	model.ErrCodeZeroNights:          http.StatusBadRequest,
	model.ErrCodeEmptyCart:           http.StatusBadRequest,
	model.ErrCodeUnauthorised:        http.StatusUnauthorized,
	model.ErrCodeInvalidCredentials:  http.StatusUnauthorized,
	model.ErrCodeForbidden:           http.StatusForbidden,
	model.ErrCodeNotFound:            http.StatusNotFound,
	model.ErrCodeConflict:            http.StatusConflict,
	model.ErrCodeEmailTaken:          http.StatusConflict,
	model.ErrCodeResourceInUse:       http.StatusConflict,
	model.ErrCodeConcurrentUpdate:    http.StatusConflict,
	model.ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	model.ErrCodeProductUnavailable:  http.StatusUnprocessableEntity,
	model.ErrCodeHotelUnavailable:    http.StatusUnprocessableEntity,
	model.ErrCodeInvalidTransition:   http.StatusUnprocessableEntity,
	model.ErrCodeInvalidPayment:      http.StatusUnprocessableEntity,
	model.ErrCodeOrderNotCancellable: http.StatusUnprocessableEntity,
}

// StatusFor returns the HTTP status for a domain error code.
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out; an encode failure can only be a broken connection.
	_ = json.NewEncoder(w).Encode(data)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError renders err in the envelope. Domain errors keep their message;
// anything else is logged and reported as a generic internal error.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, Envelope{
			Error: "internal server error",
			Code:  model.ErrCodeInternalError,
		})
		return
	}

	status := StatusFor(de.Code)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("code", de.Code).Msg("request failed")
	} else {
		logger.Debug().Str("code", de.Code).Int("status", status).Msg(de.Message)
	}
	writeJSON(w, status, Envelope{
		Error:   de.Message,
		Code:    de.Code,
		Details: de.Details,
	})
}
