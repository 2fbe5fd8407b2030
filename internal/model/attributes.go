package model

import (
	"fmt"
	"sort"
	"strings"
)

// Attributes is a flat string map stored as JSONB (variant attributes,
// order item snapshots, booking details).
type Attributes map[string]string

// Recognized keys per attribute map.
var (
	VariantAttributeKeys = []string{"color", "size", "material", "style"}
	BookingDetailKeys    = []string{"room_type", "bed_preference", "arrival_time", "occasion"}
)

const maxAttributeValueLen = 64

// ValidateAttributes checks that every key is recognized and every value is a
// short non-empty string. field prefixes the reported field names.
func ValidateAttributes(field string, attrs Attributes, allowed []string) []FieldError {
	known := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		known[k] = true
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var details []FieldError
	for _, k := range keys {
		name := field + "." + k
		v := strings.TrimSpace(attrs[k])
		switch {
		case !known[k]:
			details = append(details, FieldError{
				Field: name,
				Msg:   fmt.Sprintf("unknown key %q, allowed: %s", k, strings.Join(allowed, ", ")),
			})
		case v == "":
			details = append(details, FieldError{Field: name, Msg: "value must not be empty"})
		case len(v) > maxAttributeValueLen:
			details = append(details, FieldError{
				Field: name,
				Msg:   fmt.Sprintf("value must be at most %d characters", maxAttributeValueLen),
			})
		}
	}
	return details
}

// HotelDetails is the free-form detail block of a hotel, restricted to
// documented keys.
type HotelDetails struct {
	Amenities    []string `json:"amenities,omitempty"`
	CheckInTime  string   `json:"check_in_time,omitempty"`
	CheckOutTime string   `json:"check_out_time,omitempty"`
	RoomTypes    []string `json:"room_types,omitempty"`
	Policies     string   `json:"policies,omitempty"`
	ContactEmail string   `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone string   `json:"contact_phone,omitempty"`
}
