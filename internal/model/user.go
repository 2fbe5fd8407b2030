package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization role of a user.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// MembershipTier controls access to member-only perks such as VIP benefits.
type MembershipTier string

const (
	TierStandard MembershipTier = "standard"
	TierPremium  MembershipTier = "premium"
)

// User represents a registered account.
type User struct {
	ID             uuid.UUID      `json:"id"`
	Email          string         `json:"email"`
	PasswordHash   string         `json:"-"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Phone          *string        `json:"phone,omitempty"`
	Role           Role           `json:"role"`
	MembershipTier MembershipTier `json:"membershipTier"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// RegisterRequest is the payload of POST /api/auth/register.
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// Viewer is the identity behind a request. The zero value is an anonymous
// visitor without a session.
type Viewer struct {
	UserID    *uuid.UUID
	SessionID string
	Role      Role
	Tier      MembershipTier
}

// IsAuthenticated reports whether the request carries a valid user token.
func (v Viewer) IsAuthenticated() bool {
	return v.UserID != nil
}

// IsAdmin reports whether the viewer is an administrator.
func (v Viewer) IsAdmin() bool {
	return v.UserID != nil && v.Role == RoleAdmin
}

// IsPremium reports whether the viewer may see member-only perks.
func (v Viewer) IsPremium() bool {
	return v.IsAdmin() || (v.UserID != nil && v.Tier == TierPremium)
}

// CartOwner returns the owner key used for cart rows. Authenticated users own
// their cart by user id; guests by session id.
func (v Viewer) CartOwner() (CartOwner, error) {
	if v.UserID != nil {
		return CartOwner{UserID: v.UserID}, nil
	}
	if v.SessionID != "" {
		return CartOwner{SessionID: v.SessionID}, nil
	}
	return CartOwner{}, ErrSessionRequired
}
