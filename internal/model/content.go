package model

import (
	"time"

	"github.com/google/uuid"
)

// EditorialStatus is the publication state of an editorial.
type EditorialStatus string

const (
	EditorialDraft     EditorialStatus = "draft"
	EditorialPublished EditorialStatus = "published"
)

// MediaType is the kind of hero media on an editorial.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Editorial is a travel story.
type Editorial struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Excerpt       string          `json:"excerpt"`
	Content       string          `json:"content"`
	HeroMediaURL  string          `json:"heroMediaUrl"`
	HeroMediaType MediaType       `json:"heroMediaType"`
	Author        string          `json:"author"`
	Status        EditorialStatus `json:"status"`
	PublishedAt   *time.Time      `json:"publishedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// EditorialInput is the create/update payload for editorials.
type EditorialInput struct {
	Title         string    `json:"title" validate:"required,max=255"`
	Slug          string    `json:"slug" validate:"omitempty,max=255,slug"`
	Excerpt       string    `json:"excerpt" validate:"max=1000"`
	Content       string    `json:"content"`
	HeroMediaURL  string    `json:"heroMediaUrl" validate:"omitempty,url"`
	HeroMediaType MediaType `json:"heroMediaType" validate:"omitempty,oneof=image video"`
	Author        string    `json:"author" validate:"max=255"`
}

// Gallery is a standalone image shown on the travel site.
type Gallery struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl"`
	Caption   string    `json:"caption"`
	SortOrder int       `json:"sortOrder"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// GalleryInput is the create payload for gallery items.
type GalleryInput struct {
	Title     string `json:"title" validate:"required,max=255"`
	ImageURL  string `json:"imageUrl" validate:"required,url"`
	Caption   string `json:"caption" validate:"max=1000"`
	SortOrder int    `json:"sortOrder"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

// Setting is one entry of the key-value settings store.
type Setting struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Category    string    `json:"category"`
	IsPublic    bool      `json:"isPublic"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SettingInput is the payload of PUT /api/settings/{key}.
type SettingInput struct {
	Value       string `json:"value" validate:"max=10000"`
	Category    string `json:"category" validate:"omitempty,max=50"`
	IsPublic    bool   `json:"isPublic"`
	Description string `json:"description" validate:"max=1000"`
}

// AddressType distinguishes shipping from billing addresses.
type AddressType string

const (
	AddressShipping AddressType = "shipping"
	AddressBilling  AddressType = "billing"
)

// Address is a saved address in a user's address book.
type Address struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"userId"`
	Type       AddressType `json:"type"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Line1      string      `json:"line1"`
	Line2      string      `json:"line2"`
	City       string      `json:"city"`
	State      string      `json:"state"`
	PostalCode string      `json:"postalCode"`
	Country    string      `json:"country"`
	Phone      string      `json:"phone"`
	IsDefault  bool        `json:"isDefault"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// AddressInput is the create/update payload for addresses.
type AddressInput struct {
	Type       AddressType `json:"type" validate:"omitempty,oneof=shipping billing"`
	FirstName  string      `json:"firstName" validate:"required,max=100"`
	LastName   string      `json:"lastName" validate:"required,max=100"`
	Line1      string      `json:"line1" validate:"required,max=255"`
	Line2      string      `json:"line2" validate:"max=255"`
	City       string      `json:"city" validate:"required,max=100"`
	State      string      `json:"state" validate:"max=100"`
	PostalCode string      `json:"postalCode" validate:"required,max=20"`
	Country    string      `json:"country" validate:"required,len=2"`
	Phone      string      `json:"phone" validate:"max=50"`
	IsDefault  bool        `json:"isDefault"`
}
