package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products. Deleting a category leaves its products
// uncategorised.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parentId,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	IsActive    bool       `json:"isActive"`
	SortOrder   int        `json:"sortOrder"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CategoryInput is the create/update payload for categories.
type CategoryInput struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Slug        string     `json:"slug" validate:"omitempty,max=255,slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parentId,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty" validate:"omitempty,url"`
	IsActive    *bool      `json:"isActive,omitempty"`
	SortOrder   int        `json:"sortOrder"`
}

// Product represents an item in the catalogue.
type Product struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	SKU          string           `json:"sku"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	ComparePrice *decimal.Decimal `json:"comparePrice,omitempty"`
	CostPrice    *decimal.Decimal `json:"costPrice,omitempty"`
	Quantity     int              `json:"quantity"`
	CategoryID   *uuid.UUID       `json:"categoryId,omitempty"`
	IsActive     bool             `json:"isActive"`
	IsFeatured   bool             `json:"isFeatured"`
	Images       []ProductImage   `json:"images,omitempty"`
	Variants     []ProductVariant `json:"variants,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// ProductInput is the create/update payload for products.
type ProductInput struct {
	Name         string           `json:"name" validate:"required,max=255"`
	Slug         string           `json:"slug" validate:"omitempty,max=255,slug"`
	SKU          string           `json:"sku" validate:"required,max=100"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	ComparePrice *decimal.Decimal `json:"comparePrice,omitempty"`
	CostPrice    *decimal.Decimal `json:"costPrice,omitempty"`
	Quantity     int              `json:"quantity" validate:"gte=0"`
	CategoryID   *uuid.UUID       `json:"categoryId,omitempty"`
	IsActive     *bool            `json:"isActive,omitempty"`
	IsFeatured   bool             `json:"isFeatured"`
}

// Validate checks the money fields, which the struct tags cannot express.
func (in *ProductInput) Validate() error {
	var details []FieldError
	details = append(details, nonNegative("price", &in.Price)...)
	details = append(details, nonNegative("comparePrice", in.ComparePrice)...)
	details = append(details, nonNegative("costPrice", in.CostPrice)...)
	if len(details) > 0 {
		return NewValidationError(details...)
	}
	return nil
}

// ProductImage is a picture of a product; SortOrder determines display order.
type ProductImage struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	URL       string    `json:"url"`
	AltText   string    `json:"altText"`
	SortOrder int       `json:"sortOrder"`
	IsMain    bool      `json:"isMain"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductImageInput is the payload of POST /api/products/{id}/images.
type ProductImageInput struct {
	URL       string `json:"url" validate:"required,url"`
	AltText   string `json:"altText" validate:"max=255"`
	SortOrder int    `json:"sortOrder"`
	IsMain    bool   `json:"isMain"`
}

// ProductVariant is a purchasable variation of a product (e.g. color/size).
type ProductVariant struct {
	ID         uuid.UUID        `json:"id"`
	ProductID  uuid.UUID        `json:"productId"`
	SKU        string           `json:"sku"`
	Name       string           `json:"name"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Quantity   int              `json:"quantity"`
	Attributes Attributes       `json:"attributes"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// ProductVariantInput is the payload of POST /api/products/{id}/variants.
type ProductVariantInput struct {
	SKU        string           `json:"sku" validate:"required,max=100"`
	Name       string           `json:"name" validate:"required,max=255"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Quantity   int              `json:"quantity" validate:"gte=0"`
	Attributes Attributes       `json:"attributes"`
}

// Validate checks the price override and the attribute keys.
func (in *ProductVariantInput) Validate() error {
	details := nonNegative("price", in.Price)
	details = append(details, ValidateAttributes("attributes", in.Attributes, VariantAttributeKeys)...)
	if len(details) > 0 {
		return NewValidationError(details...)
	}
	return nil
}

// UnitPrice returns the variant override when set, otherwise the product price.
func UnitPrice(p *Product, v *ProductVariant) decimal.Decimal {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategorySlug    string
	Featured        *bool
	Search          string
	IncludeInactive bool
	Limit           int
	Offset          int
}

func nonNegative(field string, d *decimal.Decimal) []FieldError {
	if d != nil && d.IsNegative() {
		return []FieldError{{Field: field, Msg: "must be greater than or equal to 0"}}
	}
	return nil
}
