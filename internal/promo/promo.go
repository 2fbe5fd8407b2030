// Package promo resolves promo codes against gzip catalogs of CODE,PERCENT
// lines. A code is honoured only when enough independent catalogs agree on it.
package promo

import (
	"context"

	"github.com/shopspring/decimal"
)

const (
	MinCodeLength = 6
	MaxCodeLength = 20
)

// Resolver turns a promo code into a discount percent.
type Resolver interface {
	// Resolve returns the discount percent (0-100] for code, or
	// model.ErrInvalidPromoCode when the code is not honoured.
	Resolve(ctx context.Context, code string) (decimal.Decimal, error)

	Close() error
}

// Catalog is one loaded promo file.
type Catalog interface {
	Lookup(code string) (decimal.Decimal, bool)
	Size() int
}

// Loader reads a catalog from some storage.
type Loader interface {
	Load(ctx context.Context, path string) (Catalog, error)
}
