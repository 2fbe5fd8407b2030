// Package seed loads demo data. Every insert is ON CONFLICT DO NOTHING and
// ids are derived from natural keys, so running it twice is harmless.
package seed

import (
	"context"
	"fmt"
	"time"

	"staykart/internal/auth"
	"staykart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var namespace = uuid.MustParse("8f1d2c56-3b7e-4f5a-9c0d-6e2b1a4f7c93")

func id(kind, key string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(kind+":"+key))
}

// Beginner starts a transaction. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Options controls the seeded admin account.
type Options struct {
	AdminEmail    string
	AdminPassword string
}

// Result counts the rows actually inserted.
type Result struct {
	Inserted int64
}

type category struct {
	slug, name string
	sort       int
}

type product struct {
	slug, name, sku, category string
	price                     string
	compare                   string
	qty                       int
	featured                  bool
}

type hotel struct {
	slug, name, city, country string
	price, offer, rating      string
	offerTitle                string
	popular, featured         bool
	vip                       []string
	details                   model.HotelDetails
}

var categories = []category{
	{slug: "travel-gear", name: "Travel Gear", sort: 1},
	{slug: "beach", name: "Beach Essentials", sort: 2},
	{slug: "wellness", name: "Wellness", sort: 3},
}

var products = []product{
	{slug: "carry-on-suitcase", name: "Carry-on Suitcase", sku: "TG-001", category: "travel-gear", price: "189.00", compare: "229.00", qty: 40, featured: true},
	{slug: "packing-cubes", name: "Packing Cubes (set of 4)", sku: "TG-002", category: "travel-gear", price: "34.50", qty: 120},
	{slug: "travel-adapter", name: "Universal Travel Adapter", sku: "TG-003", category: "travel-gear", price: "24.99", qty: 200},
	{slug: "linen-beach-towel", name: "Linen Beach Towel", sku: "BE-001", category: "beach", price: "45.00", qty: 60, featured: true},
	{slug: "reef-safe-sunscreen", name: "Reef-safe Sunscreen SPF 50", sku: "BE-002", category: "beach", price: "18.00", qty: 300},
	{slug: "silk-sleep-mask", name: "Silk Sleep Mask", sku: "WE-001", category: "wellness", price: "29.00", qty: 80},
}

var hotels = []hotel{
	{
		slug: "azure-bay-resort", name: "Azure Bay Resort", city: "Nice", country: "France",
		price: "320.00", offer: "260.00", rating: "4.7", offerTitle: "Riviera early summer",
		popular: true, featured: true,
		vip: []string{"Late checkout", "Airport transfer", "Spa credit"},
		details: model.HotelDetails{
			Amenities:    []string{"pool", "spa", "beach access"},
			CheckInTime:  "15:00",
			CheckOutTime: "11:00",
		},
	},
	{
		slug: "old-town-suites", name: "Old Town Suites", city: "Lisbon", country: "Portugal",
		price: "180.00", rating: "4.4", popular: true,
		vip: []string{"Welcome drink"},
		details: model.HotelDetails{
			Amenities:   []string{"rooftop bar", "breakfast"},
			CheckInTime: "14:00",
		},
	},
	{
		slug: "alpine-lodge", name: "Alpine Lodge", city: "Zermatt", country: "Switzerland",
		price: "410.00", rating: "4.9", featured: true,
		details: model.HotelDetails{Amenities: []string{"ski storage", "sauna"}},
	},
}

var settings = []model.Setting{
	{Key: model.SettingTaxRate, Value: "0.08", Category: "checkout", IsPublic: true, Description: "Sales tax as a fraction of the discounted subtotal"},
	{Key: model.SettingShippingFlatRate, Value: "9.95", Category: "checkout", IsPublic: true, Description: "Flat shipping fee per order"},
	{Key: model.SettingFreeShippingThreshold, Value: "150.00", Category: "checkout", IsPublic: true, Description: "Subtotal at which shipping is free"},
	{Key: model.SettingCurrency, Value: model.DefaultCurrency, Category: "general", IsPublic: true, Description: "Store currency"},
	{Key: "site_name", Value: "StayKart", Category: "general", IsPublic: true},
}

// Run inserts the demo data in a single transaction.
func Run(ctx context.Context, db Beginner, opts Options, logger zerolog.Logger) (Result, error) {
	logger = logger.With().Str("component", "seed").Logger()

	if opts.AdminEmail == "" || len(opts.AdminPassword) < 8 {
		return Result{}, fmt.Errorf("seed requires an admin email and a password of at least 8 characters")
	}
	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return Result{}, fmt.Errorf("failed to hash admin password: %w", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := buildBatch(opts, hash, time.Now().UTC())
	results := tx.SendBatch(ctx, batch)

	var res Result
	for i := 0; i < batch.Len(); i++ {
		tag, execErr := results.Exec()
		if execErr != nil {
			_ = results.Close()
			err = fmt.Errorf("seed statement %d: %w", i, execErr)
			return Result{}, err
		}
		res.Inserted += tag.RowsAffected()
	}
	if err = results.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to close batch: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to commit seed: %w", err)
	}

	logger.Info().Int64("inserted", res.Inserted).Msg("Seed completed")
	return res, nil
}

func buildBatch(opts Options, adminHash string, now time.Time) *pgx.Batch {
	batch := &pgx.Batch{}

	batch.Queue(`
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, membership_tier, created_at, updated_at)
		VALUES ($1, lower($2), $3, 'Store', 'Admin', 'admin', 'premium', $4, $4)
		ON CONFLICT DO NOTHING`,
		id("user", opts.AdminEmail), opts.AdminEmail, adminHash, now)

	for _, c := range categories {
		batch.Queue(`
			INSERT INTO categories (id, name, slug, sort_order, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT DO NOTHING`,
			id("category", c.slug), c.name, c.slug, c.sort, now)
	}

	for _, p := range products {
		var compare *decimal.Decimal
		if p.compare != "" {
			d := decimal.RequireFromString(p.compare)
			compare = &d
		}
		batch.Queue(`
			INSERT INTO products (id, name, slug, sku, price, compare_price, quantity, category_id, is_featured, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			ON CONFLICT DO NOTHING`,
			id("product", p.slug), p.name, p.slug, p.sku, decimal.RequireFromString(p.price), compare,
			p.qty, id("category", p.category), p.featured, now)
	}

	batch.Queue(`
		INSERT INTO product_variants (id, product_id, sku, name, quantity, attributes, created_at, updated_at)
		VALUES ($1, $2, 'TG-001-NAVY', 'Navy', 15, '{"color":"navy"}'::jsonb, $3, $3),
		       ($4, $2, 'TG-001-SAND', 'Sand', 10, '{"color":"sand"}'::jsonb, $3, $3)
		ON CONFLICT DO NOTHING`,
		id("variant", "TG-001-NAVY"), id("product", "carry-on-suitcase"), now, id("variant", "TG-001-SAND"))

	offerFrom := model.NewDate(now)
	offerUntil := model.NewDate(now.AddDate(0, 3, 0))
	deadline := model.NewDate(now.AddDate(0, 1, 0))
	for i, h := range hotels {
		var offer, rating *decimal.Decimal
		if h.offer != "" {
			d := decimal.RequireFromString(h.offer)
			offer = &d
		}
		if h.rating != "" {
			d := decimal.RequireFromString(h.rating)
			rating = &d
		}
		var from, until, bookBy *model.Date
		if h.offerTitle != "" {
			from, until, bookBy = &offerFrom, &offerUntil, &deadline
		}
		vip := h.vip
		if vip == nil {
			vip = []string{}
		}
		batch.Queue(`
			INSERT INTO hotels (id, name, slug, city, country, location, price, offer_price, rating,
				offer_title, offer_valid_from, offer_valid_until, booking_deadline, vip_benefits, hotel_details,
				is_featured, is_popular, display_order, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $4 || ', ' || $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
			ON CONFLICT DO NOTHING`,
			id("hotel", h.slug), h.name, h.slug, h.city, h.country, decimal.RequireFromString(h.price), offer, rating,
			h.offerTitle, from, until, bookBy, vip, h.details, h.featured, h.popular, i+1, now)
	}

	for _, s := range settings {
		batch.Queue(`
			INSERT INTO settings (id, key, value, category, is_public, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			ON CONFLICT DO NOTHING`,
			id("setting", s.Key), s.Key, s.Value, s.Category, s.IsPublic, s.Description, now)
	}

	for i, title := range []string{"Sunrise over the bay", "Lisbon rooftops", "Fresh powder"} {
		batch.Queue(`
			INSERT INTO galleries (id, title, image_url, sort_order, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT DO NOTHING`,
			id("gallery", title), title, fmt.Sprintf("https://cdn.staykart.example/gallery/%d.jpg", i+1), i, now)
	}

	batch.Queue(`
		INSERT INTO editorials (id, title, slug, excerpt, content, author, status, published_at, created_at, updated_at)
		VALUES ($1, 'Ten quiet beaches on the Riviera', 'ten-quiet-beaches', 'Where to swim without the crowds.',
			'The coast between Nice and Menton hides coves that stay calm even in August.', 'StayKart Editors',
			'published', $2, $2, $2)
		ON CONFLICT DO NOTHING`,
		id("editorial", "ten-quiet-beaches"), now)

	return batch
}
