package promo

import (
	"context"
	"sync"

	"staykart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config lists catalog paths and how many catalogs must contain a code.
type Config struct {
	Paths         []string
	MinMatchCount int
}

type resolver struct {
	catalogs []Catalog
	minMatch int
	logger   zerolog.Logger
}

// NewResolver loads every catalog concurrently. Catalogs that fail to load
// are logged and skipped; with too few catalogs every code is rejected.
func NewResolver(ctx context.Context, cfg Config, loader Loader, logger zerolog.Logger) Resolver {
	logger = logger.With().Str("component", "promo-resolver").Logger()

	minMatch := cfg.MinMatchCount
	if minMatch < 1 {
		minMatch = 2
	}

	loaded := make([]Catalog, len(cfg.Paths))
	var wg sync.WaitGroup
	for i, path := range cfg.Paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := loader.Load(ctx, path)
			if err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("Promo catalog unavailable")
				return
			}
			loaded[i] = c
		}()
	}
	wg.Wait()

	r := &resolver{minMatch: minMatch, logger: logger}
	for _, c := range loaded {
		if c != nil {
			r.catalogs = append(r.catalogs, c)
		}
	}

	if len(r.catalogs) < minMatch {
		logger.Warn().
			Int("catalogs", len(r.catalogs)).
			Int("min_match", minMatch).
			Msg("Not enough promo catalogs loaded, promo codes will be rejected")
	} else {
		logger.Info().Int("catalogs", len(r.catalogs)).Int("min_match", minMatch).Msg("Promo resolver ready")
	}

	return r
}

// NewResolverFromCatalogs builds a resolver over already loaded catalogs.
func NewResolverFromCatalogs(catalogs []Catalog, minMatch int, logger zerolog.Logger) Resolver {
	if minMatch < 1 {
		minMatch = 2
	}
	return &resolver{
		catalogs: catalogs,
		minMatch: minMatch,
		logger:   logger.With().Str("component", "promo-resolver").Logger(),
	}
}

func (r *resolver) Resolve(ctx context.Context, code string) (decimal.Decimal, error) {
	code = normalize(code)
	if len(code) < MinCodeLength || len(code) > MaxCodeLength {
		return decimal.Zero, model.ErrInvalidPromoCode
	}

	pct, matches := r.lookup(ctx, code)
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	if matches < r.minMatch {
		r.logger.Debug().Str("code", code).Int("matches", matches).Msg("Promo code rejected")
		return decimal.Zero, model.ErrInvalidPromoCode
	}
	return pct, nil
}

type hit struct {
	pct   decimal.Decimal
	found bool
}

// lookup checks every catalog in parallel and returns the smallest percent
// among the catalogs that contain code. It stops early once minMatch can no
// longer be reached.
func (r *resolver) lookup(ctx context.Context, code string) (decimal.Decimal, int) {
	results := make(chan hit, len(r.catalogs))
	for _, c := range r.catalogs {
		go func(c Catalog) {
			pct, ok := c.Lookup(code)
			results <- hit{pct: pct, found: ok}
		}(c)
	}

	var best decimal.Decimal
	matches, checked := 0, 0
	for checked < len(r.catalogs) {
		select {
		case h := <-results:
			checked++
			if h.found {
				if matches == 0 || h.pct.LessThan(best) {
					best = h.pct
				}
				matches++
			}
			if matches+len(r.catalogs)-checked < r.minMatch {
				return best, matches
			}
		case <-ctx.Done():
			return best, matches
		}
	}
	return best, matches
}

func (r *resolver) Close() error {
	r.catalogs = nil
	return nil
}
