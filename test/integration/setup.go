// Package integration drives the full HTTP stack against a Postgres container.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staykart/internal/auth"
	"staykart/internal/config"
	"staykart/internal/database"
	"staykart/internal/handler"
	"staykart/internal/promo"
	"staykart/internal/repository"
	"staykart/internal/router"
	"staykart/internal/seed"
	"staykart/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	adminEmail    = "admin@staykart.test"
	adminPassword = "admin-password-1"
	promoCode     = "WELCOME10"
)

// TestDB represents a migrated and seeded test database.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB starts Postgres, applies the migrations and loads the demo data.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := zerolog.Nop()
	migrator, err := database.NewMigrator(connStr, logger)
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Close())

	pool, err := database.NewPoolFromURL(ctx, connStr, database.PoolOptions{MaxConns: 10}, logger)
	require.NoError(t, err)

	_, err = seed.Run(ctx, pool, seed.Options{AdminEmail: adminEmail, AdminPassword: adminPassword}, logger)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// newServer wires the application the same way cmd/api does.
func newServer(t *testing.T, db *TestDB) http.Handler {
	t.Helper()
	logger := zerolog.Nop()
	pool := db.Pool

	txBeginner := repository.NewTxBeginner(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	hotelRepo := repository.NewHotelRepository(pool, logger)

	tokens, err := auth.NewTokenService(config.AuthConfig{
		JWTSecret:      "integration-test-secret-0123456789abcdef",
		Issuer:         "staykart-test",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)
	blacklist := auth.NewMemoryBlacklist()
	t.Cleanup(func() { blacklist.Close() })

	promos := promo.NewResolverFromCatalogs([]promo.Catalog{
		promo.NewCatalog(map[string]decimal.Decimal{promoCode: decimal.NewFromInt(10)}),
	}, 1, logger)

	settingService := service.NewSettingService(repository.NewSettingRepository(pool, logger), logger)

	return router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(txBeginner, userRepo, cartRepo, orderRepo, tokens, blacklist, logger), logger),
		Products: handler.NewProductHandler(service.NewProductService(txBeginner, productRepo, logger), logger),
		Category: handler.NewCategoryHandler(service.NewCategoryService(repository.NewCategoryRepository(pool, logger), logger), logger),
		Cart: handler.NewCartHandler(
			service.NewCartService(txBeginner, cartRepo, productRepo, logger),
			service.NewCheckoutService(txBeginner, cartRepo, productRepo, orderRepo, userRepo, settingService, promos, logger),
			logger,
		),
		Orders:  handler.NewOrderHandler(service.NewOrderService(txBeginner, orderRepo, productRepo, logger), logger),
		Address: handler.NewAddressHandler(service.NewAddressService(txBeginner, repository.NewAddressRepository(pool, logger), logger), logger),
		Hotels: handler.NewHotelHandler(
			service.NewHotelService(hotelRepo, logger),
			service.NewBookingService(txBeginner, hotelRepo, orderRepo, userRepo, logger),
			logger,
		),
		Content: handler.NewContentHandler(
			service.NewEditorialService(repository.NewEditorialRepository(pool, logger), logger),
			service.NewGalleryService(repository.NewGalleryRepository(pool, logger), logger),
			settingService,
			logger,
		),
	}, tokens, blacklist, pool, logger)
}

// response is the decoded API envelope with the payload left raw.
type response struct {
	Status  int             `json:"-"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// client issues requests as one identity: a guest session, a bearer token, or both.
type client struct {
	t       *testing.T
	server  http.Handler
	session string
	token   string
}

func (c *client) do(method, path string, body any) response {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.session != "" {
		req.Header.Set("X-Session-ID", c.session)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()

	c.server.ServeHTTP(w, req)

	resp := response{Status: w.Code}
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	}
	return resp
}

// decode unmarshals the envelope payload into v.
func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.True(t, r.Success, "request failed: %d %s %s", r.Status, r.Code, r.Error)
	require.NoError(t, json.Unmarshal(r.Data, v))
}

// login signs in and returns a client carrying the token.
func login(t *testing.T, server http.Handler, email, password, session string) *client {
	t.Helper()
	c := &client{t: t, server: server, session: session}
	resp := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.Status, resp.Error)

	var result struct {
		Token string `json:"token"`
	}
	resp.decode(t, &result)
	c.token = result.Token
	return c
}
