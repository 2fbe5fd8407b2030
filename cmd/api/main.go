package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staykart/internal/auth"
	"staykart/internal/config"
	"staykart/internal/database"
	"staykart/internal/handler"
	"staykart/internal/promo"
	"staykart/internal/repository"
	"staykart/internal/router"
	"staykart/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting staykart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Server.MigrateOnStart {
		if err := migrateUp(cfg.Database.ConnectionString(), logger); err != nil {
			return err
		}
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	txBeginner := repository.NewTxBeginner(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	hotelRepo := repository.NewHotelRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	editorialRepo := repository.NewEditorialRepository(pool, logger)
	galleryRepo := repository.NewGalleryRepository(pool, logger)
	settingRepo := repository.NewSettingRepository(pool, logger)

	// Tokens and revocation
	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	blacklist := newBlacklist(ctx, cfg.Redis, logger)
	defer blacklist.Close()

	// Promo catalogs from S3 with local file fallback
	promos := promo.NewResolver(ctx, promo.Config{
		Paths:         cfg.Promo.Files,
		MinMatchCount: cfg.Promo.MinMatchCount,
	}, newPromoLoader(ctx, cfg.S3, logger), logger)
	defer promos.Close()

	// Initialize services
	authService := service.NewAuthService(txBeginner, userRepo, cartRepo, orderRepo, tokens, blacklist, logger)
	productService := service.NewProductService(txBeginner, productRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, logger)
	settingService := service.NewSettingService(settingRepo, logger)
	cartService := service.NewCartService(txBeginner, cartRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(txBeginner, cartRepo, productRepo, orderRepo, userRepo, settingService, promos, logger)
	orderService := service.NewOrderService(txBeginner, orderRepo, productRepo, logger)
	hotelService := service.NewHotelService(hotelRepo, logger)
	bookingService := service.NewBookingService(txBeginner, hotelRepo, orderRepo, userRepo, logger)
	addressService := service.NewAddressService(txBeginner, addressRepo, logger)
	editorialService := service.NewEditorialService(editorialRepo, logger)
	galleryService := service.NewGalleryService(galleryRepo, logger)

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Products: handler.NewProductHandler(productService, logger),
		Category: handler.NewCategoryHandler(categoryService, logger),
		Cart:     handler.NewCartHandler(cartService, checkoutService, logger),
		Orders:   handler.NewOrderHandler(orderService, logger),
		Address:  handler.NewAddressHandler(addressService, logger),
		Hotels:   handler.NewHotelHandler(hotelService, bookingService, logger),
		Content:  handler.NewContentHandler(editorialService, galleryService, settingService, logger),
	}, tokens, blacklist, pool, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

func migrateUp(connString string, logger zerolog.Logger) error {
	m, err := database.NewMigrator(connString, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// newBlacklist uses Redis when enabled and reachable, else process memory.
func newBlacklist(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) auth.TokenBlacklist {
	if !cfg.Enabled {
		logger.Info().Msg("using in-memory token blacklist (Redis disabled)")
		return auth.NewMemoryBlacklist()
	}

	blacklist, err := auth.NewRedisBlacklist(ctx, cfg, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to connect to Redis, falling back to in-memory token blacklist")
		return auth.NewMemoryBlacklist()
	}
	return blacklist
}

// newPromoLoader prefers S3 objects under the configured prefix and falls
// back to the local file system.
func newPromoLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) promo.Loader {
	fileLoader := promo.NewFileLoader(logger)
	if !cfg.Enabled {
		logger.Info().Msg("using local file system for promo catalogs (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := promo.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}
	return promo.NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, logger)
}
