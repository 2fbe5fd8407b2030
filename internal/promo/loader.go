package promo

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a loader that reads catalogs from the local disk.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "promo-file-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string) (Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open promo catalog %s: %w", path, err)
	}
	defer file.Close()

	catalog, skipped, err := readCatalog(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("Failed to read promo catalog")
		return nil, fmt.Errorf("promo catalog %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("codes", catalog.Size()).
		Int("skipped_lines", skipped).
		Msg("Promo catalog loaded")

	return catalog, nil
}
