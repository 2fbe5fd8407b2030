package promo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ObjectGetter is the subset of the S3 client used to fetch catalogs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3Loader struct {
	client ObjectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a loader backed by the default AWS credential chain.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return NewS3LoaderWithClient(s3.NewFromConfig(cfg), bucket, logger), nil
}

// NewS3LoaderWithClient wraps an existing client.
func NewS3LoaderWithClient(client ObjectGetter, bucket string, logger zerolog.Logger) Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger.With().Str("component", "promo-s3-loader").Str("bucket", bucket).Logger(),
	}
}

func (l *s3Loader) Load(ctx context.Context, key string) (Catalog, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", l.bucket, key, err)
	}
	defer out.Body.Close()

	catalog, skipped, err := readCatalog(ctx, out.Body)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("Failed to read promo catalog")
		return nil, fmt.Errorf("promo catalog s3://%s/%s: %w", l.bucket, key, err)
	}

	l.logger.Info().
		Str("key", key).
		Int("codes", catalog.Size()).
		Int("skipped_lines", skipped).
		Msg("Promo catalog loaded")

	return catalog, nil
}

type fallbackLoader struct {
	primary  Loader
	fallback Loader
	prefix   string
	logger   zerolog.Logger
}

// NewFallbackLoader tries primary with prefix+path first and falls back to
// the unprefixed path on the fallback loader. A nil primary uses the
// fallback only.
func NewFallbackLoader(primary, fallback Loader, prefix string, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		primary:  primary,
		fallback: fallback,
		prefix:   prefix,
		logger:   logger.With().Str("component", "promo-fallback-loader").Logger(),
	}
}

func (l *fallbackLoader) Load(ctx context.Context, path string) (Catalog, error) {
	if l.primary != nil {
		key := l.prefix + path
		catalog, err := l.primary.Load(ctx, key)
		if err == nil {
			return catalog, nil
		}
		l.logger.Warn().Err(err).Str("key", key).Msg("Primary promo source failed, falling back")
	}
	return l.fallback.Load(ctx, path)
}
