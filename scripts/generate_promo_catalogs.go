// Command generate_promo_catalogs writes sample promo catalogs for local runs
// and optionally uploads them to S3 under the configured prefix.
//
// promobase1.gz: WELCOME10, SUMMER15, STAYLONGER, ONLYONE111
// promobase2.gz: WELCOME10, SUMMER15, FREESHIP05, ONLYTWO222
// promobase3.gz: WELCOME10, STAYLONGER, FREESHIP05, ONLYTHREE3
//
// With the default PROMO_MIN_MATCH=2 the ONLY* codes are rejected.
package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

var catalogs = map[string]map[string]string{
	"promobase1.gz": {
		"WELCOME10":  "10",
		"SUMMER15":   "15",
		"STAYLONGER": "12.5",
		"ONLYONE111": "50",
	},
	"promobase2.gz": {
		"WELCOME10":  "10",
		"SUMMER15":   "15",
		"FREESHIP05": "5",
		"ONLYTWO222": "50",
	},
	"promobase3.gz": {
		"WELCOME10":  "10",
		"STAYLONGER": "12.5",
		"FREESHIP05": "5",
		"ONLYTHREE3": "50",
	},
}

func main() {
	dir := flag.String("dir", "data/promos", "output directory")
	bucket := flag.String("bucket", "", "upload to this S3 bucket when set")
	prefix := flag.String("prefix", "promos/", "S3 key prefix")
	region := flag.String("region", "us-east-1", "S3 region")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(context.Background(), *dir, *bucket, *prefix, *region, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to generate promo catalogs")
	}
}

func run(ctx context.Context, dir, bucket, prefix, region string, logger zerolog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var client *s3.Client
	if bucket != "" {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		if err != nil {
			return fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		client = s3.NewFromConfig(cfg)
	}

	for name, codes := range catalogs {
		data, err := encodeCatalog(name, codes)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Info().Str("path", path).Int("codes", len(codes)).Msg("Catalog written")

		if client == nil {
			continue
		}
		// The API looks catalogs up as prefix + configured path.
		key := prefix + path
		if _, err := client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/gzip"),
		}); err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
		logger.Info().Str("bucket", bucket).Str("key", key).Msg("Catalog uploaded")
	}
	return nil
}

func encodeCatalog(name string, codes map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(codes))
	for code := range codes {
		keys = append(keys, code)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	fmt.Fprintf(gz, "# %s: CODE,PERCENT\n", name)
	for _, code := range keys {
		if _, err := fmt.Fprintf(gz, "%s,%s\n", code, codes[code]); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", code, err)
		}
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
