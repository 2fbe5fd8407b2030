package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type mapCatalog struct {
	codes map[string]decimal.Decimal
}

// NewCatalog builds an in-memory catalog from code → percent pairs.
func NewCatalog(entries map[string]decimal.Decimal) Catalog {
	c := &mapCatalog{codes: make(map[string]decimal.Decimal, len(entries))}
	for code, pct := range entries {
		c.add(code, pct)
	}
	return c
}

func (c *mapCatalog) Lookup(code string) (decimal.Decimal, bool) {
	pct, ok := c.codes[normalize(code)]
	return pct, ok
}

func (c *mapCatalog) Size() int {
	return len(c.codes)
}

func (c *mapCatalog) add(code string, pct decimal.Decimal) {
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	c.codes[normalize(code)] = pct
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// readCatalog parses a gzip stream of CODE,PERCENT lines. Blank lines,
// comments and lines with a non-positive or unparsable percent are skipped.
func readCatalog(ctx context.Context, r io.Reader) (*mapCatalog, int, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	c := &mapCatalog{codes: make(map[string]decimal.Decimal)}
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	skipped := 0
	for lines := 0; scanner.Scan(); lines++ {
		if lines%100_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		code, rawPct, ok := strings.Cut(line, ",")
		if !ok {
			skipped++
			continue
		}
		pct, err := decimal.NewFromString(strings.TrimSpace(rawPct))
		if err != nil || !pct.IsPositive() || strings.TrimSpace(code) == "" {
			skipped++
			continue
		}
		c.add(code, pct)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read catalog: %w", err)
	}

	return c, skipped, nil
}
