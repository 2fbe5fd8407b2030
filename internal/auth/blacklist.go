package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"staykart/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const blacklistKeyPrefix = "token:blacklist:jti:"

// TokenBlacklist records revoked token ids until they would have expired.
type TokenBlacklist interface {
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	Close() error
}

type redisBlacklist struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisBlacklist connects to Redis and verifies the connection.
func NewRedisBlacklist(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (TokenBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address(), err)
	}

	return NewRedisBlacklistWithClient(client, logger), nil
}

// NewRedisBlacklistWithClient wraps an existing client.
func NewRedisBlacklistWithClient(client *redis.Client, logger zerolog.Logger) TokenBlacklist {
	return &redisBlacklist{
		client: client,
		logger: logger.With().Str("component", "token_blacklist").Logger(),
	}
}

func (b *redisBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistKeyPrefix+jti, "1", ttl).Err(); err != nil {
		b.logger.Error().Err(err).Str("jti", jti).Msg("Failed to blacklist token")
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (b *redisBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

func (b *redisBlacklist) Close() error {
	return b.client.Close()
}

type memoryBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryBlacklist returns a process-local blacklist.
func NewMemoryBlacklist() TokenBlacklist {
	return &memoryBlacklist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (b *memoryBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for k, exp := range b.entries {
		if now.After(exp) {
			delete(b.entries, k)
		}
	}
	b.entries[jti] = now.Add(ttl)
	return nil
}

func (b *memoryBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	exp, ok := b.entries[jti]
	return ok && b.now().Before(exp), nil
}

func (b *memoryBlacklist) Close() error {
	return nil
}

var (
	_ TokenBlacklist = (*redisBlacklist)(nil)
	_ TokenBlacklist = (*memoryBlacklist)(nil)
)
