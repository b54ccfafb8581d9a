package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhnx/txtriage/internal/core/domain"
)

// Cache wraps Redis operations for the diagnosis cache. Identical error
// text produces identical narratives, so repeated failures skip the
// inference round-trips entirely.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Config holds Redis connection configuration.
type Config struct {
	URL          string        `yaml:"url"`
	Password     string        `yaml:"password"`
	DiagnosisTTL time.Duration `yaml:"diagnosis_ttl"`
}

// NewCache creates a new Redis-backed diagnosis cache.
func NewCache(cfg Config) (*Cache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.DiagnosisTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return &Cache{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Health checks if Redis is reachable.
func (c *Cache) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// DiagnosisKey derives the cache key for a piece of error text.
func DiagnosisKey(errorText string) string {
	sum := sha256.Sum256([]byte(errorText))
	return fmt.Sprintf("diagnosis:%s", hex.EncodeToString(sum[:]))
}

// GetDiagnosis returns the cached diagnosis for the error text, or nil
// when absent.
func (c *Cache) GetDiagnosis(ctx context.Context, errorText string) (*domain.Diagnosis, error) {
	val, err := c.rdb.Get(ctx, DiagnosisKey(errorText)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get failed: %w", err)
	}

	var d domain.Diagnosis
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		return nil, fmt.Errorf("invalid cached diagnosis: %w", err)
	}
	return &d, nil
}

// SetDiagnosis stores a diagnosis under the error text's key with the
// configured TTL.
func (c *Cache) SetDiagnosis(ctx context.Context, errorText string, d *domain.Diagnosis) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode diagnosis: %w", err)
	}
	if err := c.rdb.Set(ctx, DiagnosisKey(errorText), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set failed: %w", err)
	}
	return nil
}
