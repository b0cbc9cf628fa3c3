package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/anhpls/uniflo/config"
)

// Client wraps the Redis connection.
// Used for the parsed-syllabus cache and request rate limiting.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and verifies the connection with a Ping.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── parse result cache ──

const parseCachePrefix = "syllabus:parsed:"

// GetParsedSyllabus returns the cached parse result for a document text
// hash, or ("", false) on a miss.
func (c *Client) GetParsedSyllabus(ctx context.Context, textHash string) (string, bool) {
	v, err := c.rdb.Get(ctx, parseCachePrefix+textHash).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

// SetParsedSyllabus caches a parse result JSON blob under the document
// text hash.
func (c *Client) SetParsedSyllabus(ctx context.Context, textHash, payload string, ttl time.Duration) error {
	return c.rdb.Set(ctx, parseCachePrefix+textHash, payload, ttl).Err()
}

// ── rate limiting ──

// CheckRateLimit implements a sliding window limiter on a sorted set.
// Returns false when the caller has exceeded limit requests in the window.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - window.Nanoseconds()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	count := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now), Member: now})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() < int64(limit), nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
