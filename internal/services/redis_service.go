package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const answerCacheTTL = 15 * time.Minute

// RedisService provides the Redis connection and the generated-answer cache.
// The service is optional: when Redis is not configured the server runs
// without answer caching.
type RedisService struct {
	client *redis.Client
}

// NewRedisService connects to Redis and verifies the connection
func NewRedisService(redisURL string) (*RedisService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Redis connection established")
	return &RedisService{client: client}, nil
}

// Close closes the Redis connection
func (r *RedisService) Close() error {
	return r.client.Close()
}

// Ping checks if Redis is healthy
func (r *RedisService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// answerKey hashes the normalized question so arbitrary text never becomes a
// raw Redis key.
func answerKey(question string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(question))))
	return "wildwatch:answer:" + hex.EncodeToString(sum[:])
}

// Get returns a cached answer for the question. Cache errors are treated as
// misses.
func (r *RedisService) Get(ctx context.Context, question string) (string, bool) {
	answer, err := r.client.Get(ctx, answerKey(question)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Answer cache read failed", "error", err)
		}
		return "", false
	}
	return answer, true
}

// Set stores an answer for the question with the cache TTL
func (r *RedisService) Set(ctx context.Context, question, answer string) {
	if err := r.client.Set(ctx, answerKey(question), answer, answerCacheTTL).Err(); err != nil {
		slog.Warn("Answer cache write failed", "error", err)
	}
}
