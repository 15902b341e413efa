package middleware

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	// Global limits (per IP) for all endpoints
	GlobalMax        int
	GlobalExpiration time.Duration

	// Identification limits (per IP): every run costs an external model call
	VisionMax        int
	VisionExpiration time.Duration
}

// DefaultRateLimitConfig returns production-safe defaults
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		// Global: 120/min = 2 req/sec, generous for normal use
		GlobalMax:        120,
		GlobalExpiration: 1 * time.Minute,

		// Identification: 10/min, each call hits the shared classifier key
		VisionMax:        10,
		VisionExpiration: 1 * time.Minute,
	}
}

// LoadRateLimitConfig loads config from environment variables with defaults
func LoadRateLimitConfig() *RateLimitConfig {
	config := DefaultRateLimitConfig()

	if v := os.Getenv("RATE_LIMIT_GLOBAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.GlobalMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_VISION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.VisionMax = n
		}
	}

	return config
}

// GlobalRateLimiter limits all requests per client IP. Health checks and
// metrics scrapes are exempt.
func GlobalRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.GlobalMax,
		Expiration: config.GlobalExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			path := c.Path()
			return path == "/health" || path == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please slow down",
			})
		},
	})
}

// VisionRateLimiter applies the tighter identification limit
func VisionRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.VisionMax,
		Expiration: config.VisionExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Identification rate limit reached, try again shortly",
			})
		},
	})
}
