package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimit is a fixed-window counter per scope and client IP.
type RateLimit struct {
	Scope  string
	Limit  int
	Window time.Duration
}

// rateLimitKey buckets by window start so every window gets a fresh key.
func rateLimitKey(scope, ip string, now time.Time, window time.Duration) (string, time.Time) {
	start := now.Truncate(window)
	return fmt.Sprintf("rl:%s:%s:%d", scope, ip, start.Unix()), start.Add(window)
}

// RateLimitMiddleware fails open when redis is unavailable.
func RateLimitMiddleware(rdb *redis.Client, rl RateLimit) fiber.Handler {
	if rl.Window <= 0 {
		rl.Window = time.Minute
	}
	return func(c *fiber.Ctx) error {
		if rdb == nil || rl.Limit <= 0 {
			return c.Next()
		}

		key, reset := rateLimitKey(rl.Scope, c.IP(), time.Now(), rl.Window)

		ctx := c.UserContext()
		var incr *redis.IntCmd
		_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, rl.Window)
			return nil
		})
		if err != nil {
			return c.Next()
		}
		count := incr.Val()

		remaining := int64(rl.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.Limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rl.Limit) {
			retry := int(time.Until(reset).Seconds()) + 1
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}

		return c.Next()
	}
}
