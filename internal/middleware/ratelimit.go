package middleware

import (
	"context"
	"fmt"
	"os"
	"time"

	"wiseadvice/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when Redis is unavailable.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed answers 503.
	FailClosed
)

// Named limits for the write-heavy endpoints.
var (
	RegisterLimit      = Limit{Name: "register", Max: 3, Window: 10 * time.Minute}
	LoginLimit         = Limit{Name: "login", Max: 10, Window: 5 * time.Minute}
	PostCreateLimit    = Limit{Name: "post_create", Max: 5, Window: time.Minute}
	CommentCreateLimit = Limit{Name: "comment_create", Max: 10, Window: time.Minute}
)

// Limit is a fixed-window budget for one resource.
type Limit struct {
	Name   string
	Max    int
	Window time.Duration
}

// CheckRateLimit counts one hit against resource for id and reports whether
// it is still within limit. Limiting is disabled for test and development.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	switch env {
	case "test", "development":
		return true, nil
	}

	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimit enforces l per caller, keyed by user id when authenticated and
// by remote IP otherwise. Redis failures fail open.
func RateLimit(rdb *redis.Client, l Limit) fiber.Handler {
	return RateLimitWithPolicy(rdb, l, FailOpen)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(rdb *redis.Client, l Limit, policy FailPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid, ok := UserID(c); ok {
			id = fmt.Sprintf("user:%d", uid)
		} else {
			id = "ip:" + c.IP()
		}

		resource := l.Name
		if resource == "" {
			resource = c.Path()
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, l.Max, l.Window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit unavailable, failing closed",
					"resource", resource, "path", c.Path(), "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
					Error: "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
