package middleware

import (
	"fmt"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/utils/cache"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/gofiber/fiber/v2"
)

// Failed login attempts are counted per IP in a 15 minute window and
// trigger progressively longer lockouts.
const attemptWindow = 15 * time.Minute

// BruteForceProtection throttles repeated failed logins using Redis.
type BruteForceProtection struct {
	redisCache *cache.RedisCache
}

func NewBruteForceProtection(redisCache *cache.RedisCache) *BruteForceProtection {
	return &BruteForceProtection{redisCache: redisCache}
}

func attemptKey(ip string) string { return "brute_force:attempts:" + ip }
func lockKey(ip string) string    { return "brute_force:lock:" + ip }

// CheckAndRecordAttempt rejects requests from IPs that are currently
// locked out. Redis failures let the request through so a cache outage
// never blocks logins.
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()

		locked, err := b.redisCache.Exists(c.Context(), lockKey(ip))
		if err != nil || !locked {
			return c.Next()
		}

		retryAfter := 60
		if ttl, err := b.redisCache.TTL(c.Context(), lockKey(ip)); err == nil && ttl > 0 {
			retryAfter = int(ttl.Seconds())
		}

		c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
	}
}

// RecordFailedAttempt counts a failed login and locks the IP once it
// crosses a threshold: 5 attempts lock for 2 minutes, 10 for an hour,
// 25 for a day.
func (b *BruteForceProtection) RecordFailedAttempt(c *fiber.Ctx, ip string) error {
	ctx := c.Context()

	attempts, err := b.redisCache.Increment(ctx, attemptKey(ip))
	if err != nil {
		return nil
	}
	if attempts == 1 {
		b.redisCache.Expire(ctx, attemptKey(ip), attemptWindow)
	}

	var lockDuration time.Duration
	switch {
	case attempts >= 25:
		lockDuration = 24 * time.Hour
	case attempts >= 10:
		lockDuration = time.Hour
	case attempts >= 5:
		lockDuration = 2 * time.Minute
	default:
		return nil
	}

	return b.redisCache.Set(ctx, lockKey(ip), "locked", lockDuration)
}

// RecordSuccessfulAttempt resets the counter and lock for an IP after a
// successful login.
func (b *BruteForceProtection) RecordSuccessfulAttempt(c *fiber.Ctx, ip string) error {
	ctx := c.Context()
	b.redisCache.Delete(ctx, attemptKey(ip))
	b.redisCache.Delete(ctx, lockKey(ip))
	return nil
}
