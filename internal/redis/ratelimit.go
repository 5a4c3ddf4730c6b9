package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key patterns:
// - ratelimit:{user_id}:api  - per-minute authenticated request limit
// - ratelimit:{ip}:auth      - per-minute auth attempts

// RateLimitConfig contains configuration for rate limiting
type RateLimitConfig struct {
	RequestLimit  int           // Max API requests per window
	RequestWindow time.Duration // API rate limit window
	AuthLimit     int           // Max auth attempts per window
	AuthWindow    time.Duration // Auth rate limit window
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestLimit:  120,
		RequestWindow: 60 * time.Second,
		AuthLimit:     5,
		AuthWindow:    60 * time.Second,
	}
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
	Limit     int
}

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, config: config}
}

// AllowRequest checks if an authenticated user may issue another API request.
func (r *RateLimiter) AllowRequest(ctx context.Context, userID string) (*RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:%s:api", userID)
	return r.checkLimit(ctx, key, r.config.RequestLimit, r.config.RequestWindow)
}

// AllowAuth checks if an IP can make an auth attempt
func (r *RateLimiter) AllowAuth(ctx context.Context, ip string) (*RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:%s:auth", ip)
	return r.checkLimit(ctx, key, r.config.AuthLimit, r.config.AuthWindow)
}

var limitScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = redis.call('INCR', key)
	if current == 1 then
		redis.call('PEXPIRE', key, window)
	end
	local ttl = redis.call('PTTL', key)
	return {current, ttl}
`)

// checkLimit performs an atomic fixed-window increment and check.
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	res, err := limitScript.Run(ctx, r.client, []string{key},
		limit, window.Milliseconds()).Slice()
	if err != nil {
		return nil, err
	}

	current, _ := res[0].(int64)
	ttlMs, _ := res[1].(int64)

	result := &RateLimitResult{
		Allowed:   current <= int64(limit),
		Remaining: limit - int(current),
		ResetIn:   time.Duration(ttlMs) * time.Millisecond,
		Limit:     limit,
	}
	if result.Remaining < 0 {
		result.Remaining = 0
	}
	return result, nil
}
