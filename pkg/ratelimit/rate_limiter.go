package ratelimit

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"venyuk/internal/shared/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type RateLimitType string

const (
	RateLimitTypeDefault         RateLimitType = "default"
	RateLimitTypePublic          RateLimitType = "public"
	RateLimitTypeBooking         RateLimitType = "booking"
	RateLimitTypeBookingCritical RateLimitType = "booking_critical"
	RateLimitTypeAdmin           RateLimitType = "admin"
	RateLimitTypeHealth          RateLimitType = "health"
)

const keyPrefix = "venyuk:ratelimit"

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client    *redis.Client
	config    config.RateLimitConfig
	whitelist []*net.IPNet
	now       func() time.Time

	// token buckets used when no Redis client is configured
	mu        sync.Mutex
	local     map[string]*localBucket
	maxLocal  int
	lastSweep time.Time
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const defaultMaxLocalKeys = 10000

// sliding window over a sorted set scored in milliseconds. Returns
// {allowed, count after this request}.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)
	if current >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {0, current}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)
	return {1, current + 1}
`)

func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	maxLocal := cfg.MaxLocalKeys
	if maxLocal <= 0 {
		maxLocal = defaultMaxLocalKeys
	}
	return &RateLimiter{
		client:    client,
		config:    cfg,
		whitelist: parseWhitelist(cfg.WhitelistedIPs),
		now:       time.Now,
		local:     make(map[string]*localBucket),
		maxLocal:  maxLocal,
	}
}

// parseWhitelist accepts plain IPs and CIDR ranges; anything else is skipped
func parseWhitelist(entries []string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				continue
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		if _, n, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, n)
		}
	}
	return nets
}

// IsAllowed records one request from clientIP against limitType's budget
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.getLimit(limitType)

	if !r.config.Enabled || r.isWhitelisted(clientIP) {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: r.now().Add(r.config.WindowDuration).Unix(),
		}, nil
	}

	key := fmt.Sprintf("%s:%s:%s", keyPrefix, clientIP, limitType)
	if r.client == nil {
		return r.checkLocal(key, limit), nil
	}
	return r.checkLimit(ctx, key, limit)
}

// checkLocal applies a per-process token bucket refilled at limit per window
func (r *RateLimiter) checkLocal(key string, limit int) *Result {
	now := r.now()

	r.mu.Lock()
	if now.Sub(r.lastSweep) >= r.config.WindowDuration {
		r.sweepLocal(now)
	}
	bucket, ok := r.local[key]
	if !ok {
		if len(r.local) >= r.maxLocal {
			r.sweepLocal(now)
		}
		if len(r.local) >= r.maxLocal {
			r.evictOldest()
		}
		every := rate.Inf
		if limit > 0 && r.config.WindowDuration > 0 {
			every = rate.Every(r.config.WindowDuration / time.Duration(limit))
		}
		bucket = &localBucket{limiter: rate.NewLimiter(every, limit)}
		r.local[key] = bucket
	}
	bucket.lastSeen = now
	lim := bucket.limiter
	r.mu.Unlock()

	allowed := lim.AllowN(now, 1)
	remaining := int(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}
}

// sweepLocal drops buckets idle for at least a window. Caller holds r.mu.
func (r *RateLimiter) sweepLocal(now time.Time) {
	for key, bucket := range r.local {
		if now.Sub(bucket.lastSeen) >= r.config.WindowDuration {
			delete(r.local, key)
		}
	}
	r.lastSweep = now
}

// evictOldest drops the least recently seen bucket. Caller holds r.mu.
func (r *RateLimiter) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, bucket := range r.local {
		if oldestKey == "" || bucket.lastSeen.Before(oldest) {
			oldestKey, oldest = key, bucket.lastSeen
		}
	}
	delete(r.local, oldestKey)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int) (*Result, error) {
	now := r.now()
	windowStart := now.Add(-r.config.WindowDuration)

	values, err := slidingWindow.Run(ctx, r.client, []string{key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		r.config.WindowDuration.Milliseconds(),
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected redis response: %v", values)
	}

	remaining := limit - int(values[1])
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   values[0] == 1,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}, nil
}

func (r *RateLimiter) getLimit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return r.config.PublicRequests
	case RateLimitTypeBooking:
		return r.config.BookingRequests
	case RateLimitTypeBookingCritical:
		return r.config.BookingCriticalRequests
	case RateLimitTypeAdmin:
		return r.config.AdminRequests
	case RateLimitTypeHealth:
		return r.config.HealthRequests
	default:
		return r.config.DefaultRequests
	}
}

func (r *RateLimiter) isWhitelisted(clientIP string) bool {
	ip := net.ParseIP(clientIP)
	if ip == nil {
		return false
	}
	for _, n := range r.whitelist {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
