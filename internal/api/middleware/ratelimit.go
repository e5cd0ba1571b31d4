package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Redis client for storing rate limit data. When nil, or when Redis
	// fails, limits are kept in process memory.
	RedisClient *redis.Client

	// Default rate limits
	DefaultLimit rate.Limit
	DefaultBurst int

	// Endpoint-specific limits keyed by "METHOD:/route/pattern"
	EndpointLimits map[string]EndpointLimit

	Skipper func(c echo.Context) bool
}

// EndpointLimit defines rate limits for specific endpoints
type EndpointLimit struct {
	Limit  rate.Limit
	Burst  int
	Window time.Duration
}

// Requests is the number of requests allowed per window.
func (l EndpointLimit) Requests() int {
	n := int(math.Round(float64(l.Limit) * l.Window.Seconds()))
	return max(n, 1)
}

// Default rate limit configurations
var defaultEndpointLimits = map[string]EndpointLimit{
	// Authentication endpoints - stricter limits
	"POST:/admin/login": {
		Limit:  5.0 / 60.0, // 5 requests per minute
		Burst:  3,
		Window: time.Minute,
	},
	"POST:/admin/register": {
		Limit:  3.0 / 3600.0, // 3 requests per hour
		Burst:  1,
		Window: time.Hour,
	},
	"POST:/admin/password-reset": {
		Limit:  3.0 / 3600.0, // 3 requests per hour
		Burst:  1,
		Window: time.Hour,
	},
	"POST:/admin/password-reset/verify": {
		Limit:  10.0 / 3600.0, // 10 requests per hour
		Burst:  3,
		Window: time.Hour,
	},

	// Contact form - each submission sends a mail
	"POST:/popup": {
		Limit:  5.0 / 600.0, // 5 requests per 10 minutes
		Burst:  2,
		Window: 10 * time.Minute,
	},

	// File upload - stricter limits
	"POST:/api/uploads": {
		Limit:  20.0 / 60.0, // 20 requests per minute
		Burst:  10,
		Window: time.Minute,
	},
}

// DefaultEndpointLimits returns a copy of the built-in endpoint limits.
func DefaultEndpointLimits() map[string]EndpointLimit {
	limits := make(map[string]EndpointLimit, len(defaultEndpointLimits))
	for k, v := range defaultEndpointLimits {
		limits[k] = v
	}
	return limits
}

type rateDecision struct {
	allowed    bool
	remaining  int
	reset      time.Time
	retryAfter int
}

// RateLimiter creates a new rate limiting middleware
func RateLimiter(config RateLimitConfig) echo.MiddlewareFunc {
	// Set default values if not provided
	if config.DefaultLimit == 0 {
		config.DefaultLimit = 100.0 / 60.0 // 100 requests per minute
	}
	if config.DefaultBurst == 0 {
		config.DefaultBurst = 50
	}
	if config.EndpointLimits == nil {
		config.EndpointLimits = defaultEndpointLimits
	}

	log := logger.New("RATELIMIT")
	local := newLocalLimiter()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper != nil && config.Skipper(c) {
				return next(c)
			}

			clientID := getClientID(c)
			endpointKey := getEndpointKey(c)
			limitConfig := getLimitConfig(endpointKey, config)

			var decision rateDecision
			var err error
			if config.RedisClient != nil {
				decision, err = checkRedisLimit(c.Request().Context(), config.RedisClient, clientID, endpointKey, limitConfig)
				if err != nil {
					log.Warn("Redis rate limit check failed, using in-memory limiter: %v", err)
				}
			}
			if config.RedisClient == nil || err != nil {
				decision = local.check(clientID+"|"+endpointKey, limitConfig)
			}

			setRateLimitHeaders(c, limitConfig, decision.remaining, decision.reset)

			if !decision.allowed {
				c.Response().Header().Set("Retry-After", strconv.Itoa(decision.retryAfter))
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":       "Rate limit exceeded. Try again later.",
					"retry_after": decision.retryAfter,
				})
			}

			return next(c)
		}
	}
}

// getClientID returns a unique identifier for the client
func getClientID(c echo.Context) string {
	if userID := GetUserID(c); userID != "" {
		return fmt.Sprintf("user:%s", userID)
	}
	return fmt.Sprintf("ip:%s", utils.GetIPAddress(c.Request()))
}

// getEndpointKey groups requests by route pattern so /api/blogs/:slug counts
// as one endpoint.
func getEndpointKey(c echo.Context) string {
	path := c.Path()
	if path == "" {
		path = c.Request().URL.Path
	}
	return fmt.Sprintf("%s:%s", c.Request().Method, path)
}

// getLimitConfig returns the rate limit configuration for an endpoint
func getLimitConfig(endpointKey string, config RateLimitConfig) EndpointLimit {
	if limit, exists := config.EndpointLimits[endpointKey]; exists {
		return limit
	}
	return EndpointLimit{
		Limit:  config.DefaultLimit,
		Burst:  config.DefaultBurst,
		Window: time.Minute,
	}
}

// checkRedisLimit counts requests in a fixed window shared by every instance.
func checkRedisLimit(ctx context.Context, client *redis.Client, clientID, endpointKey string, limitConfig EndpointLimit) (rateDecision, error) {
	count, ttl, err := utils.IncrementRateLimit(ctx, client, utils.RateLimitKey(clientID, endpointKey), limitConfig.Window)
	if err != nil {
		return rateDecision{}, err
	}

	limit := limitConfig.Requests()
	reset := time.Now().Add(ttl)
	if count > limit {
		return rateDecision{reset: reset, retryAfter: int(math.Ceil(ttl.Seconds()))}, nil
	}
	return rateDecision{allowed: true, remaining: limit - count, reset: reset}, nil
}

// localLimiter keeps a token bucket per client and endpoint.
type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*localEntry
	lastGC   time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const localIdleTTL = time.Hour

func newLocalLimiter() *localLimiter {
	return &localLimiter{limiters: make(map[string]*localEntry), lastGC: time.Now()}
}

func (l *localLimiter) check(key string, limitConfig EndpointLimit) rateDecision {
	now := time.Now()

	l.mu.Lock()
	if now.Sub(l.lastGC) > localIdleTTL {
		for k, e := range l.limiters {
			if now.Sub(e.lastSeen) > localIdleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastGC = now
	}
	entry, ok := l.limiters[key]
	if !ok {
		entry = &localEntry{limiter: rate.NewLimiter(limitConfig.Limit, max(limitConfig.Burst, 1))}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	reservation := entry.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if !reservation.OK() || delay > 0 {
		reservation.CancelAt(now)
		return rateDecision{reset: now.Add(delay), retryAfter: int(math.Ceil(delay.Seconds()))}
	}

	return rateDecision{
		allowed:   true,
		remaining: int(entry.limiter.TokensAt(now)),
		reset:     now.Add(limitConfig.Window),
	}
}

// setRateLimitHeaders sets rate limit headers in the response
func setRateLimitHeaders(c echo.Context, limitConfig EndpointLimit, remaining int, reset time.Time) {
	c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limitConfig.Requests()))
	c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
	c.Response().Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
}
