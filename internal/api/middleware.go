package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/newsroom-cms/api/internal/auth"
	"github.com/newsroom-cms/api/internal/policy"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString(requestIDKey)).
					Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// requestIDMiddleware propagates or generates X-Request-ID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authenticate verifies the bearer token and stores the actor in the request context
func authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := tokens.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}
		c.Request = c.Request.WithContext(auth.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// requirePermission rejects actors the policy does not allow to perform action
func requirePermission(action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := auth.ActorFrom(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		if err := policy.Authorize(action, actor); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "access denied"})
			return
		}
		c.Next()
	}
}

// ipRateLimiter keeps one token bucket per client IP
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterInfo
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	lastGC   time.Time
}

type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

func newIPRateLimiter(perMinute, burst int) *ipRateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 1
	}
	return &ipRateLimiter{
		limiters: make(map[string]*limiterInfo),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		ttl:      10 * time.Minute,
		lastGC:   time.Now(),
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastGC) > l.ttl {
		for key, info := range l.limiters {
			if now.Sub(info.lastAccessed) > l.ttl {
				delete(l.limiters, key)
			}
		}
		l.lastGC = now
	}

	info, ok := l.limiters[ip]
	if !ok {
		info = &limiterInfo{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = info
	}
	info.lastAccessed = now
	return info.limiter.Allow()
}

// rateLimitMiddleware answers 429 once a client IP exhausts its bucket
func rateLimitMiddleware(limiter *ipRateLimiter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if parsed := net.ParseIP(ip); parsed == nil {
			ip = c.Request.RemoteAddr
		}
		if !limiter.allow(ip) {
			log.Warn().Str("client_ip", ip).Str("path", c.Request.URL.Path).Msg("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}
