package http

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// CORSMiddleware handles CORS for the storefront chat widget
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if isAllowedOrigin(origin, allowedOrigins) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks if the origin is in the allowed list
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		// Support wildcard suffix matching (e.g. "https://*.myshopify.com" style entries)
		if strings.HasSuffix(allowed, "*") {
			prefix := strings.TrimSuffix(allowed, "*")
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		} else if origin == allowed {
			return true
		}
	}
	return false
}

// RequestIDMiddleware tags every request with an ID for log correlation
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// SyncAuthMiddleware gates the ingestion trigger behind a shared secret,
// accepted as a "secret" query parameter or a bearer token. A mismatch is
// rejected before any work begins.
func SyncAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.Query("secret")
		if provided == "" {
			auth := c.Request.Header.Get("Authorization")
			provided = strings.TrimPrefix(auth, "Bearer ")
		}

		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}

// clientLimiter tracks one caller's token bucket and its last activity
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a per-IP request budget
type RateLimiter struct {
	clients   map[string]*clientLimiter
	mutex     sync.Mutex
	perMinute int
}

// NewRateLimiter creates a per-IP rate limiter allowing perMinute requests
// per client
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		clients:   make(map[string]*clientLimiter),
		perMinute: perMinute,
	}

	// Evict idle clients every few minutes so the map stays bounded
	go rl.cleanupIdle()

	return rl
}

// Middleware returns the gin handler enforcing the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			log.Printf("[HTTP] Rate limit exceeded for %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// allow consumes one token from the caller's bucket
func (rl *RateLimiter) allow(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	client, exists := rl.clients[ip]
	if !exists {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.perMinute),
		}
		rl.clients[ip] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

// cleanupIdle removes clients that have been silent long enough for their
// buckets to be full again
func (rl *RateLimiter) cleanupIdle() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for ip, client := range rl.clients {
			if client.lastSeen.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mutex.Unlock()
	}
}

// LoggerMiddleware logs requests
func LoggerMiddleware() gin.HandlerFunc {
	return gin.Logger()
}

// RecoveryMiddleware converts panics into the generic apology answer with a
// truncated diagnostic reference instead of a bare stack trace
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[HTTP] Panic recovered: %v", recovered)

		ref := "internal error"
		if err, ok := recovered.(error); ok {
			ref = err.Error()
		} else if s, ok := recovered.(string); ok {
			ref = s
		}
		if len(ref) > maxDiagnosticLength {
			ref = ref[:maxDiagnosticLength]
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"ai_understanding": "An error occurred.",
			"advice":           "Sorry, I encountered a problem processing your request. Please try again later. (Ref: " + ref + ")",
		})
	})
}
