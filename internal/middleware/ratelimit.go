package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sondea/sondea-backend/internal/response"
)

// RateLimiter is a per-IP token bucket. It guards the auth endpoints
// against credential stuffing; the respondent surface is left unthrottled
// so shared QR codes at a busy location do not lock each other out.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	burst   int
	window  time.Duration
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

// NewRateLimiter allows burst requests per window per client IP.
func NewRateLimiter(burst int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		burst:   burst,
		window:  window,
	}

	go func() {
		for range time.Tick(time.Minute) {
			rl.evictIdle()
		}
	}()

	return rl
}

// Middleware returns the Gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		b, ok := rl.buckets[ip]
		if !ok {
			b = &bucket{tokens: rl.burst, lastSeen: time.Now()}
			rl.buckets[ip] = b
		}

		// Refill whole windows elapsed since the last request.
		if windows := int(time.Since(b.lastSeen) / rl.window); windows > 0 {
			b.tokens += windows * rl.burst
			if b.tokens > rl.burst {
				b.tokens = rl.burst
			}
			b.lastSeen = time.Now()
		}

		if b.tokens <= 0 {
			rl.mu.Unlock()
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		b.tokens--
		rl.mu.Unlock()
		c.Next()
	}
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.buckets {
		if time.Since(b.lastSeen) > 3*time.Minute {
			delete(rl.buckets, ip)
		}
	}
}
