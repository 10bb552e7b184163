package api

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nerrad567/hydroponics-core/internal/infrastructure/config"
)

const (
	// limiterIdleTTL is how long an idle client keeps its bucket.
	limiterIdleTTL = 5 * time.Minute

	// limiterSweepInterval is how often idle buckets are removed.
	limiterSweepInterval = time.Minute
)

// rateLimiter keeps a token bucket per client IP.
type rateLimiter struct {
	enabled bool
	limit   rate.Limit
	burst   int

	mu      sync.Mutex
	clients map[string]*clientBucket
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(cfg config.RateLimitConfig) *rateLimiter {
	rl := &rateLimiter{
		enabled: cfg.Enabled && cfg.RequestsPerMinute > 0,
		burst:   max(cfg.Burst, 1),
		clients: make(map[string]*clientBucket),
	}
	if rl.enabled {
		rl.limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	return rl
}

// allow takes a token from key's bucket. When none is available it returns
// false and how long until one will be.
func (rl *rateLimiter) allow(key string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	b, ok := rl.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = b
	}
	b.lastSeen = now
	rl.mu.Unlock()

	res := b.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Minute
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep drops idle buckets until ctx is cancelled.
func (rl *rateLimiter) sweep(ctx context.Context) {
	if !rl.enabled {
		return
	}
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *rateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.clients {
		if now.Sub(b.lastSeen) > limiterIdleTTL {
			delete(rl.clients, key)
		}
	}
}

// rateLimitMiddleware rejects clients that exceed their request budget with
// 429 and a Retry-After header. Clients are keyed by the connection's remote
// IP; forwarding headers are not trusted.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	if !s.limiter.enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := s.limiter.allow(clientIP(r), time.Now())
		if !ok {
			s.metrics.rateLimited.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeError(w, http.StatusTooManyRequests, ErrCodeRateLimited, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
