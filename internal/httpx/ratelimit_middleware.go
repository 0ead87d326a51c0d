package httpx

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"booklist/internal/platform/metrics"
)

type rateLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware keeps one token bucket per client address.
// Counters are local to the process.
type RateLimitMiddleware struct {
	limiters   map[string]*rateLimiter
	mu         sync.Mutex
	rate       rate.Limit
	burst      int
	cleanup    time.Duration
	trustProxy bool
	stop       chan struct{}
	stopOnce   sync.Once
	now        func() time.Time
}

// NewRateLimitMiddleware refills perMinute tokens per client per minute into
// a bucket holding perMinute. A fresh client can spend the full bucket at
// once and then gets one more request every minute/perMinute, so the first
// 60 seconds admit up to 2*perMinute-1 requests; any later minute admits
// perMinute.
func NewRateLimitMiddleware(perMinute int, trustProxy bool) *RateLimitMiddleware {
	rl := &RateLimitMiddleware{
		limiters:   make(map[string]*rateLimiter),
		rate:       rate.Every(time.Minute / time.Duration(perMinute)),
		burst:      perMinute,
		cleanup:    5 * time.Minute,
		trustProxy: trustProxy,
		stop:       make(chan struct{}),
		now:        time.Now,
	}

	go rl.cleanupLimiters()
	return rl
}

// Stop ends the background sweep of idle clients.
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimitMiddleware) cleanupLimiters() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep(time.Now())
		}
	}
}

func (rl *RateLimitMiddleware) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, limiter := range rl.limiters {
		if now.Sub(limiter.lastSeen) > rl.cleanup {
			delete(rl.limiters, key)
		}
	}
}

func (rl *RateLimitMiddleware) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = &rateLimiter{
			limiter:  rate.NewLimiter(rl.rate, rl.burst),
			lastSeen: rl.now(),
		}
		rl.limiters[key] = limiter
	} else {
		limiter.lastSeen = rl.now()
	}

	return limiter.limiter
}

// ClientKey is the address a request is rate limited under.
func (rl *RateLimitMiddleware) ClientKey(r *http.Request) string {
	if rl.trustProxy {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
				return first
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimitMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.ClientKey(r)

		if !rl.getLimiter(key).AllowN(rl.now(), 1) {
			metrics.RateLimitedTotal.WithLabelValues(r.Pattern).Inc()
			zerolog.Ctx(r.Context()).Warn().Str("client", key).Str("path", r.URL.Path).Msg("rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded. Try again later.", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
