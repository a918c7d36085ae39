package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	h "eventregistration/internal/delivery/http/helpers"
)

// limiterTTL is how long an idle client's limiter is kept.
const limiterTTL = 15 * time.Minute

// RateLimitConfig sets a per-client token bucket. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterStore struct {
	mu        sync.Mutex
	cfg       RateLimitConfig
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterStore(cfg RateLimitConfig, now func() time.Time) *limiterStore {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &limiterStore{
		cfg:       cfg,
		limiters:  make(map[string]*limiterEntry),
		lastSweep: now(),
		now:       now,
	}
}

func (s *limiterStore) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > limiterTTL {
		for k, e := range s.limiters {
			if now.Sub(e.lastSeen) > limiterTTL {
				delete(s.limiters, k)
			}
		}
		s.lastSweep = now
	}

	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(s.cfg.RPS), s.cfg.Burst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// RateLimit returns a wrapper that rejects clients exceeding cfg with 429.
// Clients are keyed by remote IP.
func RateLimit(cfg RateLimitConfig) func(http.HandlerFunc) http.HandlerFunc {
	return rateLimit(cfg, time.Now)
}

func rateLimit(cfg RateLimitConfig, now func() time.Time) func(http.HandlerFunc) http.HandlerFunc {
	if cfg.RPS <= 0 {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	store := newLimiterStore(cfg, now)
	retryAfter := strconv.Itoa(max(1, int(1/cfg.RPS)))
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !store.allow(clientKey(r)) {
				w.Header().Set("Retry-After", retryAfter)
				h.WriteJSONError(w, http.StatusTooManyRequests, "Too many requests, please try again later.")
				return
			}
			next(w, r)
		}
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
