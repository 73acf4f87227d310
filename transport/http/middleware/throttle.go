package middleware

import (
	"net/http"
	"sync"
	"time"

	"studio/transport/http/response"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const throttleIdleTTL = time.Hour

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipThrottle keeps one token bucket per client address.
type ipThrottle struct {
	mu      sync.Mutex
	entries map[string]*throttleEntry
	limit   rate.Limit
	burst   int
}

func newIPThrottle(perMinute, burst int) *ipThrottle {
	if perMinute <= 0 {
		perMinute = 6
	}

	if burst <= 0 {
		burst = perMinute
	}

	return &ipThrottle{
		entries: make(map[string]*throttleEntry),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
	}
}

func (t *ipThrottle) allow(ip string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, entry := range t.entries {
		if now.Sub(entry.lastSeen) > throttleIdleTTL {
			delete(t.entries, key)
		}
	}

	entry, ok := t.entries[ip]
	if !ok {
		entry = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.entries[ip] = entry
	}

	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// AuthThrottle limits the credential endpoints per client IP.
func (a *appMiddleware) AuthThrottle() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.config.App.AuthThrottle.Enable {
				next.ServeHTTP(w, r)

				return
			}

			ip := a.getClientIP(r)

			if !a.throttle.allow(ip, time.Now()) {
				log.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("auth throttle exceeded")

				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
