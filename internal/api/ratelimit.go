package api

import (
	"encoding/json"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"portfolio-backend/pkg/api"
)

// RateLimiter applies a fixed-window request limit per client key. Counters
// live in a TTL cache so idle clients cost nothing; the window starts at a
// client's first request and is not extended by later hits.
type RateLimiter struct {
	hits  *ttlcache.Cache[string, *atomic.Int64]
	limit int64
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	hits := ttlcache.New[string, *atomic.Int64](
		ttlcache.WithTTL[string, *atomic.Int64](window),
		ttlcache.WithDisableTouchOnHit[string, *atomic.Int64](),
	)
	go hits.Start()
	return &RateLimiter{hits: hits, limit: int64(limit)}
}

// Close stops the counter expiration loop.
func (l *RateLimiter) Close() {
	l.hits.Stop()
}

// Allow records a hit for the key and reports whether it is within the limit.
func (l *RateLimiter) Allow(key string) bool {
	item, _ := l.hits.GetOrSet(key, &atomic.Int64{})
	return item.Value().Add(1) <= l.limit
}

// Middleware rejects over-limit requests with a JSON error envelope. Requests
// are keyed by client IP: the port is stripped so a reconnecting client does
// not get a fresh window per connection.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientKey(r.RemoteAddr)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(api.Response{
				Kind:   api.KindError,
				Output: "Too many requests. Please wait a moment and try again.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey reduces a remote address to its host part. RealIP may have
// rewritten the address to a bare IP already, in which case it is used as is.
func clientKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
