package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type bucket struct {
	count int
	until time.Time
}

type limiter struct {
	limit     int
	per       time.Duration
	now       func() time.Time
	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

// RateLimit allows limit requests per client in each fixed window. Clients
// are keyed on RemoteAddr, so mount it after chi's RealIP when running behind
// a trusted proxy. Non-positive limits disable the middleware.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	return rateLimit(limit, per, time.Now)
}

func rateLimit(limit int, per time.Duration, now func() time.Time) func(http.Handler) http.Handler {
	l := &limiter{limit: limit, per: per, now: now, buckets: make(map[string]*bucket)}
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if retry, ok := l.allow(clientKey(r)); !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{
						"code":    "rate_limited",
						"message": "too many requests, retry in " + strconv.Itoa(retry) + "s",
					},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// allow counts one request for key and reports the seconds to wait when the
// window is exhausted.
func (l *limiter) allow(key string) (int, bool) {
	t := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if !t.Before(l.nextSweep) {
		for k, b := range l.buckets {
			if t.After(b.until) {
				delete(l.buckets, k)
			}
		}
		l.nextSweep = t.Add(l.per)
	}

	b, ok := l.buckets[key]
	if !ok || t.After(b.until) {
		b = &bucket{until: t.Add(l.per)}
		l.buckets[key] = b
	}
	if b.count >= l.limit {
		return int(b.until.Sub(t).Seconds()) + 1, false
	}
	b.count++
	return 0, true
}

func (l *limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
