package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

type KeyFunc func(r *http.Request) string

// ClientKey identifies the caller: first hop of X-Forwarded-For when the
// deployment fronts the service with a proxy, RemoteAddr otherwise.
func ClientKey(trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// StatsEvent describes one allow/deny decision.
type StatsEvent struct {
	Key     string
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// StatsRecorder receives decisions for counters/dashboards; failures to
// record never affect the request.
type StatsRecorder interface {
	Record(ctx context.Context, ev StatsEvent) error
}

// Middleware rejects callers whose bucket is empty with 429.
func Middleware(store *Store, keyFn KeyFunc, stats StatsRecorder) func(http.Handler) http.Handler {
	if keyFn == nil {
		keyFn = ClientKey(false)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			allowed := store.Allow(key)

			if stats != nil {
				_ = stats.Record(r.Context(), StatsEvent{
					Key:     key,
					Allowed: allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}

			if !allowed {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
