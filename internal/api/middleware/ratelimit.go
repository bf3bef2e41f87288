package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/platform/ratelimit"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// FailClosed rejects requests with 503 when the limiter backend errors.
	// By default such requests are let through.
	FailClosed bool
	// KeyFunc picks the bucket for a request. Defaults to ClientIP.
	KeyFunc func(*http.Request) string
	// Now is used for the reset header. Defaults to time.Now.
	Now func() time.Time
}

// ClientIP returns the host part of r.RemoteAddr. Forwarding headers are
// ignored here; run chi's RealIP first only when a trusted proxy sets them.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit admits at most cfg.Limit requests per cfg.Window for each key
// and reports the budget in RateLimit-* headers.
func RateLimit(limiter ratelimit.Limiter, cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := limiter.Allow(r.Context(), cfg.KeyFunc(r), cfg.Limit, cfg.Window)
			if err != nil {
				if cfg.FailClosed {
					shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
						"Service temporarily unavailable", err)
					return
				}
				logger.FromContextOrDefault(r.Context(), nil).Warn("rate limiter unavailable, admitting request",
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			reset := int(math.Ceil(decision.ResetAt.Sub(cfg.Now()).Seconds()))
			if reset < 0 {
				reset = 0
			}
			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(decision.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(reset))

			if !decision.Allowed {
				h.Set("Retry-After", strconv.Itoa(reset))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
					"Too many requests from this IP, please try again later.", ratelimit.ErrLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
