package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/upb/rol-control-plane/services/ratelimit"
	"github.com/upb/rol-control-plane/utils"
	"go.uber.org/zap"
)

// RateLimiter decides whether the client behind key may continue
type RateLimiter interface {
	CheckLimit(key string) ratelimit.RateLimitResult
}

// RateLimitMiddleware throttles requests per client address
type RateLimitMiddleware struct {
	limiter RateLimiter
	logger  *zap.Logger
}

// NewRateLimitMiddleware creates a new RateLimitMiddleware
func NewRateLimitMiddleware(limiter RateLimiter, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
	}
}

// Handler answers 429 with Retry-After once the client's bucket is empty.
// It expects chi's RealIP to have run so RemoteAddr is the client address.
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientAddr(r)
		result := m.limiter.CheckLimit(key)
		if !result.Allowed {
			m.logger.Warn("rate limit exceeded",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("client", key),
				zap.String("path", r.URL.Path))
			if result.RetryAfter > 0 {
				seconds := int(math.Ceil(result.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
			}
			_ = utils.WriteTooManyRequests(w, "Too many attempts, try again later", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
