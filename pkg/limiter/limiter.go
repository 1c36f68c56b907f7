package limiter

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter defines a token bucket request limiter shared by all requests.
type Limiter struct {
	logger *zap.Logger
	l      *rate.Limiter
}

// New creates a limiter allowing limit requests per second with the given burst.
func New(logger *zap.Logger, limit, burst int) *Limiter {
	return &Limiter{logger: logger, l: rate.NewLimiter(rate.Limit(limit), burst)}
}

// Limit reports whether the current request must be rejected.
func (l *Limiter) Limit() bool {
	allowed := l.l.Allow()
	l.logger.Debug("Rate limit check",
		zap.Bool("allowed", allowed),
		zap.Float64("limit", float64(l.l.Limit())),
		zap.Int("burst", l.l.Burst()),
	)
	return !allowed
}

// Middleware rejects requests with 429 once the limit is exhausted.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if l.Limit() {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests"}` + "\n"))
			return
		}
		next.ServeHTTP(w, req)
	})
}
