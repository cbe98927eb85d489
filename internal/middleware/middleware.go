package middleware // import "github.com/Xunop/json2epub/internal/middleware"

import (
	"context"
	"net/http"
	"time"

	"github.com/Xunop/json2epub/internal/http/request"
	"github.com/Xunop/json2epub/internal/http/response"
	"github.com/Xunop/json2epub/internal/log"
	"github.com/Xunop/json2epub/internal/metrics"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Middleware struct {
	limiter *IPRateLimiter
}

// NewMiddleware returns the API middleware. A nil limiter disables rate
// limiting.
func NewMiddleware(limiter *IPRateLimiter) *Middleware {
	return &Middleware{limiter: limiter}
}

func (m *Middleware) HandleCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Max-Age", "7200")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoggingRequest stores the client IP in the request context and logs the
// request once it is served.
func (m *Middleware) LoggingRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := request.FindClientIP(r)
		ctx := context.WithValue(r.Context(), request.ClientIPContextKey, clientIP)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		t1 := time.Now()
		defer func() {
			route := r.URL.Path
			if cr := mux.CurrentRoute(r); cr != nil {
				if tmpl, err := cr.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			metrics.IncHTTPRequest(route, rec.status)
			log.Debug("Incoming request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("proto", r.Proto),
				zap.String("client_ip", clientIP),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(t1)))
		}()

		next.ServeHTTP(rec, r.WithContext(ctx))
	})
}

// RateLimit rejects clients that exceed their request rate.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && r.Method != http.MethodOptions && !m.limiter.Allow(request.ClientIP(r)) {
			w.Header().Set("Retry-After", "1")
			response.TooManyRequests(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
