package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Xunop/json2epub/internal/http/request"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "limits are per client")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))

	now = now.Add(time.Hour)
	l.Allow("10.0.0.3")
	assert.Len(t, l.entries, 1, "idle clients are forgotten")
}

func TestIPRateLimiterSweepsOncePerTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	swept := l.lastSweep
	assert.Equal(t, now, swept)

	now = now.Add(10 * time.Minute)
	l.Allow("10.0.0.2")
	assert.Equal(t, swept, l.lastSweep, "no sweep before the idle TTL has passed")
	assert.Len(t, l.entries, 2)

	now = now.Add(10 * time.Minute)
	l.Allow("10.0.0.3")
	assert.Equal(t, now, l.lastSweep)
	assert.Len(t, l.entries, 2, "10.0.0.1 has been idle for 20 minutes")
	assert.NotContains(t, l.entries, "10.0.0.1")
}

func newRouter(m *Middleware) *mux.Router {
	router := mux.NewRouter()
	router.Use(m.HandleCORS)
	router.Use(m.LoggingRequest)
	router.Use(m.RateLimit)
	router.HandleFunc("/ip", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(request.ClientIP(r)))
	}).Methods(http.MethodGet, http.MethodOptions)
	return router
}

func TestMiddleware(t *testing.T) {
	router := newRouter(NewMiddleware(NewIPRateLimiter(0, 1)))

	get := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/ip", nil)
		r.RemoteAddr = "192.0.2.10:5555"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		return w
	}

	w := get()
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "192.0.2.10", w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = get()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	r := httptest.NewRequest(http.MethodOptions, "/ip", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7200", w.Header().Get("Access-Control-Max-Age"))
}

func TestMiddlewareWithoutLimiter(t *testing.T) {
	router := newRouter(NewMiddleware(nil))
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ip", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
