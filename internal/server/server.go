package server // import "github.com/Xunop/json2epub/internal/server"

import (
	"fmt"
	"net/http"
	"time"

	v1 "github.com/Xunop/json2epub/internal/api/v1"
	"github.com/Xunop/json2epub/internal/config"
	"github.com/Xunop/json2epub/internal/http/response"
	"github.com/Xunop/json2epub/internal/log"
	"github.com/Xunop/json2epub/internal/metrics"
	"github.com/Xunop/json2epub/internal/middleware"
	"github.com/Xunop/json2epub/internal/render"
	"github.com/Xunop/json2epub/internal/version"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// StartServer starts the HTTP server in the background. errc receives the
// error that stopped it, if any.
func StartServer(opts *config.Options, renderer *render.Renderer) (*http.Server, <-chan error) {
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler:           setupHandler(opts, renderer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, startHTTPServer(server)
}

func startHTTPServer(server *http.Server) <-chan error {
	errc := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			errc <- err
		}
		close(errc)
	}()
	return errc
}

func setupHandler(opts *config.Options, renderer *render.Renderer) http.Handler {
	router := mux.NewRouter()

	var limiter *middleware.IPRateLimiter
	if opts.RateLimit > 0 {
		limiter = middleware.NewIPRateLimiter(opts.RateLimit, opts.RateBurst)
	}
	m := middleware.NewMiddleware(limiter)

	apiHandler := v1.NewHandler(renderer, opts.Packager, opts.MaxUploadBytes())
	v1.Server(router, apiHandler, m)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		response.Text(w, r, "OK")
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		response.Text(w, r, version.GetCurrentVersion())
	}).Name("version")

	if opts.MetricsCollector {
		metrics.Register()
		router.Handle("/metrics", promhttp.Handler()).Name("metrics")
	}

	router.NotFoundHandler = http.HandlerFunc(response.NotFound)

	return router
}
