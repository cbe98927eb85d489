package v1 // import "github.com/Xunop/json2epub/internal/api/v1"

import (
	"net/http"

	"github.com/Xunop/json2epub/internal/convert"
	"github.com/Xunop/json2epub/internal/middleware"
	"github.com/Xunop/json2epub/internal/render"
	"github.com/gorilla/mux"
)

type Handler struct {
	renderer *render.Renderer
	packager string
	// maxUploadBytes limits the size of a book document
	maxUploadBytes int64
}

// NewHandler is a constructor for the v1.Handler
func NewHandler(renderer *render.Renderer, packager string, maxUploadBytes int64) *Handler {
	return &Handler{
		renderer:       renderer,
		packager:       packager,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) convertOptions() []convert.Option {
	opts := []convert.Option{convert.WithPackager(h.packager)}
	if h.renderer != nil {
		opts = append(opts, convert.WithRenderer(h.renderer))
	}
	return opts
}

// Server registers the API routes under /api/v1.
func Server(router *mux.Router, handler *Handler, m *middleware.Middleware) {
	sr := router.PathPrefix("/api/v1").Subrouter()
	sr.Use(m.HandleCORS)
	sr.Use(m.LoggingRequest)
	sr.Use(m.RateLimit)

	sr.HandleFunc("/epub", handler.createEpub).Methods(http.MethodPost, http.MethodOptions)
}
