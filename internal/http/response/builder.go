package response // import "github.com/Xunop/json2epub/internal/http/response"

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/Xunop/json2epub/internal/log"
	"go.uber.org/zap"
)

// Builder generates HTTP responses.
type Builder struct {
	w          http.ResponseWriter
	r          *http.Request
	statusCode int
	headers    map[string]string
	body       []byte
}

// New creates a new response builder.
func New(w http.ResponseWriter, r *http.Request) *Builder {
	return &Builder{w: w, r: r, statusCode: http.StatusOK, headers: make(map[string]string)}
}

// WithStatus uses the given status code to build the response.
func (b *Builder) WithStatus(statusCode int) {
	b.statusCode = statusCode
}

// WithHeader adds the given HTTP header to the response.
func (b *Builder) WithHeader(key, value string) {
	b.headers[key] = value
}

// WithBody uses the given body to build the response.
func (b *Builder) WithBody(body []byte) {
	b.body = body
}

// WithAttachment forces the document to be downloaded by the web browser.
func (b *Builder) WithAttachment(filename string) {
	b.headers["Content-Disposition"] = mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

// Write generates the HTTP response.
func (b *Builder) Write() {
	b.headers["X-Content-Type-Options"] = "nosniff"
	b.headers["X-Frame-Options"] = "DENY"
	if b.body != nil {
		b.headers["Content-Length"] = strconv.Itoa(len(b.body))
	}

	for key, value := range b.headers {
		b.w.Header().Set(key, value)
	}

	b.w.WriteHeader(b.statusCode)
	if b.body == nil {
		return
	}
	if _, err := b.w.Write(b.body); err != nil {
		log.Warn("Unable to write response body",
			zap.String("request.uri", b.r.RequestURI),
			zap.Error(err))
	}
}

// Attachment sends a file to the client.
func Attachment(w http.ResponseWriter, r *http.Request, filename, contentType string, data []byte) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", contentType)
	builder.WithAttachment(filename)
	builder.WithBody(data)
	builder.Write()
}

// Text sends a plain text response.
func Text(w http.ResponseWriter, r *http.Request, body string) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", "text/plain; charset=utf-8")
	builder.WithBody([]byte(body))
	builder.Write()
}
