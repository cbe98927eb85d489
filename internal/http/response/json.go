package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Xunop/json2epub/internal/http/request"
	"github.com/Xunop/json2epub/internal/log"
	"go.uber.org/zap"
)

const contentTypeHeader = `application/json`

// OK creates a new JSON response with a 200 status code.
func OK(w http.ResponseWriter, r *http.Request, body interface{}) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSON(body))
	builder.Write()
}

// ServerError sends an internal error to the client.
func ServerError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error(http.StatusText(http.StatusInternalServerError),
		zap.Error(err),
		zap.String("client_ip", request.ClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", http.StatusInternalServerError),
	)

	builder := New(w, r)
	builder.WithStatus(http.StatusInternalServerError)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSONError(err))
	builder.Write()
}

// BadRequest sends a bad request error to the client.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	clientError(w, r, http.StatusBadRequest, err)
}

// RequestEntityTooLarge sends an error for a request body over the size
// limit.
func RequestEntityTooLarge(w http.ResponseWriter, r *http.Request, err error) {
	clientError(w, r, http.StatusRequestEntityTooLarge, err)
}

// UnsupportedMediaType sends an error for a request body of the wrong type.
func UnsupportedMediaType(w http.ResponseWriter, r *http.Request, err error) {
	clientError(w, r, http.StatusUnsupportedMediaType, err)
}

// TooManyRequests sends a rate limit error to the client.
func TooManyRequests(w http.ResponseWriter, r *http.Request) {
	clientError(w, r, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
}

// NotFound sends a page not found error to the client.
func NotFound(w http.ResponseWriter, r *http.Request) {
	clientError(w, r, http.StatusNotFound, errors.New("resource not found"))
}

func clientError(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	log.Warn(http.StatusText(statusCode),
		zap.Any("error", err),
		zap.String("client_ip", request.ClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", statusCode),
	)

	builder := New(w, r)
	builder.WithStatus(statusCode)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSONError(err))
	builder.Write()
}

func toJSONError(err error) []byte {
	type errorMsg struct {
		ErrorMessage string `json:"error_message"`
	}

	return toJSON(errorMsg{ErrorMessage: err.Error()})
}

func toJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("Unable to marshal JSON response", zap.Any("error", err))
		return []byte("")
	}

	return b
}
