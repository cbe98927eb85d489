package response // import "github.com/Xunop/json2epub/internal/http/response"

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseHasCommonHeaders(t *testing.T) {
	r, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		New(w, r).Write()
	})

	handler.ServeHTTP(w, r)
	resp := w.Result()

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}

	for header, expected := range headers {
		actual := resp.Header.Get(header)
		if actual != expected {
			t.Fatalf(`Unexpected header value, got %q instead of %q`, actual, expected)
		}
	}
}

func TestAttachment(t *testing.T) {
	r, err := http.NewRequest("POST", "/api/v1/epub", nil)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	Attachment(w, r, "Ünïcode Title.epub", "application/epub+zip", []byte("PK"))
	resp := w.Result()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf(`Unexpected status code, got %d instead of %d`, resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/epub+zip" {
		t.Errorf(`Unexpected content type, got %q`, ct)
	}
	if cl := resp.Header.Get("Content-Length"); cl != "2" {
		t.Errorf(`Unexpected content length, got %q`, cl)
	}
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil {
		t.Fatal(err)
	}
	if params["filename"] != "Ünïcode Title.epub" {
		t.Errorf(`Unexpected filename, got %q`, params["filename"])
	}
	if w.Body.String() != "PK" {
		t.Errorf(`Unexpected body, got %q`, w.Body.String())
	}
}

func TestJSONErrors(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, *http.Request)
		status int
		msg    string
	}{
		{"bad request", func(w http.ResponseWriter, r *http.Request) { BadRequest(w, r, errors.New("broken")) }, http.StatusBadRequest, "broken"},
		{"server error", func(w http.ResponseWriter, r *http.Request) { ServerError(w, r, errors.New("boom")) }, http.StatusInternalServerError, "boom"},
		{"too large", func(w http.ResponseWriter, r *http.Request) { RequestEntityTooLarge(w, r, errors.New("big")) }, http.StatusRequestEntityTooLarge, "big"},
		{"rate limited", TooManyRequests, http.StatusTooManyRequests, "rate limit exceeded"},
		{"not found", NotFound, http.StatusNotFound, "resource not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := http.NewRequest("GET", "/", nil)
			if err != nil {
				t.Fatal(err)
			}
			w := httptest.NewRecorder()
			tt.write(w, r)

			if w.Code != tt.status {
				t.Fatalf(`Unexpected status code, got %d instead of %d`, w.Code, tt.status)
			}
			if ct := w.Header().Get("Content-Type"); ct != contentTypeHeader {
				t.Errorf(`Unexpected content type, got %q`, ct)
			}
			var body struct {
				ErrorMessage string `json:"error_message"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.ErrorMessage != tt.msg {
				t.Errorf(`Unexpected error message, got %q instead of %q`, body.ErrorMessage, tt.msg)
			}
		})
	}
}
