package validator

import (
	"errors"
	"net/http"
	"testing"
)

func TestValidateConvertRequest(t *testing.T) {
	tests := map[string]bool{
		"":                                true,
		"application/json":                true,
		"application/json; charset=utf-8": true,
		"text/plain":                      true,
		"multipart/form-data":             false,
		"application/xml":                 false,
		"not a media type;;":              false,
	}
	for contentType, ok := range tests {
		r, err := http.NewRequest(http.MethodPost, "/api/v1/epub", nil)
		if err != nil {
			t.Fatal(err)
		}
		if contentType != "" {
			r.Header.Set("Content-Type", contentType)
		}
		err = ValidateConvertRequest(r)
		if ok && err != nil {
			t.Errorf("%q: unexpected error %v", contentType, err)
		}
		if !ok && !errors.Is(err, ErrUnsupportedMediaType) {
			t.Errorf("%q: expected ErrUnsupportedMediaType, got %v", contentType, err)
		}
	}
	if err := ValidateConvertRequest(nil); err == nil {
		t.Error("expected an error for a nil request")
	}
}
