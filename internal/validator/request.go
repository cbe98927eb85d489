package validator // import "github.com/Xunop/json2epub/internal/validator"

import (
	"mime"
	"net/http"

	"github.com/pkg/errors"
)

var ErrUnsupportedMediaType = errors.New("unsupported media type")

// ValidateConvertRequest checks that a conversion request carries a JSON
// document. A missing Content-Type is accepted.
func ValidateConvertRequest(r *http.Request) error {
	if r == nil {
		return errors.New("request is nil")
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return errors.Wrapf(ErrUnsupportedMediaType, "invalid content type %q", contentType)
	}
	switch mediaType {
	case "application/json", "text/json", "text/plain":
		return nil
	default:
		return errors.Wrapf(ErrUnsupportedMediaType, "%s, expected application/json", mediaType)
	}
}
