package v1

import (
	"bytes"
	"io"
	"net/http"

	"github.com/Xunop/json2epub/internal/convert"
	"github.com/Xunop/json2epub/internal/http/request"
	"github.com/Xunop/json2epub/internal/http/response"
	"github.com/Xunop/json2epub/internal/log"
	"github.com/Xunop/json2epub/internal/validator"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// createEpub converts the book document in the request body and sends the
// archive back as an attachment.
func (h *Handler) createEpub(w http.ResponseWriter, r *http.Request) {
	if err := validator.ValidateConvertRequest(r); err != nil {
		response.UnsupportedMediaType(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.RequestEntityTooLarge(w, r, errors.Errorf("book document exceeds %s", humanize.IBytes(uint64(maxErr.Limit))))
			return
		}
		response.BadRequest(w, r, errors.Wrap(err, "unable to read request body"))
		return
	}

	var buf bytes.Buffer
	book, err := convert.Convert(body, &buf, h.convertOptions()...)
	if err != nil {
		if convert.KindOf(err) == convert.KindParse {
			response.BadRequest(w, r, err)
			return
		}
		response.ServerError(w, r, err)
		return
	}

	blob := convert.NewBlob(buf.Bytes())
	log.Info("Converted book",
		zap.String("client_ip", request.ClientIP(r)),
		zap.String("title", book.Title),
		zap.Int("chapters", len(book.Chapters)),
		zap.String("size", humanize.Bytes(uint64(blob.Size()))),
	)
	response.Attachment(w, r, convert.FileName(book.Title), blob.ContentType, blob.Data)
}
