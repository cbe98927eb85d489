package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FormatError reports input that is not a structurally valid book: bad JSON,
// a field of the wrong type, or a missing required field.
type FormatError struct {
	// Field is the dotted JSON path of the offending field, empty when the
	// document itself is malformed.
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid book document: %v", e.Err)
	}
	return fmt.Sprintf("invalid book document: field %s: %v", e.Field, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

var errMissingField = errors.New("required field is missing")

// The wire types use pointers so that an absent field can be told apart from
// a zero value.
type authorWire struct {
	Name *string `json:"name" validate:"required"`
	Link *string `json:"link" validate:"required"`
}

type metadataWire struct {
	Category   *[]string `json:"category" validate:"required"`
	Rating     *string   `json:"rating" validate:"required"`
	Language   *string   `json:"language"`
	Genre      *string   `json:"genre"`
	Characters *string   `json:"characters"`
	Chapters   *string   `json:"chapters"`
	Words      *string   `json:"words"`
	Status     *string   `json:"status"`
	Reviews    *string   `json:"reviews"`
	Favs       *string   `json:"favs"`
	Follows    *string   `json:"follows"`
}

type chapterWire struct {
	Num      *uint32 `json:"num" validate:"required"`
	Title    *string `json:"title" validate:"required"`
	URL      *string `json:"url" validate:"required"`
	Contents *string `json:"contents" validate:"required"`
	Error    *string `json:"error"`
}

type bookWire struct {
	ID           *string        `json:"id" validate:"required"`
	Source       *string        `json:"source" validate:"required"`
	Title        *string        `json:"title" validate:"required"`
	Blurb        *string        `json:"blurb" validate:"required"`
	Author       *authorWire    `json:"author" validate:"required"`
	Metadata     *metadataWire  `json:"metadata" validate:"required"`
	UpdatedTime  *uint32        `json:"updated_time"`
	CreatedTime  *uint32        `json:"created_time" validate:"required"`
	DownloadTime *uint32        `json:"download_time" validate:"required"`
	Chapters     *[]chapterWire `json:"chapters" validate:"required,dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseBook decodes a JSON book document. Unknown fields are ignored, optional
// fields that are absent or null stay nil, and every other field must be
// present.
func ParseBook(data []byte) (*Book, error) {
	var wire bookWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, toFormatError(err)
	}
	if err := validate.Struct(&wire); err != nil {
		return nil, toFormatError(err)
	}
	return wire.toBook(), nil
}

func toFormatError(err error) *FormatError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &FormatError{
			Field: typeErr.Field,
			Err:   errors.Errorf("cannot use JSON %s as %s", typeErr.Value, typeErr.Type),
		}
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		return &FormatError{
			Field: fieldPath(validationErrs[0].Namespace()),
			Err:   errMissingField,
		}
	}
	return &FormatError{Err: err}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func (w *bookWire) toBook() *Book {
	md := w.Metadata
	category := make([]string, len(*md.Category))
	copy(category, *md.Category)

	chapters := make([]Chapter, 0, len(*w.Chapters))
	for _, c := range *w.Chapters {
		chapters = append(chapters, Chapter{
			Num:      *c.Num,
			Title:    *c.Title,
			URL:      *c.URL,
			Contents: *c.Contents,
			Error:    c.Error,
		})
	}

	return &Book{
		ID:     *w.ID,
		Source: *w.Source,
		Title:  *w.Title,
		Blurb:  *w.Blurb,
		Author: Author{
			Name: *w.Author.Name,
			Link: *w.Author.Link,
		},
		Metadata: Metadata{
			Category:   category,
			Rating:     *md.Rating,
			Language:   md.Language,
			Genre:      md.Genre,
			Characters: md.Characters,
			Chapters:   md.Chapters,
			Words:      md.Words,
			Status:     md.Status,
			Reviews:    md.Reviews,
			Favs:       md.Favs,
			Follows:    md.Follows,
		},
		UpdatedTime:  w.UpdatedTime,
		CreatedTime:  *w.CreatedTime,
		DownloadTime: *w.DownloadTime,
		Chapters:     chapters,
	}
}
