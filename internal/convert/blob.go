package convert

import (
	"bytes"
	"io"
	"strings"
	"unicode"

	"github.com/Xunop/json2epub/internal/epub"
)

// Blob is a finished archive together with its media type, for hosts that
// hand out whole files rather than streams.
type Blob struct {
	Data        []byte
	ContentType string
}

func NewBlob(buf []byte) *Blob {
	return &Blob{Data: buf, ContentType: epub.MediaType}
}

func (b *Blob) Size() int {
	return len(b.Data)
}

func (b *Blob) Reader() io.Reader {
	return bytes.NewReader(b.Data)
}

// FileName derives a portable archive file name from a book title.
func FileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "book"
	}
	return name + ".epub"
}
