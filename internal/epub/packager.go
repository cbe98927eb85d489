// Package epub writes and reads EPUB containers.
//
// Writing goes through a Packager. Builder is the native implementation and
// supports every feature used by the converter; GoEpub delegates to
// github.com/go-shiori/go-epub and drops what that library cannot express.
// Reading is provided by Open and NewReader.
package epub // import "github.com/Xunop/json2epub/internal/epub"

import "io"

// MediaType is the media type of an EPUB container.
const MediaType = mimetype

// ReferenceType is the role of a content document, as used by the EPUB 2
// guide and the EPUB 3 landmarks.
type ReferenceType string

const (
	ReferenceNone      ReferenceType = ""
	ReferenceCover     ReferenceType = "cover"
	ReferenceTitlePage ReferenceType = "title-page"
	ReferenceTOC       ReferenceType = "toc"
	ReferenceText      ReferenceType = "text"
)

// landmark maps a guide type to its epub:type vocabulary term.
func (t ReferenceType) landmark() string {
	switch t {
	case ReferenceTitlePage:
		return "titlepage"
	case ReferenceText:
		return "bodymatter"
	default:
		return string(t)
	}
}

// Content is one XHTML content document of the reading order.
type Content struct {
	// Path is relative to the content directory, e.g. "chapter_1.xhtml".
	Path string
	Data []byte
	// Title is the table of contents label. Untitled content is part of the
	// reading order but not of the table of contents.
	Title   string
	RefType ReferenceType
}

// Metadata keys accepted by Packager.Metadata.
const (
	MetaTitle       = "title"
	MetaAuthor      = "author"
	MetaLang        = "lang"
	MetaIdentifier  = "identifier"
	MetaDescription = "description"
	MetaSubject     = "subject"
	MetaPublisher   = "publisher"
	MetaSource      = "source"
	MetaDate        = "date"
	MetaModified    = "modified"
	MetaTOCName     = "toc_name"
)

// Packager collects the parts of an archive and serialises it once.
type Packager interface {
	// Metadata sets a metadata value. Subject may be given several times;
	// other keys keep the last value.
	Metadata(key, value string) error
	// Stylesheet sets the shared stylesheet, stored as "stylesheet.css".
	Stylesheet(css []byte) error
	// AddResource stores a non-content file such as an extra stylesheet.
	AddResource(path string, data []byte, mediaType string) error
	// AddContent appends a content document to the reading order. Adding a
	// path again replaces the earlier document at its original position.
	AddContent(c Content) error
	// InlineTOC adds a generated table of contents page to the reading
	// order, right after the leading cover and title pages.
	InlineTOC()
	// Generate writes the archive to w. The packager cannot be used again
	// afterwards.
	Generate(w io.Writer) error
}
