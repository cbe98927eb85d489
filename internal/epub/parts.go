package epub

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Xunop/json2epub/internal/xhtml"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// Names generated by the packager inside the content directory.
const (
	stylesheetName = "stylesheet.css"
	navName        = "nav.xhtml"
	ncxName        = "toc.ncx"
	inlineTOCName  = "toc.xhtml"
	opfName        = "content.opf"
)

var reservedNames = map[string]bool{
	stylesheetName: true,
	navName:        true,
	ncxName:        true,
	inlineTOCName:  true,
	opfName:        true,
}

type metadata struct {
	title       string
	author      string
	lang        string
	identifier  string
	description string
	subjects    []string
	publisher   string
	source      string
	date        string
	modified    time.Time
	tocName     string
}

func (m *metadata) set(key, value string) error {
	value = xhtml.StripInvalidChars(value)
	switch key {
	case MetaTitle:
		m.title = value
	case MetaAuthor:
		m.author = value
	case MetaLang:
		tag, err := language.Parse(value)
		if err != nil {
			return errors.Wrapf(ErrInvalidMetadata, "lang %q: %v", value, err)
		}
		m.lang = tag.String()
	case MetaIdentifier:
		m.identifier = value
	case MetaDescription:
		m.description = value
	case MetaSubject:
		if value != "" {
			m.subjects = append(m.subjects, value)
		}
	case MetaPublisher:
		m.publisher = value
	case MetaSource:
		m.source = value
	case MetaDate:
		m.date = value
	case MetaModified:
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return errors.Wrapf(ErrInvalidMetadata, "modified %q is not an RFC 3339 time", value)
		}
		m.modified = t.UTC()
	case MetaTOCName:
		m.tocName = value
	default:
		return errors.Wrapf(ErrInvalidMetadata, "unknown key %q", key)
	}
	return nil
}

func (m *metadata) language() string {
	if m.lang == "" {
		return defaultLanguage
	}
	return m.lang
}

// identifierOrDefault derives the identifier from the title and author when
// none was set, so that the same book always gets the same identifier.
func (m *metadata) identifierOrDefault() string {
	if m.identifier != "" {
		return m.identifier
	}
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(m.title+"\x00"+m.author)).String()
}

func (m *metadata) tocTitle() string {
	if m.tocName == "" {
		return defaultTOCName
	}
	return m.tocName
}

// zipEpoch is the earliest time a zip header can record. It stands in for
// the modification time when none was given, keeping output reproducible.
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

func (m *metadata) modifiedTime() time.Time {
	if m.modified.IsZero() || m.modified.Before(zipEpoch) {
		return zipEpoch
	}
	return m.modified
}

type resource struct {
	path      string
	data      []byte
	mediaType string
}

// parts holds everything registered with a packager before Generate.
type parts struct {
	meta          metadata
	stylesheet    []byte
	hasStylesheet bool
	resources     []resource
	resourceIndex map[string]int
	contents      []Content
	contentIndex  map[string]int
	inlineTOC     bool
	consumed      bool
}

func newParts() parts {
	return parts{
		resourceIndex: make(map[string]int),
		contentIndex:  make(map[string]int),
	}
}

func (p *parts) Metadata(key, value string) error {
	if p.consumed {
		return ErrConsumed
	}
	return p.meta.set(key, value)
}

func (p *parts) Stylesheet(css []byte) error {
	if p.consumed {
		return ErrConsumed
	}
	p.stylesheet = css
	p.hasStylesheet = true
	return nil
}

func (p *parts) AddResource(name string, data []byte, mediaType string) error {
	if p.consumed {
		return ErrConsumed
	}
	name, err := cleanPath(name)
	if err != nil {
		return err
	}
	if _, ok := p.contentIndex[name]; ok {
		return errors.Wrapf(ErrDuplicatePath, "%s is a content document", name)
	}
	if mediaType == "" {
		return errors.Wrapf(ErrInvalidPath, "%s has no media type", name)
	}

	r := resource{path: name, data: data, mediaType: mediaType}
	if i, ok := p.resourceIndex[name]; ok {
		p.resources[i] = r
		return nil
	}
	p.resourceIndex[name] = len(p.resources)
	p.resources = append(p.resources, r)
	return nil
}

func (p *parts) AddContent(c Content) error {
	if p.consumed {
		return ErrConsumed
	}
	name, err := cleanPath(c.Path)
	if err != nil {
		return err
	}
	if _, ok := p.resourceIndex[name]; ok {
		return errors.Wrapf(ErrDuplicatePath, "%s is a resource", name)
	}
	c.Path = name
	c.Title = xhtml.StripInvalidChars(c.Title)

	// A repeated path overwrites the earlier document in place.
	if i, ok := p.contentIndex[name]; ok {
		p.contents[i] = c
		return nil
	}
	p.contentIndex[name] = len(p.contents)
	p.contents = append(p.contents, c)
	return nil
}

func (p *parts) InlineTOC() {
	p.inlineTOC = true
}

// tocPosition is where the inline table of contents goes in the reading
// order: after the leading cover and title pages.
func (p *parts) tocPosition() int {
	i := 0
	for i < len(p.contents) {
		ref := p.contents[i].RefType
		if ref != ReferenceCover && ref != ReferenceTitlePage {
			break
		}
		i++
	}
	return i
}

// cleanPath validates a path relative to the content directory.
func cleanPath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "\\\x00") || path.IsAbs(name) {
		return "", errors.Wrapf(ErrInvalidPath, "%q", name)
	}
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.Wrapf(ErrInvalidPath, "%q escapes the content directory", name)
	}
	if reservedNames[cleaned] {
		return "", errors.Wrapf(ErrInvalidPath, "%q is generated by the packager", name)
	}
	return cleaned, nil
}

// itemIDs hands out unique manifest ids derived from file names.
type itemIDs map[string]bool

func (ids itemIDs) next(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	var sb strings.Builder
	for i, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9', r == '-':
			if i == 0 {
				sb.WriteByte('x')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	id := sb.String()
	if id == "" {
		id = "item"
	}
	candidate := id
	for n := 2; ids[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", id, n)
	}
	ids[candidate] = true
	return candidate
}
