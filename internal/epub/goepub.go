package epub

import (
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/Xunop/json2epub/internal/log"
	"github.com/Xunop/json2epub/internal/xhtml"
	goepub "github.com/go-shiori/go-epub"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
	"go.uber.org/zap"
)

// GoEpub is a Packager backed by github.com/go-shiori/go-epub.
//
// go-epub lays out its own directories and writes its own navigation, so
// reference types, the guide and the landmarks are not written, and content
// documents keep only their body. The modification date is the time of
// generation.
type GoEpub struct {
	parts
}

var _ Packager = (*GoEpub)(nil)

func NewGoEpub() *GoEpub {
	return &GoEpub{parts: newParts()}
}

func (g *GoEpub) Generate(w io.Writer) error {
	if g.consumed {
		return ErrConsumed
	}
	g.consumed = true

	e, err := goepub.NewEpub(g.meta.title)
	if err != nil {
		return errors.Wrap(err, "unable to create epub")
	}
	e.SetAuthor(g.meta.author)
	e.SetLang(g.meta.language())
	e.SetIdentifier(g.meta.identifierOrDefault())
	if g.meta.description != "" {
		e.SetDescription(g.meta.description)
	}

	var cssPath string
	if g.hasStylesheet {
		if cssPath, err = e.AddCSS(dataURL(g.stylesheet, cssMediaType), stylesheetName); err != nil {
			return errors.Wrap(err, "unable to add stylesheet")
		}
	}
	for _, r := range g.resources {
		if err := addMedia(e, r); err != nil {
			return err
		}
	}

	tocAt := -1
	if g.inlineTOC {
		tocAt = g.tocPosition()
	}
	for i := 0; i <= len(g.contents); i++ {
		if i == tocAt {
			if err := g.addInlineTOC(e, cssPath); err != nil {
				return err
			}
		}
		if i == len(g.contents) {
			break
		}
		c := g.contents[i]
		body, err := xhtml.Body(string(c.Data))
		if err != nil {
			return errors.Wrapf(err, "unable to read %s", c.Path)
		}
		if _, err := e.AddSection(body, c.Title, sectionName(c.Path), cssPath); err != nil {
			return errors.Wrapf(err, "unable to add %s", c.Path)
		}
	}
	if dropped := droppedReferenceTypes(g.contents); len(dropped) > 0 {
		log.Warn("go-epub packager drops reference types, the archive has no guide or landmarks",
			zap.Strings("types", dropped),
		)
	}

	n, err := e.WriteTo(w)
	if err != nil {
		return errors.Wrap(err, "unable to write epub")
	}
	log.Debug("Generated epub with go-epub", zap.Int64("bytes", n), zap.Int("sections", len(g.contents)))
	return nil
}

func (g *GoEpub) addInlineTOC(e *goepub.Epub, cssPath string) error {
	page := &navPage{Lang: g.meta.language(), Title: g.meta.tocTitle()}
	for _, c := range g.contents {
		if c.Title != "" {
			page.Entries = append(page.Entries, navLink{Href: sectionName(c.Path), Title: c.Title})
		}
	}
	var buf bytes.Buffer
	if err := navTemplate.Execute(&buf, page); err != nil {
		return errors.Wrap(err, "unable to render table of contents")
	}
	body, err := xhtml.Body(buf.String())
	if err != nil {
		return err
	}
	if _, err := e.AddSection(body, page.Title, inlineTOCName, cssPath); err != nil {
		return errors.Wrap(err, "unable to add table of contents")
	}
	return nil
}

// sectionName flattens a content path, go-epub keeps every section in one
// directory.
func sectionName(p string) string {
	return strings.ReplaceAll(p, "/", "_")
}

func addMedia(e *goepub.Epub, r resource) error {
	src := dataURL(r.data, r.mediaType)
	name := path.Base(r.path)
	var err error
	switch {
	case r.mediaType == cssMediaType:
		_, err = e.AddCSS(src, name)
	case strings.HasPrefix(r.mediaType, "image/"):
		_, err = e.AddImage(src, name)
	case strings.HasPrefix(r.mediaType, "font/"):
		_, err = e.AddFont(src, name)
	default:
		return errors.Wrapf(ErrUnsupported, "%s (%s)", r.path, r.mediaType)
	}
	if err != nil {
		return errors.Wrapf(err, "unable to add %s", r.path)
	}
	return nil
}

// dataURL passes in-memory files to go-epub, which only accepts sources by
// path or URL.
func dataURL(data []byte, mediaType string) string {
	return dataurl.New(data, mediaType).String()
}

// droppedReferenceTypes lists the distinct reference types of contents in
// reading order. go-epub has no way to express them.
func droppedReferenceTypes(contents []Content) []string {
	var types []string
	seen := make(map[ReferenceType]bool)
	for _, c := range contents {
		if c.RefType == ReferenceNone || seen[c.RefType] {
			continue
		}
		seen[c.RefType] = true
		types = append(types, string(c.RefType))
	}
	return types
}
