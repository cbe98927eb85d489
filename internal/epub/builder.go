package epub

import (
	"archive/zip"
	"bytes"
	"embed"
	"encoding/xml"
	"html/template"
	"io"
	"path"
	"strconv"
	"time"

	"github.com/Xunop/json2epub/internal/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:embed templates/nav.xhtml.tmpl
var navFS embed.FS

var navTemplate = template.Must(template.ParseFS(navFS, "templates/nav.xhtml.tmpl"))

// Builder is the native Packager. It writes an EPUB 3 container that also
// carries an EPUB 2 NCX and guide for older reading systems.
type Builder struct {
	parts
}

var _ Packager = (*Builder)(nil)

func NewBuilder() *Builder {
	return &Builder{parts: newParts()}
}

// spineEntry is one document of the reading order.
type spineEntry struct {
	id      string
	href    string
	title   string
	refType ReferenceType
	data    []byte
}

type navLink struct {
	Href  string
	Title string
	Type  string
}

type navPage struct {
	Lang       string
	Title      string
	Stylesheet string
	Entries    []navLink
	Landmarks  []navLink
}

// layout is the computed structure of the archive.
type layout struct {
	identifier string
	spine      []spineEntry
	manifest   []Item
	entries    []navLink
	landmarks  []navLink
	guide      []Reference
}

func (b *Builder) layout() *layout {
	l := &layout{identifier: b.meta.identifierOrDefault()}
	ids := itemIDs{"ncx": true, "nav": true, "stylesheet": true, "toc": true}

	tocAt := -1
	if b.inlineTOC {
		tocAt = b.tocPosition()
	}
	for i := 0; i <= len(b.contents); i++ {
		if i == tocAt {
			l.spine = append(l.spine, spineEntry{
				id:      "toc",
				href:    inlineTOCName,
				title:   b.meta.tocTitle(),
				refType: ReferenceTOC,
			})
		}
		if i == len(b.contents) {
			break
		}
		c := b.contents[i]
		l.spine = append(l.spine, spineEntry{
			id:      ids.next(c.Path),
			href:    c.Path,
			title:   c.Title,
			refType: c.RefType,
			data:    c.Data,
		})
	}

	l.manifest = append(l.manifest,
		Item{ID: "ncx", Href: ncxName, MediaType: ncxMediaType},
		Item{ID: "nav", Href: navName, MediaType: xhtmlMediaType, Properties: "nav"},
	)
	if b.hasStylesheet {
		l.manifest = append(l.manifest, Item{ID: "stylesheet", Href: stylesheetName, MediaType: cssMediaType})
	}
	for _, r := range b.resources {
		l.manifest = append(l.manifest, Item{ID: ids.next(r.path), Href: r.path, MediaType: r.mediaType})
	}

	seenRef := make(map[ReferenceType]bool)
	for _, s := range l.spine {
		l.manifest = append(l.manifest, Item{ID: s.id, Href: s.href, MediaType: xhtmlMediaType})
		if s.title != "" && s.refType != ReferenceTOC {
			l.entries = append(l.entries, navLink{Href: s.href, Title: s.title})
		}
		if s.refType != ReferenceNone && !seenRef[s.refType] {
			seenRef[s.refType] = true
			title := s.title
			if title == "" {
				title = string(s.refType)
			}
			l.landmarks = append(l.landmarks, navLink{Href: s.href, Title: title, Type: s.refType.landmark()})
			l.guide = append(l.guide, Reference{Type: string(s.refType), Title: title, Href: s.href})
		}
	}
	return l
}

// Generate writes the archive. Entries are written in a fixed order with
// fixed timestamps, so equal input gives byte-identical archives.
func (b *Builder) Generate(w io.Writer) error {
	if b.consumed {
		return ErrConsumed
	}
	b.consumed = true

	l := b.layout()
	aw := &archiveWriter{zw: zip.NewWriter(w), modified: b.meta.modifiedTime()}

	aw.store("mimetype", []byte(mimetype))
	aw.xml(containerPath, &Container{
		Version:  "1.0",
		Rootfile: Rootfile{Fullpath: packagePath, Type: packageMediaType},
	})
	aw.xml(packagePath, b.packageDocument(l))
	aw.xml(path.Join(contentDir, ncxName), b.ncxDocument(l))
	aw.nav(path.Join(contentDir, navName), b.navPage(l, true))
	if b.hasStylesheet {
		aw.deflate(path.Join(contentDir, stylesheetName), b.stylesheet)
	}
	for _, r := range b.resources {
		aw.deflate(path.Join(contentDir, r.path), r.data)
	}
	for _, s := range l.spine {
		if s.refType == ReferenceTOC && s.href == inlineTOCName {
			aw.nav(path.Join(contentDir, inlineTOCName), b.navPage(l, false))
			continue
		}
		aw.deflate(path.Join(contentDir, s.href), s.data)
	}
	if aw.err != nil {
		return aw.err
	}
	if err := aw.zw.Close(); err != nil {
		return errors.Wrap(err, "unable to finish archive")
	}

	log.Debug("Generated epub",
		zap.String("identifier", l.identifier),
		zap.Int("spine", len(l.spine)),
		zap.Int("resources", len(b.resources)),
	)
	return nil
}

func (b *Builder) packageDocument(l *layout) *opfPackage {
	md := opfMetadataOut{
		XmlnsDC:     dcNS,
		XmlnsOPF:    opfNS,
		Identifier:  identifierOut{ID: "pub-id", Data: l.identifier},
		Title:       b.meta.title,
		Language:    b.meta.language(),
		Description: b.meta.description,
		Subject:     b.meta.subjects,
		Publisher:   b.meta.publisher,
		Source:      b.meta.source,
		Date:        b.meta.date,
		Meta: []metaOut{
			{Property: "dcterms:modified", Data: b.meta.modifiedTime().Format(modifiedTimeStamp)},
			{Name: "generator", Content: generatorName},
		},
	}
	if b.meta.author != "" {
		md.Creator = []creatorOut{{ID: "creator", Data: b.meta.author}}
		md.Meta = append(md.Meta, metaOut{Refines: "#creator", Property: "role", Data: "aut"})
	}

	spine := spineOut{Toc: "ncx"}
	for _, s := range l.spine {
		spine.ItemRefs = append(spine.ItemRefs, itemRefOut{IDRef: s.id})
	}

	return &opfPackage{
		Xmlns:            opfNS,
		Version:          "3.0",
		UniqueIdentifier: "pub-id",
		Lang:             b.meta.language(),
		Metadata:         md,
		Manifest:         l.manifest,
		Spine:            spine,
		Guide:            l.guide,
	}
}

func (b *Builder) ncxDocument(l *layout) *ncxDocument {
	doc := &ncxDocument{
		Xmlns:   ncxNS,
		Version: "2005-1",
		Head: []metaOut{
			{Name: "dtb:uid", Content: l.identifier},
			{Name: "dtb:depth", Content: "1"},
			{Name: "dtb:totalPageCount", Content: "0"},
			{Name: "dtb:maxPageNumber", Content: "0"},
		},
		Title: b.meta.title,
	}
	for i, e := range l.entries {
		doc.Points = append(doc.Points, Point{
			ID:        "navPoint-" + strconv.Itoa(i+1),
			PlayOrder: i + 1,
			Text:      e.Title,
			Content:   NavContent{Src: e.Href},
		})
	}
	return doc
}

func (b *Builder) navPage(l *layout, withLandmarks bool) *navPage {
	page := &navPage{
		Lang:    b.meta.language(),
		Title:   b.meta.tocTitle(),
		Entries: l.entries,
	}
	if b.hasStylesheet {
		page.Stylesheet = stylesheetName
	}
	if withLandmarks {
		page.Landmarks = l.landmarks
	}
	return page
}

// archiveWriter keeps the first error so that Generate can write entries
// without checking each one.
type archiveWriter struct {
	zw       *zip.Writer
	modified time.Time
	err      error
}

func (a *archiveWriter) write(name string, method uint16, data []byte) {
	if a.err != nil {
		return
	}
	fw, err := a.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: a.modified,
	})
	if err != nil {
		a.err = errors.Wrapf(err, "unable to add %s", name)
		return
	}
	if _, err := fw.Write(data); err != nil {
		a.err = errors.Wrapf(err, "unable to write %s", name)
	}
}

// store writes an uncompressed entry, as the mimetype file must be.
func (a *archiveWriter) store(name string, data []byte) {
	a.write(name, zip.Store, data)
}

func (a *archiveWriter) deflate(name string, data []byte) {
	a.write(name, zip.Deflate, data)
}

func (a *archiveWriter) xml(name string, v any) {
	if a.err != nil {
		return
	}
	data, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		a.err = errors.Wrapf(err, "unable to encode %s", name)
		return
	}
	a.deflate(name, append([]byte(xml.Header), data...))
}

func (a *archiveWriter) nav(name string, page *navPage) {
	if a.err != nil {
		return
	}
	var buf bytes.Buffer
	if err := navTemplate.Execute(&buf, page); err != nil {
		a.err = errors.Wrapf(err, "unable to render %s", name)
		return
	}
	a.deflate(name, buf.Bytes())
}
