package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path"

	"github.com/pkg/errors"
)

// Book is an EPUB container opened for reading.
type Book struct {
	Ncx       Ncx       `json:"ncx"`
	Opf       Opf       `json:"opf"`
	Container Container `json:"container"`
	Mimetype  string    `json:"mimetype"`

	zr     *zip.Reader
	closer io.Closer
}

// Open opens the epub file at name.
func Open(name string) (*Book, error) {
	fd, err := zip.OpenReader(name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", name)
	}
	b, err := load(&fd.Reader)
	if err != nil {
		fd.Close()
		return nil, err
	}
	b.closer = fd
	return b, nil
}

// NewReader reads an epub held in memory.
func NewReader(data []byte) (*Book, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidEPub, err.Error())
	}
	return load(zr)
}

func load(zr *zip.Reader) (*Book, error) {
	b := &Book{zr: zr}
	if len(zr.File) == 0 || zr.File[0].Name != "mimetype" {
		return nil, errors.Wrap(ErrInvalidEPub, "mimetype is not the first entry")
	}
	if zr.File[0].Method != zip.Store {
		return nil, errors.Wrap(ErrInvalidEPub, "mimetype is compressed")
	}
	m, err := b.readBytes("mimetype")
	if err != nil {
		return nil, err
	}
	b.Mimetype = string(m)
	if b.Mimetype != mimetype {
		return nil, errors.Wrapf(ErrInvalidEPub, "mimetype %q", b.Mimetype)
	}

	if err := b.readXML(containerPath, &b.Container); err != nil {
		return nil, err
	}
	if err := b.readXML(b.Container.Rootfile.Fullpath, &b.Opf); err != nil {
		return nil, err
	}
	for _, mf := range b.Opf.Manifest {
		if mf.MediaType == ncxMediaType {
			if err := b.readXML(b.filename(mf.Href), &b.Ncx); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// Close releases the file opened by Open. It is a no-op for NewReader.
func (p *Book) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// Files returns the names of all archive entries in archive order.
func (p *Book) Files() []string {
	files := make([]string, 0, len(p.zr.File))
	for _, f := range p.zr.File {
		files = append(files, f.Name)
	}
	return files
}

// ReadFile returns the content of a file relative to the package document.
func (p *Book) ReadFile(href string) ([]byte, error) {
	return p.readBytes(p.filename(href))
}

func (p *Book) readXML(n string, v any) error {
	rc, err := p.open(n)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return errors.Wrapf(ErrInvalidEPub, "%s: %v", n, err)
	}
	return nil
}

func (p *Book) readBytes(n string) ([]byte, error) {
	rc, err := p.open(n)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *Book) filename(n string) string {
	return path.Join(path.Dir(p.Container.Rootfile.Fullpath), n)
}

func (p *Book) open(n string) (io.ReadCloser, error) {
	for _, f := range p.zr.File {
		if f.Name == n {
			return f.Open()
		}
	}
	return nil, errors.Wrap(ErrFileNotFound, n)
}

func (p *Book) GetTitle() string {
	if len(p.Opf.Metadata.Title) > 0 {
		return p.Opf.Metadata.Title[0]
	}
	return ""
}

func (p *Book) GetAuthor() string {
	for _, author := range p.Opf.Metadata.Creator {
		if author.Role == "aut" || author.Role == "" {
			return author.Data
		}
	}
	return ""
}

func (p *Book) GetLanguage() string {
	if len(p.Opf.Metadata.Language) > 0 {
		return p.Opf.Metadata.Language[0]
	}
	return ""
}

func (p *Book) GetDescription() string {
	if len(p.Opf.Metadata.Description) > 0 {
		return p.Opf.Metadata.Description[0]
	}
	return ""
}

// GetIdentifier returns the identifier named by the package's
// unique-identifier attribute, or the first one.
func (p *Book) GetIdentifier() string {
	for _, id := range p.Opf.Metadata.Identifier {
		if id.ID == p.Opf.UniqueIdentifier {
			return id.Data
		}
	}
	if len(p.Opf.Metadata.Identifier) > 0 {
		return p.Opf.Metadata.Identifier[0].Data
	}
	return ""
}

// SpineHrefs returns the hrefs of the reading order.
func (p *Book) SpineHrefs() []string {
	byID := make(map[string]string, len(p.Opf.Manifest))
	for _, item := range p.Opf.Manifest {
		byID[item.ID] = item.Href
	}
	hrefs := make([]string, 0, len(p.Opf.Spine.ItemRefs))
	for _, ref := range p.Opf.Spine.ItemRefs {
		hrefs = append(hrefs, byID[ref.IDRef])
	}
	return hrefs
}

// GetContent returns the content document at href.
func (p *Book) GetContent(href string) (string, error) {
	for _, m := range p.Opf.Manifest {
		if m.Href == href {
			b, err := p.ReadFile(m.Href)
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
	}
	return "", errors.Wrap(ErrFileNotFound, href)
}
