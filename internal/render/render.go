// Package render produces the text of every archive entry from the book
// model and a set of named templates.
//
// Templates are parsed once and never modified, so a Renderer can be shared
// by concurrent conversions. Rendering is deterministic: the same book
// always produces the same bytes.
package render // import "github.com/Xunop/json2epub/internal/render"

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"io/fs"
	"os"
	"path"
	"strings"
	texttemplate "text/template"

	"github.com/Xunop/json2epub/internal/format"
	"github.com/Xunop/json2epub/internal/log"
	"github.com/Xunop/json2epub/internal/model"
	"github.com/Xunop/json2epub/internal/xhtml"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Template slots.
const (
	SlotStylesheet = "stylesheet.css"
	SlotMainStyle  = "main.css"
	SlotCover      = "cover.xhtml"
	SlotChapter    = "chapter.xhtml"
)

const templateExt = ".tmpl"

//go:embed templates/*.tmpl
var embedded embed.FS

// Renderer renders the stylesheets, the title page and chapter pages.
type Renderer struct {
	styles   *texttemplate.Template
	pages    *htmltemplate.Template
	language string
}

type Option func(*Renderer)

// WithLanguage sets the language tag used when the book does not name a
// recognisable language.
func WithLanguage(tag string) Option {
	return func(r *Renderer) {
		r.language = tag
	}
}

// pageContext is the data passed to page templates.
type pageContext struct {
	Book    *model.Book
	Chapter *model.Chapter
	Lang    string
	Body    htmltemplate.HTML
}

// Default returns a Renderer using the built-in templates.
func Default(opts ...Option) (*Renderer, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	return New(sub, opts...)
}

// FromDir returns a Renderer whose templates are read from dir. Slots that
// dir does not provide fall back to the built-in templates.
func FromDir(dir string, opts ...Option) (*Renderer, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	return New(overlayFS{top: os.DirFS(dir), base: sub}, opts...)
}

// New parses every *.tmpl file at the root of fsys. The slot name of a file
// is its name without the extension.
func New(fsys fs.FS, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		styles:   texttemplate.New("styles").Option("missingkey=error"),
		pages:    htmltemplate.New("pages").Option("missingkey=error").Funcs(funcs),
		language: "en",
	}
	for _, opt := range opts {
		opt(r)
	}

	names, err := fs.Glob(fsys, "*"+templateExt)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list templates")
	}
	for _, name := range names {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read template %s", name)
		}
		slot := strings.TrimSuffix(name, templateExt)
		if path.Ext(slot) == ".css" {
			_, err = r.styles.New(slot).Parse(string(src))
		} else {
			_, err = r.pages.New(slot).Parse(string(src))
		}
		if err != nil {
			return nil, &TemplateError{Slot: slot, Err: err}
		}
		log.Debug("Loaded template", zap.String("slot", slot))
	}
	return r, nil
}

// RenderStylesheet renders the stylesheet shared by every page.
func (r *Renderer) RenderStylesheet() (string, error) {
	return r.RenderStyle(SlotStylesheet)
}

// RenderStyle renders a stylesheet slot. Stylesheets get no book data.
func (r *Renderer) RenderStyle(slot string) (string, error) {
	tmpl := r.styles.Lookup(slot)
	if tmpl == nil {
		return "", &TemplateError{Slot: slot, Err: ErrSlotMissing}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return "", &TemplateError{Slot: slot, Err: err}
	}
	return buf.String(), nil
}

// RenderCover renders the title page of book.
func (r *Renderer) RenderCover(book *model.Book) (string, error) {
	return r.renderPage(SlotCover, &pageContext{
		Book: book,
		Lang: r.bookLanguage(book),
	})
}

// RenderChapter renders the page of one chapter of book.
func (r *Renderer) RenderChapter(book *model.Book, ch *model.Chapter) (string, error) {
	body, err := xhtml.Fragment(ch.Contents)
	if err != nil {
		return "", &TemplateError{Slot: SlotChapter, Err: err}
	}
	return r.renderPage(SlotChapter, &pageContext{
		Book:    book,
		Chapter: ch,
		Lang:    r.bookLanguage(book),
		Body:    htmltemplate.HTML(body),
	})
}

// Language returns the language tag of book, falling back to the renderer
// default.
func (r *Renderer) Language(book *model.Book) string {
	return r.bookLanguage(book)
}

func (r *Renderer) bookLanguage(book *model.Book) string {
	if book.Metadata.Language == nil {
		return r.language
	}
	return format.LanguageTag(*book.Metadata.Language, r.language)
}

func (r *Renderer) renderPage(slot string, data *pageContext) (string, error) {
	tmpl := r.pages.Lookup(slot)
	if tmpl == nil {
		return "", &TemplateError{Slot: slot, Err: ErrSlotMissing}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &TemplateError{Slot: slot, Err: err}
	}
	return xhtml.StripInvalidChars(buf.String()), nil
}
