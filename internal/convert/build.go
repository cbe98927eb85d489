package convert

import (
	"bytes"
	"io"
	"sync"

	"github.com/Xunop/json2epub/internal/epub"
	"github.com/Xunop/json2epub/internal/log"
	"github.com/Xunop/json2epub/internal/metrics"
	"github.com/Xunop/json2epub/internal/model"
	"github.com/Xunop/json2epub/internal/render"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Packager names accepted by NewPackager.
const (
	PackagerNative = "native"
	PackagerGoEpub = "go-epub"
)

// ErrUnknownPackager is returned by NewPackager for an unknown name.
var ErrUnknownPackager = errors.New("unknown packager")

// NewPackager returns a fresh packager by name. An empty name selects the
// native packager.
func NewPackager(name string) (epub.Packager, error) {
	switch name {
	case "", PackagerNative:
		return epub.NewBuilder(), nil
	case PackagerGoEpub:
		return epub.NewGoEpub(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownPackager, "%q", name)
	}
}

type options struct {
	renderer *render.Renderer
	packager string
}

type Option func(*options)

// WithRenderer renders with r instead of the built-in templates.
func WithRenderer(r *render.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithPackager selects the packager by name, see NewPackager.
func WithPackager(name string) Option {
	return func(o *options) {
		o.packager = name
	}
}

var (
	defaultRendererOnce sync.Once
	defaultRenderer     *render.Renderer
	defaultRendererErr  error
)

// builtinRenderer is parsed once and shared, it is never modified.
func builtinRenderer() (*render.Renderer, error) {
	defaultRendererOnce.Do(func() {
		defaultRenderer, defaultRendererErr = render.Default()
	})
	return defaultRenderer, defaultRendererErr
}

// BuildTo converts a JSON book document into an EPUB archive written to w.
// Every error is a *Error.
func BuildTo(input []byte, w io.Writer, opts ...Option) error {
	_, err := Convert(input, w, opts...)
	return err
}

// Convert is BuildTo that also returns the parsed book. The book is nil
// when the document could not be parsed.
func Convert(input []byte, w io.Writer, opts ...Option) (book *model.Book, err error) {
	done := metrics.ConversionStarted()
	defer func() { done(outcome(err)) }()

	book, err = model.ParseBook(input)
	if err != nil {
		return nil, &Error{Kind: KindParse, Stage: StageParse, Err: err}
	}
	log.Debug("Parsed book",
		zap.String("title", book.Title),
		zap.Int("chapters", len(book.Chapters)),
	)
	return book, build(book, w, opts)
}

func outcome(err error) string {
	if err != nil {
		return KindOf(err).String()
	}
	return metrics.OutcomeSuccess
}

func build(book *model.Book, w io.Writer, opts []Option) error {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.renderer == nil {
		r, err := builtinRenderer()
		if err != nil {
			return &Error{Kind: KindTemplate, Stage: StageMetadata, Err: err}
		}
		o.renderer = r
	}
	packager, err := NewPackager(o.packager)
	if err != nil {
		return &Error{Kind: KindPackaging, Stage: StageMetadata, Err: err}
	}

	sink := &countingWriter{w: w}
	if err := assemble(NewAssembler(book, o.renderer, packager), book, sink); err != nil {
		return err
	}
	metrics.ObserveArchive(sink.n, len(book.Chapters))
	return nil
}

func assemble(a *Assembler, book *model.Book, w io.Writer) error {
	if err := a.SetMetadata(); err != nil {
		return err
	}
	if err := a.AddStylesheet(); err != nil {
		return err
	}
	if err := a.AddTitlePage(); err != nil {
		return err
	}
	for i := range book.Chapters {
		if err := a.AddChapter(&book.Chapters[i]); err != nil {
			return err
		}
	}
	return a.Finalize(w)
}

// Build converts a JSON book document and returns the archive.
func Build(input []byte, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := BuildTo(input, &buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
