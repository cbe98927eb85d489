// Package convert assembles a book document into an EPUB archive.
//
// An Assembler walks a fixed sequence of steps, rendering each entry with a
// render.Renderer and registering it with an epub.Packager, then writes the
// archive to a sink. BuildTo and Build run the whole pipeline on a raw JSON
// document.
package convert // import "github.com/Xunop/json2epub/internal/convert"

import (
	"fmt"
	"io"
	"time"

	"github.com/Xunop/json2epub/internal/epub"
	"github.com/Xunop/json2epub/internal/format"
	"github.com/Xunop/json2epub/internal/log"
	"github.com/Xunop/json2epub/internal/model"
	"github.com/Xunop/json2epub/internal/render"
	"github.com/Xunop/json2epub/internal/xhtml"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// State is the progress of an Assembler.
type State int

const (
	StateInitialized State = iota
	StateMetadataSet
	StateStylesheetSet
	StateResourcesAdded
	StateContentAdded
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateMetadataSet:
		return "metadata set"
	case StateStylesheetSet:
		return "stylesheet set"
	case StateResourcesAdded:
		return "resources added"
	case StateContentAdded:
		return "content added"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Archive paths, relative to the content directory.
const (
	mainStylePath = "style/main.css"
	titlePagePath = "title.xhtml"
	titlePageName = "Title"
	dateLayout    = "%Y-%m-%d"
)

// ChapterPath returns the archive path of the chapter numbered num.
func ChapterPath(num uint32) string {
	return fmt.Sprintf("chapter_%d.xhtml", num)
}

// Assembler builds the archive of one book. It is used once and is not safe
// for concurrent use.
type Assembler struct {
	book     *model.Book
	renderer *render.Renderer
	packager epub.Packager
	state    State
}

func NewAssembler(book *model.Book, renderer *render.Renderer, packager epub.Packager) *Assembler {
	return &Assembler{
		book:     book,
		renderer: renderer,
		packager: packager,
	}
}

func (a *Assembler) State() State {
	return a.state
}

// step checks that the assembler is in one of the states a step may start
// from.
func (a *Assembler) step(stage string, from ...State) error {
	if a.state == StateFinalized {
		return &Error{Kind: KindPackaging, Stage: stage, Err: ErrFinalized}
	}
	for _, s := range from {
		if a.state == s {
			return nil
		}
	}
	return &Error{Kind: KindPackaging, Stage: stage, Err: errors.Wrapf(ErrOutOfOrder, "assembler is %s", a.state)}
}

// SetMetadata registers the book's metadata with the packager.
func (a *Assembler) SetMetadata() error {
	if err := a.step(StageMetadata, StateInitialized); err != nil {
		return err
	}
	b := a.book
	meta := [][2]string{
		{epub.MetaTitle, b.Title},
		{epub.MetaAuthor, b.Author.Name},
		{epub.MetaLang, a.renderer.Language(b)},
		{epub.MetaModified, time.Unix(int64(b.DownloadTime), 0).UTC().Format(time.RFC3339)},
	}
	if b.Source != "" {
		meta = append(meta,
			[2]string{epub.MetaSource, b.Source},
			[2]string{epub.MetaIdentifier, "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(b.Source)).String()},
		)
	}
	if desc := xhtml.Text(b.Blurb); desc != "" {
		meta = append(meta, [2]string{epub.MetaDescription, desc})
	}
	if date, ok := format.FormatEpochTime(int64(b.CreatedTime), dateLayout); ok {
		meta = append(meta, [2]string{epub.MetaDate, date})
	}
	for _, c := range b.Metadata.Category {
		meta = append(meta, [2]string{epub.MetaSubject, c})
	}
	if b.Metadata.Genre != nil {
		meta = append(meta, [2]string{epub.MetaSubject, *b.Metadata.Genre})
	}

	for _, kv := range meta {
		if err := a.packager.Metadata(kv[0], kv[1]); err != nil {
			return &Error{Kind: KindPackaging, Stage: StageMetadata, Err: err}
		}
	}
	a.state = StateMetadataSet
	log.Debug("Set metadata", zap.String("title", b.Title), zap.Int("fields", len(meta)))
	return nil
}

// AddStylesheet renders and registers the shared stylesheet and the main
// style resource.
func (a *Assembler) AddStylesheet() error {
	if err := a.step(StageStylesheet, StateMetadataSet); err != nil {
		return err
	}
	css, err := a.renderer.RenderStylesheet()
	if err != nil {
		return &Error{Kind: KindTemplate, Stage: StageStylesheet, Err: err}
	}
	if err := a.packager.Stylesheet([]byte(css)); err != nil {
		return &Error{Kind: KindPackaging, Stage: StageStylesheet, Err: err}
	}
	main, err := a.renderer.RenderStyle(render.SlotMainStyle)
	if err != nil {
		return &Error{Kind: KindTemplate, Stage: StageStylesheet, Err: err}
	}
	if err := a.packager.AddResource(mainStylePath, []byte(main), "text/css"); err != nil {
		return &Error{Kind: KindPackaging, Stage: StageStylesheet, Err: err}
	}
	a.state = StateStylesheetSet
	return nil
}

// AddTitlePage renders the title page as the first entry of the reading
// order, followed by the generated table of contents.
func (a *Assembler) AddTitlePage() error {
	if err := a.step(StageTitlePage, StateStylesheetSet); err != nil {
		return err
	}
	page, err := a.renderer.RenderCover(a.book)
	if err != nil {
		return &Error{Kind: KindTemplate, Stage: StageTitlePage, Err: err}
	}
	err = a.packager.AddContent(epub.Content{
		Path:    titlePagePath,
		Data:    []byte(page),
		Title:   titlePageName,
		RefType: epub.ReferenceTitlePage,
	})
	if err != nil {
		return &Error{Kind: KindPackaging, Stage: StageTitlePage, Err: err}
	}
	a.packager.InlineTOC()
	a.state = StateResourcesAdded
	return nil
}

// AddChapter renders one chapter and appends it to the reading order. A
// chapter number used twice replaces the earlier page.
func (a *Assembler) AddChapter(ch *model.Chapter) error {
	stage := fmt.Sprintf("%s %d", StageChapter, ch.Num)
	if err := a.step(stage, StateResourcesAdded, StateContentAdded); err != nil {
		return err
	}
	page, err := a.renderer.RenderChapter(a.book, ch)
	if err != nil {
		return &Error{Kind: KindTemplate, Stage: stage, Err: err}
	}
	err = a.packager.AddContent(epub.Content{
		Path:    ChapterPath(ch.Num),
		Data:    []byte(page),
		Title:   format.ChapterLabel(ch, a.book),
		RefType: epub.ReferenceText,
	})
	if err != nil {
		return &Error{Kind: KindPackaging, Stage: stage, Err: err}
	}
	a.state = StateContentAdded
	return nil
}

// Finalize writes the archive to w. The assembler cannot be used
// afterwards, even when writing fails.
func (a *Assembler) Finalize(w io.Writer) error {
	if err := a.step(StageFinalize, StateResourcesAdded, StateContentAdded); err != nil {
		return err
	}
	a.state = StateFinalized

	sink := &sinkWriter{w: w}
	if err := a.packager.Generate(sink); err != nil {
		if sink.err != nil {
			return &Error{Kind: KindIO, Stage: StageFinalize, Err: sink.err}
		}
		return &Error{Kind: KindPackaging, Stage: StageFinalize, Err: err}
	}
	log.Debug("Finalized archive", zap.String("title", a.book.Title), zap.Int64("bytes", sink.n))
	return nil
}

// sinkWriter remembers the first error of the output sink, so that it can
// be told apart from packaging errors once the packager reports it.
type sinkWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.n += int64(n)
	if err != nil && s.err == nil {
		s.err = err
	}
	return n, err
}
