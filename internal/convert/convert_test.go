package convert

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/Xunop/json2epub/internal/epub"
	"github.com/Xunop/json2epub/internal/model"
	"github.com/Xunop/json2epub/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testBook(chapters int) *model.Book {
	book := &model.Book{
		ID:     "12345",
		Source: "https://www.example.org/s/12345",
		Title:  "The Long Road",
		Blurb:  "A <b>long</b> story.",
		Author: model.Author{Name: "Jane Writer", Link: "https://www.example.org/u/1"},
		Metadata: model.Metadata{
			Category: []string{"Books", "Fantasy"},
			Rating:   "T",
			Language: strPtr("English"),
			Genre:    strPtr("Adventure"),
			Words:    strPtr("12,345"),
		},
		CreatedTime:  1600000000,
		DownloadTime: 1700000000,
		Chapters:     []model.Chapter{},
	}
	for i := 1; i <= chapters; i++ {
		book.Chapters = append(book.Chapters, model.Chapter{
			Num:      uint32(i),
			Title:    fmt.Sprintf("Part %d", i),
			URL:      fmt.Sprintf("https://www.example.org/s/12345/%d", i),
			Contents: fmt.Sprintf("<p>Text of part %d.</p>", i),
		})
	}
	return book
}

func encode(t *testing.T, book *model.Book) []byte {
	t.Helper()
	data, err := json.Marshal(book)
	require.NoError(t, err)
	return data
}

func buildBook(t *testing.T, book *model.Book, opts ...Option) *epub.Book {
	t.Helper()
	data, err := Build(encode(t, book), opts...)
	require.NoError(t, err)
	out, err := epub.NewReader(data)
	require.NoError(t, err)
	return out
}

func navTexts(b *epub.Book) []string {
	var texts []string
	for _, p := range b.Ncx.Points {
		texts = append(texts, p.Text)
	}
	return texts
}

func TestBuildEntries(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("%d chapters", n), func(t *testing.T) {
			out := buildBook(t, testBook(n))

			spine := []string{"title.xhtml", "toc.xhtml"}
			labels := []string{"Title"}
			for i := 1; i <= n; i++ {
				spine = append(spine, fmt.Sprintf("chapter_%d.xhtml", i))
				labels = append(labels, fmt.Sprintf("Chapter %d: Part %d", i, i))
			}
			assert.Equal(t, spine, out.SpineHrefs())
			assert.Equal(t, labels, navTexts(out))

			files := out.Files()
			assert.Contains(t, files, "OEBPS/stylesheet.css")
			assert.Contains(t, files, "OEBPS/style/main.css")
			assert.Equal(t, "mimetype", files[0])

			require.NotEmpty(t, out.Opf.Guide)
			assert.Equal(t, epub.Reference{Type: "title-page", Title: "Title", Href: "title.xhtml"}, out.Opf.Guide[0])
			if n > 0 {
				assert.Equal(t, epub.Reference{Type: "text", Title: "Chapter 1: Part 1", Href: "chapter_1.xhtml"}, out.Opf.Guide[2])
			}
		})
	}
}

func TestBuildMetadata(t *testing.T) {
	out := buildBook(t, testBook(1))

	assert.Equal(t, "The Long Road", out.GetTitle())
	assert.Equal(t, "Jane Writer", out.GetAuthor())
	assert.Equal(t, "en", out.GetLanguage())
	assert.Equal(t, "A long story.", out.GetDescription())
	assert.Equal(t, []string{"Books", "Fantasy", "Adventure"}, out.Opf.Metadata.Subject)
	assert.Equal(t, []string{"2020-09-13"}, out.Opf.Metadata.Date)
	assert.Equal(t, []string{"https://www.example.org/s/12345"}, out.Opf.Metadata.Source)

	again := buildBook(t, testBook(2))
	assert.True(t, strings.HasPrefix(out.GetIdentifier(), "urn:uuid:"))
	assert.Equal(t, out.GetIdentifier(), again.GetIdentifier())
}

func TestBuildLanguage(t *testing.T) {
	book := testBook(1)
	book.Metadata.Language = strPtr("Español")
	assert.Equal(t, "es", buildBook(t, book).GetLanguage())

	book.Metadata.Language = nil
	r, err := render.Default(render.WithLanguage("de"))
	require.NoError(t, err)
	assert.Equal(t, "de", buildBook(t, book, WithRenderer(r)).GetLanguage())
}

func TestBuildMissingGenre(t *testing.T) {
	book := testBook(1)
	book.Metadata.Genre = nil
	out := buildBook(t, book)

	assert.Equal(t, []string{"Books", "Fantasy"}, out.Opf.Metadata.Subject)
	cover, err := out.GetContent("title.xhtml")
	require.NoError(t, err)
	assert.NotContains(t, cover, "Genre")
	assert.Contains(t, cover, "Words")
}

func TestBuildShortStory(t *testing.T) {
	book := testBook(1)
	book.Chapters[0].Title = ""
	assert.Equal(t, []string{"Title", "The Long Road"}, navTexts(buildBook(t, book)))
}

// Chapter numbers are not deduplicated: a repeated number overwrites the
// earlier page at the same path.
func TestBuildDuplicateChapterNum(t *testing.T) {
	book := testBook(3)
	book.Chapters[2].Num = 1

	out := buildBook(t, book)
	assert.Equal(t, []string{"title.xhtml", "toc.xhtml", "chapter_1.xhtml", "chapter_2.xhtml"}, out.SpineHrefs())
	assert.Equal(t, []string{"Title", "Chapter 1: Part 3", "Chapter 2: Part 2"}, navTexts(out))

	page, err := out.GetContent("chapter_1.xhtml")
	require.NoError(t, err)
	assert.Contains(t, page, "Text of part 3.")
	assert.NotContains(t, page, "Text of part 1.")
}

func TestBuildDeterministic(t *testing.T) {
	input := encode(t, testBook(5))
	first, err := Build(input)
	require.NoError(t, err)
	second, err := Build(input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildGoEpub(t *testing.T) {
	out := buildBook(t, testBook(2), WithPackager(PackagerGoEpub))
	assert.Equal(t, "The Long Road", out.GetTitle())
	assert.Equal(t, "Jane Writer", out.GetAuthor())
	assert.Contains(t, out.SpineHrefs(), "xhtml/chapter_2.xhtml")
}

func TestBuildWellFormedWithControlCharacters(t *testing.T) {
	book := testBook(2)
	book.Title = "Bad\u0001Title"
	book.Author.Name = "Jane\u0007 Writer"
	book.Blurb = "A\u001b story."
	book.Chapters[0].Title = "Part\u0002 1"
	book.Chapters[1].Error = strPtr("timeout\u0003")

	out := buildBook(t, book)
	assert.Equal(t, "BadTitle", out.GetTitle())
	assert.Equal(t, []string{"Title", "Chapter 1: Part 1", "Chapter 2: Part 2"}, navTexts(out))

	root := path.Dir(out.Container.Rootfile.Fullpath) + "/"
	var checked int
	for _, name := range out.Files() {
		if path.Ext(name) != ".xhtml" {
			continue
		}
		data, err := out.ReadFile(strings.TrimPrefix(name, root))
		require.NoError(t, err)
		dec := xml.NewDecoder(bytes.NewReader(data))
		dec.Strict = true
		for {
			_, err := dec.Token()
			if err == io.EOF {
				break
			}
			require.NoError(t, err, "%s is not well-formed", name)
		}
		checked++
	}
	// nav, title page, inline toc and two chapters
	assert.Equal(t, 5, checked)
}

func TestBuildParseError(t *testing.T) {
	err := BuildTo([]byte(`{"title": 1}`), &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, KindParse, KindOf(err))

	var formatErr *model.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "title", formatErr.Field)
	assert.True(t, strings.HasPrefix(err.Error(), "parse error in parse: "), err.Error())
}

var errSink = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errSink
}

func TestBuildIOError(t *testing.T) {
	err := BuildTo(encode(t, testBook(2)), failingWriter{})
	assert.Equal(t, KindIO, KindOf(err))
	assert.ErrorIs(t, err, errSink)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, StageFinalize, e.Stage)
}

func TestBuildTemplateError(t *testing.T) {
	r, err := render.New(fstest.MapFS{
		"stylesheet.css.tmpl": {Data: []byte("body {}")},
		"main.css.tmpl":       {Data: []byte("p {}")},
	})
	require.NoError(t, err)

	err = BuildTo(encode(t, testBook(1)), &bytes.Buffer{}, WithRenderer(r))
	assert.Equal(t, KindTemplate, KindOf(err))
	assert.ErrorIs(t, err, render.ErrSlotMissing)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, StageTitlePage, e.Stage)
}

func TestBuildUnknownPackager(t *testing.T) {
	err := BuildTo(encode(t, testBook(1)), &bytes.Buffer{}, WithPackager("pdf"))
	assert.Equal(t, KindPackaging, KindOf(err))
	assert.ErrorIs(t, err, ErrUnknownPackager)
}

func newTestAssembler(t *testing.T, book *model.Book) *Assembler {
	t.Helper()
	r, err := builtinRenderer()
	require.NoError(t, err)
	return NewAssembler(book, r, epub.NewBuilder())
}

func TestAssemblerOrder(t *testing.T) {
	book := testBook(1)

	a := newTestAssembler(t, book)
	err := a.AddChapter(&book.Chapters[0])
	assert.Equal(t, KindPackaging, KindOf(err))
	assert.ErrorIs(t, err, ErrOutOfOrder)
	assert.ErrorIs(t, a.AddTitlePage(), ErrOutOfOrder)
	assert.ErrorIs(t, a.Finalize(&bytes.Buffer{}), ErrOutOfOrder)
	assert.Equal(t, StateInitialized, a.State())

	require.NoError(t, a.SetMetadata())
	assert.ErrorIs(t, a.SetMetadata(), ErrOutOfOrder)
	assert.ErrorIs(t, a.AddTitlePage(), ErrOutOfOrder)
	require.NoError(t, a.AddStylesheet())
	assert.ErrorIs(t, a.AddChapter(&book.Chapters[0]), ErrOutOfOrder)
	require.NoError(t, a.AddTitlePage())
	assert.Equal(t, StateResourcesAdded, a.State())
	require.NoError(t, a.AddChapter(&book.Chapters[0]))
	assert.ErrorIs(t, a.AddTitlePage(), ErrOutOfOrder)
	assert.Equal(t, StateContentAdded, a.State())
}

func TestAssemblerFinalized(t *testing.T) {
	book := testBook(1)
	a := newTestAssembler(t, book)
	require.NoError(t, a.SetMetadata())
	require.NoError(t, a.AddStylesheet())
	require.NoError(t, a.AddTitlePage())

	var buf bytes.Buffer
	require.NoError(t, a.Finalize(&buf))
	assert.NotZero(t, buf.Len())
	assert.Equal(t, StateFinalized, a.State())

	for _, err := range []error{
		a.SetMetadata(),
		a.AddStylesheet(),
		a.AddTitlePage(),
		a.AddChapter(&book.Chapters[0]),
		a.Finalize(&bytes.Buffer{}),
	} {
		assert.Equal(t, KindPackaging, KindOf(err))
		assert.ErrorIs(t, err, ErrFinalized)
	}
}

func TestBlob(t *testing.T) {
	data, err := Build(encode(t, testBook(1)))
	require.NoError(t, err)

	blob := NewBlob(data)
	assert.Equal(t, "application/epub+zip", blob.ContentType)
	assert.Equal(t, len(data), blob.Size())

	var buf bytes.Buffer
	_, err = buf.ReadFrom(blob.Reader())
	require.NoError(t, err)
	assert.Equal(t, data, buf.Bytes())
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"The Long Road":     "The Long Road.epub",
		"What? Who: Me/You": "What_ Who_ Me_You.epub",
		"  ..  ":            "book.epub",
		"":                  "book.epub",
	}
	for title, want := range tests {
		assert.Equal(t, want, FileName(title), title)
	}
}
