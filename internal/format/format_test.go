package format

import (
	"math"
	"testing"

	"github.com/Xunop/json2epub/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatEpochTime(t *testing.T) {
	tests := []struct {
		name    string
		seconds int64
		pattern string
		want    string
		ok      bool
	}{
		{"epoch", 0, "%Y-%m-%d", "1970-01-01", true},
		{"before epoch", -86400, "%Y-%m-%d", "1969-12-31", true},
		{"with time", 1700000000, "%Y-%m-%d %H:%M", "2023-11-14 22:13", true},
		{"long form", 1600000000, "%B %d, %Y", "September 13, 2020", true},
		{"far future", math.MaxInt64, "%Y-%m-%d", "", false},
		{"far past", math.MinInt64, "%Y-%m-%d", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatEpochTime(tt.seconds, tt.pattern)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChapterLabel(t *testing.T) {
	t.Run("single untitled chapter takes the book title", func(t *testing.T) {
		book := &model.Book{Title: "One Shot", Chapters: []model.Chapter{{Num: 1}}}
		assert.Equal(t, "One Shot", ChapterLabel(&book.Chapters[0], book))
	})

	t.Run("single titled chapter keeps its title", func(t *testing.T) {
		book := &model.Book{Title: "One Shot", Chapters: []model.Chapter{{Num: 1, Title: "Prologue"}}}
		assert.Equal(t, "Chapter 1: Prologue", ChapterLabel(&book.Chapters[0], book))
	})

	t.Run("untitled chapter in a longer book", func(t *testing.T) {
		book := &model.Book{Title: "Saga", Chapters: []model.Chapter{{Num: 1, Title: "Start"}, {Num: 3}}}
		assert.Equal(t, "Chapter 3", ChapterLabel(&book.Chapters[1], book))
	})

	t.Run("titled chapter", func(t *testing.T) {
		book := &model.Book{Title: "Saga", Chapters: []model.Chapter{{Num: 4}, {Num: 5, Title: "Awakening"}}}
		assert.Equal(t, "Chapter 5: Awakening", ChapterLabel(&book.Chapters[1], book))
	})
}

func TestMetadataFields(t *testing.T) {
	genre := "Humor"
	blank := "  "
	md := &model.Metadata{
		Category: []string{"Anime", "Naruto"},
		Rating:   "Fiction K+",
		Genre:    &genre,
		Status:   &blank,
	}

	assert.Equal(t, []Field{
		{Label: "Category", Value: "Anime > Naruto"},
		{Label: "Rated", Value: "Fiction K+"},
		{Label: "Genre", Value: "Humor"},
	}, MetadataFields(md))

	assert.Empty(t, MetadataFields(&model.Metadata{}))
}

func TestLanguageTag(t *testing.T) {
	assert.Equal(t, "en", LanguageTag("English", "und"))
	assert.Equal(t, "es", LanguageTag("español", "und"))
	assert.Equal(t, "fil", LanguageTag("Tagalog", "und"))
	assert.Equal(t, "fr-CA", LanguageTag("fr-CA", "und"))
	assert.Equal(t, "en", LanguageTag("Klingon", "en"))
	assert.Equal(t, "en", LanguageTag("", "en"))
}
