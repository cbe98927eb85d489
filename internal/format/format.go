// Package format derives display strings from raw book fields. Every
// function here is pure and never fails; malformed input degrades to an
// absent or fallback value.
package format // import "github.com/Xunop/json2epub/internal/format"

import (
	"fmt"
	"strings"
	"time"

	"github.com/Xunop/json2epub/internal/model"
	"github.com/ncruces/go-strftime"
)

// DefaultDatePattern is the strftime pattern used when a template does not
// pass its own.
const DefaultDatePattern = "%Y-%m-%d"

// The calendar range accepted by FormatEpochTime.
var (
	minEpochTime = time.Date(-262143, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxEpochTime = time.Date(262142, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// FormatEpochTime formats a UTC epoch-seconds timestamp with a strftime
// pattern. ok is false when the timestamp is outside the supported calendar
// range.
func FormatEpochTime(seconds int64, pattern string) (s string, ok bool) {
	if seconds < minEpochTime || seconds > maxEpochTime {
		return "", false
	}
	return strftime.Format(pattern, time.Unix(seconds, 0).UTC()), true
}

// ChapterLabel is the table of contents label of a chapter.
//
// A single untitled chapter is a short story and takes the book title.
// Otherwise an untitled chapter falls back to its number.
func ChapterLabel(ch *model.Chapter, book *model.Book) string {
	if book.IsShortStory() && ch.Title == "" {
		return book.Title
	}
	if ch.Title == "" {
		return fmt.Sprintf("Chapter %d", ch.Num)
	}
	return fmt.Sprintf("Chapter %d: %s", ch.Num, ch.Title)
}

// Field is one labelled metadata row of the title page.
type Field struct {
	Label string
	Value string
}

// MetadataFields lists the metadata to show on the title page, in display
// order. Absent and empty values are left out.
func MetadataFields(md *model.Metadata) []Field {
	var fields []Field
	add := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fields = append(fields, Field{Label: label, Value: value})
		}
	}
	addOpt := func(label string, value *string) {
		if value != nil {
			add(label, *value)
		}
	}

	add("Category", strings.Join(md.Category, " > "))
	add("Rated", md.Rating)
	addOpt("Language", md.Language)
	addOpt("Genre", md.Genre)
	addOpt("Characters", md.Characters)
	addOpt("Chapters", md.Chapters)
	addOpt("Words", md.Words)
	addOpt("Status", md.Status)
	addOpt("Reviews", md.Reviews)
	addOpt("Favs", md.Favs)
	addOpt("Follows", md.Follows)
	return fields
}
