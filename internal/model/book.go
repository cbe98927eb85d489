package model // import "github.com/Xunop/json2epub/internal/model"

import "encoding/json"

// Author is the writer of a book and a link to their profile page.
type Author struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Metadata holds the descriptive fields scraped alongside a story.
// Optional fields are nil when the source did not provide them.
type Metadata struct {
	Category []string `json:"category"`
	Rating   string   `json:"rating"`

	Language   *string `json:"language,omitempty"`
	Genre      *string `json:"genre,omitempty"`
	Characters *string `json:"characters,omitempty"`
	// Chapters is the chapter count as displayed by the source site.
	Chapters *string `json:"chapters,omitempty"`
	// Words is the word count as displayed by the source site.
	Words   *string `json:"words,omitempty"`
	Status  *string `json:"status,omitempty"`
	Reviews *string `json:"reviews,omitempty"`
	Favs    *string `json:"favs,omitempty"`
	Follows *string `json:"follows,omitempty"`
}

// MarshalJSON writes a nil category list as [], which ParseBook accepts.
func (m Metadata) MarshalJSON() ([]byte, error) {
	type metadata Metadata
	if m.Category == nil {
		m.Category = []string{}
	}
	return json.Marshal(metadata(m))
}

type Chapter struct {
	// Num keys the chapter's entry in the archive. It is not a sort key.
	Num      uint32 `json:"num"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Contents string `json:"contents"`
	// Error is set when the chapter could not be fetched upstream.
	Error *string `json:"error,omitempty"`
}

// Book is one story to be packaged. It is built by ParseBook and is not
// modified afterwards.
type Book struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Title        string    `json:"title"`
	Blurb        string    `json:"blurb"`
	Author       Author    `json:"author"`
	Metadata     Metadata  `json:"metadata"`
	UpdatedTime  *uint32   `json:"updated_time,omitempty"`
	CreatedTime  uint32    `json:"created_time"`
	DownloadTime uint32    `json:"download_time"`
	Chapters     []Chapter `json:"chapters"`
}

// MarshalJSON writes a nil chapter list as [].
func (b Book) MarshalJSON() ([]byte, error) {
	type book Book
	if b.Chapters == nil {
		b.Chapters = []Chapter{}
	}
	return json.Marshal(book(b))
}

// IsShortStory reports whether the book consists of a single chapter.
func (b *Book) IsShortStory() bool {
	return len(b.Chapters) == 1
}
