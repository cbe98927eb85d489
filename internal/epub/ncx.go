package epub

import "encoding/xml"

// Ncx is the struct that holds the information from the ncx file
type Ncx struct {
	Title  string  `xml:"docTitle>text" json:"title"`
	Points []Point `xml:"navMap>navPoint" json:"points"`
}

// Point is the struct that holds the information about a point in the ncx file
type Point struct {
	ID        string     `xml:"id,attr" json:"id"`
	PlayOrder int        `xml:"playOrder,attr" json:"play_order"`
	Text      string     `xml:"navLabel>text" json:"text"`
	Content   NavContent `xml:"content" json:"content"`
	Points    []Point    `xml:"navPoint" json:"points,omitempty"`
}

// NavContent is the struct that holds the information about the content of a point in the ncx file
type NavContent struct {
	Src string `xml:"src,attr" json:"src"`
}

type ncxDocument struct {
	XMLName xml.Name  `xml:"ncx"`
	Xmlns   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Head    []metaOut `xml:"head>meta"`
	Title   string    `xml:"docTitle>text"`
	Points  []Point   `xml:"navMap>navPoint"`
}
