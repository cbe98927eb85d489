package epub

import "encoding/xml"

const (
	opfNS = "http://www.idpf.org/2007/opf"
	dcNS  = "http://purl.org/dc/elements/1.1/"
	ncxNS = "http://www.daisy.org/z3986/2005/ncx/"
)

// Opf is the package document as read back from an archive.
type Opf struct {
	Version          string      `xml:"version,attr" json:"version"`
	UniqueIdentifier string      `xml:"unique-identifier,attr" json:"unique_identifier"`
	Metadata         OpfMetadata `xml:"metadata" json:"metadata"`
	Manifest         []Item      `xml:"manifest>item" json:"manifest"`
	Spine            Spine       `xml:"spine" json:"spine"`
	Guide            []Reference `xml:"guide>reference" json:"guide"`
}

type OpfMetadata struct {
	Title       []string     `xml:"http://purl.org/dc/elements/1.1/ title" json:"title"`
	Creator     []Creator    `xml:"http://purl.org/dc/elements/1.1/ creator" json:"creator"`
	Language    []string     `xml:"http://purl.org/dc/elements/1.1/ language" json:"language"`
	Identifier  []Identifier `xml:"http://purl.org/dc/elements/1.1/ identifier" json:"identifier"`
	Description []string     `xml:"http://purl.org/dc/elements/1.1/ description" json:"description"`
	Subject     []string     `xml:"http://purl.org/dc/elements/1.1/ subject" json:"subject"`
	Publisher   []string     `xml:"http://purl.org/dc/elements/1.1/ publisher" json:"publisher"`
	Source      []string     `xml:"http://purl.org/dc/elements/1.1/ source" json:"source"`
	Date        []string     `xml:"http://purl.org/dc/elements/1.1/ date" json:"date"`
	Meta        []Meta       `xml:"meta" json:"meta"`
}

type Creator struct {
	Data string `xml:",chardata" json:"data"`
	ID   string `xml:"id,attr" json:"id"`
	Role string `xml:"role,attr" json:"role"`
}

type Identifier struct {
	Data   string `xml:",chardata" json:"data"`
	ID     string `xml:"id,attr" json:"id"`
	Scheme string `xml:"scheme,attr" json:"scheme"`
}

// Meta covers both the EPUB 2 name/content form and the EPUB 3 property
// form.
type Meta struct {
	Name     string `xml:"name,attr" json:"name,omitempty"`
	Content  string `xml:"content,attr" json:"content,omitempty"`
	Property string `xml:"property,attr" json:"property,omitempty"`
	Refines  string `xml:"refines,attr" json:"refines,omitempty"`
	Data     string `xml:",chardata" json:"data,omitempty"`
}

type Item struct {
	ID         string `xml:"id,attr" json:"id"`
	Href       string `xml:"href,attr" json:"href"`
	MediaType  string `xml:"media-type,attr" json:"media_type"`
	Properties string `xml:"properties,attr" json:"properties,omitempty"`
}

type Spine struct {
	Toc      string    `xml:"toc,attr" json:"toc"`
	ItemRefs []ItemRef `xml:"itemref" json:"itemrefs"`
}

type ItemRef struct {
	IDRef  string `xml:"idref,attr" json:"idref"`
	Linear string `xml:"linear,attr" json:"linear,omitempty"`
}

type Reference struct {
	Type  string `xml:"type,attr" json:"type"`
	Title string `xml:"title,attr" json:"title"`
	Href  string `xml:"href,attr" json:"href"`
}

// The write side spells out prefixed names, which encoding/xml copies
// verbatim when marshalling.
type opfPackage struct {
	XMLName          xml.Name       `xml:"package"`
	Xmlns            string         `xml:"xmlns,attr"`
	Version          string         `xml:"version,attr"`
	UniqueIdentifier string         `xml:"unique-identifier,attr"`
	Lang             string         `xml:"xml:lang,attr"`
	Metadata         opfMetadataOut `xml:"metadata"`
	Manifest         []Item         `xml:"manifest>item"`
	Spine            spineOut       `xml:"spine"`
	Guide            []Reference    `xml:"guide>reference,omitempty"`
}

type opfMetadataOut struct {
	XmlnsDC     string        `xml:"xmlns:dc,attr"`
	XmlnsOPF    string        `xml:"xmlns:opf,attr"`
	Identifier  identifierOut `xml:"dc:identifier"`
	Title       string        `xml:"dc:title"`
	Creator     []creatorOut  `xml:"dc:creator,omitempty"`
	Language    string        `xml:"dc:language"`
	Description string        `xml:"dc:description,omitempty"`
	Subject     []string      `xml:"dc:subject,omitempty"`
	Publisher   string        `xml:"dc:publisher,omitempty"`
	Source      string        `xml:"dc:source,omitempty"`
	Date        string        `xml:"dc:date,omitempty"`
	Meta        []metaOut     `xml:"meta"`
}

type identifierOut struct {
	ID   string `xml:"id,attr"`
	Data string `xml:",chardata"`
}

type creatorOut struct {
	ID   string `xml:"id,attr"`
	Data string `xml:",chardata"`
}

type metaOut struct {
	Name     string `xml:"name,attr,omitempty"`
	Content  string `xml:"content,attr,omitempty"`
	Property string `xml:"property,attr,omitempty"`
	Refines  string `xml:"refines,attr,omitempty"`
	Data     string `xml:",chardata"`
}

type spineOut struct {
	Toc      string       `xml:"toc,attr"`
	ItemRefs []itemRefOut `xml:"itemref"`
}

type itemRefOut struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr,omitempty"`
}
