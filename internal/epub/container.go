package epub

import "encoding/xml"

const (
	mimetype          = "application/epub+zip"
	containerPath     = "META-INF/container.xml"
	containerNS       = "urn:oasis:names:tc:opendocument:xmlns:container"
	packageMediaType  = "application/oebps-package+xml"
	xhtmlMediaType    = "application/xhtml+xml"
	ncxMediaType      = "application/x-dtbncx+xml"
	cssMediaType      = "text/css"
	contentDir        = "OEBPS"
	packagePath       = contentDir + "/content.opf"
	defaultTOCName    = "Table Of Contents"
	defaultLanguage   = "en"
	generatorName     = "json2epub"
	modifiedTimeStamp = "2006-01-02T15:04:05Z"
)

type Container struct {
	XMLName  xml.Name `xml:"urn:oasis:names:tc:opendocument:xmlns:container container" json:"-"`
	Version  string   `xml:"version,attr" json:"version"`
	Rootfile Rootfile `xml:"rootfiles>rootfile" json:"rootfile"`
}

type Rootfile struct {
	Fullpath string `xml:"full-path,attr" json:"full_path"`
	Type     string `xml:"media-type,attr" json:"media_type"`
}
