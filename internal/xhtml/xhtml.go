// Package xhtml turns HTML fragments scraped from story pages into markup
// that is well-formed XML, as required inside EPUB content documents.
package xhtml // import "github.com/Xunop/json2epub/internal/xhtml"

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// bodyContext is the parent element fragments are parsed under.
var bodyContext = &html.Node{
	Type:     html.ElementNode,
	Data:     "body",
	DataAtom: atom.Body,
}

// Fragment parses an HTML body fragment and renders it back as XHTML: void
// elements are self-closed, attributes quoted, entities resolved, and nodes
// that have no XML rendering are dropped.
func Fragment(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(src), bodyContext)
	if err != nil {
		return "", errors.Wrap(err, "unable to parse chapter markup")
	}

	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	clean(root)

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", errors.Wrap(err, "unable to render chapter markup")
		}
	}
	return buf.String(), nil
}

// literalText lists elements whose text html.Render writes unescaped.
var literalText = map[atom.Atom]bool{
	atom.Iframe:    true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Noscript:  true,
	atom.Plaintext: true,
	atom.Script:    true,
	atom.Style:     true,
	atom.Xmp:       true,
}

// clean rewrites the subtree rooted at n in place and returns the node to
// render in its place, or nil to drop it.
func clean(n *html.Node) *html.Node {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return nil
	case html.TextNode:
		n.Data = StripInvalidChars(n.Data)
		return n
	case html.ElementNode:
		if literalText[n.DataAtom] {
			return nil
		}
		n.Attr = cleanAttrs(n.Attr)
	}

	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode && strings.Contains(c.Data, ":") {
			// Prefixed tags such as Word's <o:p> would need a namespace
			// declaration; keep their children only.
			if c.FirstChild != nil {
				next = c.FirstChild
			}
			unwrap(c)
			continue
		}
		if clean(c) == nil {
			n.RemoveChild(c)
		}
	}
	return n
}

// unwrap replaces n with its children.
func unwrap(n *html.Node) {
	parent := n.Parent
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

func cleanAttrs(attrs []html.Attribute) []html.Attribute {
	cleaned := attrs[:0]
	seen := make(map[string]bool, len(attrs))
	for _, attr := range attrs {
		if attr.Namespace != "" || !isXMLName(attr.Key) || seen[attr.Key] {
			continue
		}
		seen[attr.Key] = true
		attr.Val = StripInvalidChars(attr.Val)
		cleaned = append(cleaned, attr)
	}
	return cleaned
}

func isXMLName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// StripInvalidChars removes characters that XML 1.0 does not allow. Text
// escaped by html/template still carries them.
func StripInvalidChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return -1
		case r >= 0xD800 && r <= 0xDFFF:
			return -1
		}
		return r
	}, s)
}

// Body returns the children of the <body> element of an XHTML document,
// rendered as XHTML.
func Body(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", errors.Wrap(err, "unable to parse page")
	}
	body := findElement(root, atom.Body)
	if body == nil {
		return "", nil
	}
	clean(body)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", errors.Wrap(err, "unable to render page body")
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// Text returns the text content of an HTML fragment with whitespace runs
// collapsed, for metadata fields that cannot carry markup.
func Text(src string) string {
	nodes, err := html.ParseFragment(strings.NewReader(src), bodyContext)
	if err != nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		case html.ElementNode:
			if literalText[n.DataAtom] {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return StripInvalidChars(strings.Join(strings.Fields(sb.String()), " "))
}
