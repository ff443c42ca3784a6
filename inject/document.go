// Package inject places compiled font overrides into HTML and XHTML
// documents as a single identifiable style element.
package inject

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"fontswap/common"
)

// ErrNoHead is returned when document structure does not allow to place
// style element.
var ErrNoHead = errors.New("document has no head element")

// Detect guesses document type from file name, falling back to content.
func Detect(name string, data []byte) common.DocumentType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xhtml", ".xht", ".xml":
		return common.DocumentTypeXhtml
	case ".html", ".htm":
		return common.DocumentTypeHtml
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("<?xml")) {
		return common.DocumentTypeXhtml
	}
	return common.DocumentTypeHtml
}

// Inject puts css into style element with given id replacing element with
// the same id if document already has one. Empty css removes the element.
func Inject(data []byte, kind common.DocumentType, id, css string) ([]byte, error) {
	switch kind {
	case common.DocumentTypeXhtml:
		return injectXHTML(data, id, css)
	case common.DocumentTypeHtml:
		return injectHTML(data, id, css)
	default:
		return nil, fmt.Errorf("unsupported document type %q", kind)
	}
}

// Extract returns text of the element with given id, if any.
func Extract(data []byte, kind common.DocumentType, id string) (string, bool, error) {
	switch kind {
	case common.DocumentTypeXhtml:
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(data); err != nil {
			return "", false, fmt.Errorf("unable to parse xhtml: %w", err)
		}
		if el := findXMLByID(&doc.Element, id); el != nil {
			return el.Text(), true, nil
		}
		return "", false, nil
	case common.DocumentTypeHtml:
		doc, err := html.Parse(bytes.NewReader(data))
		if err != nil {
			return "", false, fmt.Errorf("unable to parse html: %w", err)
		}
		if n := findHTMLByID(doc, id); n != nil {
			return textContent(n), true, nil
		}
		return "", false, nil
	default:
		return "", false, fmt.Errorf("unsupported document type %q", kind)
	}
}

func injectHTML(data []byte, id, css string) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to parse html: %w", err)
	}

	if old := findHTMLByID(doc, id); old != nil {
		old.Parent.RemoveChild(old)
	}
	if css != "" {
		head := findHTML(doc, atom.Head)
		if head == nil {
			return nil, ErrNoHead
		}
		style := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Style,
			Data:     "style",
			Attr:     []html.Attribute{{Key: "id", Val: id}},
		}
		style.AppendChild(&html.Node{Type: html.TextNode, Data: "\n" + css})
		head.AppendChild(style)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("unable to render html: %w", err)
	}
	return buf.Bytes(), nil
}

func injectXHTML(data []byte, id, css string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to parse xhtml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, ErrNoHead
	}

	if old := findXMLByID(root, id); old != nil {
		old.Parent().RemoveChild(old)
	}
	if css != "" {
		head := findXML(root, "head")
		if head == nil {
			return nil, ErrNoHead
		}
		style := head.CreateElement("style")
		style.CreateAttr("type", "text/css")
		style.CreateAttr("id", id)
		style.SetText("\n" + css)
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("unable to write xhtml: %w", err)
	}
	return out, nil
}

func findHTML(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findHTML(c, a); found != nil {
			return found
		}
	}
	return nil
}

func findHTMLByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findHTMLByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func findXML(el *etree.Element, tag string) *etree.Element {
	if el.Tag == tag {
		return el
	}
	for _, c := range el.ChildElements() {
		if found := findXML(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findXMLByID(el *etree.Element, id string) *etree.Element {
	if a := el.SelectAttr("id"); a != nil && a.Value == id {
		return el
	}
	for _, c := range el.ChildElements() {
		if found := findXMLByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
