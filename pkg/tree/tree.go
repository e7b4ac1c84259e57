// Package tree provides a small XML element tree used as the common
// representation of RDF/XML, OntoLex and TEI documents.
//
// Elements keep their text the way lxml does: Text is the character data
// before the first child, Tail is the character data after the closing
// tag of the element and before its next sibling. Lookups ignore
// namespaces because producers of lexicographic data use inconsistent
// prefixes in practice.
package tree

import (
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html/charset"
)

// Attr is an attribute of an element. Space is the namespace URI when
// the prefix was declared, or the raw prefix otherwise.
type Attr struct {
	Space string
	Local string
	Value string
}

// Node is an XML element.
type Node struct {
	Space    string
	Local    string
	Attrs    []Attr
	Text     string
	Tail     string
	Children []*Node
	Parent   *Node
}

// NewElement creates a detached element.
func NewElement(space, local string) *Node {
	return &Node{Space: space, Local: local}
}

// Append adds a child element and returns it.
func (n *Node) Append(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// SetAttr sets or replaces an attribute.
func (n *Node) SetAttr(space, local, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Space == space && n.Attrs[i].Local == local {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Space: space, Local: local, Value: value})
	return n
}

// Attr returns the value of an attribute with the given local name. When
// spaces are given, the attribute namespace (URI or raw prefix) must be
// one of them.
func (n *Node) Attr(local string, spaces ...string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Local != local {
			continue
		}
		if len(spaces) == 0 || slices.Contains(spaces, a.Space) {
			return a.Value, true
		}
	}
	return "", false
}

// RDFAttr returns an attribute from the RDF namespace.
func (n *Node) RDFAttr(local string) (string, bool) {
	return n.Attr(local, RDF, "rdf")
}

// XMLAttr returns an attribute from the XML namespace, such as xml:lang.
func (n *Node) XMLAttr(local string) (string, bool) {
	return n.Attr(local, XML, "xml")
}

// IsEmpty is true when the element has neither text nor children.
func (n *Node) IsEmpty() bool {
	return n.Text == "" && len(n.Children) == 0
}

var reSpaces = regexp.MustCompile(`\s{2,}`)

// TextContent returns all text inside the element, trimmed, with runs of
// whitespace collapsed into one space.
func TextContent(n *Node) string {
	var sb strings.Builder
	collectText(n, &sb)
	res := strings.TrimSpace(sb.String())
	return reSpaces.ReplaceAllString(res, " ")
}

func collectText(n *Node, sb *strings.Builder) {
	sb.WriteString(n.Text)
	for _, c := range n.Children {
		collectText(c, sb)
		sb.WriteString(c.Tail)
	}
}

// XMLLang returns the xml:lang of the element or of its closest ancestor
// that has one.
func XMLLang(n *Node) string {
	for cur := n; cur != nil; cur = cur.Parent {
		if v, ok := cur.XMLAttr("lang"); ok && v != "" {
			return v
		}
	}
	return ""
}

// Walk calls fn for every descendant of n in document order.
func Walk(n *Node, fn func(*Node)) {
	for _, c := range n.Children {
		fn(c)
		Walk(c, fn)
	}
}

// Parse reads an XML document into a tree. The parser is forgiving: it
// accepts HTML entities and undeclared prefixes, and when the document is
// broken after the root element was opened, it keeps what was read so
// far. Comments, processing instructions and whitespace-only text are
// dropped.
func Parse(r io.Reader) (*Node, error) {
	d := xml.NewDecoder(r)
	d.Strict = false
	d.Entity = xml.HTMLEntity
	d.CharsetReader = charset.NewReaderLabel

	var root, cur *Node
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if root == nil {
				return nil, ParseError(err)
			}
			slog.Warn("Recovered from broken XML", "error", err)
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Space: t.Name.Space, Local: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" ||
					(a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				n.Attrs = append(n.Attrs, Attr{
					Space: a.Name.Space,
					Local: a.Name.Local,
					Value: a.Value,
				})
			}
			if cur == nil {
				if root != nil {
					// second root element
					slog.Warn("Ignoring content after the root element")
					return trimBlank(root), nil
				}
				root = n
			} else {
				cur.Append(n)
			}
			cur = n
		case xml.EndElement:
			if cur != nil {
				cur = cur.Parent
			}
		case xml.CharData:
			if cur == nil {
				continue
			}
			if l := len(cur.Children); l > 0 {
				cur.Children[l-1].Tail += string(t)
			} else {
				cur.Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, EmptyDocumentError()
	}
	return trimBlank(root), nil
}

func trimBlank(n *Node) *Node {
	if strings.TrimSpace(n.Text) == "" {
		n.Text = ""
	}
	if strings.TrimSpace(n.Tail) == "" {
		n.Tail = ""
	}
	for _, c := range n.Children {
		trimBlank(c)
	}
	return n
}
