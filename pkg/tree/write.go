package tree

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Write serializes the tree as an indented XML document. Namespaces get
// their usual prefixes, unknown ones are named ns1, ns2 and so on. All
// namespace declarations are placed on the root element.
func Write(w io.Writer, root *Node) error {
	bw := bufio.NewWriter(w)
	p := newPrinter(root)
	bw.WriteString(xml.Header)
	p.node(bw, root, 0, true)
	bw.WriteString("\n")
	return bw.Flush()
}

type printer struct {
	prefixes map[string]string
}

func newPrinter(root *Node) *printer {
	p := &printer{prefixes: make(map[string]string)}
	var spaces []string
	add := func(s string) {
		if s == "" || s == XML || !isURI(s) || slices.Contains(spaces, s) {
			return
		}
		spaces = append(spaces, s)
	}
	collect := func(n *Node) {
		add(n.Space)
		for _, a := range n.Attrs {
			add(a.Space)
		}
	}
	collect(root)
	Walk(root, collect)

	var count int
	for _, s := range spaces {
		if pref, ok := Prefixes[s]; ok {
			p.prefixes[s] = pref
			continue
		}
		count++
		p.prefixes[s] = fmt.Sprintf("ns%d", count)
	}
	return p
}

func isURI(s string) bool {
	return strings.Contains(s, ":") || strings.Contains(s, "/")
}

func (p *printer) name(space, local string) string {
	switch {
	case space == "":
		return local
	case space == XML:
		return "xml:" + local
	case !isURI(space):
		return space + ":" + local
	}
	return p.prefixes[space] + ":" + local
}

func (p *printer) node(w *bufio.Writer, n *Node, depth int, isRoot bool) {
	indent := strings.Repeat("  ", depth)
	name := p.name(n.Space, n.Local)
	w.WriteString(indent)
	w.WriteString("<" + name)
	if isRoot {
		for _, s := range slices.Sorted(maps.Keys(p.prefixes)) {
			fmt.Fprintf(w, " xmlns:%s=\"%s\"", p.prefixes[s], escape(s))
		}
	}
	for _, a := range n.Attrs {
		fmt.Fprintf(w, " %s=\"%s\"", p.name(a.Space, a.Local), escape(a.Value))
	}

	if n.IsEmpty() {
		w.WriteString("/>")
		return
	}
	w.WriteString(">")
	if len(n.Children) == 0 {
		w.WriteString(escape(n.Text))
		w.WriteString("</" + name + ">")
		return
	}

	if n.Text != "" || hasTails(n) {
		// mixed content keeps its whitespace
		w.WriteString(escape(n.Text))
		for _, c := range n.Children {
			p.inline(w, c)
			w.WriteString(escape(c.Tail))
		}
		w.WriteString("</" + name + ">")
		return
	}

	for _, c := range n.Children {
		w.WriteString("\n")
		p.node(w, c, depth+1, false)
	}
	w.WriteString("\n" + indent + "</" + name + ">")
}

func (p *printer) inline(w *bufio.Writer, n *Node) {
	name := p.name(n.Space, n.Local)
	w.WriteString("<" + name)
	for _, a := range n.Attrs {
		fmt.Fprintf(w, " %s=\"%s\"", p.name(a.Space, a.Local), escape(a.Value))
	}
	if n.IsEmpty() {
		w.WriteString("/>")
		return
	}
	w.WriteString(">" + escape(n.Text))
	for _, c := range n.Children {
		p.inline(w, c)
		w.WriteString(escape(c.Tail))
	}
	w.WriteString("</" + name + ">")
}

func hasTails(n *Node) bool {
	for _, c := range n.Children {
		if c.Tail != "" {
			return true
		}
	}
	return false
}

func escape(s string) string {
	var sb strings.Builder
	xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
