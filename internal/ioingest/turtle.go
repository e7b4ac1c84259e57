package ioingest

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/gnames/dictmatrix/pkg/extract"
	"github.com/gnames/dictmatrix/pkg/tree"
	"github.com/knakk/rdf"
)

// maxNesting limits how deep single-use nodes are nested into the
// elements that refer to them.
const maxNesting = 3

// turtleToTree parses a Turtle document and writes its graph as RDF/XML.
// Relative IRIs are resolved against extract.ImportBase. The RDF/XML is
// parsed again, so the result looks exactly like an RDF/XML import.
func turtleToTree(r io.Reader) (*tree.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, TurtleError(err)
	}
	doc := "@base <" + extract.ImportBase + "> .\n" + string(src)

	dec := rdf.NewTripleDecoder(strings.NewReader(doc), rdf.Turtle)
	triples, err := dec.DecodeAll()
	if err != nil {
		return nil, TurtleError(err)
	}
	slog.Debug("Parsed Turtle", "triples", len(triples))

	root := newGraph(triples).toRDFXML()

	var buf bytes.Buffer
	if err = tree.Write(&buf, root); err != nil {
		return nil, TurtleError(err)
	}
	return tree.Parse(&buf)
}

type graph struct {
	// subjects in the order of their first appearance
	subjects []string
	props    map[string][]rdf.Triple
	isBlank  map[string]bool
	refs     map[string]int
	written  map[string]bool
}

func newGraph(triples []rdf.Triple) *graph {
	g := &graph{
		props:   make(map[string][]rdf.Triple),
		isBlank: make(map[string]bool),
		refs:    make(map[string]int),
		written: make(map[string]bool),
	}
	for _, t := range triples {
		s := termKey(t.Subj)
		if _, ok := g.props[s]; !ok {
			g.subjects = append(g.subjects, s)
			g.isBlank[s] = t.Subj.Type() == rdf.TermBlank
		}
		g.props[s] = append(g.props[s], t)
		if t.Obj.Type() != rdf.TermLiteral {
			g.refs[termKey(t.Obj)]++
		}
	}
	return g
}

func termKey(t rdf.Term) string {
	if t.Type() == rdf.TermBlank {
		return "_:" + strings.TrimPrefix(t.String(), "_:")
	}
	return t.String()
}

func (g *graph) toRDFXML() *tree.Node {
	root := tree.NewElement(tree.RDF, "RDF")
	for _, s := range g.subjects {
		if g.written[s] || g.nestable(s) {
			continue
		}
		root.Append(g.node(s, 0))
	}
	// cycles of single-use nodes are never reached from the top
	for _, s := range g.subjects {
		if !g.written[s] {
			root.Append(g.node(s, 0))
		}
	}
	return root
}

// nestable is true for nodes that are referenced exactly once, so they
// can be written inside the element that refers to them.
func (g *graph) nestable(s string) bool {
	_, ok := g.props[s]
	return ok && g.refs[s] == 1
}

func (g *graph) node(s string, depth int) *tree.Node {
	g.written[s] = true
	props := g.props[s]

	space, local := tree.RDF, "Description"
	typeIdx := -1
	for i, t := range props {
		if t.Pred.String() == tree.RDF+"type" && t.Obj.Type() == rdf.TermIRI {
			if ts, tl := splitIRI(t.Obj.String()); tl != "" {
				space, local = ts, tl
				typeIdx = i
			}
			break
		}
	}
	res := tree.NewElement(space, local)
	if g.isBlank[s] {
		res.SetAttr(tree.RDF, "nodeID", strings.TrimPrefix(s, "_:"))
	} else {
		res.SetAttr(tree.RDF, "about", s)
	}

	for i, t := range props {
		if i == typeIdx {
			continue
		}
		ps, pl := splitIRI(t.Pred.String())
		if pl == "" {
			slog.Debug("Skipping predicate without local name",
				"predicate", t.Pred.String())
			continue
		}
		prop := res.Append(tree.NewElement(ps, pl))

		switch t.Obj.Type() {
		case rdf.TermLiteral:
			prop.Text = t.Obj.String()
			if lit, ok := t.Obj.(rdf.Literal); ok && lit.Lang() != "" {
				prop.SetAttr(tree.XML, "lang", lit.Lang())
			}
		default:
			o := termKey(t.Obj)
			if depth < maxNesting && g.nestable(o) && !g.written[o] {
				prop.Append(g.node(o, depth+1))
				continue
			}
			if t.Obj.Type() == rdf.TermBlank {
				prop.SetAttr(tree.RDF, "nodeID", strings.TrimPrefix(o, "_:"))
			} else {
				prop.SetAttr(tree.RDF, "resource", o)
			}
		}
	}
	return res
}

// splitIRI separates the namespace of an IRI from its local name.
func splitIRI(iri string) (string, string) {
	i := strings.LastIndexAny(iri, "#/")
	if i < 0 {
		i = strings.LastIndex(iri, ":")
	}
	if i < 0 {
		return "", iri
	}
	return iri[:i+1], iri[i+1:]
}
