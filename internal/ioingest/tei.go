package ioingest

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/gnames/dictmatrix/pkg/tree"
)

// Transformer rewrites a TEI document into OntoLex-shaped XML that the
// extractor understands.
type Transformer interface {
	Transform(ctx context.Context, path string) (*tree.Node, error)
}

// xsltTransformer applies an XSLT stylesheet with an external processor.
// The processor may not use the network or write files.
type xsltTransformer struct {
	processor  string
	stylesheet string
}

// NewXSLTTransformer creates a Transformer that runs processor with the
// stylesheet.
func NewXSLTTransformer(processor, stylesheet string) Transformer {
	return &xsltTransformer{processor: processor, stylesheet: stylesheet}
}

func (x *xsltTransformer) Transform(
	ctx context.Context,
	path string,
) (*tree.Node, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, x.processor,
		"--nonet", "--nowrite", "--nomkdir", x.stylesheet, path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, TransformError(x.stylesheet, stderr.String(), err)
	}
	return tree.Parse(&stdout)
}

// teiTransformer maps the core of TEI Lex-0 to OntoLex.
type teiTransformer struct{}

// NewTEITransformer creates the built-in TEI Transformer.
func NewTEITransformer() Transformer {
	return teiTransformer{}
}

var (
	isTEIEntry = tree.Local("entry")
	isSense    = tree.Local("sense")
)

// isPOS matches both <pos> and <gram type="pos">.
func isPOS(n *tree.Node) bool {
	if n.Local == "pos" {
		return true
	}
	typ, _ := n.Attr("type")
	return n.Local == "gram" && typ == "pos"
}

func (teiTransformer) Transform(
	_ context.Context,
	path string,
) (*tree.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, FileMissingError(path, err)
	}
	defer f.Close()

	tei, err := tree.Parse(f)
	if err != nil {
		return nil, err
	}
	return teiToOntolex(tei), nil
}

func teiToOntolex(tei *tree.Node) *tree.Node {
	root := tree.NewElement(tree.RDF, "RDF")
	lex := root.Append(tree.NewElement(tree.LIME, "Lexicon"))

	if hh := tree.Descendants(tei, tree.Local("teiHeader")); len(hh) > 0 {
		header(hh[0], lex)
	}

	var lang string
	for _, n := range tree.Descendants(tei, tree.LocalIn("text", "body")) {
		if v, ok := n.XMLAttr("lang"); ok && v != "" {
			lang = v
			break
		}
	}
	if lang == "" {
		lang, _ = tei.XMLAttr("lang")
	}
	if lang != "" {
		lex.Append(tree.NewElement(tree.LIME, "language")).Text = lang
	}

	for _, e := range tree.Descendants(tei, isTEIEntry) {
		lex.Append(tree.NewElement(tree.LIME, "entry")).Append(entry(e))
	}
	return root
}

func header(h *tree.Node, lex *tree.Node) {
	add := func(space, local, value string) {
		if value != "" {
			lex.Append(tree.NewElement(space, local)).Text = value
		}
	}
	first := func(name string) *tree.Node {
		if nn := tree.Descendants(h, tree.Local(name)); len(nn) > 0 {
			return nn[0]
		}
		return nil
	}
	if n := first("title"); n != nil {
		add(tree.DC, "title", tree.TextContent(n))
	}
	if n := first("author"); n != nil {
		add(tree.DC, "creator", tree.TextContent(n))
	}
	if n := first("publisher"); n != nil {
		add(tree.DC, "publisher", tree.TextContent(n))
	}
	if n := first("licence"); n != nil {
		v, _ := n.Attr("target")
		if v == "" {
			v = tree.TextContent(n)
		}
		add(tree.DCTERMS, "license", v)
	}
}

var entryTypes = map[string]string{
	"affix":               "Affix",
	"mwe":                 "MultiWordExpression",
	"multiWordExpression": "MultiWordExpression",
	"word":                "Word",
}

func entry(e *tree.Node) *tree.Node {
	typ := "LexicalEntry"
	if v, ok := e.Attr("type"); ok {
		if t, ok := entryTypes[v]; ok {
			typ = t
		}
	}
	res := tree.NewElement(tree.ONTOLEX, typ)
	if id, ok := e.XMLAttr("id"); ok {
		res.SetAttr(tree.RDF, "about", id)
	}
	if lang, ok := e.XMLAttr("lang"); ok {
		res.SetAttr(tree.XML, "lang", lang)
	}

	var canonical bool
	for _, f := range own(e, tree.Local("form"), isTEIEntry) {
		name := "otherForm"
		typ, _ := f.Attr("type")
		if !canonical && (typ == "" || typ == "lemma") {
			name = "canonicalForm"
			canonical = true
		}
		form := tree.NewElement(tree.ONTOLEX, "Form")
		copyText(f, form, "orth", tree.ONTOLEX, "writtenRep")
		copyText(f, form, "pron", tree.ONTOLEX, "phoneticRep")
		res.Append(tree.NewElement(tree.ONTOLEX, name)).Append(form)
	}

	for _, p := range own(e, isPOS, isTEIEntry) {
		v, _ := p.Attr("norm")
		if v == "" {
			v, _ = p.Attr("value")
		}
		if v == "" {
			v = tree.TextContent(p)
		}
		pos := res.Append(tree.NewElement(tree.LEXINFO, "partOfSpeech"))
		pos.SetAttr(tree.RDF, "resource", tree.LEXINFO+strings.TrimSpace(v))
	}

	for _, s := range own(e, isSense, isTEIEntry, isSense) {
		res.Append(tree.NewElement(tree.ONTOLEX, "sense")).Append(sense(s))
	}

	copyOwn(e, res, "etym", "etymology")
	copyOwn(e, res, "usg", "usage")
	return res
}

func sense(s *tree.Node) *tree.Node {
	res := tree.NewElement(tree.ONTOLEX, "LexicalSense")
	if id, ok := s.XMLAttr("id"); ok {
		res.SetAttr(tree.RDF, "about", id)
	}
	// definitions of sub-senses belong to the sense
	for _, d := range own(s, tree.Local("def"), isTEIEntry) {
		text := tree.TextContent(d)
		if text == "" {
			continue
		}
		def := res.Append(tree.NewElement(tree.SKOS, "definition"))
		def.Text = text
		if lang, ok := d.XMLAttr("lang"); ok {
			def.SetAttr(tree.XML, "lang", lang)
		}
	}
	for _, r := range own(s, tree.Local("ref"), isTEIEntry, isSense) {
		target, _ := r.Attr("target")
		if target == "" {
			continue
		}
		ref := res.Append(tree.NewElement(tree.ONTOLEX, "reference"))
		ref.SetAttr(tree.RDF, "resource", target)
	}
	return res
}

// own finds descendants of n that match pred and are not inside a nested
// element matching any of the stops.
func own(n *tree.Node, pred tree.Predicate, stops ...tree.Predicate) []*tree.Node {
	var res []*tree.Node
	var walk func(*tree.Node)
	walk = func(cur *tree.Node) {
		for _, c := range cur.Children {
			if pred(c) {
				res = append(res, c)
			}
			stop := false
			for _, s := range stops {
				if s(c) {
					stop = true
					break
				}
			}
			if !stop {
				walk(c)
			}
		}
	}
	walk(n)
	return res
}

func copyText(from, to *tree.Node, name, space, local string) {
	for _, n := range tree.Descendants(from, tree.Local(name)) {
		text := tree.TextContent(n)
		if text == "" {
			continue
		}
		el := to.Append(tree.NewElement(space, local))
		el.Text = text
		if lang, ok := n.XMLAttr("lang"); ok {
			el.SetAttr(tree.XML, "lang", lang)
		}
	}
}

func copyOwn(e, to *tree.Node, name, local string) {
	for _, n := range own(e, tree.Local(name), isTEIEntry, isSense) {
		if text := tree.TextContent(n); text != "" {
			to.Append(tree.NewElement(tree.ONTOLEX, local)).Text = text
		}
	}
}
