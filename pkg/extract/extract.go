// Package extract converts an OntoLex-shaped XML tree into the canonical
// dictionary model.
//
// Elements are matched by their local names only. Empty elements that
// point to other elements through rdf:resource or rdf:nodeID are replaced
// by the elements they point to. Extraction is best effort: an entry that
// cannot be converted is skipped and its problem is recorded, the
// document fails only when no entry survives.
package extract

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/tree"
	"github.com/gnames/gnlib"
)

const (
	// ImportBase is the base IRI given to imported Turtle documents.
	ImportBase = "elexis:dict"

	// MaxErrors limits the number of recorded entry problems.
	MaxErrors = 50
)

// Result of an extraction.
type Result struct {
	// Dictionary contains metadata and the surviving entries in document
	// order. Entries with several headwords are split into one entry per
	// headword.
	Dictionary *model.Dictionary

	// Errors are problems of skipped entries, at most MaxErrors of them.
	Errors []string

	// Total is the number of entry elements found in the document.
	Total int
}

var entryNames = func() []string {
	res := make([]string, len(model.EntryTypes))
	for i, v := range model.EntryTypes {
		res[i] = string(v)
	}
	return res
}()

var isEntry = tree.LocalIn(entryNames...)

type extractor struct {
	root *tree.Node

	lexicon      tree.Finder
	language     tree.Finder
	dublinCore   tree.Finder
	entry        tree.Finder
	canonical    tree.Finder
	otherForm    tree.Finder
	writtenRep   tree.Finder
	phoneticRep  tree.Finder
	partOfSpeech tree.Finder
	sense        tree.Finder
	definition   tree.Finder
	reference    tree.Finder
	morphPattern tree.Finder
	etymology    tree.Finder
	usage        tree.Finder

	lexLang string
	errors  []string
}

func newExtractor(root *tree.Node) *extractor {
	r := tree.NewResolver(root)
	local := func(name string) tree.Finder {
		return r.Resolved(tree.Find(tree.Local(name)))
	}
	return &extractor{
		root:       root,
		lexicon:    local("Lexicon"),
		language:   local("language"),
		dublinCore: r.Resolved(tree.Find(tree.NamespaceIn(tree.DC, tree.DCTERMS))),
		entry:      r.Resolved(tree.Find(isEntry)),
		canonical:  local("canonicalForm"),
		otherForm:  local("otherForm"),
		writtenRep: local("writtenRep"),

		phoneticRep: local("phoneticRep"),
		// part of speech points to Lexinfo, it is never resolved
		partOfSpeech: tree.Find(tree.Local("partOfSpeech")),
		sense:        local("sense"),
		definition:   local("definition"),
		reference:    tree.Find(tree.Local("reference")),
		morphPattern: local("morphologicalPattern"),
		etymology:    local("etymology"),
		usage:        local("usage"),
	}
}

// Extract converts the tree into a dictionary. The language, if given,
// overrides the language found in the document. It fails when no language
// can be determined, or when none of the entries could be converted.
func Extract(root *tree.Node, language string) (*Result, error) {
	ex := newExtractor(root)

	lexicon := root
	if ll := ex.lexicon(root); len(ll) > 0 {
		lexicon = ll[0]
	}

	dict := &model.Dictionary{}
	ex.meta(lexicon, &dict.Meta)

	ex.lexLang = ex.lexiconLanguage(lexicon, language)
	if ex.lexLang == "" {
		return nil, NoLanguageError()
	}

	entries := ex.entry(lexicon)
	for i, el := range entries {
		ee, err := ex.entryToModel(i, el)
		if err != nil {
			if len(ex.errors) < MaxErrors {
				ex.errors = append(ex.errors, err.Error())
			}
			continue
		}
		dict.Entries = append(dict.Entries, ee...)
	}

	if len(dict.Entries) == 0 {
		return nil, NoEntriesError(ex.errors)
	}
	slog.Debug("Extracted entries",
		"valid", len(dict.Entries), "total", len(entries),
		"errors", len(ex.errors),
	)

	dict.Meta.SourceLanguage = ex.lexLang
	dict.Meta.TargetLanguage = ex.targetLanguages()

	res := &Result{
		Dictionary: dict,
		Errors:     ex.errors,
		Total:      len(entries),
	}
	return res, nil
}

// meta collects Dublin Core elements that precede the first entry.
func (ex *extractor) meta(lexicon *tree.Node, m *model.Meta) {
	for _, el := range ex.dublinCore(lexicon) {
		if tree.HasAncestorOrSelf(el, isEntry) {
			break
		}
		value := tree.TextContent(el)
		if value == "" {
			value, _ = el.RDFAttr("resource")
		}
		if value == "" {
			continue
		}
		value = gnlib.FixUtf8(value)
		switch el.Local {
		case "title":
			m.Title = value
		case "creator":
			m.Creator = value
		case "publisher":
			m.Publisher = value
		case "license", "rights":
			if m.License == "" {
				m.License = value
			}
		}
	}
}

func (ex *extractor) lexiconLanguage(lexicon *tree.Node, language string) string {
	if res := model.ToISO639(language); res != "" {
		return res
	}
	if res := model.ToISO639(tree.XMLLang(lexicon)); res != "" {
		return res
	}
	for _, el := range ex.language(lexicon) {
		if tree.HasAncestorOrSelf(el, isEntry) {
			continue
		}
		if res := model.ToISO639(tree.TextContent(el)); res != "" {
			return res
		}
		break
	}
	return ex.mostCommonLanguage()
}

// mostCommonLanguage returns the most frequent xml:lang of the document.
// Ties go to the value seen first.
func (ex *extractor) mostCommonLanguage() string {
	counts := make(map[string]int)
	var order []string
	count := func(n *tree.Node) {
		if v, ok := n.XMLAttr("lang"); ok && v != "" {
			if _, seen := counts[v]; !seen {
				order = append(order, v)
			}
			counts[v]++
		}
	}
	count(ex.root)
	tree.Walk(ex.root, count)

	var res string
	var best int
	for _, v := range order {
		if counts[v] > best {
			res, best = v, counts[v]
		}
	}
	return model.ToISO639(res)
}

// targetLanguages returns languages of the document other than the source
// language, in the order of their appearance.
func (ex *extractor) targetLanguages() []string {
	var res []string
	add := func(n *tree.Node) {
		v, ok := n.XMLAttr("lang")
		if !ok {
			return
		}
		v = model.ToISO639(v)
		if v == "" || v == ex.lexLang || slices.Contains(res, v) {
			return
		}
		res = append(res, v)
	}
	add(ex.root)
	tree.Walk(ex.root, add)
	return res
}

func (ex *extractor) entryToModel(i int, el *tree.Node) ([]model.Entry, error) {
	e := model.Entry{
		DocID: docID(el),
		Type:  model.EntryType(el.Local),
	}

	entryLang := model.ToISO639(tree.XMLLang(el))
	if entryLang == "" {
		if ll := ex.language(el); len(ll) > 0 {
			entryLang = model.ToISO639(tree.TextContent(ll[0]))
		}
	}
	e.Language = entryLang
	if e.Language == "" {
		e.Language = ex.lexLang
	}
	defaultLang := e.Language

	for _, f := range ex.canonical(el) {
		ex.form(f, defaultLang, &e.CanonicalForm)
	}
	if len(e.CanonicalForm.WrittenRep) == 0 {
		return nil, fmt.Errorf("Missing canonicalForm.writtenRep for entry #%d", i)
	}

	for _, f := range ex.otherForm(el) {
		var form model.Form
		ex.form(f, defaultLang, &form)
		if !form.IsEmpty() {
			e.OtherForm = append(e.OtherForm, form)
		}
	}

	pos := ex.partOfSpeech(el)
	if len(pos) != 1 {
		return nil, fmt.Errorf(
			"Need exactly one partOfSpeech for entry #%d: %v, have %d",
			i, e.CanonicalForm.WrittenRep, len(pos),
		)
	}
	posName, _ := pos[0].RDFAttr("resource")
	if posName == "" {
		posName = tree.TextContent(pos[0])
	}
	posName = localName(posName)
	p, ok := model.LexinfoToPOS(posName)
	if !ok {
		return nil, fmt.Errorf(
			"Unknown partOfSpeech '%s' for entry #%d", posName, i,
		)
	}
	e.PartOfSpeech = p

	e.Senses = []model.Sense{}
	for _, s := range ex.sense(el) {
		if sense, ok := ex.senseToModel(s, defaultLang); ok {
			e.Senses = append(e.Senses, sense)
		}
	}

	e.MorphologicalPattern = texts(ex.morphPattern(el))
	e.Etymology = texts(ex.etymology(el))
	e.Usage = texts(ex.usage(el))

	headwords := e.CanonicalForm.WrittenRep[ex.lexLang]
	if len(headwords) == 0 {
		return nil, fmt.Errorf(
			"Missing headword in language '%s' for entry #%d: %v",
			ex.lexLang, i, e.CanonicalForm.WrittenRep,
		)
	}

	res := make([]model.Entry, 0, len(headwords))
	seen := make(map[string]struct{}, len(headwords))
	for _, hw := range headwords {
		if _, ok := seen[hw]; ok {
			continue
		}
		seen[hw] = struct{}{}
		res = append(res, e.WithLemma(ex.lexLang, hw))
	}
	return res, nil
}

func (ex *extractor) form(el *tree.Node, defaultLang string, f *model.Form) {
	add := func(lv *model.LangValues, nodes []*tree.Node) {
		for _, n := range nodes {
			text := gnlib.FixUtf8(tree.TextContent(n))
			if text == "" {
				continue
			}
			lang := model.ToISO639(tree.XMLLang(n))
			if lang == "" {
				lang = defaultLang
			}
			if *lv == nil {
				*lv = make(model.LangValues)
			}
			(*lv)[lang] = append((*lv)[lang], text)
		}
	}
	add(&f.WrittenRep, ex.writtenRep(el))
	add(&f.PhoneticRep, ex.phoneticRep(el))
}

func (ex *extractor) senseToModel(el *tree.Node, defaultLang string) (model.Sense, bool) {
	res := model.Sense{ID: docID(el)}
	// an inline sense keeps its id on the LexicalSense inside the wrapper
	if res.ID == "" && len(el.Children) == 1 {
		res.ID = docID(el.Children[0])
	}

	var langs []string
	defs := make(map[string][]string)
	for _, d := range ex.definition(el) {
		text := gnlib.FixUtf8(tree.TextContent(d))
		if text == "" {
			continue
		}
		lang := model.ToISO639(tree.XMLLang(d))
		if lang == "" {
			lang = defaultLang
		}
		if _, ok := defs[lang]; !ok {
			langs = append(langs, lang)
		}
		defs[lang] = append(defs[lang], text)
	}
	if len(langs) > 0 {
		res.Definition = make(model.LangValue, len(langs))
		for _, l := range langs {
			// sub-senses share one definition
			res.Definition[l] = strings.Join(defs[l], "; ")
		}
	}

	for _, r := range ex.reference(el) {
		ref, _ := r.RDFAttr("resource")
		if ref == "" {
			ref = tree.TextContent(r)
		}
		if ref != "" {
			res.Reference = append(res.Reference, ref)
		}
	}

	ok := len(res.Definition) > 0 || len(res.Reference) > 0
	return res, ok
}

// docID returns the identifier of an element in its source document.
// Fragment references relative to the document ("#cat") lose the "#".
func docID(el *tree.Node) string {
	id, _ := el.RDFAttr("about")
	if id == "" {
		id, _ = el.RDFAttr("ID")
	}
	if id == "" {
		id, _ = el.XMLAttr("id")
	}
	id = strings.TrimPrefix(id, ImportBase+"#")
	return strings.TrimPrefix(id, "#")
}

// localName strips a namespace or a prefix from a term.
func localName(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexAny(s, "#/:"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func texts(nodes []*tree.Node) []string {
	var res []string
	for _, n := range nodes {
		if text := gnlib.FixUtf8(tree.TextContent(n)); text != "" {
			res = append(res, text)
		}
	}
	return res
}
