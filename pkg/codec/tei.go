// Package codec renders canonical entries into TEI Lex-0, JSON-LD and
// Turtle, and reads the output of the local linking executable.
package codec

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/tree"
	"golang.org/x/net/html"
)

// TEIOptions modify a TEI fragment.
type TEIOptions struct {
	// OriginIDs uses the remote id of mirrored entries instead of the
	// local one.
	OriginIDs bool

	// SkipElexisNS omits the declaration of the elexis namespace, for
	// fragments embedded into a document that declares it.
	SkipElexisNS bool
}

// EntryToTEI renders an entry as a TEI <entry> fragment.
func EntryToTEI(e model.Entry, opts TEIOptions) string {
	var sb strings.Builder
	writeTEIEntry(&sb, e, opts)
	return sb.String()
}

func writeTEIEntry(w io.StringWriter, e model.Entry, opts TEIOptions) {
	id := e.ID
	if opts.OriginIDs && e.OriginID != "" {
		id = e.OriginID
	}
	var origin string
	if e.DocID != "" {
		origin = fmt.Sprintf(` elexis:origin_id="%s"`, html.EscapeString(e.DocID))
		if !opts.SkipElexisNS {
			origin = fmt.Sprintf(` xmlns:elexis="%s"`, tree.ELEXIS) + origin
		}
	}
	pos := html.EscapeString(string(e.PartOfSpeech))

	w.WriteString(fmt.Sprintf("<entry xml:id=\"%s\"%s>\n",
		html.EscapeString(id), origin))
	w.WriteString(`<form type="lemma">`)
	for _, lang := range languages(e.Language, e.CanonicalForm.WrittenRep.Languages()) {
		for _, v := range e.CanonicalForm.WrittenRep[lang] {
			w.WriteString(fmt.Sprintf(`<orth xml:lang="%s">%s</orth>`,
				lang, html.EscapeString(v)))
		}
	}
	w.WriteString("</form>\n")
	w.WriteString(fmt.Sprintf(
		"<gramGrp><pos norm=\"%s\">%s</pos></gramGrp>\n", pos, pos))

	for i, s := range e.Senses {
		var sid string
		if s.ID != "" {
			sid = fmt.Sprintf(` xml:id="%s"`, html.EscapeString(s.ID))
		}
		w.WriteString(fmt.Sprintf(`<sense n="%d"%s>`, i+1, sid))
		for _, lang := range languages(e.Language, definitionLanguages(s)) {
			w.WriteString(fmt.Sprintf(`<def xml:lang="%s">%s</def>`,
				lang, html.EscapeString(s.Definition[lang])))
		}
		w.WriteString("</sense>\n")
	}
	w.WriteString("</entry>\n")
}

// DictionaryToTEI writes a complete TEI document with a header made from
// the dictionary metadata and all its entries. Mirrored entries keep their
// remote ids.
func DictionaryToTEI(w io.Writer, d *model.Dictionary) error {
	bw := bufio.NewWriter(w)
	m := d.Meta
	esc := html.EscapeString
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<?xml-model href="http://www.tei-c.org/release/xml/tei/custom/schema/relaxng/tei_all.rng"
            schematypens="http://relaxng.org/ns/structure/1.0" type="application/xml"?>
<TEI xmlns="%s" xmlns:elexis="%s">
    <teiHeader>
        <fileDesc>
            <titleStmt>
                <title>%s</title>
                <author>%s</author>
            </titleStmt>
            <publicationStmt>
                <availability>
                    <licence target="%s">%s</licence>
                </availability>
                <publisher>%s</publisher>
            </publicationStmt>
        </fileDesc>
    </teiHeader>
    <text>
        <body>
`, tree.TEI, tree.ELEXIS, esc(m.Title), esc(m.Creator),
		esc(m.License), esc(m.License), esc(m.Publisher))

	opts := TEIOptions{OriginIDs: true, SkipElexisNS: true}
	for i := range d.Entries {
		writeTEIEntry(bw, d.Entries[i], opts)
	}
	bw.WriteString("</body></text></TEI>\n")
	return bw.Flush()
}

// languages puts the main language first, the rest keep their order.
func languages(main string, langs []string) []string {
	idx := slices.Index(langs, main)
	if idx <= 0 {
		return langs
	}
	res := make([]string, 0, len(langs))
	res = append(res, main)
	res = append(res, langs[:idx]...)
	return append(res, langs[idx+1:]...)
}

func definitionLanguages(s model.Sense) []string {
	res := make([]string, 0, len(s.Definition))
	for k := range s.Definition {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}
