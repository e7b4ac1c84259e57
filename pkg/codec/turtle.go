package codec

import (
	"bytes"
	"io"
	"strings"

	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/tree"
	"github.com/knakk/rdf"
	"github.com/piprate/json-gold/ld"
)

// EntryToTurtle renders one entry as a Turtle document.
func EntryToTurtle(e model.Entry) (string, error) {
	var buf bytes.Buffer
	if err := EntriesToTurtle(&buf, []model.Entry{e}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EntriesToTurtle writes entries as one Turtle graph. The graph is made
// from the JSON-LD form of the entries, so both forms always agree.
// Entry and sense ids are prefixed with ExportBase.
func EntriesToTurtle(w io.Writer, ee []model.Entry) error {
	docs := make([]any, len(ee))
	for i := range ee {
		obj, err := jsonLD(ee[i], true)
		if err != nil {
			return err
		}
		docs[i] = obj
	}

	triples, err := toTriples(docs)
	if err != nil {
		return err
	}

	enc := rdf.NewTripleEncoder(w, rdf.Turtle)
	enc.Namespaces = map[string]string{
		tree.RDF:     "rdf",
		tree.ONTOLEX: "ontolex",
		tree.LEXINFO: "lexinfo",
		tree.LIME:    "lime",
		tree.SKOS:    "skos",
		tree.ELEXIS:  "elexis",
	}
	if err = enc.EncodeAll(triples); err != nil {
		return TurtleError(err)
	}
	if err = enc.Close(); err != nil {
		return TurtleError(err)
	}
	return nil
}

// toTriples expands JSON-LD documents into RDF triples. All documents
// are processed at once to keep blank node labels unique.
func toTriples(docs []any) ([]rdf.Triple, error) {
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"

	res, err := proc.ToRDF(docs, opts)
	if err != nil {
		return nil, TurtleError(err)
	}
	nquads, _ := res.(string)

	dec := rdf.NewQuadDecoder(strings.NewReader(nquads), rdf.NQuads)
	quads, err := dec.DecodeAll()
	if err != nil {
		return nil, TurtleError(err)
	}
	triples := make([]rdf.Triple, len(quads))
	for i := range quads {
		triples[i] = quads[i].Triple
	}
	return triples, nil
}
