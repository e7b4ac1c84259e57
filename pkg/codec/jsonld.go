package codec

import (
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/tree"
	"github.com/gnames/gnfmt"
)

// ExportBase prefixes entry and sense ids in RDF exports, so that no
// relative IRI gets resolved against a location.
const ExportBase = "elexis:.#"

// ContextLinkHeader is the HTTP Link header that accompanies JSON-LD
// entries.
const ContextLinkHeader = `</context.jsonld>; ` +
	`rel="http://www.w3.org/ns/json-ld#context"; type="application/ld+json"`

// Context returns the JSON-LD context of exported entries.
func Context() map[string]any {
	return map[string]any{
		"ontolex":       tree.ONTOLEX,
		"lexinfo":       tree.LEXINFO,
		"lime":          tree.LIME,
		"skos":          tree.SKOS,
		"origin_id":     tree.ELEXIS + "origin_id",
		"canonicalForm": "ontolex:canonicalForm",
		"otherForm":     "ontolex:otherForm",
		"writtenRep": map[string]any{
			"@id":        "ontolex:writtenRep",
			"@container": "@language",
		},
		"phoneticRep": map[string]any{
			"@id":        "ontolex:phoneticRep",
			"@container": "@language",
		},
		"senses": map[string]any{
			"@id":        "ontolex:sense",
			"@container": "@set",
		},
		"definition": map[string]any{
			"@id":        "skos:definition",
			"@container": "@language",
		},
		"reference": map[string]any{
			"@id":        "ontolex:reference",
			"@type":      "@id",
			"@container": "@set",
		},
		"partOfSpeech": map[string]any{
			"@id":   "lexinfo:partOfSpeech",
			"@type": "@id",
		},
		"usage":                "ontolex:usage",
		"morphologicalPattern": "ontolex:morphologicalPattern",
		"etymology":            "ontolex:etymology",
	}
}

// EntryToJSONLD renders an entry as a JSON-LD document.
func EntryToJSONLD(e model.Entry) ([]byte, error) {
	obj, err := jsonLD(e, false)
	if err != nil {
		return nil, err
	}
	enc := gnfmt.GNjson{}
	res, err := enc.Encode(obj)
	if err != nil {
		return nil, JSONLDError(e.ID, err)
	}
	return res, nil
}

// jsonLD converts an entry into a generic JSON object with the context,
// entry and sense ids, the OntoLex type, and the Lexinfo part of speech.
func jsonLD(e model.Entry, prefixIDs bool) (map[string]any, error) {
	enc := gnfmt.GNjson{}
	bs, err := enc.Encode(e)
	if err != nil {
		return nil, JSONLDError(e.ID, err)
	}
	var obj map[string]any
	if err = enc.Decode(bs, &obj); err != nil {
		return nil, JSONLDError(e.ID, err)
	}

	prefix := func(id string) string {
		if prefixIDs {
			return ExportBase + id
		}
		return id
	}

	obj["@context"] = Context()
	obj["@id"] = prefix(e.ID)
	obj["@type"] = tree.ONTOLEX + string(e.Type)
	delete(obj, "type")
	obj["partOfSpeech"] = "lexinfo:" + model.POSToLexinfo(e.PartOfSpeech)

	senseIDs := e.SenseIDs()
	senses := make([]any, len(e.Senses))
	if ss, ok := obj["senses"].([]any); ok && len(ss) == len(senses) {
		copy(senses, ss)
	}
	for i := range senses {
		sense, ok := senses[i].(map[string]any)
		if !ok {
			sense = make(map[string]any)
		}
		delete(sense, "id")
		sense["@id"] = prefix(senseIDs[i])
		senses[i] = sense
	}
	obj["senses"] = senses
	return obj, nil
}
