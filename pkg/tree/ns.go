package tree

// Namespaces of the vocabularies used by lexicographic resources.
const (
	RDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	XML     = "http://www.w3.org/XML/1998/namespace"
	ONTOLEX = "http://www.w3.org/ns/lemon/ontolex#"
	LIME    = "http://www.w3.org/ns/lemon/lime#"
	LEXINFO = "http://www.lexinfo.net/ontology/3.0/lexinfo#"
	SKOS    = "http://www.w3.org/2004/02/skos/core#"
	DC      = "http://purl.org/dc/elements/1.1/"
	DCTERMS = "http://purl.org/dc/terms/"
	TEI     = "http://www.tei-c.org/ns/1.0"
	ELEXIS  = "http://matrix.elex.is/"
)

// Prefixes are used when a tree is written as text.
var Prefixes = map[string]string{
	RDF:     "rdf",
	RDFS:    "rdfs",
	ONTOLEX: "ontolex",
	LIME:    "lime",
	LEXINFO: "lexinfo",
	SKOS:    "skos",
	DC:      "dc",
	DCTERMS: "dcterms",
	ELEXIS:  "elexis",
}
