package model

import "slices"

// ReleasePolicy determines who may access a dictionary.
type ReleasePolicy string

const (
	Public        ReleasePolicy = "PUBLIC"
	NonCommercial ReleasePolicy = "NONCOMMERCIAL"
	Research      ReleasePolicy = "RESEARCH"
	Private       ReleasePolicy = "PRIVATE"
)

// IsValid checks if the policy is one of the known ones.
func (r ReleasePolicy) IsValid() bool {
	switch r {
	case Public, NonCommercial, Research, Private:
		return true
	}
	return false
}

// Genre is a dictionary genre tag.
type Genre string

const (
	// GenreGeneral documents contemporary vocabulary.
	GenreGeneral Genre = "gen"
	// GenreLearners is intended for second language learners.
	GenreLearners Genre = "lrn"
	// GenreEtymological explains the origins of words.
	GenreEtymological Genre = "ety"
	// GenreSpecial focuses on a subset of the vocabulary or a dialect.
	GenreSpecial Genre = "spe"
	// GenreHistorical documents previous states of the language.
	GenreHistorical Genre = "his"
	// GenreSpelling codifies the orthography.
	GenreSpelling Genre = "ort"
	// GenreTerminological describes a specialized domain.
	GenreTerminological Genre = "trm"
)

// IsValid checks if the genre is one of the known ones.
func (g Genre) IsValid() bool {
	switch g {
	case GenreGeneral, GenreLearners, GenreEtymological, GenreSpecial,
		GenreHistorical, GenreSpelling, GenreTerminological:
		return true
	}
	return false
}

// EntryType is the OntoLex class of an entry.
type EntryType string

const (
	LexicalEntry        EntryType = "LexicalEntry"
	Word                EntryType = "Word"
	Affix               EntryType = "Affix"
	MultiWordExpression EntryType = "MultiWordExpression"
)

// EntryTypes lists the element names that denote an entry.
var EntryTypes = []EntryType{LexicalEntry, Word, Affix, MultiWordExpression}

// IsValid checks if the type is one of the entry classes.
func (t EntryType) IsValid() bool {
	return slices.Contains(EntryTypes, t)
}

// Format is a representation of an entry served by the federation
// protocol.
type Format string

const (
	FormatJSON    Format = "json"
	FormatOntolex Format = "ontolex"
	FormatTEI     Format = "tei"
)

// Formats lists all entry formats in the order of preference.
var Formats = []Format{FormatJSON, FormatOntolex, FormatTEI}

// IsValid checks if the format is known.
func (f Format) IsValid() bool {
	return slices.Contains(Formats, f)
}

// PreferredFormats filters and sorts formats by preference. Unknown
// formats are dropped. An empty input means all formats are available.
func PreferredFormats(ff []Format) []Format {
	if len(ff) == 0 {
		return slices.Clone(Formats)
	}
	var res []Format
	for _, f := range Formats {
		if slices.Contains(ff, f) {
			res = append(res, f)
		}
	}
	return res
}

// SourceFormat is the serialization of an imported document.
type SourceFormat string

const (
	SourceTEI    SourceFormat = "tei"
	SourceTurtle SourceFormat = "turtle"
	SourceJSON   SourceFormat = "json"
	SourceRDFXML SourceFormat = "rdfxml"
)
