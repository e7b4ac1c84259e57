package model

// PartOfSpeech uses Universal Dependencies tags.
// See https://universaldependencies.org/u/pos/
type PartOfSpeech string

const (
	ADJ   PartOfSpeech = "ADJ"   // adjective
	ADP   PartOfSpeech = "ADP"   // adposition
	ADV   PartOfSpeech = "ADV"   // adverb
	AUX   PartOfSpeech = "AUX"   // auxiliary
	CCONJ PartOfSpeech = "CCONJ" // coordinating conjunction
	DET   PartOfSpeech = "DET"   // determiner
	INTJ  PartOfSpeech = "INTJ"  // interjection
	NOUN  PartOfSpeech = "NOUN"  // noun
	NUM   PartOfSpeech = "NUM"   // numeral
	PART  PartOfSpeech = "PART"  // particle
	PRON  PartOfSpeech = "PRON"  // pronoun
	PROPN PartOfSpeech = "PROPN" // proper noun
	PUNCT PartOfSpeech = "PUNCT" // punctuation
	SCONJ PartOfSpeech = "SCONJ" // subordinating conjunction
	SYM   PartOfSpeech = "SYM"   // symbol
	VERB  PartOfSpeech = "VERB"  // verb
	X     PartOfSpeech = "X"     // other
)

var posToLexinfo = map[PartOfSpeech]string{
	ADJ:   "adjective",
	ADP:   "adposition",
	ADV:   "adverb",
	AUX:   "auxiliary",
	CCONJ: "coordinatingConjunction",
	DET:   "determiner",
	INTJ:  "interjection",
	NOUN:  "commonNoun",
	NUM:   "numeral",
	PART:  "particle",
	PRON:  "pronoun",
	PROPN: "properNoun",
	PUNCT: "punctuation",
	SCONJ: "subordinatingConjunction",
	SYM:   "symbol",
	VERB:  "verb",
	X:     "other",
}

var lexinfoToPOS = func() map[string]PartOfSpeech {
	res := make(map[string]PartOfSpeech, len(posToLexinfo)+5)
	for k, v := range posToLexinfo {
		res[v] = k
	}
	// frequent superclasses used instead of the leaf terms
	res["noun"] = NOUN
	res["conjunction"] = CCONJ
	res["preposition"] = ADP
	res["postposition"] = ADP
	res["article"] = DET
	return res
}()

// IsValid checks if the tag is a Universal Dependencies tag.
func (p PartOfSpeech) IsValid() bool {
	_, ok := posToLexinfo[p]
	return ok
}

// LexinfoToPOS converts a Lexinfo part of speech local name into a UD tag.
// UD tags are accepted as they are.
func LexinfoToPOS(s string) (PartOfSpeech, bool) {
	if p := PartOfSpeech(s); p.IsValid() {
		return p, true
	}
	p, ok := lexinfoToPOS[s]
	return p, ok
}

// POSToLexinfo converts a UD tag into the Lexinfo local name. Unknown
// tags are returned as they are.
func POSToLexinfo(p PartOfSpeech) string {
	if res, ok := posToLexinfo[p]; ok {
		return res
	}
	return string(p)
}
