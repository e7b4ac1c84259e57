package model

import (
	"fmt"
	"maps"
	"slices"
)

// LangValues keeps multi-valued text by language code.
type LangValues map[string][]string

// LangValue keeps text by language code.
type LangValue map[string]string

// Form is a canonical form or an other form of an entry.
type Form struct {
	// WrittenRep contains orthographic variants by language.
	WrittenRep LangValues `json:"writtenRep,omitempty"`

	// PhoneticRep contains pronunciations by language.
	PhoneticRep LangValues `json:"phoneticRep,omitempty"`
}

// Sense is one meaning of an entry.
type Sense struct {
	// ID is the sense id carried by the source document.
	ID string `json:"id,omitempty"`

	// Definition by language. Several definitions in the same language
	// are joined together.
	Definition LangValue `json:"definition,omitempty"`

	// Reference contains URIs of external concepts.
	Reference []string `json:"reference,omitempty"`
}

// Entry is a lexical entry with exactly one lemma.
type Entry struct {
	// ID is the local identifier of the entry.
	ID string `json:"-"`

	// DictID is the local dictionary the entry belongs to.
	DictID string `json:"-"`

	// OriginID is the entry id on a remote service when the entry is
	// a local mirror of a remote entry.
	OriginID string `json:"-"`

	// Lemma is the headword of this copy of the entry.
	Lemma string `json:"lemma"`

	// Type is the OntoLex class of the entry.
	Type EntryType `json:"type"`

	// CanonicalForm contains the headwords. WrittenRep cannot be empty.
	CanonicalForm Form `json:"canonicalForm"`

	// PartOfSpeech is a Universal Dependencies tag.
	PartOfSpeech PartOfSpeech `json:"partOfSpeech"`

	// OtherForm contains inflected and variant forms.
	OtherForm []Form `json:"otherForm,omitempty"`

	// Language of the entry, defaults to the dictionary source language.
	Language string `json:"language,omitempty"`

	Senses []Sense `json:"senses"`

	MorphologicalPattern []string `json:"morphologicalPattern,omitempty"`
	Etymology            []string `json:"etymology,omitempty"`
	Usage                []string `json:"usage,omitempty"`

	// DocID is the entry identifier found in the source document.
	DocID string `json:"origin_id,omitempty"`
}

// Clone creates a deep copy of the entry.
func (e Entry) Clone() Entry {
	res := e
	res.CanonicalForm = e.CanonicalForm.Clone()
	if e.OtherForm != nil {
		res.OtherForm = make([]Form, len(e.OtherForm))
		for i := range e.OtherForm {
			res.OtherForm[i] = e.OtherForm[i].Clone()
		}
	}
	if e.Senses != nil {
		res.Senses = make([]Sense, len(e.Senses))
		for i := range e.Senses {
			res.Senses[i] = e.Senses[i].Clone()
		}
	}
	res.MorphologicalPattern = slices.Clone(e.MorphologicalPattern)
	res.Etymology = slices.Clone(e.Etymology)
	res.Usage = slices.Clone(e.Usage)
	return res
}

// WithLemma creates a copy of the entry for one of its headwords. The
// written representation in lang is reduced to the headword, because
// exports report the lemma through it.
func (e Entry) WithLemma(lang, headword string) Entry {
	res := e.Clone()
	res.Lemma = headword
	if res.CanonicalForm.WrittenRep == nil {
		res.CanonicalForm.WrittenRep = make(LangValues)
	}
	res.CanonicalForm.WrittenRep[lang] = []string{headword}
	return res
}

// SenseIDs returns identifiers of senses as they are exported: the id
// from the source document, or "{entry id}-{index}" otherwise.
func (e Entry) SenseIDs() []string {
	res := make([]string, len(e.Senses))
	for i, s := range e.Senses {
		if s.ID != "" {
			res[i] = s.ID
			continue
		}
		res[i] = fmt.Sprintf("%s-%d", e.ID, i)
	}
	return res
}

// Validate checks the invariants of an entry.
func (e Entry) Validate() error {
	if !e.Type.IsValid() {
		return InvalidEntryError(e.Lemma, fmt.Sprintf("unknown type '%s'", e.Type))
	}
	if len(e.CanonicalForm.WrittenRep) == 0 {
		return InvalidEntryError(e.Lemma, "missing canonicalForm.writtenRep")
	}
	for _, f := range append([]Form{e.CanonicalForm}, e.OtherForm...) {
		if err := f.validate(e.Lemma); err != nil {
			return err
		}
	}
	if !e.PartOfSpeech.IsValid() {
		return InvalidEntryError(
			e.Lemma, fmt.Sprintf("unknown part of speech '%s'", e.PartOfSpeech),
		)
	}
	if e.Language != "" && !IsLanguage(e.Language) {
		return InvalidEntryError(
			e.Lemma, fmt.Sprintf("bad language '%s'", e.Language),
		)
	}
	for i, s := range e.Senses {
		for k := range s.Definition {
			if !IsLanguage(k) {
				return InvalidEntryError(
					e.Lemma, fmt.Sprintf("bad language '%s' in sense %d", k, i),
				)
			}
		}
	}
	return nil
}

func (f Form) validate(lemma string) error {
	for _, lv := range []LangValues{f.WrittenRep, f.PhoneticRep} {
		for k := range lv {
			if !IsLanguage(k) {
				return InvalidEntryError(
					lemma, fmt.Sprintf("bad language '%s' in form", k),
				)
			}
		}
	}
	return nil
}

// Clone creates a deep copy of the form.
func (f Form) Clone() Form {
	return Form{
		WrittenRep:  f.WrittenRep.Clone(),
		PhoneticRep: f.PhoneticRep.Clone(),
	}
}

// IsEmpty is true when the form has no representations.
func (f Form) IsEmpty() bool {
	return len(f.WrittenRep) == 0 && len(f.PhoneticRep) == 0
}

// Clone creates a deep copy of the sense.
func (s Sense) Clone() Sense {
	res := s
	if s.Definition != nil {
		res.Definition = maps.Clone(s.Definition)
	}
	res.Reference = slices.Clone(s.Reference)
	return res
}

// Clone creates a deep copy of the values.
func (lv LangValues) Clone() LangValues {
	if lv == nil {
		return nil
	}
	res := make(LangValues, len(lv))
	for k, v := range lv {
		res[k] = slices.Clone(v)
	}
	return res
}

// Languages returns the language keys in sorted order.
func (lv LangValues) Languages() []string {
	return slices.Sorted(maps.Keys(lv))
}
