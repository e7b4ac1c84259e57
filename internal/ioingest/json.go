package ioingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/gnfmt"
)

// jsonEntry is an entry as it appears in JSON dictionaries and in the
// JSON-LD export.
type jsonEntry struct {
	Type                 string        `json:"@type"`
	ID                   string        `json:"@id,omitempty"`
	Lemma                string        `json:"lemma"`
	CanonicalForm        model.Form    `json:"canonicalForm"`
	PartOfSpeech         string        `json:"partOfSpeech"`
	OtherForm            []model.Form  `json:"otherForm,omitempty"`
	Language             string        `json:"language,omitempty"`
	Senses               []model.Sense `json:"senses"`
	MorphologicalPattern []string      `json:"morphologicalPattern,omitempty"`
	Etymology            []string      `json:"etymology,omitempty"`
	Usage                []string      `json:"usage,omitempty"`
}

type jsonMeta struct {
	Release        model.ReleasePolicy `json:"release"`
	SourceLanguage string              `json:"sourceLanguage"`
	TargetLanguage []string            `json:"targetLanguage,omitempty"`
	Genre          []model.Genre       `json:"genre,omitempty"`
	License        string              `json:"license,omitempty"`
	Title          string              `json:"title,omitempty"`
	Creator        any                 `json:"creator,omitempty"`
	Publisher      any                 `json:"publisher,omitempty"`
}

type jsonDictionary struct {
	Meta    jsonMeta    `json:"meta"`
	Entries []jsonEntry `json:"entries"`
}

// fromJSON reads a JSON dictionary. Unlike XML formats, the whole file
// fails on the first invalid entry.
func fromJSON(path string) (*model.Dictionary, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, FileMissingError(path, err)
	}

	enc := gnfmt.GNjson{}
	var doc map[string]any
	if err = enc.Decode(bs, &doc); err != nil {
		return nil, JSONError("cannot decode document", err)
	}
	if len(doc) != 1 {
		return nil, JSONError(
			fmt.Sprintf("expected one dictionary per file, got %d", len(doc)), nil,
		)
	}

	// the dictionary id of the file is discarded
	var raw map[string]any
	for _, v := range doc {
		var ok bool
		if raw, ok = v.(map[string]any); !ok {
			return nil, JSONError("dictionary is not an object", nil)
		}
	}
	if err = normalizeJSON(raw); err != nil {
		return nil, err
	}

	// round trip through the normalized form into typed structures
	bs, err = enc.Encode(raw)
	if err != nil {
		return nil, JSONError("cannot encode document", err)
	}
	var jd jsonDictionary
	if err = enc.Decode(bs, &jd); err != nil {
		return nil, JSONError("unexpected structure", err)
	}

	return jd.toModel()
}

// normalizeJSON promotes plain strings to language maps and fills
// defaults, the way entries exported by the JSON-LD codec look.
func normalizeJSON(raw map[string]any) error {
	meta, ok := raw["meta"].(map[string]any)
	if !ok {
		return JSONError("missing meta", nil)
	}
	srcLang, _ := meta["sourceLanguage"].(string)
	if srcLang == "" {
		return JSONError("missing meta.sourceLanguage", nil)
	}

	entries, ok := raw["entries"].([]any)
	if !ok {
		return JSONError("missing entries", nil)
	}

	for i, v := range entries {
		entry, ok := v.(map[string]any)
		if !ok {
			return JSONError(fmt.Sprintf("entry #%d is not an object", i), nil)
		}
		lang := srcLang
		if l, ok := entry["language"].(string); ok && l != "" {
			lang = l
		}

		if cf, ok := entry["canonicalForm"].(map[string]any); ok {
			for rep, s := range cf {
				if str, ok := s.(string); ok {
					cf[rep] = map[string]any{lang: []any{str}}
				}
			}
		}

		senses, _ := entry["senses"].([]any)
		if senses == nil {
			senses = []any{}
		}
		for _, s := range senses {
			sense, ok := s.(map[string]any)
			if !ok {
				continue
			}
			if str, ok := sense["definition"].(string); ok {
				sense["definition"] = map[string]any{lang: str}
			}
			if str, ok := sense["reference"].(string); ok {
				sense["reference"] = []any{str}
			}
			if id, ok := sense["@id"].(string); ok && sense["id"] == nil {
				sense["id"] = id
			}
		}
		entry["senses"] = senses

		if lemma, _ := entry["lemma"].(string); lemma == "" {
			entry["lemma"] = firstWrittenRep(entry, lang)
		}
	}
	return nil
}

func firstWrittenRep(entry map[string]any, lang string) string {
	cf, _ := entry["canonicalForm"].(map[string]any)
	wr, _ := cf["writtenRep"].(map[string]any)
	vals, _ := wr[lang].([]any)
	if len(vals) == 0 {
		return ""
	}
	res, _ := vals[0].(string)
	return res
}

func (jd jsonDictionary) toModel() (*model.Dictionary, error) {
	res := &model.Dictionary{
		Meta: model.Meta{
			Release:        jd.Meta.Release,
			SourceLanguage: model.ToISO639(jd.Meta.SourceLanguage),
			TargetLanguage: jd.Meta.TargetLanguage,
			Genre:          jd.Meta.Genre,
			License:        jd.Meta.License,
			Title:          jd.Meta.Title,
			Creator:        joinValues(jd.Meta.Creator),
			Publisher:      joinValues(jd.Meta.Publisher),
		},
	}

	// release is applied by the importer when the file has none
	if res.Meta.Release != "" && !res.Meta.Release.IsValid() {
		return nil, JSONError(
			fmt.Sprintf("unknown release '%s'", res.Meta.Release), nil,
		)
	}
	if !model.IsLanguage(res.Meta.SourceLanguage) {
		return nil, JSONError(
			fmt.Sprintf("bad source language '%s'", res.Meta.SourceLanguage), nil,
		)
	}
	if len(jd.Entries) == 0 {
		return nil, JSONError("no entries", nil)
	}

	res.Entries = make([]model.Entry, len(jd.Entries))
	for i, je := range jd.Entries {
		e, err := je.toModel(i)
		if err != nil {
			return nil, err
		}
		res.Entries[i] = e
	}
	return res, nil
}

func (je jsonEntry) toModel(i int) (model.Entry, error) {
	pos, ok := model.LexinfoToPOS(stripNamespace(je.PartOfSpeech))
	if !ok {
		return model.Entry{}, JSONError(
			fmt.Sprintf("unknown partOfSpeech '%s' in entry #%d",
				je.PartOfSpeech, i), nil,
		)
	}
	res := model.Entry{
		Lemma:                je.Lemma,
		Type:                 model.EntryType(stripNamespace(je.Type)),
		CanonicalForm:        je.CanonicalForm,
		PartOfSpeech:         pos,
		OtherForm:            je.OtherForm,
		Language:             je.Language,
		Senses:               je.Senses,
		MorphologicalPattern: je.MorphologicalPattern,
		Etymology:            je.Etymology,
		Usage:                je.Usage,
		DocID:                je.ID,
	}
	if res.Senses == nil {
		res.Senses = []model.Sense{}
	}
	if res.Lemma == "" {
		return model.Entry{}, JSONError(
			fmt.Sprintf("entry #%d has no lemma", i), nil,
		)
	}
	if err := res.Validate(); err != nil {
		return model.Entry{}, JSONError(
			fmt.Sprintf("entry #%d is invalid", i), err,
		)
	}
	return res, nil
}

// stripNamespace removes a JSON-LD prefix or a namespace IRI.
func stripNamespace(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexAny(s, "#:/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func joinValues(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var ss []string
		for _, s := range t {
			if str, ok := s.(string); ok && str != "" {
				ss = append(ss, str)
			}
		}
		return strings.Join(ss, "; ")
	}
	return ""
}
