package model_test

import (
	"testing"

	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToISO639(t *testing.T) {
	tests := []struct {
		msg, tag, res string
	}{
		{"two letters", "en", "en"},
		{"three letters mapped", "slv", "sl"},
		{"three letters unmapped", "grc", "grc"},
		{"region subtag", "en-US", "en"},
		{"dialect subtag", "ara-aeb", "ar"},
		{"spaces", " deu ", "de"},
		{"empty", "", ""},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			assert.Equal(t, v.res, model.ToISO639(v.tag))
		})
	}
}

func TestIsLanguage(t *testing.T) {
	assert.True(t, model.IsLanguage("en"))
	assert.True(t, model.IsLanguage("grc"))
	assert.False(t, model.IsLanguage("e"))
	assert.False(t, model.IsLanguage("engl"))
	assert.False(t, model.IsLanguage("e1"))
	assert.False(t, model.IsLanguage("EN"))
	assert.False(t, model.IsLanguage("En"))
	assert.False(t, model.IsLanguage("éa"))
}

func TestLexinfoToPOS(t *testing.T) {
	tests := []struct {
		msg   string
		input string
		res   model.PartOfSpeech
		ok    bool
	}{
		{"common noun", "commonNoun", model.NOUN, true},
		{"noun alias", "noun", model.NOUN, true},
		{"verb", "verb", model.VERB, true},
		{"conjunction alias", "conjunction", model.CCONJ, true},
		{"ud tag", "PROPN", model.PROPN, true},
		{"unknown", "gerundive", "", false},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			res, ok := model.LexinfoToPOS(v.input)
			assert.Equal(t, v.ok, ok)
			assert.Equal(t, v.res, res)
		})
	}
	assert.Equal(t, "commonNoun", model.POSToLexinfo(model.NOUN))
	assert.Equal(t, "coordinatingConjunction", model.POSToLexinfo(model.CCONJ))
	assert.Equal(t, "whatever", model.POSToLexinfo("whatever"))
}

func TestPreferredFormats(t *testing.T) {
	res := model.PreferredFormats(
		[]model.Format{model.FormatTEI, "rdf", model.FormatJSON},
	)
	assert.Equal(t, []model.Format{model.FormatJSON, model.FormatTEI}, res)
	assert.Equal(t, model.Formats, model.PreferredFormats(nil))
}

func entry() model.Entry {
	return model.Entry{
		ID:    "e1",
		Lemma: "cat",
		Type:  model.Word,
		CanonicalForm: model.Form{
			WrittenRep: model.LangValues{"en": {"cat", "kat"}},
		},
		PartOfSpeech: model.NOUN,
		Senses: []model.Sense{
			{Definition: model.LangValue{"en": "a feline"}},
			{ID: "cat-s2", Reference: []string{"http://example.org/cat"}},
		},
		Etymology: []string{"Old English catt"},
	}
}

func TestClone(t *testing.T) {
	e := entry()
	c := e.Clone()
	c.CanonicalForm.WrittenRep["en"][0] = "dog"
	c.Senses[0].Definition["en"] = "a canine"
	c.Etymology[0] = "none"
	assert.Equal(t, "cat", e.CanonicalForm.WrittenRep["en"][0])
	assert.Equal(t, "a feline", e.Senses[0].Definition["en"])
	assert.Equal(t, "Old English catt", e.Etymology[0])
}

func TestWithLemma(t *testing.T) {
	e := entry()
	c := e.WithLemma("en", "kat")
	assert.Equal(t, "kat", c.Lemma)
	assert.Equal(t, []string{"kat"}, c.CanonicalForm.WrittenRep["en"])
	assert.Equal(t, []string{"cat", "kat"}, e.CanonicalForm.WrittenRep["en"])
}

func TestSenseIDs(t *testing.T) {
	e := entry()
	assert.Equal(t, []string{"e1-0", "cat-s2"}, e.SenseIDs())
}

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		msg    string
		modify func(*model.Entry)
		ok     bool
	}{
		{"valid", func(*model.Entry) {}, true},
		{"no written rep", func(e *model.Entry) {
			e.CanonicalForm.WrittenRep = nil
		}, false},
		{"bad pos", func(e *model.Entry) { e.PartOfSpeech = "noun" }, false},
		{"bad type", func(e *model.Entry) { e.Type = "Sense" }, false},
		{"bad language", func(e *model.Entry) { e.Language = "english" }, false},
		{"bad definition language", func(e *model.Entry) {
			e.Senses[0].Definition = model.LangValue{"e": "x"}
		}, false},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			e := entry()
			v.modify(&e)
			err := e.Validate()
			if v.ok {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
		})
	}
}

func TestMetaValidate(t *testing.T) {
	m := model.Meta{Release: model.Public, SourceLanguage: "en"}
	require.NoError(t, m.Validate())

	m.Genre = []model.Genre{model.GenreGeneral, "xyz"}
	assert.Error(t, m.Validate())

	m = model.Meta{Release: "OPEN", SourceLanguage: "en"}
	assert.Error(t, m.Validate())

	m = model.Meta{Release: model.Private, SourceLanguage: ""}
	assert.Error(t, m.Validate())
}
