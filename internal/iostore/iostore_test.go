package iostore_test

import (
	"context"
	"testing"

	"github.com/gnames/dictmatrix/internal/iostore"
	"github.com/gnames/dictmatrix/internal/iotesting"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) store.Store {
	op, cfg := iotesting.OpenSQLite(t)
	return iostore.New(op, cfg.Database.BatchSize)
}

func entry(lemma string, pos model.PartOfSpeech) model.Entry {
	return model.Entry{
		Lemma:         lemma,
		Type:          model.LexicalEntry,
		PartOfSpeech:  pos,
		Language:      "en",
		CanonicalForm: model.Form{WrittenRep: model.LangValues{"en": {lemma}}},
		Senses: []model.Sense{
			{Definition: model.LangValue{"en": "about " + lemma}},
		},
	}
}

func dict(id, apiKey string, ee ...model.Entry) *model.Dictionary {
	return &model.Dictionary{
		ID:     id,
		APIKey: apiKey,
		Meta: model.Meta{
			Release:        model.Public,
			SourceLanguage: "en",
			Title:          "Test " + id,
		},
		Entries: ee,
	}
}

func TestReplaceDictionary(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	d := dict("d1", "key1",
		entry("cat", model.NOUN), entry("run", model.VERB), entry("cat", model.VERB))
	d.Entries[1].OriginID = "remote-run"
	require.NoError(t, s.ReplaceDictionary(ctx, d))
	assert.Equal(t, 3, d.NEntries)
	assert.False(t, d.ImportTime.IsZero())
	for _, e := range d.Entries {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "d1", e.DictID)
	}

	got, err := s.Dictionary(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Test d1", got.Meta.Title)
	assert.Equal(t, 3, got.NEntries)
	assert.Empty(t, got.Entries)

	ee, err := s.Entries(ctx, "d1", nil)
	require.NoError(t, err)
	require.Len(t, ee, 3)
	assert.Equal(t, []string{"cat", "run", "cat"},
		[]string{ee[0].Lemma, ee[1].Lemma, ee[2].Lemma})
	assert.Equal(t, d.Entries[0].ID, ee[0].ID)
	assert.Equal(t, "remote-run", ee[1].OriginID)
	assert.Equal(t, "about run", ee[1].Senses[0].Definition["en"])

	sub, err := s.Entries(ctx, "d1", []string{d.Entries[2].ID})
	require.NoError(t, err)
	require.Len(t, sub, 1)
	assert.Equal(t, model.VERB, sub[0].PartOfSpeech)

	keys, err := s.EntryKeys(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, store.EntryKey{
		ID: d.Entries[1].ID, Lemma: "run",
		PartOfSpeech: model.VERB, OriginID: "remote-run",
	}, keys[1])

	// the second import swaps all entries
	keep := d.Entries[0].ID
	d2 := dict("d1", "key1", entry("dog", model.NOUN), entry("cat", model.NOUN))
	d2.Entries[1].ID = keep
	require.NoError(t, s.ReplaceDictionary(ctx, d2))
	ee, err = s.Entries(ctx, "d1", nil)
	require.NoError(t, err)
	require.Len(t, ee, 2)
	assert.Equal(t, "dog", ee[0].Lemma)
	assert.Equal(t, keep, ee[1].ID)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Dictionary(ctx, "nope")
	assert.True(t, store.IsNotFound(err))
	_, err = s.Entry(ctx, "nope", "e1")
	assert.True(t, store.IsNotFound(err))
	_, err = s.ImportJob(ctx, "nope")
	assert.True(t, store.IsNotFound(err))
	_, err = s.LinkingJob(ctx, "nope")
	assert.True(t, store.IsNotFound(err))
	_, err = s.Lemmas(ctx, "nope", 0, 0)
	assert.True(t, store.IsNotFound(err))
}

func TestOwnership(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.ReplaceDictionary(ctx, dict("b", "key1", entry("a", model.NOUN))))
	require.NoError(t, s.ReplaceDictionary(ctx, dict("a", "key1", entry("a", model.NOUN))))
	require.NoError(t, s.ReplaceDictionary(ctx, dict("c", "key2", entry("a", model.NOUN))))

	tests := []struct {
		msg    string
		dictID string
		apiKey string
		owner  bool
	}{
		{"owner", "a", "key1", true},
		{"other key", "c", "key1", false},
		{"empty key", "a", "", false},
		{"missing dictionary", "zzz", "key1", false},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			res, err := s.IsOwner(ctx, v.dictID, v.apiKey)
			require.NoError(t, err)
			assert.Equal(t, v.owner, res)
		})
	}

	ids, err := s.DictionaryIDs(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	ids, err = s.DictionaryIDs(ctx, "key3")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestLemmas(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	d := dict("d1", "key1",
		entry("cat", model.NOUN), entry("run", model.VERB),
		entry("cat", model.VERB), entry("dog", model.NOUN))
	require.NoError(t, s.ReplaceDictionary(ctx, d))

	res, err := s.Lemmas(ctx, "d1", 0, 0)
	require.NoError(t, err)
	require.Len(t, res, 4)
	assert.Equal(t, model.Lemma{
		Lemma: "cat", ID: d.Entries[0].ID, PartOfSpeech: model.NOUN,
		Language: "en", Formats: model.Formats, Release: model.Public,
	}, res[0])

	res, err = s.Lemmas(ctx, "d1", 1, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "run", res[0].Lemma)
	assert.Equal(t, "cat", res[1].Lemma)

	tests := []struct {
		msg      string
		headword string
		pos      model.PartOfSpeech
		ids      []string
	}{
		{"any pos", "cat", "", []string{d.Entries[0].ID, d.Entries[2].ID}},
		{"verb", "cat", model.VERB, []string{d.Entries[2].ID}},
		{"missing", "bird", "", nil},
		{"empty headword", "", "", nil},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			res, err := s.LemmaLookup(ctx, "d1", v.headword, v.pos, 0, 0)
			require.NoError(t, err)
			var ids []string
			for _, l := range res {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, v.ids, ids)
		})
	}
}

func TestImportJobs(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	job := &jobs.ImportJob{
		ID:     "j1",
		Kind:   jobs.KindFile,
		State:  jobs.Scheduled,
		APIKey: "key1",
		URL:    "http://example.org/dict.xml",
		Meta: jobs.ImportMeta{
			Release: model.Public,
			Genre:   []model.Genre{model.GenreGeneral},
		},
	}
	require.NoError(t, s.CreateImportJob(ctx, job))
	assert.False(t, job.CreatedAt.IsZero())

	got, err := s.ImportJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, jobs.Scheduled, got.State)
	assert.Equal(t, "key1", got.APIKey)
	assert.Equal(t, job.Meta, got.Meta)

	got.State = jobs.Error
	got.Error = "Something broke\ndetails"
	require.NoError(t, s.UpdateImportJob(ctx, got))

	got, err = s.ImportJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, jobs.Error, got.State)
	assert.Equal(t, "Something broke\ndetails", got.Error)
}

func TestLinkingJobs(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	job := &jobs.LinkingJob{
		ID:     "l1",
		State:  jobs.Processing,
		Source: jobs.LinkingSource{ID: "d1", Entries: []string{"e1"}},
		Target: jobs.LinkingSource{ID: "d2", Endpoint: "http://remote/"},
		Config: jobs.DefaultLinkingConfig(),
	}
	require.NoError(t, s.CreateLinkingJob(ctx, job))

	got, err := s.LinkingJob(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, job.Source, got.Source)
	assert.Equal(t, job.Target, got.Target)
	assert.Equal(t, "ontolex-default", got.Config["foo"])
	assert.Nil(t, got.OurResult)
	assert.Nil(t, got.OriginResult)
	assert.Equal(t, []jobs.LinkResult{}, got.Result())

	res := []jobs.LinkResult{{
		SourceEntry: "e1",
		TargetEntry: "e2",
		Linking: []jobs.SenseLink{{
			SourceSense: "e1-1", TargetSense: "e2-1",
			Type: jobs.Exact, Score: 0.8,
		}},
	}}
	got.State = jobs.Completed
	got.OurResult = res
	got.RemoteTaskID = "T1"
	require.NoError(t, s.UpdateLinkingJob(ctx, got))

	got, err = s.LinkingJob(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, jobs.Completed, got.State)
	assert.Equal(t, "T1", got.RemoteTaskID)
	assert.Equal(t, res, got.OurResult)
	assert.Nil(t, got.OriginResult)
	assert.Equal(t, res, got.Result())

	// an empty result survives as an empty list
	got.OurResult = []jobs.LinkResult{}
	require.NoError(t, s.UpdateLinkingJob(ctx, got))
	got, err = s.LinkingJob(ctx, "l1")
	require.NoError(t, err)
	assert.NotNil(t, got.OurResult)
	assert.Empty(t, got.OurResult)
}
