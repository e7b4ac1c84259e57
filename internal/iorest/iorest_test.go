package iorest_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gnames/dictmatrix/internal/ioingest"
	"github.com/gnames/dictmatrix/internal/iolink"
	"github.com/gnames/dictmatrix/internal/iometrics"
	"github.com/gnames/dictmatrix/internal/iorest"
	"github.com/gnames/dictmatrix/internal/iostore"
	"github.com/gnames/dictmatrix/internal/iotesting"
	"github.com/gnames/dictmatrix/pkg/codec"
	"github.com/gnames/dictmatrix/pkg/config"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/store"
	"github.com/gnames/gnfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queue struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (q *queue) Submit(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, id)
	return nil
}

type env struct {
	cfg    *config.Config
	store  store.Store
	srv    *httptest.Server
	file   *queue
	api    *queue
	linker *queue
}

func newEnv(t *testing.T) *env {
	op, cfg := iotesting.OpenSQLite(t)
	st := iostore.New(op, 100)
	ctx := context.Background()

	dict := &model.Dictionary{
		ID: "dict1",
		Meta: model.Meta{
			Release:        model.Public,
			SourceLanguage: "en",
			Title:          "Cats",
		},
		Entries: []model.Entry{
			{
				ID:    "e1",
				Lemma: "cat",
				Type:  model.LexicalEntry,
				CanonicalForm: model.Form{
					WrittenRep: model.LangValues{"en": {"cat"}},
				},
				PartOfSpeech: model.NOUN,
				Language:     "en",
				Senses: []model.Sense{
					{ID: "e1-1", Definition: model.LangValue{"en": "a feline"}},
				},
			},
		},
		APIKey: "key1",
	}
	require.Nil(t, st.ReplaceDictionary(ctx, dict))

	res := &env{cfg: cfg, store: st, file: &queue{}, api: &queue{}, linker: &queue{}}
	linker := iolink.New(cfg, st, ioingest.New(cfg))
	rest := iorest.New(cfg, st, linker, iorest.Queues{
		File:    res.file,
		API:     res.api,
		Linking: res.linker,
	}, iometrics.New())
	res.srv = httptest.NewServer(rest.Handler())
	t.Cleanup(res.srv.Close)
	return res
}

func (e *env) do(t *testing.T, method, path, key string, body io.Reader) (*http.Response, string) {
	req, err := http.NewRequest(method, e.srv.URL+path, body)
	require.Nil(t, err)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	require.Nil(t, err)
	defer resp.Body.Close()
	bs, err := io.ReadAll(resp.Body)
	require.Nil(t, err)
	return resp, string(bs)
}

func TestAccess(t *testing.T) {
	e := newEnv(t)
	paths := []string{
		"/about/dict1",
		"/list/dict1",
		"/lemma/dict1/cat",
		"/json/dict1/e1",
		"/tei/dict1/e1",
		"/ontolex/dict1/e1",
		"/export/dict1",
	}
	tests := []struct {
		msg, key string
		status   int
	}{
		{"no key", "", http.StatusForbidden},
		{"wrong key", "key2", http.StatusForbidden},
		{"owner", "key1", http.StatusOK},
	}

	for _, v := range tests {
		for _, p := range paths {
			t.Run(v.msg+p, func(t *testing.T) {
				resp, _ := e.do(t, http.MethodGet, p, v.key, nil)
				assert.Equal(t, v.status, resp.StatusCode)
			})
		}
	}

	resp, _ := e.do(t, http.MethodGet, "/about/nodict", "key1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, "/json/dict1/nope", "key1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDictionaries(t *testing.T) {
	e := newEnv(t)
	resp, body := e.do(t, http.MethodGet, "/dictionaries", "key1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"dictionaries":["dict1"]}`, body)

	_, body = e.do(t, http.MethodGet, "/dictionaries", "key2", nil)
	assert.JSONEq(t, `{"dictionaries":[]}`, body)

	resp, _ = e.do(t, http.MethodGet, "/dictionaries", "", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAboutList(t *testing.T) {
	e := newEnv(t)
	enc := gnfmt.GNjson{}

	_, body := e.do(t, http.MethodGet, "/about/dict1", "key1", nil)
	var meta model.Meta
	require.Nil(t, enc.Decode([]byte(body), &meta))
	assert.Equal(t, "Cats", meta.Title)
	assert.Contains(t, body, `"n_entries":1`)

	_, body = e.do(t, http.MethodGet, "/list/dict1", "key1", nil)
	var list []model.Lemma
	require.Nil(t, enc.Decode([]byte(body), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "e1", list[0].ID)
	assert.Equal(t, model.Formats, list[0].Formats)
}

func TestLemma(t *testing.T) {
	e := newEnv(t)
	tests := []struct {
		msg, path string
		status    int
		n         int
	}{
		{"found", "/lemma/dict1/cat", http.StatusOK, 1},
		{"pos", "/lemma/dict1/cat?partOfSpeech=NOUN", http.StatusOK, 1},
		{"other pos", "/lemma/dict1/cat?partOfSpeech=VERB", http.StatusOK, 0},
		{"absent", "/lemma/dict1/dog", http.StatusOK, 0},
		{"offset", "/lemma/dict1/cat?offset=1", http.StatusOK, 0},
		{"bad pos", "/lemma/dict1/cat?partOfSpeech=THING", http.StatusBadRequest, 0},
		{"bad limit", "/lemma/dict1/cat?limit=-1", http.StatusBadRequest, 0},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			resp, body := e.do(t, http.MethodGet, v.path, "key1", nil)
			assert.Equal(t, v.status, resp.StatusCode)
			if v.status != http.StatusOK {
				return
			}
			var list []model.Lemma
			enc := gnfmt.GNjson{}
			require.Nil(t, enc.Decode([]byte(body), &list))
			assert.Len(t, list, v.n)
		})
	}
}

func TestEntryFormats(t *testing.T) {
	e := newEnv(t)

	resp, body := e.do(t, http.MethodGet, "/json/dict1/e1", "key1", nil)
	assert.Equal(t, "application/ld+json", resp.Header.Get("Content-Type"))
	assert.Equal(t, codec.ContextLinkHeader, resp.Header.Get("Link"))
	assert.Contains(t, body, `"@context"`)
	assert.Contains(t, body, "a feline")

	resp, body = e.do(t, http.MethodGet, "/tei/dict1/e1", "key1", nil)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/xml"))
	assert.Contains(t, body, "<entry")
	assert.Contains(t, body, "cat")

	resp, body = e.do(t, http.MethodGet, "/ontolex/dict1/e1", "key1", nil)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/turtle"))
	assert.Contains(t, body, "a feline")

	resp, body = e.do(t, http.MethodGet, "/export/dict1", "key1", nil)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "dict1.xml")
	assert.Contains(t, body, "<title>Cats</title>")
	assert.Contains(t, body, "</TEI>")

	resp, body = e.do(t, http.MethodGet, "/context.jsonld", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "http://www.w3.org/ns/lemon/ontolex#")
}

func upload(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.Nil(t, err)
	_, err = fw.Write([]byte(content))
	require.Nil(t, err)
	require.Nil(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImportFile(t *testing.T) {
	e := newEnv(t)
	body, ct := upload(t, "file", "dict.ttl", "@prefix ontolex: <x> .")
	req, err := http.NewRequest(http.MethodPost,
		e.srv.URL+"/import?api_key=key1&release=public&genre=gen&genre=lrn", body)
	require.Nil(t, err)
	req.Header.Set("Content-Type", ct)
	resp, err := http.DefaultClient.Do(req)
	require.Nil(t, err)
	bs, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(bs))

	id := string(bs)
	assert.Equal(t, []string{id}, e.file.ids)
	job, err := e.store.ImportJob(context.Background(), id)
	require.Nil(t, err)
	assert.Equal(t, jobs.Scheduled, job.State)
	assert.Equal(t, jobs.KindFile, job.Kind)
	assert.Equal(t, "key1", job.APIKey)
	assert.Equal(t, model.Public, job.Meta.Release)
	assert.Equal(t, []model.Genre{model.GenreGeneral, model.GenreLearners}, job.Meta.Genre)
	assert.True(t, strings.HasPrefix(job.File, e.cfg.UploadDir()))
	staged, err := os.ReadFile(job.File)
	require.Nil(t, err)
	assert.Equal(t, "@prefix ontolex: <x> .", string(staged))

	resp, st := e.do(t, http.MethodGet, "/import/"+id, "key1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, st, `"state":"SCHEDULED"`)
	assert.NotContains(t, st, "key1")
	resp, _ = e.do(t, http.MethodGet, "/import/"+id, "key2", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, "/import/nojob", "key1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImportErrors(t *testing.T) {
	e := newEnv(t)
	tests := []struct {
		msg, query string
		withFile   bool
		status     int
	}{
		{"url", "?api_key=key1&url=http://example.org/d.xml", false, http.StatusCreated},
		{"url and file", "?api_key=key1&url=http://example.org/d.xml", true, http.StatusBadRequest},
		{"nothing", "?api_key=key1", false, http.StatusBadRequest},
		{"no key", "?url=http://example.org/d.xml", false, http.StatusBadRequest},
		{"bad release", "?api_key=key1&release=secret&url=http://example.org/d.xml", false, http.StatusBadRequest},
		{"bad genre", "?api_key=key1&genre=poetry&url=http://example.org/d.xml", false, http.StatusBadRequest},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			var body io.Reader = http.NoBody
			ct := ""
			if v.withFile {
				body, ct = upload(t, "file", "d.xml", "<x/>")
			}
			req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/import"+v.query, body)
			require.Nil(t, err)
			if ct != "" {
				req.Header.Set("Content-Type", ct)
			}
			resp, err := http.DefaultClient.Do(req)
			require.Nil(t, err)
			resp.Body.Close()
			assert.Equal(t, v.status, resp.StatusCode)
		})
	}
}

func TestImportAPI(t *testing.T) {
	e := newEnv(t)
	resp, body := e.do(t, http.MethodPost,
		"/import/api?url=http://remote.example.org/&remote_dictionary=d9&remote_api_key=rk",
		"key1", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, []string{body}, e.api.ids)
	assert.Empty(t, e.file.ids)

	job, err := e.store.ImportJob(context.Background(), body)
	require.Nil(t, err)
	assert.Equal(t, jobs.KindAPI, job.Kind)
	assert.Equal(t, "d9", job.RemoteDictID)
	assert.Equal(t, "rk", job.RemoteAPIKey)
	assert.Equal(t, "key1", job.APIKey)

	resp, _ = e.do(t, http.MethodPost, "/import/api?url=http://remote.example.org/", "key1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQueueClosed(t *testing.T) {
	e := newEnv(t)
	e.api.err = errors.New("queue is closed")
	resp, _ := e.do(t, http.MethodPost,
		"/import/api?url=http://remote.example.org/&remote_dictionary=d9",
		"key1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestLinking(t *testing.T) {
	e := newEnv(t)
	payload := `{"source":{"id":"dict1"},"target":{"id":"babelnet"}}`
	resp, id := e.do(t, http.MethodPost, "/linking/submit", "", strings.NewReader(payload))
	require.Equal(t, http.StatusCreated, resp.StatusCode, id)
	assert.Equal(t, []string{id}, e.linker.ids)

	_, body := e.do(t, http.MethodPost, "/linking/status", "", strings.NewReader(id))
	assert.JSONEq(t, `{"state":"PROCESSING","message":"Still working ..."}`, body)

	_, body = e.do(t, http.MethodPost, "/linking/result", "", strings.NewReader(id))
	assert.JSONEq(t, `[]`, body)

	job, err := e.store.LinkingJob(context.Background(), id)
	require.Nil(t, err)
	job.State = jobs.Completed
	job.Message = ""
	job.OurResult = []jobs.LinkResult{{
		SourceEntry: "e1",
		TargetEntry: "bn:1",
		Linking: []jobs.SenseLink{
			{SourceSense: "e1-1", TargetSense: "bn:1s", Type: jobs.Related, Score: 0.5},
		},
	}}
	require.Nil(t, e.store.UpdateLinkingJob(context.Background(), job))

	_, body = e.do(t, http.MethodPost, "/linking/status", "", strings.NewReader(id))
	assert.Contains(t, body, `"state":"COMPLETED"`)
	_, body = e.do(t, http.MethodPost, "/linking/result", "", strings.NewReader(id))
	assert.Contains(t, body, `"target_entry":"bn:1"`)

	resp, _ = e.do(t, http.MethodPost, "/linking/status", "", strings.NewReader("nojob"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPost, "/linking/submit", "",
		strings.NewReader(`{"source":{"id":"dict1"}}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPost, "/linking/submit", "", strings.NewReader(`{`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	e := newEnv(t)
	resp, body := e.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "go_goroutines")
}
