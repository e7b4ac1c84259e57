package iorest

import (
	"bytes"
	"net/http"

	"github.com/gnames/dictmatrix/pkg/codec"
	"github.com/gnames/dictmatrix/pkg/model"
)

const (
	mimeJSON   = "application/json"
	mimeJSONLD = "application/ld+json"
	mimeXML    = "text/xml; charset=utf-8"
	mimeTurtle = "text/turtle; charset=utf-8"
	mimeText   = "text/plain; charset=utf-8"
)

// authorize checks that the X-API-Key header holds the access key of the
// dictionary. A missing dictionary is forbidden too.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, dictID string) bool {
	ok, err := s.store.IsOwner(r.Context(), dictID, r.Header.Get("X-API-Key"))
	if err != nil {
		fail(w, err)
		return false
	}
	if !ok {
		forbidden(w)
		return false
	}
	return true
}

type dictionaryList struct {
	Dictionaries []string `json:"dictionaries"`
}

func (s *Server) dictionaries(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-API-Key")
	if key == "" {
		forbidden(w)
		return
	}
	ids, err := s.store.DictionaryIDs(r.Context(), key)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mimeJSON, dictionaryList{Dictionaries: ids})
}

type about struct {
	model.Meta
	NEntries int `json:"n_entries"`
}

func (s *Server) about(w http.ResponseWriter, r *http.Request) {
	dictID := r.PathValue("dict")
	if !s.authorize(w, r, dictID) {
		return
	}
	d, err := s.store.Dictionary(r.Context(), dictID)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mimeJSON, about{Meta: d.Meta, NEntries: d.NEntries})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	dictID := r.PathValue("dict")
	if !s.authorize(w, r, dictID) {
		return
	}
	offset, limit, ok := page(w, r)
	if !ok {
		return
	}
	res, err := s.store.Lemmas(r.Context(), dictID, offset, limit)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mimeJSON, res)
}

func (s *Server) lemma(w http.ResponseWriter, r *http.Request) {
	dictID := r.PathValue("dict")
	if !s.authorize(w, r, dictID) {
		return
	}
	offset, limit, ok := page(w, r)
	if !ok {
		return
	}
	pos := model.PartOfSpeech(r.URL.Query().Get("partOfSpeech"))
	if pos != "" && !pos.IsValid() {
		http.Error(w, "unknown partOfSpeech", http.StatusBadRequest)
		return
	}
	res, err := s.store.LemmaLookup(
		r.Context(), dictID, r.PathValue("headword"), pos, offset, limit,
	)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mimeJSON, res)
}

func page(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	offset, err := intParam(r, "offset")
	if err != nil {
		badRequest(w, err)
		return 0, 0, false
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		badRequest(w, err)
		return 0, 0, false
	}
	return offset, limit, true
}

func (s *Server) entry(w http.ResponseWriter, r *http.Request) (*model.Entry, bool) {
	dictID := r.PathValue("dict")
	if !s.authorize(w, r, dictID) {
		return nil, false
	}
	e, err := s.store.Entry(r.Context(), dictID, r.PathValue("entry"))
	if err != nil {
		fail(w, err)
		return nil, false
	}
	return e, true
}

func (s *Server) entryJSON(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	bs, err := codec.EntryToJSONLD(*e)
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Link", codec.ContextLinkHeader)
	writeText(w, http.StatusOK, mimeJSONLD, string(bs))
}

func (s *Server) entryTEI(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	writeText(w, http.StatusOK, mimeXML, codec.EntryToTEI(*e, codec.TEIOptions{}))
}

func (s *Server) entryOntolex(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}
	res, err := codec.EntryToTurtle(*e)
	if err != nil {
		fail(w, err)
		return
	}
	writeText(w, http.StatusOK, mimeTurtle, res)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	dictID := r.PathValue("dict")
	if !s.authorize(w, r, dictID) {
		return
	}
	d, err := s.store.Dictionary(r.Context(), dictID)
	if err != nil {
		fail(w, err)
		return
	}
	if d.Entries, err = s.store.Entries(r.Context(), dictID, nil); err != nil {
		fail(w, err)
		return
	}

	var buf bytes.Buffer
	if err = codec.DictionaryToTEI(&buf, d); err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+dictID+`.xml"`)
	writeText(w, http.StatusOK, mimeXML, buf.String())
}

func (s *Server) jsonldContext(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mimeJSONLD, codec.Context())
}
