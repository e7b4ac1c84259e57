// Package iofederation is a client of the dictionary federation
// protocol: about, list and per-entry endpoints of another dictionary
// service.
package iofederation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gnames/dictmatrix/internal/ioingest"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/store"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
)

// placeholderLanguage is given to wrapped JSON entries when the language
// of the remote dictionary is unknown.
const placeholderLanguage = "xx"

// Client talks to one remote dictionary service.
type Client struct {
	// Endpoint is the base URL of the service.
	Endpoint string

	// APIKey is sent in the X-API-Key header when set.
	APIKey string

	// RateLimit is the pause between entry requests.
	RateLimit time.Duration

	// Progress is called before every entry request with the number of
	// fetched entries, and once more when all of them are fetched.
	Progress func(done, total int)

	http  *http.Client
	canon *ioingest.Canonicalizer
}

// New creates a client. The timeout applies to every request.
func New(
	endpoint, apiKey string,
	timeout time.Duration,
	canon *ioingest.Canonicalizer,
) *Client {
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return &Client{
		Endpoint: endpoint,
		APIKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		canon:    canon,
	}
}

// About returns metadata of a remote dictionary.
func (c *Client) About(ctx context.Context, dictID string) (model.Meta, error) {
	var res model.Meta
	err := c.getJSON(ctx, "about/"+url.PathEscape(dictID), &res)
	return res, err
}

// List returns the lemma index of a remote dictionary.
func (c *Client) List(ctx context.Context, dictID string) ([]model.Lemma, error) {
	var res []model.Lemma
	err := c.getJSON(ctx, "list/"+url.PathEscape(dictID), &res)
	return res, err
}

// Entry fetches one entry and canonicalizes it. Formats are tried in the
// order of preference, the first one that works wins. The language is
// the source language of the remote dictionary, it may be empty.
func (c *Client) Entry(
	ctx context.Context,
	dictID, entryID string,
	formats []model.Format,
	language string,
) (model.Entry, error) {
	ff := model.PreferredFormats(formats)
	var lastErr error
	for _, f := range ff {
		e, err := c.entry(ctx, dictID, entryID, f, language)
		if err == nil {
			return e, nil
		}
		slog.Debug("Entry format failed",
			"dict", dictID, "entry", entryID, "format", f, "error", err)
		lastErr = err
	}
	return model.Entry{}, NoFormatError(dictID, entryID, lastErr)
}

// Fetch downloads metadata and entries of a remote dictionary. Only
// entries that pass the filter are fetched, a nil filter keeps all of
// them. Entries carry their remote id in OriginID.
func (c *Client) Fetch(
	ctx context.Context,
	dictID string,
	keep func(model.Lemma) bool,
) (*model.Dictionary, error) {
	meta, err := c.About(ctx, dictID)
	if err != nil {
		return nil, err
	}
	lemmas, err := c.List(ctx, dictID)
	if err != nil {
		return nil, err
	}

	res := &model.Dictionary{
		Meta:           meta,
		OriginID:       dictID,
		OriginEndpoint: c.Endpoint,
		OriginAPIKey:   c.APIKey,
	}
	var kept []model.Lemma
	for _, l := range lemmas {
		if keep == nil || keep(l) {
			kept = append(kept, l)
		}
	}
	for i, l := range kept {
		if c.Progress != nil {
			c.Progress(i, len(kept))
		}
		if len(res.Entries) > 0 && c.RateLimit > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.RateLimit):
			}
		}
		e, err := c.Entry(ctx, dictID, l.ID, l.Formats, meta.SourceLanguage)
		if err != nil {
			return nil, err
		}
		e.OriginID = l.ID
		res.Entries = append(res.Entries, e)
	}
	if c.Progress != nil {
		c.Progress(len(kept), len(kept))
	}
	slog.Info("Fetched remote dictionary",
		"endpoint", c.Endpoint, "dict", dictID,
		"entries", len(res.Entries), "listed", len(lemmas),
	)
	return res, nil
}

// MirrorID is the local id of a mirror of a remote dictionary. The scope
// names the owner of the mirror, for example a side of a linking job, so
// owners do not overwrite each other's mirrors. Mirroring again within
// one scope replaces the old mirror.
func MirrorID(scope, endpoint, dictID string) string {
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return gnuuid.New(scope + "|" + endpoint + dictID).String()
}

// Mirror stores a local copy of a remote dictionary under the given
// scope. If entries are given, only those are copied. It returns the
// local dictionary id and the table from local entry ids to remote entry
// ids.
func (c *Client) Mirror(
	ctx context.Context,
	st store.Store,
	scope string,
	dictID string,
	entries []string,
) (string, map[string]string, error) {
	var keep func(model.Lemma) bool
	if len(entries) > 0 {
		want := make(map[string]struct{}, len(entries))
		for _, id := range entries {
			want[id] = struct{}{}
		}
		keep = func(l model.Lemma) bool {
			_, ok := want[l.ID]
			return ok
		}
	}

	dict, err := c.Fetch(ctx, dictID, keep)
	if err != nil {
		return "", nil, err
	}
	dict.ID = MirrorID(scope, c.Endpoint, dictID)
	dict.APIKey = c.APIKey
	if !dict.Meta.Release.IsValid() {
		dict.Meta.Release = model.Private
	}
	if err = st.ReplaceDictionary(ctx, dict); err != nil {
		return "", nil, err
	}

	origins := make(map[string]string, len(dict.Entries))
	for _, e := range dict.Entries {
		origins[e.ID] = e.OriginID
	}
	return dict.ID, origins, nil
}

func (c *Client) url(path string) string {
	return c.Endpoint + path
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	u := c.url(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, RequestError(u, err)
	}
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, RequestError(u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, StatusError(u, resp.StatusCode)
	}
	res, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, RequestError(u, err)
	}
	return res, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	bs, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	enc := gnfmt.GNjson{}
	if err = enc.Decode(bs, v); err != nil {
		return DecodeError(c.url(path), err)
	}
	return nil
}

func (c *Client) entry(
	ctx context.Context,
	dictID, entryID string,
	f model.Format,
	language string,
) (model.Entry, error) {
	path := fmt.Sprintf("%s/%s/%s",
		f, url.PathEscape(dictID), url.PathEscape(entryID))
	body, err := c.get(ctx, path)
	if err != nil {
		return model.Entry{}, err
	}

	doc, err := wrap(f, body, language)
	if err != nil {
		return model.Entry{}, DecodeError(c.url(path), err)
	}

	tmp, err := os.CreateTemp("", "dictmatrix-entry-*")
	if err != nil {
		return model.Entry{}, err
	}
	defer os.Remove(tmp.Name())
	_, err = tmp.Write(doc)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return model.Entry{}, err
	}

	dict, err := c.canon.Canonicalize(ctx, tmp.Name(), language)
	if err != nil {
		return model.Entry{}, err
	}
	if len(dict.Entries) == 0 {
		return model.Entry{}, DecodeError(c.url(path),
			fmt.Errorf("no entries in response"))
	}
	return dict.Entries[0], nil
}

// wrap turns a single entry document into a dictionary document that the
// canonicalizer accepts.
func wrap(f model.Format, body []byte, language string) ([]byte, error) {
	switch f {
	case model.FormatJSON:
		var entry map[string]any
		enc := gnfmt.GNjson{}
		if err := enc.Decode(body, &entry); err != nil {
			return nil, err
		}
		delete(entry, "@context")
		if language == "" {
			language = placeholderLanguage
		}
		doc := map[string]any{
			"remote": map[string]any{
				"meta": map[string]any{
					"release":        string(model.Private),
					"sourceLanguage": language,
				},
				"entries": []any{entry},
			},
		}
		return enc.Encode(doc)
	case model.FormatOntolex:
		return body, nil
	case model.FormatTEI:
		doc := `<TEI xmlns="http://www.tei-c.org/ns/1.0">` +
			"<teiHeader/><text><body>\n" +
			string(body) +
			"\n</body></text></TEI>\n"
		return []byte(doc), nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}
