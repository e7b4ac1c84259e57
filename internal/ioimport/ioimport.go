// Package ioimport runs import jobs: it stages the document, converts it
// into a dictionary and replaces the stored dictionary.
package ioimport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/gnames/dictmatrix/internal/iofederation"
	"github.com/gnames/dictmatrix/internal/iofs"
	"github.com/gnames/dictmatrix/internal/ioingest"
	"github.com/gnames/dictmatrix/pkg/config"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/store"
)

// Importer moves import jobs from SCHEDULED to DONE or ERROR.
type Importer struct {
	cfg   *config.Config
	store store.Store
	canon *ioingest.Canonicalizer
	http  *http.Client
	retry store.Retry

	progress func(done, total int)
}

// Option changes an Importer.
type Option func(*Importer)

// OptProgress reports fetched entries of API imports.
func OptProgress(f func(done, total int)) Option {
	return func(imp *Importer) {
		imp.progress = f
	}
}

// New creates an Importer.
func New(
	cfg *config.Config,
	st store.Store,
	canon *ioingest.Canonicalizer,
	opts ...Option,
) *Importer {
	res := &Importer{
		cfg:   cfg,
		store: st,
		canon: canon,
		http:  &http.Client{},
		retry: store.DefaultRetry,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// ProcessFile imports the staged file of a job, downloading it first when
// the job has only a URL.
func (imp *Importer) ProcessFile(ctx context.Context, jobID string) error {
	job, err := imp.load(ctx, jobID)
	if err != nil {
		return err
	}
	slog.Info("Start file import", "job", job.ID, "url", job.URL, "file", job.File)

	err = imp.processFile(ctx, job)

	removeStaged := imp.cfg.Upload.RemoveOnSuccess
	if err != nil {
		removeStaged = imp.cfg.Upload.RemoveOnFailure
	}
	if removeStaged {
		if rmErr := iofs.RemoveFile(job.File); rmErr != nil {
			slog.Warn("Cannot remove staged file", "file", job.File, "error", rmErr)
		}
	}
	return imp.finish(ctx, job, err)
}

// ProcessAPI imports the public entries of a dictionary on another
// service.
func (imp *Importer) ProcessAPI(ctx context.Context, jobID string) error {
	job, err := imp.load(ctx, jobID)
	if err != nil {
		return err
	}
	slog.Info("Start API import",
		"job", job.ID, "endpoint", job.URL, "remote_dict", job.RemoteDictID)

	err = imp.processAPI(ctx, job)
	return imp.finish(ctx, job, err)
}

// load reads a job that may not be visible yet. A job that is not
// SCHEDULED is never touched.
func (imp *Importer) load(ctx context.Context, jobID string) (*jobs.ImportJob, error) {
	job, err := store.LoadWithRetry(ctx, imp.retry,
		func(ctx context.Context) (*jobs.ImportJob, error) {
			return imp.store.ImportJob(ctx, jobID)
		},
	)
	if err != nil {
		return nil, err
	}
	if job.State != jobs.Scheduled {
		return nil, JobStateError(job.ID, job.State)
	}
	return job, nil
}

func (imp *Importer) finish(ctx context.Context, job *jobs.ImportJob, err error) error {
	job.State = jobs.Done
	job.Error = ""
	if err != nil {
		job.State = jobs.Error
		job.Error = jobs.Diagnostic(err)
		slog.Error("Import failed", "job", job.ID, "error", err)
	} else {
		slog.Info("Import done", "job", job.ID)
	}
	job.UpdatedAt = time.Now()

	if uerr := imp.store.UpdateImportJob(ctx, job); uerr != nil {
		return uerr
	}
	return err
}

func (imp *Importer) processFile(ctx context.Context, job *jobs.ImportJob) error {
	if job.URL != "" && job.File == "" {
		file, err := imp.download(ctx, job)
		if err != nil {
			return err
		}
		job.File = file
	}

	dict, err := imp.canon.Canonicalize(ctx, job.File, job.Meta.SourceLanguage)
	if err != nil {
		return err
	}
	return imp.save(ctx, job, dict)
}

func (imp *Importer) processAPI(ctx context.Context, job *jobs.ImportJob) error {
	client := iofederation.New(
		job.URL, job.RemoteAPIKey,
		config.Seconds(imp.cfg.APIImport.RequestTimeout), imp.canon,
	)
	client.RateLimit = config.Milliseconds(imp.cfg.APIImport.RateLimit)
	client.Progress = imp.progress

	dict, err := client.Fetch(ctx, job.RemoteDictID, isPublic)
	if err != nil {
		return err
	}
	return imp.save(ctx, job, dict)
}

// isPublic keeps entries the remote service releases publicly. Entries
// without a release are public.
func isPublic(l model.Lemma) bool {
	return l.Release == "" || l.Release == model.Public
}

// download streams the job URL into the upload directory. The response
// must declare its length, and all of it must arrive.
func (imp *Importer) download(ctx context.Context, job *jobs.ImportJob) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		return "", DownloadError(job.URL, err)
	}
	resp, err := imp.http.Do(req)
	if err != nil {
		return "", DownloadError(job.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", DownloadError(job.URL,
			fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.ContentLength < 0 {
		return "", DownloadError(job.URL,
			fmt.Errorf("missing Content-Length"))
	}

	file, n, err := iofs.StageFile(
		imp.cfg.UploadDir(), job.APIKey, urlBase(job.URL), resp.Body, time.Now(),
	)
	if err != nil {
		return "", DownloadError(job.URL, err)
	}
	if n != resp.ContentLength {
		_ = iofs.RemoveFile(file)
		return "", SizeMismatchError(job.URL, resp.ContentLength, n)
	}
	slog.Debug("Downloaded", "url", job.URL, "file", file, "bytes", n)
	return file, nil
}

func urlBase(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.Path == "" {
		return "download"
	}
	return path.Base(u.Path)
}

// save overlays job metadata and replaces the target dictionary.
func (imp *Importer) save(ctx context.Context, job *jobs.ImportJob, dict *model.Dictionary) error {
	overlay(dict, job)
	if err := dict.Validate(); err != nil {
		return err
	}
	if len(dict.Entries) == 0 {
		return NoEntriesError(dict.ID)
	}

	dict.ID = job.ID
	if job.DictID != "" {
		dict.ID = job.DictID
		owner, err := imp.store.IsOwner(ctx, job.DictID, job.APIKey)
		if err != nil {
			return err
		}
		if !owner {
			return ForbiddenError(job.DictID)
		}
		keys, err := imp.store.EntryKeys(ctx, job.DictID)
		if err != nil {
			return err
		}
		n := transferIDs(dict.Entries, keys)
		slog.Debug("Kept entry ids", "dict", job.DictID, "kept", n)
	}

	dict.ImportTime = time.Now()
	slog.Info("Replacing dictionary",
		"dict", dict.ID, "job", job.ID, "entries", len(dict.Entries))
	return imp.store.ReplaceDictionary(ctx, dict)
}

// overlay fills metadata the document did not provide with the values of
// the job. The access key always comes from the job.
func overlay(dict *model.Dictionary, job *jobs.ImportJob) {
	if dict.Meta.Release == "" {
		dict.Meta.Release = job.Meta.Release
	}
	if len(dict.Meta.Genre) == 0 {
		dict.Meta.Genre = job.Meta.Genre
	}
	if dict.Meta.SourceLanguage == "" {
		dict.Meta.SourceLanguage = model.ToISO639(job.Meta.SourceLanguage)
	}
	dict.APIKey = job.APIKey
}

type entryKey struct {
	lemma string
	pos   model.PartOfSpeech
	nth   int
}

// transferIDs gives new entries the ids of old entries with the same
// lemma, part of speech and occurrence number of that pair. It returns
// the number of reused ids.
func transferIDs(entries []model.Entry, old []store.EntryKey) int {
	counter := make(map[entryKey]int)
	key := func(lemma string, pos model.PartOfSpeech) entryKey {
		k := entryKey{lemma: lemma, pos: pos}
		counter[k]++
		k.nth = counter[k]
		return k
	}

	oldIDs := make(map[entryKey]string, len(old))
	for _, o := range old {
		oldIDs[key(o.Lemma, o.PartOfSpeech)] = o.ID
	}

	clear(counter)
	var res int
	for i := range entries {
		k := key(entries[i].Lemma, entries[i].PartOfSpeech)
		if id, ok := oldIDs[k]; ok {
			entries[i].ID = id
			res++
		}
	}
	return res
}
