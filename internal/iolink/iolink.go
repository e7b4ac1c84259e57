// Package iolink runs linking jobs. It mirrors remote dictionaries,
// hands the job to a linking backend and maps the results back to the
// ids of the original dictionaries.
package iolink

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gnames/dictmatrix/internal/iofederation"
	"github.com/gnames/dictmatrix/internal/ioingest"
	"github.com/gnames/dictmatrix/pkg/config"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/store"
	"github.com/google/uuid"
)

// Linker moves linking jobs from PROCESSING to COMPLETED or FAILED.
type Linker struct {
	cfg   *config.Config
	store store.Store
	canon *ioingest.Canonicalizer
	retry store.Retry
	poll  time.Duration
}

// Option changes a Linker.
type Option func(*Linker)

// OptPollInterval overrides the pause between status requests to a REST
// backend.
func OptPollInterval(d time.Duration) Option {
	return func(l *Linker) {
		l.poll = d
	}
}

// New creates a Linker.
func New(
	cfg *config.Config,
	st store.Store,
	canon *ioingest.Canonicalizer,
	opts ...Option,
) *Linker {
	res := &Linker{
		cfg:   cfg,
		store: st,
		canon: canon,
		retry: store.DefaultRetry,
		poll:  config.Seconds(cfg.Linking.PollInterval),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Submit validates and stores a new job. Endpoints that point to this
// service are removed, so such dictionaries are treated as local.
func (l *Linker) Submit(ctx context.Context, job *jobs.LinkingJob) (string, error) {
	if err := job.Validate(); err != nil {
		return "", err
	}
	if sameURL(job.Source.Endpoint, l.cfg.Server.SiteURL) {
		job.Source.Endpoint = ""
	}
	if sameURL(job.Target.Endpoint, l.cfg.Server.SiteURL) {
		job.Target.Endpoint = ""
	}

	now := time.Now()
	job.ID = uuid.NewString()
	job.State = jobs.Processing
	job.Message = jobs.StillWorking
	job.ServiceURL = ""
	job.RemoteTaskID = ""
	job.OurResult = nil
	job.OriginResult = nil
	job.CreatedAt = now
	job.UpdatedAt = now

	if err := l.store.CreateLinkingJob(ctx, job); err != nil {
		return "", err
	}
	slog.Info("Linking job submitted",
		"job", job.ID, "source", job.Source.ID, "target", job.Target.ID)
	return job.ID, nil
}

// Process runs a stored job. The outcome is written to the job record,
// the returned error repeats it.
func (l *Linker) Process(ctx context.Context, jobID string) error {
	job, err := store.LoadWithRetry(ctx, l.retry,
		func(ctx context.Context) (*jobs.LinkingJob, error) {
			return l.store.LinkingJob(ctx, jobID)
		},
	)
	if err != nil {
		return err
	}
	if job.State != jobs.Processing {
		return JobStateError(job.ID, job.State)
	}

	err = l.process(ctx, job)
	return l.finish(ctx, job, err)
}

func (l *Linker) process(ctx context.Context, job *jobs.LinkingJob) error {
	backend, err := l.backend(job)
	if err != nil {
		return err
	}
	job.ServiceURL = backend.URL()

	origins := make(map[string]string)
	if err = l.resolve(ctx, job.ID+"/source", &job.Source, origins); err != nil {
		return err
	}
	if job.Target.ID != jobs.BabelNetID {
		if err = l.resolve(ctx, job.ID+"/target", &job.Target, origins); err != nil {
			return err
		}
	}
	if err = l.save(ctx, job); err != nil {
		return err
	}

	res, err := backend.Link(ctx, job, l.save)
	if err != nil {
		return err
	}
	job.OurResult = res
	if len(origins) > 0 {
		job.OriginResult = remap(res, origins)
	}
	return nil
}

// backend picks the external knowledge base for its sentinel target.
// Otherwise a local executable wins over a REST service.
func (l *Linker) backend(job *jobs.LinkingJob) (Backend, error) {
	lc := l.cfg.Linking
	site := l.cfg.Server.SiteURL
	switch {
	case job.Target.ID == jobs.BabelNetID:
		if lc.BabelNetURL == "" {
			return nil, NoBackendError(job.Target.ID)
		}
		return NewRESTBackend(lc.BabelNetURL, site, l.poll), nil
	case lc.NaiscExecutable != "":
		return NewExecBackend(lc.NaiscExecutable, lc.NaiscConfig, l.store), nil
	case lc.NaiscURL != "":
		return NewRESTBackend(lc.NaiscURL, site, l.poll), nil
	}
	return nil, NoBackendError(job.Target.ID)
}

// resolve makes sure a side of the job refers to a local dictionary.
// A remote dictionary is mirrored, and the ids of its mirrored entries
// are added to origins. Each side of a job gets its own mirror, named by
// the scope.
func (l *Linker) resolve(
	ctx context.Context,
	scope string,
	src *jobs.LinkingSource,
	origins map[string]string,
) error {
	if !src.IsRemote() {
		_, err := l.store.Dictionary(ctx, src.ID)
		if store.IsNotFound(err) {
			return DictNotFoundError(src.ID, err)
		}
		return err
	}

	client := iofederation.New(
		src.Endpoint, src.APIKey,
		config.Seconds(l.cfg.APIImport.RequestTimeout), l.canon,
	)
	client.RateLimit = config.Milliseconds(l.cfg.APIImport.RateLimit)
	localID, table, err := client.Mirror(ctx, l.store, scope, src.ID, src.Entries)
	if err != nil {
		return err
	}
	slog.Info("Mirrored remote dictionary",
		"endpoint", src.Endpoint, "remote", src.ID, "local", localID,
		"entries", len(table))

	for k, v := range table {
		origins[k] = v
	}
	src.ID = localID
	src.Endpoint = ""
	src.Entries = nil
	return nil
}

func (l *Linker) save(ctx context.Context, job *jobs.LinkingJob) error {
	job.UpdatedAt = time.Now()
	return l.store.UpdateLinkingJob(ctx, job)
}

// finish records the outcome. A failed job gets a diagnostic message and
// an empty result.
func (l *Linker) finish(ctx context.Context, job *jobs.LinkingJob, err error) error {
	if err != nil {
		job.State = jobs.Failed
		job.Message = jobs.Diagnostic(err)
		job.OurResult = []jobs.LinkResult{}
		job.OriginResult = nil
		slog.Error("Linking failed", "job", job.ID, "error", err)
	} else {
		job.State = jobs.Completed
		if job.Message == jobs.StillWorking {
			job.Message = ""
		}
		slog.Info("Linking done", "job", job.ID, "pairs", len(job.OurResult))
	}

	if uerr := l.save(ctx, job); uerr != nil {
		return uerr
	}
	return err
}

// remap replaces ids of mirrored entries with the ids they have on their
// original service.
func remap(res []jobs.LinkResult, origins map[string]string) []jobs.LinkResult {
	out := make([]jobs.LinkResult, len(res))
	for i, r := range res {
		if id, ok := origins[r.SourceEntry]; ok {
			r.SourceEntry = id
		}
		if id, ok := origins[r.TargetEntry]; ok {
			r.TargetEntry = id
		}
		out[i] = r
	}
	return out
}

func sameURL(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}
