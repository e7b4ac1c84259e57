package iolink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gnames/dictmatrix/pkg/codec"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/store"
	"github.com/gnames/gnfmt"
)

// Progress saves intermediate state of a job.
type Progress func(ctx context.Context, job *jobs.LinkingJob) error

// Backend matches senses of the entries a job refers to. Both sides of
// the job point to local dictionaries when Link is called.
type Backend interface {
	// URL identifies the service that does the work.
	URL() string

	// Link returns matches grouped by pairs of entries.
	Link(ctx context.Context, job *jobs.LinkingJob, progress Progress) ([]jobs.LinkResult, error)
}

// stderrMarkers in the output of the executable mean failure even when it
// exits with zero.
var stderrMarkers = []string{"Exception", "SEVERE", "Traceback"}

// ExecBackend runs a local Naisc executable on Turtle exports of the
// entries.
type ExecBackend struct {
	Executable string
	Config     string
	store      store.Store
}

// NewExecBackend creates a backend that reads entries from the store.
func NewExecBackend(exe, config string, st store.Store) *ExecBackend {
	return &ExecBackend{Executable: exe, Config: config, store: st}
}

func (b *ExecBackend) URL() string {
	return b.Executable
}

func (b *ExecBackend) Link(
	ctx context.Context,
	job *jobs.LinkingJob,
	_ Progress,
) ([]jobs.LinkResult, error) {
	src, err := b.store.Entries(ctx, job.Source.ID, job.Source.Entries)
	if err != nil {
		return nil, err
	}
	tgt, err := b.store.Entries(ctx, job.Target.ID, job.Target.Entries)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "dictmatrix-link-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	srcFile := filepath.Join(dir, "source.ttl")
	if err = writeTurtle(srcFile, src); err != nil {
		return nil, err
	}
	tgtFile := filepath.Join(dir, "target.ttl")
	if err = writeTurtle(tgtFile, tgt); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.Executable, "-c", b.Config, srcFile, tgtFile)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("Run linking executable",
		"exe", b.Executable, "source", len(src), "target", len(tgt))
	if err = cmd.Run(); err != nil {
		return nil, ExecError(b.Executable, stderr.String(), err)
	}
	for _, m := range stderrMarkers {
		if strings.Contains(stderr.String(), m) {
			return nil, ExecError(b.Executable, stderr.String(),
				fmt.Errorf("%s in stderr", m))
		}
	}

	all := append(append([]model.Entry{}, src...), tgt...)
	return codec.ParseNaiscOutput(&stdout, codec.SenseIndex(all))
}

func writeTurtle(path string, ee []model.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = codec.EntriesToTurtle(f, ee)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// RESTBackend drives a remote linking service: it submits the job, polls
// its status and fetches the result.
type RESTBackend struct {
	Endpoint string

	// SiteURL replaces empty endpoints of the job, so the remote service
	// can fetch entries from this service.
	SiteURL string

	PollInterval time.Duration
	http         *http.Client
}

// NewRESTBackend creates a backend for the service at endpoint.
func NewRESTBackend(endpoint, siteURL string, poll time.Duration) *RESTBackend {
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return &RESTBackend{
		Endpoint:     endpoint,
		SiteURL:      siteURL,
		PollInterval: poll,
		http:         &http.Client{Timeout: time.Minute},
	}
}

func (b *RESTBackend) URL() string {
	return b.Endpoint
}

type submitPayload struct {
	Source jobs.LinkingSource `json:"source"`
	Target jobs.LinkingSource `json:"target"`
	Config map[string]any     `json:"config"`
}

func (b *RESTBackend) Link(
	ctx context.Context,
	job *jobs.LinkingJob,
	progress Progress,
) ([]jobs.LinkResult, error) {
	enc := gnfmt.GNjson{}
	payload, err := enc.Encode(b.payload(job))
	if err != nil {
		return nil, err
	}
	body, err := b.post(ctx, "submit", payload)
	if err != nil {
		return nil, err
	}
	taskID := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if taskID == "" {
		return nil, RemoteError(b.url("submit"), errors.New("empty task id"))
	}
	job.RemoteTaskID = taskID
	if err = progress(ctx, job); err != nil {
		return nil, err
	}
	slog.Info("Linking task submitted", "job", job.ID, "task", taskID)

	for {
		body, err = b.post(ctx, "status", []byte(taskID))
		if err != nil {
			return nil, err
		}
		var status jobs.LinkingStatus
		if err = enc.Decode(body, &status); err != nil {
			return nil, RemoteError(b.url("status"), err)
		}

		switch status.State {
		case jobs.Completed:
			job.Message = status.Message
			return b.result(ctx, taskID)
		case jobs.Failed:
			return nil, RemoteError(b.url("status"),
				fmt.Errorf("task %s failed: %s", taskID, status.Message))
		case jobs.Processing:
		default:
			return nil, RemoteError(b.url("status"),
				fmt.Errorf("unknown state %q", status.State))
		}

		if status.Message != "" && status.Message != job.Message {
			job.Message = status.Message
			if err = progress(ctx, job); err != nil {
				return nil, err
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.PollInterval):
		}
	}
}

func (b *RESTBackend) payload(job *jobs.LinkingJob) submitPayload {
	res := submitPayload{Source: job.Source, Target: job.Target, Config: job.Config}
	if res.Source.Endpoint == "" {
		res.Source.Endpoint = b.SiteURL
	}
	if res.Target.Endpoint == "" && res.Target.ID != jobs.BabelNetID {
		res.Target.Endpoint = b.SiteURL
	}
	if len(res.Config) == 0 {
		res.Config = jobs.DefaultLinkingConfig()
	}
	return res
}

func (b *RESTBackend) result(ctx context.Context, taskID string) ([]jobs.LinkResult, error) {
	body, err := b.post(ctx, "result", []byte(taskID))
	if err != nil {
		return nil, err
	}
	res := []jobs.LinkResult{}
	enc := gnfmt.GNjson{}
	if err = enc.Decode(body, &res); err != nil {
		return nil, RemoteError(b.url("result"), err)
	}
	return res, nil
}

func (b *RESTBackend) url(path string) string {
	return b.Endpoint + path
}

func (b *RESTBackend) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	u := b.url(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, RemoteError(u, err)
	}
	if path == "submit" {
		req.Header.Set("Content-Type", "application/json")
	} else {
		req.Header.Set("Content-Type", "text/plain")
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, RemoteError(u, err)
	}
	defer resp.Body.Close()

	res, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, RemoteError(u, err)
	}
	if resp.StatusCode >= 400 {
		return nil, RemoteError(u, fmt.Errorf("status %d", resp.StatusCode))
	}
	return res, nil
}
