package iorest

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gnames/dictmatrix/internal/iofs"
	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
)

// maxMemory is the part of a multipart upload kept in memory, the rest
// spills into temporary files.
const maxMemory = 32 << 20

func importMeta(q url.Values) jobs.ImportMeta {
	res := jobs.ImportMeta{
		Release:        model.ReleasePolicy(strings.ToUpper(q.Get("release"))),
		SourceLanguage: q.Get("language"),
	}
	for _, g := range q["genre"] {
		res.Genre = append(res.Genre, model.Genre(g))
	}
	return res
}

// importFile accepts either an uploaded file or a URL to download.
func (s *Server) importFile(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	job := &jobs.ImportJob{
		ID:     uuid.NewString(),
		Kind:   jobs.KindFile,
		State:  jobs.Scheduled,
		APIKey: q.Get("api_key"),
		DictID: q.Get("dictionary"),
		URL:    q.Get("url"),
		Meta:   importMeta(q),
	}
	if job.APIKey == "" {
		job.APIKey = r.Header.Get("X-API-Key")
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			badRequest(w, err)
			return
		}
		defer r.MultipartForm.RemoveAll()
		if files := r.MultipartForm.File["file"]; len(files) > 0 {
			if job.URL != "" {
				badRequest(w, errors.New("need either url or file"))
				return
			}
			path, err := s.stage(job.APIKey, files[0])
			if err != nil {
				fail(w, err)
				return
			}
			job.File = path
		}
	}

	if err := job.Validate(); err != nil {
		if job.File != "" {
			_ = iofs.RemoveFile(job.File)
		}
		badRequest(w, err)
		return
	}
	s.submitImport(w, r, job, s.queues.File)
}

// stage copies an uploaded file into the upload directory.
func (s *Server) stage(apiKey string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	path, n, err := iofs.StageFile(
		s.cfg.UploadDir(), apiKey, fh.Filename, f, time.Now(),
	)
	if err != nil {
		return "", err
	}
	slog.Debug("Staged upload", "file", path, "bytes", n)
	return path, nil
}

// importAPI accepts a crawl of a dictionary on another service.
func (s *Server) importAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	job := &jobs.ImportJob{
		ID:           uuid.NewString(),
		Kind:         jobs.KindAPI,
		State:        jobs.Scheduled,
		APIKey:       q.Get("api_key"),
		DictID:       q.Get("dictionary"),
		URL:          q.Get("url"),
		RemoteDictID: q.Get("remote_dictionary"),
		RemoteAPIKey: q.Get("remote_api_key"),
		Meta:         importMeta(q),
	}
	if job.APIKey == "" {
		job.APIKey = r.Header.Get("X-API-Key")
	}
	if err := job.Validate(); err != nil {
		badRequest(w, err)
		return
	}
	s.submitImport(w, r, job, s.queues.API)
}

// submitImport stores the job and then queues it. The response holds the
// job id.
func (s *Server) submitImport(
	w http.ResponseWriter,
	r *http.Request,
	job *jobs.ImportJob,
	q Queue,
) {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if err := s.store.CreateImportJob(r.Context(), job); err != nil {
		if job.File != "" {
			_ = iofs.RemoveFile(job.File)
		}
		fail(w, err)
		return
	}
	if err := q.Submit(job.ID); err != nil {
		http.Error(w, message(err), http.StatusServiceUnavailable)
		return
	}
	slog.Info("Import job queued", "job", job.ID, "kind", job.Kind)
	writeText(w, http.StatusCreated, mimeText, job.ID)
}

// importStatus shows an import job to its submitter.
func (s *Server) importStatus(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.ImportJob(r.Context(), r.PathValue("job"))
	if err != nil {
		fail(w, err)
		return
	}
	if key := r.Header.Get("X-API-Key"); key == "" || key != job.APIKey {
		forbidden(w)
		return
	}
	job.File = ""
	writeJSON(w, http.StatusOK, mimeJSON, job)
}

func (s *Server) linkingSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		badRequest(w, err)
		return
	}
	var job jobs.LinkingJob
	enc := gnfmt.GNjson{}
	if err = enc.Decode(body, &job); err != nil {
		badRequest(w, err)
		return
	}

	id, err := s.linker.Submit(r.Context(), &job)
	if err != nil {
		var gnErr *gn.Error
		if errors.As(err, &gnErr) && gnErr.Code == errcode.JobInvalidError {
			badRequest(w, err)
			return
		}
		fail(w, err)
		return
	}
	if err = s.queues.Linking.Submit(id); err != nil {
		http.Error(w, message(err), http.StatusServiceUnavailable)
		return
	}
	writeText(w, http.StatusCreated, mimeText, id)
}

// linkingJob reads the job whose id is the request body.
func (s *Server) linkingJob(w http.ResponseWriter, r *http.Request) (*jobs.LinkingJob, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		badRequest(w, err)
		return nil, false
	}
	id := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if id == "" {
		badRequest(w, errors.New("need a task id"))
		return nil, false
	}
	job, err := s.store.LinkingJob(r.Context(), id)
	if err != nil {
		fail(w, err)
		return nil, false
	}
	return job, true
}

func (s *Server) linkingStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.linkingJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mimeJSON, job.Status())
}

func (s *Server) linkingResult(w http.ResponseWriter, r *http.Request) {
	job, ok := s.linkingJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mimeJSON, job.Result())
}
