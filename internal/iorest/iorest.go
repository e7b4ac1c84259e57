// Package iorest serves dictionaries and entries over HTTP and accepts
// import and linking jobs. Jobs are stored first and then handed to
// queues, so requests never wait for the work itself.
package iorest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gnames/dictmatrix/internal/iometrics"
	"github.com/gnames/dictmatrix/pkg/config"
	"github.com/gnames/dictmatrix/pkg/lifecycle"
	"github.com/gnames/dictmatrix/pkg/store"
	"golang.org/x/sync/errgroup"
)

// Queue accepts ids of stored jobs.
type Queue interface {
	Submit(id string) error
}

// Queues holds a queue for every kind of job.
type Queues struct {
	File    Queue
	API     Queue
	Linking Queue
}

// Server is the REST service.
type Server struct {
	cfg     *config.Config
	store   store.Store
	linker  lifecycle.Linker
	queues  Queues
	metrics *iometrics.Metrics
}

// New creates a Server. Metrics are optional.
func New(
	cfg *config.Config,
	st store.Store,
	linker lifecycle.Linker,
	queues Queues,
	m *iometrics.Metrics,
) *Server {
	return &Server{
		cfg:     cfg,
		store:   st,
		linker:  linker,
		queues:  queues,
		metrics: m,
	}
}

// Handler returns all routes of the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /dictionaries", s.dictionaries)
	mux.HandleFunc("GET /about/{dict}", s.about)
	mux.HandleFunc("GET /list/{dict}", s.list)
	mux.HandleFunc("GET /lemma/{dict}/{headword}", s.lemma)
	mux.HandleFunc("GET /json/{dict}/{entry}", s.entryJSON)
	mux.HandleFunc("GET /tei/{dict}/{entry}", s.entryTEI)
	mux.HandleFunc("GET /ontolex/{dict}/{entry}", s.entryOntolex)
	mux.HandleFunc("GET /export/{dict}", s.export)
	mux.HandleFunc("GET /context.jsonld", s.jsonldContext)

	mux.HandleFunc("POST /import", s.importFile)
	mux.HandleFunc("POST /import/api", s.importAPI)
	mux.HandleFunc("GET /import/{job}", s.importStatus)

	mux.HandleFunc("POST /linking/submit", s.linkingSubmit)
	mux.HandleFunc("POST /linking/status", s.linkingStatus)
	mux.HandleFunc("POST /linking/result", s.linkingResult)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return logRequests(mux)
}

// Run serves requests on the configured port until the context is
// canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting REST service", "addr", srv.Addr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Stopping REST service")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
