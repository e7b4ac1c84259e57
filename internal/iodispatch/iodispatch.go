// Package iodispatch runs background jobs with a fixed number of
// persistent workers fed from an unbounded in-process queue.
package iodispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gnames/dictmatrix/internal/iometrics"
	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/gn"
	"golang.org/x/sync/errgroup"
)

// Dispatcher hands job ids of one kind to a Runner. Failed jobs are
// logged and never re-queued.
type Dispatcher struct {
	kind    string
	workers int
	runner  Runner
	metrics *iometrics.Metrics

	mu     sync.Mutex
	queue  []string
	closed bool
	notify chan struct{}
	done   chan struct{}

	g *errgroup.Group
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// OptMetrics records queue and job metrics.
func OptMetrics(m *iometrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New creates a Dispatcher for jobs of kind. At least one worker is used.
func New(kind string, workers int, runner Runner, opts ...Option) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	res := &Dispatcher{
		kind:    kind,
		workers: workers,
		runner:  runner,
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Kind returns the kind of jobs the dispatcher runs.
func (d *Dispatcher) Kind() string {
	return d.kind
}

// Start launches the workers. They stop when the context is canceled, or
// when the dispatcher is closed and the queue is empty.
func (d *Dispatcher) Start(ctx context.Context) {
	var g errgroup.Group
	d.g = &g
	for i := range d.workers {
		g.Go(func() error {
			d.work(ctx, i)
			return nil
		})
	}
	slog.Info("Started dispatcher", "kind", d.kind, "workers", d.workers)
}

// Submit appends a job id to the queue. It never blocks.
func (d *Dispatcher) Submit(id string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ClosedError(d.kind, id)
	}
	d.queue = append(d.queue, id)
	d.mu.Unlock()

	d.metrics.Submitted(d.kind)
	d.wake()
	slog.Debug("Submitted job", "kind", d.kind, "id", id)
	return nil
}

// Len returns the number of jobs waiting for a worker.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Close stops accepting jobs. Workers finish the jobs already queued.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.done)
}

// Wait blocks until all workers exit.
func (d *Dispatcher) Wait() error {
	if d.g == nil {
		return nil
	}
	return d.g.Wait()
}

func (d *Dispatcher) wake() {
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// next pops the oldest id. It returns false when the worker should exit.
func (d *Dispatcher) next(ctx context.Context) (string, bool) {
	for {
		d.mu.Lock()
		if len(d.queue) > 0 {
			id := d.queue[0]
			d.queue[0] = ""
			d.queue = d.queue[1:]
			more := len(d.queue) > 0
			d.mu.Unlock()
			if more {
				d.wake()
			}
			return id, true
		}
		closed := d.closed
		d.mu.Unlock()
		if closed {
			return "", false
		}

		select {
		case <-ctx.Done():
			return "", false
		case <-d.done:
		case <-d.notify:
		}
	}
}

func (d *Dispatcher) work(ctx context.Context, worker int) {
	for {
		id, ok := d.next(ctx)
		if !ok {
			return
		}
		d.run(ctx, worker, id)
	}
}

func (d *Dispatcher) run(ctx context.Context, worker int, id string) {
	d.metrics.Started(d.kind)
	start := time.Now()
	slog.Info("Running job", "kind", d.kind, "id", id, "worker", worker)

	err := d.runner.Run(ctx, d.kind, id)
	outcome := iometrics.OutcomeDone
	if err != nil {
		outcome = iometrics.OutcomeFailed
		if gnErr, ok := err.(*gn.Error); ok &&
			gnErr.Code == errcode.DispatchTimeoutError {
			outcome = iometrics.OutcomeTimeout
		}
		slog.Error("Job failed",
			"kind", d.kind, "id", id, "outcome", outcome, "error", err)
	} else {
		slog.Info("Job finished", "kind", d.kind, "id", id,
			"duration", time.Since(start).String())
	}
	d.metrics.Finished(d.kind, outcome, time.Since(start))
}
