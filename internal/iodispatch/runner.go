package iodispatch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

// maxStderr is the number of trailing stderr bytes kept for diagnostics.
const maxStderr = 2000

// Runner executes one job.
type Runner interface {
	Run(ctx context.Context, kind, id string) error
}

// FuncRunner runs jobs in the current process.
type FuncRunner func(ctx context.Context, id string) error

// Run calls the function.
func (f FuncRunner) Run(ctx context.Context, _, id string) error {
	return f(ctx, id)
}

// ProcessRunner runs every job in a separate process, so a document that
// crashes a parser takes down only its own process. The child is started
// as
//
//	<Executable> <Args...> worker <kind> <id>
//
// and is killed when it does not finish within Timeout. The job record is
// left in the state the child wrote last.
type ProcessRunner struct {
	// Executable is the program to start, the current one by default.
	Executable string

	// Args go before the worker subcommand, for example a home directory
	// flag.
	Args []string

	// Env is added to the environment of the child.
	Env []string

	// Timeout is the time limit of one job. Zero means no limit.
	Timeout time.Duration
}

// NewProcessRunner creates a ProcessRunner for the running executable.
func NewProcessRunner(timeout time.Duration, args ...string) (*ProcessRunner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return &ProcessRunner{Executable: exe, Args: args, Timeout: timeout}, nil
}

// Run starts the child and waits for it.
func (r *ProcessRunner) Run(ctx context.Context, kind, id string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, r.Args...), "worker", kind, id)
	cmd := exec.CommandContext(ctx, r.Executable, args...)
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.WaitDelay = 5 * time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return TimeoutError(kind, id, r.Timeout)
	}
	return ChildError(kind, id, tail(stderr.String()), err)
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		s = s[len(s)-maxStderr:]
	}
	return s
}
