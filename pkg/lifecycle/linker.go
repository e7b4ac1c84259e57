package lifecycle

import (
	"context"

	"github.com/gnames/dictmatrix/pkg/jobs"
)

// Linker runs linking jobs. A job moves from PROCESSING to COMPLETED or
// FAILED.
type Linker interface {
	// Submit validates and stores a new linking job and returns its id.
	Submit(ctx context.Context, job *jobs.LinkingJob) (string, error)

	// Process runs the stored job with a linking backend.
	Process(ctx context.Context, jobID string) error
}
