package lifecycle

import "context"

// Importer runs import jobs. A job moves from SCHEDULED to DONE or ERROR,
// and the outcome is written to the job record. The returned error is
// only informative, the job record is the source of truth.
type Importer interface {
	// ProcessFile imports a local file or a document from a URL.
	ProcessFile(ctx context.Context, jobID string) error

	// ProcessAPI imports a dictionary from a remote dictionary service.
	ProcessAPI(ctx context.Context, jobID string) error
}
