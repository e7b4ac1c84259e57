// Package store declares the durable storage of dictionaries, entries
// and jobs. All writes are committed before the methods return, so a
// subsequent read in any process sees them.
package store

import (
	"context"
	"errors"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/gn"
)

// ErrNotFound is wrapped by errors about missing records.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err is about a missing record. A *gn.Error
// does not unwrap, so store errors are recognized by their code.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var gnErr *gn.Error
	return errors.As(err, &gnErr) && gnErr.Code == errcode.StoreNotFoundError
}

// EntryKey is a short description of a stored entry, enough to carry
// identifiers over to a new version of a dictionary.
type EntryKey struct {
	ID           string
	Lemma        string
	PartOfSpeech model.PartOfSpeech
	OriginID     string
}

// Store keeps dictionaries and jobs.
type Store interface {
	// Dictionary returns metadata of a dictionary without its entries.
	Dictionary(ctx context.Context, id string) (*model.Dictionary, error)

	// IsOwner checks if the access key owns the dictionary.
	IsOwner(ctx context.Context, dictID, apiKey string) (bool, error)

	// DictionaryIDs returns ids of dictionaries owned by the access key.
	DictionaryIDs(ctx context.Context, apiKey string) ([]string, error)

	// ReplaceDictionary removes the dictionary with the same id together
	// with its entries, and inserts the new one in a single transaction.
	// Entries without ids get new ones.
	ReplaceDictionary(ctx context.Context, d *model.Dictionary) error

	// EntryKeys returns keys of all entries of a dictionary in document
	// order.
	EntryKeys(ctx context.Context, dictID string) ([]EntryKey, error)

	// Entries returns entries of a dictionary in document order. If ids
	// are given, only those entries are returned.
	Entries(ctx context.Context, dictID string, ids []string) ([]model.Entry, error)

	// Entry returns one entry of a dictionary.
	Entry(ctx context.Context, dictID, entryID string) (*model.Entry, error)

	// Lemmas lists entries of a dictionary in document order.
	Lemmas(ctx context.Context, dictID string, offset, limit int) ([]model.Lemma, error)

	// LemmaLookup finds entries by their headword and, optionally, their
	// part of speech.
	LemmaLookup(
		ctx context.Context,
		dictID, headword string,
		pos model.PartOfSpeech,
		offset, limit int,
	) ([]model.Lemma, error)

	CreateImportJob(ctx context.Context, job *jobs.ImportJob) error
	ImportJob(ctx context.Context, id string) (*jobs.ImportJob, error)
	UpdateImportJob(ctx context.Context, job *jobs.ImportJob) error

	CreateLinkingJob(ctx context.Context, job *jobs.LinkingJob) error
	LinkingJob(ctx context.Context, id string) (*jobs.LinkingJob, error)
	UpdateLinkingJob(ctx context.Context, job *jobs.LinkingJob) error
}
