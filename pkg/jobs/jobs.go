// Package jobs describes durable records of long-running operations:
// imports of dictionaries and linking of their senses.
package jobs

import (
	"time"

	"github.com/gnames/dictmatrix/pkg/model"
)

// Kind is the kind of an import job.
type Kind string

const (
	// KindFile imports a local file or a downloaded URL.
	KindFile Kind = "file"

	// KindAPI crawls a remote dictionary service.
	KindAPI Kind = "api"
)

// ImportState is the state of an import job.
type ImportState string

const (
	Scheduled ImportState = "SCHEDULED"
	Done      ImportState = "DONE"
	Error     ImportState = "ERROR"
)

// ImportMeta is metadata supplied together with an import request.
type ImportMeta struct {
	Release        model.ReleasePolicy `json:"release,omitempty"`
	SourceLanguage string              `json:"sourceLanguage,omitempty"`
	Genre          []model.Genre       `json:"genre,omitempty"`
}

// ImportJob is a request to create or replace a dictionary.
type ImportJob struct {
	ID    string      `json:"id"`
	Kind  Kind        `json:"kind"`
	State ImportState `json:"state"`

	// APIKey is the access key of the submitter. It becomes the access key
	// of the imported dictionary.
	APIKey string `json:"-"`

	// DictID is the dictionary to replace. A new dictionary is created when
	// it is empty.
	DictID string `json:"dict_id,omitempty"`

	// URL is the document to download for file jobs, or the remote service
	// endpoint for API jobs.
	URL string `json:"url,omitempty"`

	// File is the staged local document.
	File string `json:"file,omitempty"`

	RemoteDictID string `json:"remote_dict_id,omitempty"`
	RemoteAPIKey string `json:"-"`

	Meta ImportMeta `json:"meta"`

	// Error is the diagnostic of a failed job.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks that the job has everything its kind needs.
func (j *ImportJob) Validate() error {
	switch j.Kind {
	case KindFile:
		if (j.URL == "") == (j.File == "") {
			return InvalidJobError(j.ID, "need either url or file")
		}
	case KindAPI:
		if j.URL == "" || j.RemoteDictID == "" {
			return InvalidJobError(j.ID, "need remote endpoint and dictionary id")
		}
	default:
		return InvalidJobError(j.ID, "unknown kind '"+string(j.Kind)+"'")
	}
	if j.APIKey == "" {
		return InvalidJobError(j.ID, "need api key")
	}
	if j.Meta.Release != "" && !j.Meta.Release.IsValid() {
		return InvalidJobError(j.ID, "unknown release '"+string(j.Meta.Release)+"'")
	}
	if j.Meta.SourceLanguage != "" &&
		model.ToISO639(j.Meta.SourceLanguage) == "" {
		return InvalidJobError(j.ID,
			"bad language '"+j.Meta.SourceLanguage+"'")
	}
	for _, g := range j.Meta.Genre {
		if !g.IsValid() {
			return InvalidJobError(j.ID, "unknown genre '"+string(g)+"'")
		}
	}
	return nil
}
