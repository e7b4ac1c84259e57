// Package schema provides database models of the dictionary matrix.
// Nested parts of dictionaries, entries and jobs are kept in JSON
// columns, fields used in queries have their own columns.
package schema

import (
	"time"

	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/model"
	"gorm.io/datatypes"
)

// Dictionary is an imported dictionary.
type Dictionary struct {
	// ID is the local dictionary id.
	ID string `gorm:"primaryKey;size:64"`

	// APIKey is the access key of the owner.
	APIKey string `gorm:"index;size:255;not null"`

	// Meta is the public description of the dictionary.
	Meta datatypes.JSONType[model.Meta]

	// NEntries is the number of entries.
	NEntries int

	// OriginID is the id of the dictionary on a remote service, if it is
	// a mirror.
	OriginID       string `gorm:"size:255"`
	OriginEndpoint string `gorm:"size:1024"`
	OriginAPIKey   string `gorm:"size:255"`

	ImportTime time.Time
}

// Entry is one entry of a dictionary. Entries with several headwords are
// stored once per headword.
type Entry struct {
	// ID is a sortable unique id of the entry.
	ID string `gorm:"primaryKey;size:64"`

	DictID string `gorm:"size:64;not null;index:idx_entries_dict_pos,priority:1"`

	// Position keeps the document order.
	Position int `gorm:"not null;index:idx_entries_dict_pos,priority:2"`

	Lemma        string `gorm:"size:512;not null;index"`
	PartOfSpeech string `gorm:"size:16;not null"`
	Language     string `gorm:"size:8"`

	// OriginID is the id of the entry on a remote service.
	OriginID string `gorm:"size:255;index"`

	// Data is the JSON form of the entry.
	Data datatypes.JSON
}

// ImportJob is a request to import a dictionary.
type ImportJob struct {
	ID           string `gorm:"primaryKey;size:64"`
	Kind         string `gorm:"size:16;not null"`
	State        string `gorm:"size:16;not null;index"`
	APIKey       string `gorm:"size:255;not null"`
	DictID       string `gorm:"size:64"`
	URL          string `gorm:"size:2048"`
	File         string `gorm:"size:2048"`
	RemoteDictID string `gorm:"size:255"`
	RemoteAPIKey string `gorm:"size:255"`
	Meta         datatypes.JSONType[jobs.ImportMeta]
	Error        string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LinkingJob is a request to link senses of two dictionaries.
type LinkingJob struct {
	ID           string `gorm:"primaryKey;size:64"`
	State        string `gorm:"size:16;not null;index"`
	Message      string `gorm:"type:text"`
	Source       datatypes.JSONType[jobs.LinkingSource]
	Target       datatypes.JSONType[jobs.LinkingSource]
	Config       datatypes.JSONMap
	ServiceURL   string `gorm:"size:1024"`
	RemoteTaskID string `gorm:"size:255"`

	// OurResult refers to local entry ids.
	OurResult datatypes.JSON

	// OriginResult is empty unless a side of the job was mirrored.
	OriginResult datatypes.JSON

	CreatedAt time.Time
	UpdatedAt time.Time
}
