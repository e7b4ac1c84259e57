package model

import (
	"fmt"
	"time"
)

// Meta is the public description of a dictionary.
type Meta struct {
	Release        ReleasePolicy `json:"release"`
	SourceLanguage string        `json:"sourceLanguage"`
	TargetLanguage []string      `json:"targetLanguage,omitempty"`
	Genre          []Genre       `json:"genre,omitempty"`
	License        string        `json:"license,omitempty"`
	Title          string        `json:"title,omitempty"`
	Creator        string        `json:"creator,omitempty"`
	Publisher      string        `json:"publisher,omitempty"`
}

// Dictionary is a set of entries with their metadata.
type Dictionary struct {
	// ID is the local identifier of the dictionary.
	ID string `json:"id,omitempty"`

	Meta Meta `json:"meta"`

	Entries []Entry `json:"entries,omitempty"`

	// APIKey is the access key of the owner.
	APIKey string `json:"-"`

	// NEntries is the number of entries at import time.
	NEntries int `json:"n_entries,omitempty"`

	// OriginID, OriginEndpoint and OriginAPIKey describe the remote
	// dictionary this one mirrors.
	OriginID       string `json:"-"`
	OriginEndpoint string `json:"-"`
	OriginAPIKey   string `json:"-"`

	ImportTime time.Time `json:"-"`
}

// Lemma is a short description of an entry returned by lemma listings.
type Lemma struct {
	Lemma        string        `json:"lemma"`
	ID           string        `json:"id"`
	PartOfSpeech PartOfSpeech  `json:"partOfSpeech"`
	Language     string        `json:"language,omitempty"`
	Formats      []Format      `json:"formats,omitempty"`
	Release      ReleasePolicy `json:"release,omitempty"`
}

// Validate checks the invariants of dictionary metadata.
func (m Meta) Validate() error {
	if !m.Release.IsValid() {
		return InvalidMetaError(fmt.Sprintf("unknown release '%s'", m.Release))
	}
	if !IsLanguage(m.SourceLanguage) {
		return InvalidMetaError(
			fmt.Sprintf("bad source language '%s'", m.SourceLanguage),
		)
	}
	for _, l := range m.TargetLanguage {
		if !IsLanguage(l) {
			return InvalidMetaError(fmt.Sprintf("bad target language '%s'", l))
		}
	}
	for _, g := range m.Genre {
		if !g.IsValid() {
			return InvalidMetaError(fmt.Sprintf("unknown genre '%s'", g))
		}
	}
	return nil
}

// Validate checks metadata and all entries of a dictionary.
func (d *Dictionary) Validate() error {
	if err := d.Meta.Validate(); err != nil {
		return err
	}
	for i := range d.Entries {
		if err := d.Entries[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
