package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	s = c.Database.Driver
	if s != "" {
		res = append(res, OptDatabaseDriver(s))
	}
	s = c.Database.Path
	if s != "" {
		res = append(res, OptDatabasePath(s))
	}
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	i = c.Database.BatchSize
	if i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}

	i = c.Server.Port
	if i > 0 {
		res = append(res, OptServerPort(i))
	}
	s = c.Server.SiteURL
	if s != "" {
		res = append(res, OptServerSiteURL(s))
	}

	s = c.Upload.Path
	if s != "" {
		res = append(res, OptUploadPath(s))
	}
	i = c.Upload.Workers
	if i > 0 {
		res = append(res, OptUploadWorkers(i))
	}
	i = c.Upload.Timeout
	if i > 0 {
		res = append(res, OptUploadTimeout(i))
	}
	res = append(res,
		OptUploadRemoveOnSuccess(c.Upload.RemoveOnSuccess),
		OptUploadRemoveOnFailure(c.Upload.RemoveOnFailure),
	)

	i = c.APIImport.Workers
	if i > 0 {
		res = append(res, OptAPIImportWorkers(i))
	}
	i = c.APIImport.Timeout
	if i > 0 {
		res = append(res, OptAPIImportTimeout(i))
	}
	i = c.APIImport.RequestTimeout
	if i > 0 {
		res = append(res, OptAPIImportRequestTimeout(i))
	}
	i = c.APIImport.RateLimit
	if i >= 0 {
		res = append(res, OptAPIImportRateLimit(i))
	}

	i = c.Linking.Workers
	if i > 0 {
		res = append(res, OptLinkingWorkers(i))
	}
	i = c.Linking.Timeout
	if i > 0 {
		res = append(res, OptLinkingTimeout(i))
	}
	s = c.Linking.NaiscURL
	if s != "" {
		res = append(res, OptLinkingNaiscURL(s))
	}
	s = c.Linking.BabelNetURL
	if s != "" {
		res = append(res, OptLinkingBabelNetURL(s))
	}
	s = c.Linking.NaiscExecutable
	if s != "" {
		res = append(res, OptLinkingNaiscExecutable(s))
	}
	s = c.Linking.NaiscConfig
	if s != "" {
		res = append(res, OptLinkingNaiscConfig(s))
	}
	i = c.Linking.PollInterval
	if i > 0 {
		res = append(res, OptLinkingPollInterval(i))
	}

	s = c.Ingest.TEIStylesheet
	if s != "" {
		res = append(res, OptIngestTEIStylesheet(s))
	}
	s = c.Ingest.XSLTProcessor
	if s != "" {
		res = append(res, OptIngestXSLTProcessor(s))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidNonNegative(name string, i int) bool {
	res := i >= 0
	if !res {
		gn.Warn("<em>%s</em> cannot be negative, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.Driver": {"sqlite": s, "postgres": s},
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
