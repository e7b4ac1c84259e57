package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseDriver sets the storage backend.
// Valid values: "sqlite", "postgres".
func OptDatabaseDriver(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.Driver", s) {
			c.Database.Driver = s
		}
	}
}

// OptDatabasePath sets the SQLite database file.
func OptDatabasePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Path", s) {
			c.Database.Path = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of entries inserted per statement.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptServerPort sets the port of the REST service.
func OptServerPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Port", i) {
			c.Server.Port = i
		}
	}
}

// OptServerSiteURL sets the public base URL of the service.
// A trailing slash is always added.
func OptServerSiteURL(s string) Option {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return func(c *Config) {
		if isValidString("Site URL", s) {
			c.Server.SiteURL = s
		}
	}
}

// OptUploadPath sets the staging directory for imported files.
func OptUploadPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Upload Path", s) {
			c.Upload.Path = s
		}
	}
}

// OptUploadWorkers sets the number of concurrent import workers.
func OptUploadWorkers(i int) Option {
	return func(c *Config) {
		if isValidInt("Upload Workers", i) {
			c.Upload.Workers = i
		}
	}
}

// OptUploadTimeout sets the limit of one import in seconds.
func OptUploadTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Upload Timeout", i) {
			c.Upload.Timeout = i
		}
	}
}

// OptUploadRemoveOnSuccess sets whether staged files are removed after
// a successful import.
func OptUploadRemoveOnSuccess(b bool) Option {
	return func(c *Config) {
		c.Upload.RemoveOnSuccess = b
	}
}

// OptUploadRemoveOnFailure sets whether staged files are removed after
// a failed import.
func OptUploadRemoveOnFailure(b bool) Option {
	return func(c *Config) {
		c.Upload.RemoveOnFailure = b
	}
}

// OptAPIImportWorkers sets the number of concurrent API import workers.
func OptAPIImportWorkers(i int) Option {
	return func(c *Config) {
		if isValidInt("API Import Workers", i) {
			c.APIImport.Workers = i
		}
	}
}

// OptAPIImportTimeout sets the limit of one API import in seconds.
func OptAPIImportTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("API Import Timeout", i) {
			c.APIImport.Timeout = i
		}
	}
}

// OptAPIImportRequestTimeout sets the limit of one remote request
// in seconds.
func OptAPIImportRequestTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("API Request Timeout", i) {
			c.APIImport.RequestTimeout = i
		}
	}
}

// OptAPIImportRateLimit sets the pause between entry requests in
// milliseconds. Zero disables the pause.
func OptAPIImportRateLimit(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("API Rate Limit", i) {
			c.APIImport.RateLimit = i
		}
	}
}

// OptLinkingWorkers sets the number of concurrent linking workers.
func OptLinkingWorkers(i int) Option {
	return func(c *Config) {
		if isValidInt("Linking Workers", i) {
			c.Linking.Workers = i
		}
	}
}

// OptLinkingTimeout sets the limit of one linking job in seconds.
func OptLinkingTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Linking Timeout", i) {
			c.Linking.Timeout = i
		}
	}
}

// OptLinkingNaiscURL sets the base URL of the Naisc REST service.
func OptLinkingNaiscURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Naisc URL", s) {
			c.Linking.NaiscURL = s
		}
	}
}

// OptLinkingBabelNetURL sets the base URL of the knowledge base service.
func OptLinkingBabelNetURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("BabelNet URL", s) {
			c.Linking.BabelNetURL = s
		}
	}
}

// OptLinkingNaiscExecutable sets the local Naisc executable.
func OptLinkingNaiscExecutable(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Naisc Executable", s) {
			c.Linking.NaiscExecutable = s
		}
	}
}

// OptLinkingNaiscConfig sets the configuration passed to the local
// Naisc executable.
func OptLinkingNaiscConfig(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Naisc Config", s) {
			c.Linking.NaiscConfig = s
		}
	}
}

// OptLinkingPollInterval sets the pause between status requests
// in seconds.
func OptLinkingPollInterval(i int) Option {
	return func(c *Config) {
		if isValidInt("Poll Interval", i) {
			c.Linking.PollInterval = i
		}
	}
}

// OptIngestTEIStylesheet sets the XSLT stylesheet for TEI documents.
func OptIngestTEIStylesheet(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("TEI Stylesheet", s) {
			c.Ingest.TEIStylesheet = s
		}
	}
}

// OptIngestXSLTProcessor sets the executable applying the TEI stylesheet.
func OptIngestXSLTProcessor(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("XSLT Processor", s) {
			c.Ingest.XSLTProcessor = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, data and log
// locations. Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
