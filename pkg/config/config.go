// Package config provides configuration management for Dictionary Matrix.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, path, host, port, user, password, database,
//     ssl_mode, batch_size
//   - Server: port, site_url
//   - Upload: path, workers, timeout, remove_on_success, remove_on_failure
//   - APIImport: workers, timeout, request_timeout, rate_limit
//   - Linking: workers, timeout, naisc_url, babelnet_url,
//     naisc_executable, naisc_config, poll_interval
//   - Ingest: tei_stylesheet, xslt_processor
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use DICTMATRIX_ prefix with underscores for nesting:
//
//	DICTMATRIX_DATABASE_DRIVER=postgres
//	DICTMATRIX_DATABASE_HOST=localhost
//	DICTMATRIX_LINKING_NAISC_URL=http://localhost:8080/naisc/
//	DICTMATRIX_LOG_LEVEL=info
package config

import (
	"runtime"
	"time"
)

// Config represents the complete Dictionary Matrix configuration.
type Config struct {
	// Database contains storage connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Server contains settings of the REST service.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Upload contains settings for file and URL imports.
	Upload UploadConfig `mapstructure:"upload" yaml:"upload"`

	// APIImport contains settings for imports from remote services.
	APIImport APIImportConfig `mapstructure:"api_import" yaml:"api_import"`

	// Linking contains settings of the sense linking backends.
	Linking LinkingConfig `mapstructure:"linking" yaml:"linking"`

	// Ingest contains settings of the resource canonicalization.
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache, data and logs directories
	// reside. It must be set by CLI during init, there is no default value
	// for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains connection parameters of the job and entry store.
type DatabaseConfig struct {
	// Driver is either "sqlite" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file. When empty, the file is created
	// in the data directory.
	Path string `mapstructure:"path" yaml:"path"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize is the number of entries inserted per statement.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// ServerConfig contains settings of the REST service.
type ServerConfig struct {
	// Port the service listens on.
	Port int `mapstructure:"port" yaml:"port"`

	// SiteURL is the public base URL of the service. Linking backends
	// fetch local dictionaries from it.
	SiteURL string `mapstructure:"site_url" yaml:"site_url"`
}

// UploadConfig contains settings for file and URL imports.
type UploadConfig struct {
	// Path is the staging directory for uploaded and downloaded files.
	// When empty, an "uploads" directory in the cache directory is used.
	Path string `mapstructure:"path" yaml:"path"`

	// Workers is the number of concurrent import workers.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// Timeout is the wall-clock limit for one import in seconds.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`

	// RemoveOnSuccess removes the staged file after a successful import.
	RemoveOnSuccess bool `mapstructure:"remove_on_success" yaml:"remove_on_success"`

	// RemoveOnFailure removes the staged file after a failed import.
	RemoveOnFailure bool `mapstructure:"remove_on_failure" yaml:"remove_on_failure"`
}

// APIImportConfig contains settings for imports from remote services.
type APIImportConfig struct {
	// Workers is the number of concurrent API import workers.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// Timeout is the wall-clock limit for one API import in seconds.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`

	// RequestTimeout is the limit for one HTTP request in seconds.
	RequestTimeout int `mapstructure:"request_timeout" yaml:"request_timeout"`

	// RateLimit is the pause between entry requests in milliseconds.
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// LinkingConfig contains settings of the sense linking backends.
type LinkingConfig struct {
	// Workers is the number of concurrent linking workers.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// Timeout is the wall-clock limit for one linking job in seconds.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`

	// NaiscURL is the base URL of a Naisc-compatible REST service.
	NaiscURL string `mapstructure:"naisc_url" yaml:"naisc_url"`

	// BabelNetURL is the base URL of the external knowledge base service.
	BabelNetURL string `mapstructure:"babelnet_url" yaml:"babelnet_url"`

	// NaiscExecutable is a local Naisc executable. It takes priority
	// over NaiscURL.
	NaiscExecutable string `mapstructure:"naisc_executable" yaml:"naisc_executable"`

	// NaiscConfig is passed to the executable with the -c flag.
	NaiscConfig string `mapstructure:"naisc_config" yaml:"naisc_config"`

	// PollInterval is the pause between status requests in seconds.
	PollInterval int `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// IngestConfig contains settings of the resource canonicalization.
type IngestConfig struct {
	// TEIStylesheet is an XSLT file converting TEI into OntoLex-shaped XML.
	// When empty, the built-in TEI mapping is used.
	TEIStylesheet string `mapstructure:"tei_stylesheet" yaml:"tei_stylesheet"`

	// XSLTProcessor is the executable that applies TEIStylesheet.
	XSLTProcessor string `mapstructure:"xslt_processor" yaml:"xslt_processor"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:    "sqlite",
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "dictmatrix",
			SSLMode:   "disable",
			BatchSize: 1_000,
		},
		Server: ServerConfig{
			Port:    8000,
			SiteURL: "http://localhost:8000/",
		},
		Upload: UploadConfig{
			Workers:         2,
			Timeout:         10 * 60,
			RemoveOnSuccess: true,
			RemoveOnFailure: true,
		},
		APIImport: APIImportConfig{
			Workers:        2,
			Timeout:        3 * 60 * 60,
			RequestTimeout: 10,
			RateLimit:      50,
		},
		Linking: LinkingConfig{
			Workers:      2,
			Timeout:      36 * 60 * 60,
			BabelNetURL:  "https://babelnet.io/v5/",
			NaiscConfig:  "configs/auto.json",
			PollInterval: 30,
		},
		Ingest: IngestConfig{
			XSLTProcessor: "xsltproc",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// child worker processes append to the same file
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}

// Seconds converts a number of seconds from the config into a Duration.
func Seconds(i int) time.Duration {
	return time.Duration(i) * time.Second
}

// Milliseconds converts a number of milliseconds from the config into
// a Duration.
func Milliseconds(i int) time.Duration {
	return time.Duration(i) * time.Millisecond
}
