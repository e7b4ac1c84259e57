package config_test

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gnames/dictmatrix/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "dictmatrix"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "dictmatrix"),
		},
		{
			msg: "data dir",
			fn:  config.DataDir,
			res: filepath.Join(tempHome, ".local", "share", "dictmatrix"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "dictmatrix", "logs"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		// Database defaults
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "dictmatrix", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 1_000, cfg.Database.BatchSize)

		// Workers and time limits
		assert.Equal(t, 2, cfg.Upload.Workers)
		assert.Equal(t, 600, cfg.Upload.Timeout)
		assert.True(t, cfg.Upload.RemoveOnSuccess)
		assert.True(t, cfg.Upload.RemoveOnFailure)
		assert.Equal(t, 2, cfg.APIImport.Workers)
		assert.Equal(t, 3*time.Hour, config.Seconds(cfg.APIImport.Timeout))
		assert.Equal(t, 50*time.Millisecond,
			config.Milliseconds(cfg.APIImport.RateLimit))
		assert.Equal(t, 2, cfg.Linking.Workers)
		assert.Equal(t, "https://babelnet.io/v5/", cfg.Linking.BabelNetURL)
		assert.Equal(t, 30, cfg.Linking.PollInterval)
		assert.Equal(t, "http://localhost:8000/", cfg.Server.SiteURL)

		// Log defaults
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		// JobsNumber defaults to CPU count
		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	})
}

func TestDerivedPaths(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/lex")})
	assert.Equal(t,
		filepath.Join("/home/lex", ".cache", "dictmatrix", "uploads"),
		cfg.UploadDir(),
	)
	assert.Equal(t,
		filepath.Join("/home/lex", ".local", "share", "dictmatrix",
			"dictmatrix.sqlite"),
		cfg.DatabasePath(),
	)

	cfg.Update([]config.Option{
		config.OptUploadPath("/tmp/up"),
		config.OptDatabasePath("/tmp/dm.db"),
	})
	assert.Equal(t, "/tmp/up", cfg.UploadDir())
	assert.Equal(t, "/tmp/dm.db", cfg.DatabasePath())
}

func TestOptionDatabaseDriver(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets postgres",
			input:    "postgres",
			expected: "postgres",
		},
		{
			name:     "normalizes to lowercase",
			input:    " SQLite ",
			expected: "sqlite",
		},
		{
			name:     "ignores unknown driver",
			input:    "mysql",
			expected: "sqlite", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseDriver(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Driver)
		})
	}
}

func TestOptionDatabaseHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid host",
			input:    "db.example.com",
			expected: "db.example.com",
		},
		{
			name:     "trims whitespace",
			input:    "  db.example.com  ",
			expected: "db.example.com",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "localhost", // Should keep default
		},
		{
			name:     "ignores whitespace-only",
			input:    "   ",
			expected: "localhost", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseHost(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Host)
		})
	}
}

func TestOptionDatabaseSSLMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid ssl mode - require",
			input:    "require",
			expected: "require",
		},
		{
			name:     "sets valid ssl mode - verify-full",
			input:    "verify-full",
			expected: "verify-full",
		},
		{
			name:     "normalizes to lowercase",
			input:    "REQUIRE",
			expected: "require",
		},
		{
			name:     "ignores invalid value",
			input:    "invalid",
			expected: "disable", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseSSLMode(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.SSLMode)
		})
	}
}

func TestOptionServerSiteURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "keeps trailing slash",
			input:    "https://matrix.example.org/",
			expected: "https://matrix.example.org/",
		},
		{
			name:     "adds trailing slash",
			input:    "https://matrix.example.org",
			expected: "https://matrix.example.org/",
		},
		{
			name:     "ignores empty string",
			input:    "  ",
			expected: "http://localhost:8000/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptServerSiteURL(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Server.SiteURL)
		})
	}
}

func TestOptionWorkers(t *testing.T) {
	tests := []struct {
		name  string
		opt   config.Option
		field func(*config.Config) int
		res   int
	}{
		{
			name:  "upload workers",
			opt:   config.OptUploadWorkers(4),
			field: func(c *config.Config) int { return c.Upload.Workers },
			res:   4,
		},
		{
			name:  "upload workers ignore zero",
			opt:   config.OptUploadWorkers(0),
			field: func(c *config.Config) int { return c.Upload.Workers },
			res:   2,
		},
		{
			name:  "api workers",
			opt:   config.OptAPIImportWorkers(3),
			field: func(c *config.Config) int { return c.APIImport.Workers },
			res:   3,
		},
		{
			name:  "linking workers ignore negative",
			opt:   config.OptLinkingWorkers(-1),
			field: func(c *config.Config) int { return c.Linking.Workers },
			res:   2,
		},
		{
			name:  "rate limit accepts zero",
			opt:   config.OptAPIImportRateLimit(0),
			field: func(c *config.Config) int { return c.APIImport.RateLimit },
			res:   0,
		},
		{
			name:  "rate limit ignores negative",
			opt:   config.OptAPIImportRateLimit(-10),
			field: func(c *config.Config) int { return c.APIImport.RateLimit },
			res:   50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt})
			assert.Equal(t, tt.res, tt.field(cfg))
		})
	}
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid log level - debug",
			input:    "debug",
			expected: "debug",
		},
		{
			name:     "sets valid log level - error",
			input:    "error",
			expected: "error",
		},
		{
			name:     "normalizes to lowercase",
			input:    "DEBUG",
			expected: "debug",
		},
		{
			name:     "ignores invalid value",
			input:    "trace",
			expected: "info", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogLevel(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestOptionLogDestination(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "stderr",
			input:    "stderr",
			expected: "stderr",
		},
		{
			name:     "stdout",
			input:    "STDOUT",
			expected: "stdout",
		},
		{
			name:     "ignores invalid value",
			input:    "syslog",
			expected: "file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogDestination(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Destination)
		})
	}
}

func TestOptionJobsNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid jobs number",
			input:    8,
			expected: 8,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: runtime.NumCPU(), // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptJobsNumber(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.JobsNumber)
		})
	}
}

func TestMultipleOptions(t *testing.T) {
	t.Run("applies multiple options in order", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptDatabaseDriver("postgres"),
			config.OptDatabaseHost("custom.host.com"),
			config.OptLinkingNaiscURL("http://naisc:8080/naisc/"),
			config.OptLogLevel("debug"),
			config.OptJobsNumber(16),
		}

		cfg.Update(opts)

		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "custom.host.com", cfg.Database.Host)
		assert.Equal(t, "http://naisc:8080/naisc/", cfg.Linking.NaiscURL)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 16, cfg.JobsNumber)

		// Unchanged fields keep defaults
		assert.Equal(t, "postgres", cfg.Database.Password)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptDatabaseHost("first.host.com"),
			config.OptDatabaseHost("second.host.com"),
		}

		cfg.Update(opts)

		assert.Equal(t, "second.host.com", cfg.Database.Host)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		opts := []config.Option{
			config.OptDatabaseDriver("postgres"),
			config.OptDatabasePath("/tmp/dm.sqlite"),
			config.OptDatabaseHost("test.host.com"),
			config.OptDatabasePort(3306),
			config.OptDatabaseUser("testuser"),
			config.OptDatabasePassword("testpass"),
			config.OptDatabaseDatabase("testdb"),
			config.OptDatabaseSSLMode("require"),
			config.OptDatabaseBatchSize(10000),
			config.OptServerPort(9000),
			config.OptServerSiteURL("https://example.org"),
			config.OptUploadPath("/tmp/uploads"),
			config.OptUploadWorkers(5),
			config.OptUploadTimeout(30),
			config.OptUploadRemoveOnSuccess(false),
			config.OptAPIImportRateLimit(0),
			config.OptLinkingNaiscExecutable("/opt/naisc/bin/naisc"),
			config.OptLinkingPollInterval(5),
			config.OptIngestTEIStylesheet("/opt/tei2ontolex.xsl"),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(8),
		}
		original.Update(opts)

		convertedOpts := original.ToOptions()
		newCfg := config.New()
		newCfg.Update(convertedOpts)

		assert.Equal(t, original.Database, newCfg.Database)
		assert.Equal(t, original.Server, newCfg.Server)
		assert.Equal(t, original.Upload, newCfg.Upload)
		assert.Equal(t, original.APIImport, newCfg.APIImport)
		assert.Equal(t, original.Linking, newCfg.Linking)
		assert.Equal(t, original.Ingest, newCfg.Ingest)
		assert.Equal(t, original.Log, newCfg.Log)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
		})

		opts := cfg.ToOptions()
		newCfg := config.New()
		newCfg.Update(opts)

		assert.Equal(t, "", newCfg.HomeDir)
	})
}
