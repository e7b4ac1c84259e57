package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "dictmatrix"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/dictmatrix by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/dictmatrix by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// DataDir returns the directory path for persistent data such as
// the SQLite database.
// Returns ~/.local/share/dictmatrix by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/dictmatrix/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/dictmatrix/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// UploadDir returns the staging directory for imported files.
func (c *Config) UploadDir() string {
	if c.Upload.Path != "" {
		return c.Upload.Path
	}
	return filepath.Join(CacheDir(c.HomeDir), "uploads")
}

// DatabasePath returns the SQLite database file.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(DataDir(c.HomeDir), AppName+".sqlite")
}
