// Package iofs prepares directories and files used by Dictionary Matrix.
package iofs

import (
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gnames/dictmatrix/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDir creates a directory if it does not exist yet.
func EnsureDir(dir string) error {
	return touchDir(dir)
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	// Write embedded config.yaml to the config directory
	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

var unsafeChars = regexp.MustCompile(`[^\w.-]`)

// SafePath replaces characters that are not letters, digits, underscores,
// dots or dashes with underscores.
func SafePath(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}

// UploadPath generates a path of a staged upload in dir. The name
// contains the upload time, the submitter and the original file name.
func UploadPath(dir, submitter, name string, now time.Time) string {
	ts := strings.Replace(now.Format("2006-01-02 15:04:05.000000"), " ", "T", 1)
	return filepath.Join(dir, ts+"-"+SafePath(submitter)+"-"+SafePath(name))
}

// RemoveFile deletes a file, a missing file is not an error.
func RemoveFile(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return RemoveFileError(path, err)
}

// StageFile copies the content of r into a new upload path in dir and
// returns the path with the number of bytes written. A partially written
// file is removed.
func StageFile(
	dir, submitter, name string,
	r io.Reader,
	now time.Time,
) (string, int64, error) {
	if err := EnsureDir(dir); err != nil {
		return "", 0, err
	}
	path := UploadPath(dir, submitter, name, now)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, CopyFileError(path, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", n, CopyFileError(path, err)
	}
	return path, n, nil
}
