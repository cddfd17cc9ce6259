package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// PathEnv names an explicit config file and skips the directory walk.
	PathEnv = "CARRENTAL_QA_CONFIG"
	// DefaultPath is looked up relative to the working directory and its parents.
	DefaultPath = "config/config.ini"
)

// Discover resolves the config file: $CARRENTAL_QA_CONFIG when set, otherwise the
// first config/config.ini found walking up from the working directory.
func Discover() (string, error) {
	if p := strings.TrimSpace(os.Getenv(PathEnv)); p != "" {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return Find(wd)
}

// Find walks from dir towards the filesystem root looking for config/config.ini.
func Find(dir string) (string, error) {
	start := dir
	for {
		candidate := filepath.Join(dir, DefaultPath)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &Error{Path: start, Err: fmt.Errorf("%w: no %s here or above (set %s)", ErrMissingFile, DefaultPath, PathEnv)}
		}
		dir = parent
	}
}
