// Package config locates nearby's files on disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName names the configuration directory.
const AppName = "nearby"

// Dir returns $HOME/.config/nearby.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// File returns name inside Dir, or name itself when it is already a path.
func File(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		return ExpandPath(name), nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ExpandPath expands a leading ~ and $VAR references.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
