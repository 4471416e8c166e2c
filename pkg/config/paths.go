package config

import (
	"os"
	"path/filepath"
	"strings"
)

// StoragePath returns the absolute database path with ~ expanded.
func (c *Config) StoragePath() string {
	return absPath(c.Storage.Path)
}

// LogFile returns the absolute log file path, or "" when logging to a file is
// disabled.
func (c *Config) LogFile() string {
	return absPath(c.Logging.File)
}

// TraceFile returns the absolute span export path, or "" for stdout.
func (c *Config) TraceFile() string {
	return absPath(c.Tracing.File)
}

func absPath(path string) string {
	path = expandHomeDir(path)
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
