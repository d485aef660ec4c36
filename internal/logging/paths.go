package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory: logs/ under the working
// directory, matching where the invoking process expects to find bridge logs.
// The YOKATLAS_LOG_DIR environment variable overrides it.
func DefaultLogDir() string {
	if dir := os.Getenv("YOKATLAS_LOG_DIR"); dir != "" {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(os.TempDir(), "yokatlas-bridge", "logs")
	}
	return filepath.Join(cwd, "logs")
}
