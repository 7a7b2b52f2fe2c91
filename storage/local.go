package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Local opens artifacts stored on the local filesystem for streaming.
// Opened files are returned to the caller, who must close them on every
// exit path.
type Local struct {
	allowedRoots []string
	log          *slog.Logger
}

// NewLocal creates a Local store. allowedRoots, when non-empty, restricts
// opens to paths under one of the given directories; an empty list disables
// the containment check.
func NewLocal(allowedRoots []string, log *slog.Logger) *Local {
	if log == nil {
		log = slog.Default()
	}
	roots := make([]string, 0, len(allowedRoots))
	for _, r := range allowedRoots {
		if r != "" {
			roots = append(roots, filepath.Clean(r))
		}
	}
	return &Local{allowedRoots: roots, log: log}
}

// Open opens the artifact at path for reading and returns the stream and its
// size in bytes. All failure modes (not found, permission denied, not a
// regular file) collapse into a single error kind for the caller.
func (l *Local) Open(path string) (io.ReadCloser, int64, error) {
	clean := filepath.Clean(path)
	if !l.contained(clean) {
		return nil, 0, fmt.Errorf("failed to open artifact file: path %q outside allowed roots", path)
	}

	f, err := os.Open(clean)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open artifact file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		if cerr := f.Close(); cerr != nil {
			l.log.Warn("failed to close artifact file", "path", clean, "error", cerr)
		}
		return nil, 0, fmt.Errorf("failed to stat artifact file: %w", err)
	}
	if info.IsDir() {
		if cerr := f.Close(); cerr != nil {
			l.log.Warn("failed to close artifact file", "path", clean, "error", cerr)
		}
		return nil, 0, fmt.Errorf("failed to open artifact file: %q is a directory", clean)
	}

	return f, info.Size(), nil
}

func (l *Local) contained(clean string) bool {
	if len(l.allowedRoots) == 0 {
		return true
	}
	for _, root := range l.allowedRoots {
		if clean == root || strings.HasPrefix(clean, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
