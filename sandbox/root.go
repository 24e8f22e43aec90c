package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
)

// Root is the canonicalized directory all file access is confined to,
// fixed for the process lifetime. A nil Root imposes no confinement.
type Root struct {
	dir string
}

// NewRoot canonicalizes path (absolute form, symlinks resolved) and verifies
// it exists and is a directory.
func NewRoot(path string) (*Root, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving root %q: %w", path, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("root directory does not exist: %s", path)
		}
		return nil, fmt.Errorf("resolving root %q: %w", path, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("stat root %q: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", path)
	}
	return &Root{dir: canonical}, nil
}

// Dir returns the canonical root directory, or "" for a nil Root.
func (r *Root) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}
