package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Verdict is the outcome of validating one path against the root.
type Verdict struct {
	Allowed bool
	Reason  string
}

// Resolve turns a request path into an absolute cleaned path. Relative paths
// are taken from the root, so "." always names the root itself.
func (r *Root) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if r == nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			return filepath.Clean(path)
		}
		return abs
	}
	return filepath.Join(r.dir, path)
}

// Validate decides whether path may be touched. The path is canonicalized
// (symlinks and dot segments resolved) and must land at the root or below
// it, compared component-wise. A path that does not exist yet is judged by
// its immediate parent directory instead. A nil Root allows everything.
func (r *Root) Validate(path string) Verdict {
	if r == nil {
		return Verdict{Allowed: true}
	}

	abs := r.Resolve(path)
	canonical, err := filepath.EvalSymlinks(abs)
	if err == nil {
		if hasPathPrefix(canonical, r.dir) {
			return Verdict{Allowed: true}
		}
		return Verdict{Reason: fmt.Sprintf("path %q is outside the allowed root", path)}
	}
	if !os.IsNotExist(err) {
		return Verdict{Reason: fmt.Sprintf("path validation failed: %v", err)}
	}

	// Nonexistent target: judge by its immediate parent.
	parent := filepath.Dir(abs)
	canonicalParent, err := filepath.EvalSymlinks(parent)
	if err != nil {
		return Verdict{Reason: fmt.Sprintf("parent directory does not exist: %s", parent)}
	}
	if hasPathPrefix(canonicalParent, r.dir) {
		return Verdict{Allowed: true}
	}
	return Verdict{Reason: fmt.Sprintf("path %q is outside the allowed root", path)}
}

// hasPathPrefix reports whether path equals prefix or sits below it,
// comparing whole components so "/a/allowed-evil" is never taken for a
// descendant of "/a/allowed".
func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
