package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/solatis/mcp-file-lens/content"
	"github.com/solatis/mcp-file-lens/ignore"
)

// DefaultMaxFileSize caps text reads when no limit is configured.
const DefaultMaxFileSize = 10 * 1024 * 1024 // 10 MiB

// Entry describes one file or directory found by List or Walk.
type Entry struct {
	Path    string // canonical absolute path
	Rel     string // path relative to the queried directory, forward slashes
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// WalkOptions adjusts recursive listing behavior.
type WalkOptions struct {
	// ContentOnly excludes binary and over-size files, for callers that
	// will read what the walk returns.
	ContentOnly bool
}

// Options configures the facade.
type Options struct {
	MaxFileSize int64
}

// FS is the confined filesystem facade: every operation validates its path
// against the root and applies ignore filtering before touching the disk.
// It holds no mutable state, so one instance serves concurrent requests.
type FS struct {
	root        *Root
	ignores     *ignore.Matcher
	maxFileSize int64
	logger      *zap.Logger
}

// NewFS wires the facade from its confinement parts.
func NewFS(root *Root, ignores *ignore.Matcher, options Options, logger *zap.Logger) *FS {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxFileSize := options.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &FS{
		root:        root,
		ignores:     ignores,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// RootDir returns the canonical root directory.
func (f *FS) RootDir() string { return f.root.Dir() }

// RelToRoot rewrites a canonical absolute path relative to the root, with
// forward slashes. Paths that cannot be made relative come back unchanged.
func (f *FS) RelToRoot(canonicalPath string) string { return f.relFromRoot(canonicalPath) }

// CanonicalPath validates path and returns its canonical on-disk form.
func (f *FS) CanonicalPath(path string) (string, error) { return f.resolve(path) }

// MaxFileSize returns the configured text-read size cap.
func (f *FS) MaxFileSize() int64 { return f.maxFileSize }

// resolve validates path and returns its canonical on-disk form.
func (f *FS) resolve(path string) (string, error) {
	verdict := f.root.Validate(path)
	if !verdict.Allowed {
		f.logger.Debug("path refused", zap.String("path", path), zap.String("reason", verdict.Reason))
		return "", &DeniedError{Path: path, Reason: verdict.Reason}
	}
	canonical, err := filepath.EvalSymlinks(f.root.Resolve(path))
	if err != nil {
		return "", err
	}
	return canonical, nil
}

// relFromRoot rewrites a canonical path relative to the root with forward
// slashes, for ignore matching.
func (f *FS) relFromRoot(canonicalPath string) string {
	if f.root == nil {
		return canonicalPath
	}
	rel, err := filepath.Rel(f.root.Dir(), canonicalPath)
	if err != nil {
		return canonicalPath
	}
	return filepath.ToSlash(rel)
}

func (f *FS) isIgnored(canonicalPath string) bool {
	if f.root == nil || f.ignores == nil {
		return false
	}
	return f.ignores.ShouldIgnore(f.relFromRoot(canonicalPath))
}

// Exists reports whether path exists, is confined, and is not ignored.
// It never errors; any validation failure reads as false.
func (f *FS) Exists(path string) bool {
	canonical, err := f.resolve(path)
	if err != nil {
		return false
	}
	if _, err := os.Stat(canonical); err != nil {
		return false
	}
	return !f.isIgnored(canonical)
}

// IsFile reports whether path is a regular file, confined and not ignored.
func (f *FS) IsFile(path string) bool {
	canonical, err := f.resolve(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(canonical)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return !f.isIgnored(canonical)
}

// IsDir reports whether path is a directory, confined and not ignored.
func (f *FS) IsDir(path string) bool {
	canonical, err := f.resolve(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(canonical)
	if err != nil || !info.IsDir() {
		return false
	}
	return !f.isIgnored(canonical)
}

// Stat returns metadata for a confined path.
func (f *FS) Stat(path string) (os.FileInfo, error) {
	canonical, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Stat(canonical)
}

// List returns the immediate children of a confined directory, ignore-
// filtered and sorted by name. Unreadable children are skipped.
func (f *FS) List(path string) ([]Entry, error) {
	canonical, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(canonical)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		childPath := filepath.Join(canonical, de.Name())
		if f.isIgnored(childPath) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			f.logger.Debug("skipping unreadable entry", zap.String("path", childPath), zap.Error(err))
			continue
		}
		entries = append(entries, Entry{
			Path:    childPath,
			Rel:     de.Name(),
			IsDir:   de.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

// Walk returns every descendant of a confined directory whose path relative
// to it matches pattern (glob syntax, applied at any depth), ignore-filtered
// and sorted by relative path. The walk runs on parallel workers; unreadable
// sub-paths are logged and skipped rather than aborting the walk.
func (f *FS) Walk(path string, pattern string, options WalkOptions) ([]Entry, error) {
	canonical, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var mu sync.Mutex
	var entries []Entry

	conf := fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(&conf, canonical, func(walkPath string, d os.DirEntry, err error) error {
		if err != nil {
			f.logger.Debug("skipping unreadable path", zap.String("path", walkPath), zap.Error(err))
			return nil
		}
		if walkPath == canonical {
			return nil
		}
		rel, err := filepath.Rel(canonical, walkPath)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if f.isIgnored(walkPath) {
			return nil
		}
		matched, err := doublestar.Match("**/"+pattern, rel)
		if err != nil || !matched {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			f.logger.Debug("skipping unreadable entry", zap.String("path", walkPath), zap.Error(err))
			return nil
		}
		isDir := d.IsDir()
		if options.ContentOnly && !isDir {
			if info.Size() > f.maxFileSize {
				return nil
			}
			if content.SniffBinary(walkPath) {
				return nil
			}
		}

		mu.Lock()
		entries = append(entries, Entry{
			Path:    walkPath,
			Rel:     rel,
			IsDir:   isDir,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		mu.Unlock()
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	// Parallel walk order is nondeterministic; sort so repeated queries
	// over an unchanged tree give identical output.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Rel < entries[j].Rel })
	return entries, nil
}

// ReadText returns the decoded contents of a confined text file. Binary and
// over-size files are refused. Decoding tries the named encoding strictly,
// then falls back to replacement decoding before giving up.
func (f *FS) ReadText(path string, encoding string) (string, error) {
	canonical, err := f.resolve(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return "", err
	}
	if info.Size() > f.maxFileSize {
		return "", &UnreadableError{Path: path, Reason: fmt.Sprintf("file too large: %s (%d bytes, limit %d)", path, info.Size(), f.maxFileSize)}
	}

	if content.SniffBinary(canonical) {
		return "", &UnreadableError{Path: path, Reason: fmt.Sprintf("cannot read binary file: %s", path)}
	}

	data, err := os.ReadFile(canonical)
	if err != nil {
		return "", err
	}

	text, err := content.Decode(data, encoding, false)
	if err == nil {
		return text, nil
	}
	text, err = content.Decode(data, encoding, true)
	if err == nil {
		return text, nil
	}

	label := encoding
	if label == "" {
		label = content.DefaultEncoding
	}
	return "", &UnreadableError{Path: path, Reason: fmt.Sprintf("cannot decode file as %s: %s", label, path)}
}
