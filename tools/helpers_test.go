package tools

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/solatis/mcp-file-lens/ignore"
	"github.com/solatis/mcp-file-lens/sandbox"
)

// newLensFS builds a confined filesystem facade over a fresh temp tree.
// Relative file names map to contents; a non-empty gitignore is written
// before the ignore rules load.
func newLensFS(t *testing.T, files map[string]string, gitignore string) *sandbox.FS {
	t.Helper()
	tmpDir := t.TempDir()
	for name, body := range files {
		fullPath := filepath.Join(tmpDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(fullPath, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if gitignore != "" {
		if err := os.WriteFile(filepath.Join(tmpDir, ignore.GitignoreName), []byte(gitignore), 0644); err != nil {
			t.Fatalf("write gitignore: %v", err)
		}
	}

	root, err := sandbox.NewRoot(tmpDir)
	if err != nil {
		t.Fatalf("failed to create root: %v", err)
	}
	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root.Dir(), Enabled: true})
	return sandbox.NewFS(root, matcher, sandbox.Options{}, zap.NewNop())
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }
