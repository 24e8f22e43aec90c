package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func newTestTreeGrepHandler(t *testing.T, files map[string]string, gitignore string) *TreeGrepHandler {
	t.Helper()
	return &TreeGrepHandler{
		FS:     newLensFS(t, files, gitignore),
		Logger: zap.NewNop(),
	}
}

func Test_TreeGrepHandler_NonexistentPath(t *testing.T) {
	h := newTestTreeGrepHandler(t, nil, "")

	result, _, err := h.Handle(context.Background(), nil, TreeGrepArgs{Path: "missing", SearchString: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for missing path")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if text != "Error: Path does not exist: missing" {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_TreeGrepHandler_EmptySearchString(t *testing.T) {
	h := newTestTreeGrepHandler(t, map[string]string{"file.txt": "x"}, "")

	result, _, err := h.Handle(context.Background(), nil, TreeGrepArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty search string")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if text != "Error: Search string cannot be empty" {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_TreeGrepHandler_MatchesAcrossFiles(t *testing.T) {
	h := newTestTreeGrepHandler(t, map[string]string{
		"a.txt":     "has match\nplain",
		"c.txt":     "nothing here",
		"sub/b.txt": "also match",
	}, "")

	result, _, err := h.Handle(context.Background(), nil, TreeGrepArgs{SearchString: "match"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", result.Content[0].(*mcp.TextContent).Text)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	want := "Found matches in 2 lines across .\n--\na.txt:1:has match\n--\nsub/b.txt:1:also match"
	if text != want {
		t.Errorf("output = %q, want %q", text, want)
	}
}

func Test_TreeGrepHandler_NoMatchesReportsCandidateCount(t *testing.T) {
	h := newTestTreeGrepHandler(t, map[string]string{
		"x.txt":    "nothing",
		"y.txt":    "nothing either",
		"blob.dat": "match\x00\x01",
	}, "")

	result, _, err := h.Handle(context.Background(), nil, TreeGrepArgs{SearchString: "zzz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected plain result for no matches")
	}

	// The binary file never becomes a search candidate.
	text := result.Content[0].(*mcp.TextContent).Text
	if text != "No matches found for 'zzz' in 2 files under ." {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_TreeGrepHandler_IgnoredFilesNotSearched(t *testing.T) {
	h := newTestTreeGrepHandler(t, map[string]string{
		"keep.txt":  "found match",
		"trace.log": "hidden match",
	}, "*.log\n")

	result, _, err := h.Handle(context.Background(), nil, TreeGrepArgs{SearchString: "match"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if strings.Contains(text, "trace.log") {
		t.Errorf("expected ignored file to be skipped, got: %s", text)
	}
	if !strings.Contains(text, "keep.txt:1:found match") {
		t.Errorf("expected match in kept file, got: %s", text)
	}
}

func Test_TreeGrepHandler_WithoutFilenamePrefix(t *testing.T) {
	h := newTestTreeGrepHandler(t, map[string]string{
		"a.txt": "one match",
	}, "")

	result, _, err := h.Handle(context.Background(), nil, TreeGrepArgs{
		SearchString: "match",
		Filename:     boolPtr(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	want := "Found matches in 1 lines across .\n--\n1:one match"
	if text != want {
		t.Errorf("output = %q, want %q", text, want)
	}
}

func Test_TreeGrepHandler_ContextLinesCounted(t *testing.T) {
	h := newTestTreeGrepHandler(t, map[string]string{
		"a.txt": "before\nthe match\nafter",
	}, "")

	result, _, err := h.Handle(context.Background(), nil, TreeGrepArgs{
		SearchString: "match",
		Context:      intPtr(1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Context lines count toward the summary total.
	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.HasPrefix(text, "Found matches in 3 lines across .") {
		t.Errorf("unexpected summary: %s", text)
	}
}

func Test_TreeGrepHandler_SubdirectoryScope(t *testing.T) {
	h := newTestTreeGrepHandler(t, map[string]string{
		"top.txt":   "outer match",
		"sub/b.txt": "inner match",
	}, "")

	result, _, err := h.Handle(context.Background(), nil, TreeGrepArgs{Path: "sub", SearchString: "match"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if strings.Contains(text, "top.txt") {
		t.Errorf("expected search confined to sub, got: %s", text)
	}
	// File prefixes stay relative to the allowed root.
	if !strings.Contains(text, "sub/b.txt:1:inner match") {
		t.Errorf("expected root-relative prefix, got: %s", text)
	}
}
