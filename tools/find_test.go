package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func newTestFindFilesHandler(t *testing.T, files map[string]string, gitignore string) *FindFilesHandler {
	t.Helper()
	return &FindFilesHandler{
		FS:     newLensFS(t, files, gitignore),
		Logger: zap.NewNop(),
	}
}

func Test_FindFilesHandler_EmptyPattern(t *testing.T) {
	h := newTestFindFilesHandler(t, nil, "")

	result, _, err := h.Handle(context.Background(), nil, FindFilesArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty pattern")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "pattern parameter is required") {
		t.Errorf("expected error message about empty pattern, got: %s", text)
	}
}

func Test_FindFilesHandler_MatchesAtAnyDepth(t *testing.T) {
	h := newTestFindFilesHandler(t, map[string]string{
		"main.go":        "package main",
		"sub/util.go":    "package sub",
		"sub/notes.txt":  "text",
		"deep/a/b/c.go":  "package c",
		"deep/a/READtoo": "x",
	}, "")

	result, _, err := h.Handle(context.Background(), nil, FindFilesArgs{Pattern: "*.go", NameOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", result.Content[0].(*mcp.TextContent).Text)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.HasPrefix(text, "Found 3 files:") {
		t.Errorf("unexpected header: %s", text)
	}
	for _, want := range []string{"main.go", "sub/util.go", "deep/a/b/c.go"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %s in results, got: %s", want, text)
		}
	}
	if strings.Contains(text, "notes.txt") {
		t.Errorf("expected only .go files, got: %s", text)
	}
}

func Test_FindFilesHandler_MetadataListing(t *testing.T) {
	h := newTestFindFilesHandler(t, map[string]string{
		"main.go": "package main\n",
	}, "")

	result, _, err := h.Handle(context.Background(), nil, FindFilesArgs{Pattern: "*.go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "main.go") || !strings.Contains(text, "Go") || !strings.Contains(text, "13 B") {
		t.Errorf("expected metadata listing, got: %s", text)
	}
}

func Test_FindFilesHandler_NoMatches(t *testing.T) {
	h := newTestFindFilesHandler(t, map[string]string{"readme.md": "x"}, "")

	result, _, err := h.Handle(context.Background(), nil, FindFilesArgs{Pattern: "*.rs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected plain result for no matches")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if text != "No files matched." {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_FindFilesHandler_MaxResultsCap(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		files[name+".go"] = "x"
	}
	h := newTestFindFilesHandler(t, files, "")

	result, _, err := h.Handle(context.Background(), nil, FindFilesArgs{Pattern: "*.go", MaxResults: 2, NameOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.HasPrefix(text, "Found 2 files:") {
		t.Errorf("expected capped results, got: %s", text)
	}
}

func Test_FindFilesHandler_InvalidPattern(t *testing.T) {
	h := newTestFindFilesHandler(t, nil, "")

	result, _, err := h.Handle(context.Background(), nil, FindFilesArgs{Pattern: "[unclosed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for invalid pattern")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Search error:") {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_FindFilesHandler_IgnoredFilesExcluded(t *testing.T) {
	h := newTestFindFilesHandler(t, map[string]string{
		"keep.log":      "k",
		"logs/skip.log": "s",
	}, "logs/\n")

	result, _, err := h.Handle(context.Background(), nil, FindFilesArgs{Pattern: "*.log", NameOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if strings.Contains(text, "skip.log") {
		t.Errorf("expected ignored file excluded, got: %s", text)
	}
	if !strings.Contains(text, "keep.log") {
		t.Errorf("expected kept file present, got: %s", text)
	}
}
