package tools

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func newTestReadRangeHandler(t *testing.T, files map[string]string) *ReadRangeHandler {
	t.Helper()
	return &ReadRangeHandler{
		FS:     newLensFS(t, files, ""),
		Logger: zap.NewNop(),
	}
}

func tenLines() string {
	var builder strings.Builder
	for i := 1; i <= 10; i++ {
		builder.WriteString(fmt.Sprintf("Line %d\n", i))
	}
	return builder.String()
}

func Test_ReadRangeHandler_InclusiveSlice(t *testing.T) {
	h := newTestReadRangeHandler(t, map[string]string{"file.txt": tenLines()})

	result, _, err := h.Handle(context.Background(), nil, ReadRangeArgs{
		Path:      "file.txt",
		StartLine: 3,
		EndLine:   7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", result.Content[0].(*mcp.TextContent).Text)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	want := "3:Line 3\n4:Line 4\n5:Line 5\n6:Line 6\n7:Line 7"
	if text != want {
		t.Errorf("output = %q, want %q", text, want)
	}
}

func Test_ReadRangeHandler_StartBelowOne(t *testing.T) {
	h := newTestReadRangeHandler(t, map[string]string{"file.txt": tenLines()})

	result, _, err := h.Handle(context.Background(), nil, ReadRangeArgs{
		Path:      "file.txt",
		StartLine: 0,
		EndLine:   5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for start line 0")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if text != "Error: Start line must be >= 1, got 0" {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_ReadRangeHandler_EndBeforeStart(t *testing.T) {
	h := newTestReadRangeHandler(t, map[string]string{"file.txt": tenLines()})

	result, _, err := h.Handle(context.Background(), nil, ReadRangeArgs{
		Path:      "file.txt",
		StartLine: 5,
		EndLine:   3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for inverted range")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if text != "Error: End line must be >= start line, got range (5, 3)" {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_ReadRangeHandler_EndClampedToFileLength(t *testing.T) {
	h := newTestReadRangeHandler(t, map[string]string{"file.txt": "one\ntwo\nthree\n"})

	result, _, err := h.Handle(context.Background(), nil, ReadRangeArgs{
		Path:      "file.txt",
		StartLine: 2,
		EndLine:   99,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	want := "2:two\n3:three"
	if text != want {
		t.Errorf("output = %q, want %q", text, want)
	}
}

func Test_ReadRangeHandler_StartBeyondFileLength(t *testing.T) {
	h := newTestReadRangeHandler(t, map[string]string{"file.txt": "one\ntwo\n"})

	result, _, err := h.Handle(context.Background(), nil, ReadRangeArgs{
		Path:      "file.txt",
		StartLine: 10,
		EndLine:   20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected plain result for out-of-range slice")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if text != "No lines found in specified ranges for file.txt" {
		t.Errorf("unexpected message: %s", text)
	}
}

func Test_ReadRangeHandler_NoLineNumbers(t *testing.T) {
	h := newTestReadRangeHandler(t, map[string]string{"file.txt": tenLines()})

	result, _, err := h.Handle(context.Background(), nil, ReadRangeArgs{
		Path:      "file.txt",
		StartLine: 1,
		EndLine:   2,
		Lineno:    boolPtr(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if text != "Line 1\nLine 2" {
		t.Errorf("output = %q, want %q", text, "Line 1\nLine 2")
	}
}

func Test_ReadRangeHandler_NamedEncoding(t *testing.T) {
	h := newTestReadRangeHandler(t, map[string]string{
		"latin.txt": "caf\xe9\nth\xe9\n",
	})

	result, _, err := h.Handle(context.Background(), nil, ReadRangeArgs{
		Path:      "latin.txt",
		StartLine: 2,
		EndLine:   2,
		Encoding:  "iso-8859-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", result.Content[0].(*mcp.TextContent).Text)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if text != "2:thé" {
		t.Errorf("output = %q, want %q", text, "2:thé")
	}
}

func Test_ReadRangeHandler_FileNotFound(t *testing.T) {
	h := newTestReadRangeHandler(t, nil)

	result, _, err := h.Handle(context.Background(), nil, ReadRangeArgs{
		Path:      "missing.txt",
		StartLine: 1,
		EndLine:   5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for missing file")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if text != "Error: File does not exist: missing.txt" {
		t.Errorf("unexpected message: %s", text)
	}
}
