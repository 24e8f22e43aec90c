package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/solatis/mcp-file-lens/sandbox"
)

// ListDirArgs defines the input parameters for the list_dir tool.
type ListDirArgs struct {
	Path      string `json:"path,omitempty" jsonschema:"Directory path to list, relative to the allowed root (default .)"`
	Recursive bool   `json:"recursive,omitempty" jsonschema:"If true, recursively list all files under the directory"`
}

// ListDirHandler holds the dependencies for the list_dir tool.
type ListDirHandler struct {
	FS     *sandbox.FS
	Logger *zap.Logger
}

// Handle processes a list_dir request.
func (h *ListDirHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ListDirArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	path := args.Path
	if path == "" {
		path = "."
	}

	if !h.FS.Exists(path) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: Path does not exist: %s", path)}},
			IsError: true,
		}, nil, nil
	}
	if !h.FS.IsDir(path) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: Path is not a directory: %s", path)}},
			IsError: true,
		}, nil, nil
	}

	var lines []string
	if args.Recursive {
		lines = h.listRecursive(path)
	} else {
		lines = h.listSimple(path)
	}

	if len(lines) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Directory %s is empty", path)}},
		}, nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("list_dir",
		zap.String("path", path),
		zap.Bool("recursive", args.Recursive),
		zap.Int("entries", len(lines)),
		zap.Duration("elapsed", elapsed),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: strings.Join(lines, "\n")}},
	}, nil, nil
}

// listSimple formats the immediate children of path, directories first
// marked by a trailing slash, files with a right-aligned size column.
func (h *ListDirHandler) listSimple(path string) []string {
	entries, err := h.FS.List(path)
	if err != nil {
		h.Logger.Debug("error listing directory", zap.String("path", path), zap.Error(err))
		return nil
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir {
			lines = append(lines, fmt.Sprintf("%10s %s/", "", entry.Rel))
		} else {
			lines = append(lines, fmt.Sprintf("%10d %s", entry.Size, entry.Rel))
		}
	}
	return lines
}

// listRecursive formats every file below path with its size and its path
// relative to the listed directory. Directories are not listed themselves.
func (h *ListDirHandler) listRecursive(path string) []string {
	entries, err := h.FS.Walk(path, "", sandbox.WalkOptions{})
	if err != nil {
		h.Logger.Debug("error walking directory", zap.String("path", path), zap.Error(err))
		return nil
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		lines = append(lines, fmt.Sprintf("%10d %s", entry.Size, entry.Rel))
	}
	return lines
}
