package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/solatis/mcp-file-lens/sandbox"
)

// defaultMaxFindResults caps find_files output when the caller sets no limit.
const defaultMaxFindResults = 50

// FindFilesArgs defines the input parameters for the find_files tool.
type FindFilesArgs struct {
	Path       string `json:"path,omitempty" jsonschema:"Directory to search under, relative to the allowed root (default .)"`
	Pattern    string `json:"pattern" jsonschema:"Glob pattern to match files (e.g. *.go or src/**/*.ts)"`
	NameOnly   bool   `json:"nameOnly,omitempty" jsonschema:"If true return only file paths without metadata"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// FindFilesHandler holds the dependencies for the find_files tool.
type FindFilesHandler struct {
	FS     *sandbox.FS
	Logger *zap.Logger
}

// Handle processes a find_files request.
func (h *FindFilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FindFilesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("find_files called with empty pattern")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: pattern parameter is required"}},
			IsError: true,
		}, nil, nil
	}

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

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxFindResults
	}

	entries, err := h.FS.Walk(path, args.Pattern, sandbox.WalkOptions{})
	if err != nil {
		h.Logger.Error("find_files failed", zap.String("pattern", args.Pattern), zap.Error(err))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Search error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	var files []sandbox.Entry
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		files = append(files, entry)
		if len(files) == maxResults {
			break
		}
	}

	elapsed := time.Since(start)
	h.Logger.Info("find_files",
		zap.String("pattern", args.Pattern),
		zap.Int("results", len(files)),
		zap.Duration("elapsed", elapsed),
	)

	output := formatFindResults(files, args.NameOnly)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}
