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

// ReadRangeArgs defines the input parameters for the read_file_range tool.
type ReadRangeArgs struct {
	Path      string `json:"path" jsonschema:"File to read from"`
	StartLine int    `json:"start_line" jsonschema:"Start line number (1-indexed, inclusive)"`
	EndLine   int    `json:"end_line" jsonschema:"End line number (1-indexed, inclusive)"`
	Lineno    *bool  `json:"lineno,omitempty" jsonschema:"Include line numbers (default true)"`
	Encoding  string `json:"encoding,omitempty" jsonschema:"Text encoding (default utf-8; pass auto to detect)"`
}

// ReadRangeHandler holds the dependencies for the read_file_range tool.
type ReadRangeHandler struct {
	FS     *sandbox.FS
	Logger *zap.Logger
}

// Handle processes a read_file_range request.
func (h *ReadRangeHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadRangeArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Path == "" {
		h.Logger.Warn("read_file_range called with empty path")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: path parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	if !h.FS.Exists(args.Path) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: File does not exist: %s", args.Path)}},
			IsError: true,
		}, nil, nil
	}
	if !h.FS.IsFile(args.Path) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: Path is not a file: %s", args.Path)}},
			IsError: true,
		}, nil, nil
	}

	if args.StartLine < 1 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: Start line must be >= 1, got %d", args.StartLine)}},
			IsError: true,
		}, nil, nil
	}
	if args.EndLine < args.StartLine {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: End line must be >= start line, got range (%d, %d)", args.StartLine, args.EndLine)}},
			IsError: true,
		}, nil, nil
	}

	text, err := h.FS.ReadText(args.Path, args.Encoding)
	if err != nil {
		h.Logger.Debug("error reading file", zap.String("path", args.Path), zap.Error(err))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	lineno := true
	if args.Lineno != nil {
		lineno = *args.Lineno
	}

	lines := splitLines(text)
	startIdx := args.StartLine - 1
	endIdx := args.EndLine
	if endIdx > len(lines) {
		endIdx = len(lines)
	}

	var selected []string
	for i := startIdx; i < endIdx; i++ {
		line := lines[i]
		if lineno {
			line = fmt.Sprintf("%d:%s", i+1, line)
		}
		selected = append(selected, line)
	}

	elapsed := time.Since(start)
	h.Logger.Info("read_file_range",
		zap.String("path", args.Path),
		zap.Int("startLine", args.StartLine),
		zap.Int("endLine", args.EndLine),
		zap.Int("lines", len(selected)),
		zap.Duration("elapsed", elapsed),
	)

	if len(selected) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("No lines found in specified ranges for %s", args.Path)}},
		}, nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: strings.Join(selected, "\n")}},
	}, nil, nil
}
