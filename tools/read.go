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

// ReadFileArgs defines the input parameters for the read_file tool.
type ReadFileArgs struct {
	Path     string `json:"path" jsonschema:"File path to read completely"`
	Lineno   *bool  `json:"lineno,omitempty" jsonschema:"Include line numbers like cat -n format (default true)"`
	Encoding string `json:"encoding,omitempty" jsonschema:"Text encoding (default utf-8; pass auto to detect)"`
}

// ReadFileHandler holds the dependencies for the read_file tool.
type ReadFileHandler struct {
	FS     *sandbox.FS
	Logger *zap.Logger
}

// Handle processes a read_file request.
func (h *ReadFileHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadFileArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Path == "" {
		h.Logger.Warn("read_file called with empty path")
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

	text, err := h.FS.ReadText(args.Path, args.Encoding)
	if err != nil {
		h.Logger.Debug("error reading file", zap.String("path", args.Path), zap.Error(err))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("read_file", zap.String("path", args.Path), zap.Duration("elapsed", elapsed))

	lineno := true
	if args.Lineno != nil {
		lineno = *args.Lineno
	}
	if !lineno {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}

	lines := splitLines(text)
	formatted := make([]string, 0, len(lines))
	for i, line := range lines {
		formatted = append(formatted, fmt.Sprintf("%6d\t%s", i+1, line))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: strings.Join(formatted, "\n")}},
	}, nil, nil
}
