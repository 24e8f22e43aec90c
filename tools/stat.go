package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/solatis/mcp-file-lens/content"
	"github.com/solatis/mcp-file-lens/sandbox"
)

// StatPathArgs defines the input parameters for the stat_path tool.
type StatPathArgs struct {
	Path string `json:"path" jsonschema:"File or directory path to inspect"`
}

// StatPathHandler holds the dependencies for the stat_path tool.
type StatPathHandler struct {
	FS     *sandbox.FS
	Logger *zap.Logger
}

// Handle processes a stat_path request.
func (h *StatPathHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatPathArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Path == "" {
		h.Logger.Warn("stat_path called with empty path")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: path parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	info, err := h.FS.Stat(args.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: Path does not exist: %s", args.Path)}},
				IsError: true,
			}, nil, nil
		}
		h.Logger.Debug("error inspecting path", zap.String("path", args.Path), zap.Error(err))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Path: %s\n", args.Path))
	if info.IsDir() {
		builder.WriteString("Type: directory\n")
	} else {
		builder.WriteString("Type: file\n")
		builder.WriteString(fmt.Sprintf("Size: %s (%d bytes)\n", formatFileSize(info.Size()), info.Size()))
	}
	builder.WriteString(fmt.Sprintf("Modified: %s\n", info.ModTime().UTC().Format(time.RFC3339)))

	if !info.IsDir() {
		h.describeContent(&builder, args.Path)
	}

	elapsed := time.Since(start)
	h.Logger.Info("stat_path", zap.String("path", args.Path), zap.Duration("elapsed", elapsed))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}

// describeContent appends language, media type and encoding lines for a
// regular file. Detection failures just leave the line out.
func (h *StatPathHandler) describeContent(builder *strings.Builder, path string) {
	canonical, err := h.FS.CanonicalPath(path)
	if err != nil {
		return
	}

	builder.WriteString(fmt.Sprintf("Language: %s\n", content.DetectLanguage(canonical)))

	if mime, err := mimetype.DetectFile(canonical); err == nil {
		builder.WriteString(fmt.Sprintf("MIME type: %s\n", mime.String()))
	}

	file, err := os.Open(canonical)
	if err != nil {
		return
	}
	defer file.Close()
	sample := make([]byte, 1024)
	n, err := io.ReadFull(file, sample)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return
	}
	sample = sample[:n]

	if content.IsBinary(sample) {
		builder.WriteString("Content: binary\n")
	} else {
		builder.WriteString(fmt.Sprintf("Encoding: %s\n", content.DetectCharset(sample)))
	}
}
