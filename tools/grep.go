package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/solatis/mcp-file-lens/sandbox"
)

// grepOptions bundles the context-window and prefix switches shared by the
// single-file and tree search tools.
type grepOptions struct {
	Before   int
	After    int
	Lineno   bool
	Filename string // when non-empty, prefixes every output line
}

// grepLines returns grep-style output for every line containing needle, with
// the requested context window around each match. Overlapping windows merge;
// non-adjacent groups are separated by a bare "--" line. Returns nil when
// nothing matches.
func grepLines(lines []string, needle string, opts grepOptions) []string {
	var matchIndices []int
	for i, line := range lines {
		if strings.Contains(line, needle) {
			matchIndices = append(matchIndices, i)
		}
	}
	if len(matchIndices) == 0 {
		return nil
	}

	var result []string
	included := make(map[int]bool)
	maxIncluded := -1

	for _, matchIdx := range matchIndices {
		startIdx := matchIdx - opts.Before
		if startIdx < 0 {
			startIdx = 0
		}
		endIdx := matchIdx + opts.After + 1
		if endIdx > len(lines) {
			endIdx = len(lines)
		}

		if len(result) > 0 && maxIncluded >= 0 && startIdx > maxIncluded+1 {
			result = append(result, "--")
		}

		for idx := startIdx; idx < endIdx; idx++ {
			if included[idx] {
				continue
			}
			var prefixParts []string
			if opts.Filename != "" {
				prefixParts = append(prefixParts, opts.Filename)
			}
			if opts.Lineno {
				prefixParts = append(prefixParts, strconv.Itoa(idx+1))
			}
			line := lines[idx]
			if len(prefixParts) > 0 {
				line = strings.Join(prefixParts, ":") + ":" + line
			}
			result = append(result, line)
			included[idx] = true
			if idx > maxIncluded {
				maxIncluded = idx
			}
		}
	}
	return result
}

// GrepFileArgs defines the input parameters for the read_file_grep tool.
type GrepFileArgs struct {
	Path         string `json:"path" jsonschema:"File to search within"`
	SearchString string `json:"search_string" jsonschema:"Text to find (case-sensitive)"`
	Before       int    `json:"before,omitempty" jsonschema:"Lines to include before each match, like grep -B"`
	After        int    `json:"after,omitempty" jsonschema:"Lines to include after each match, like grep -A"`
	Context      *int   `json:"context,omitempty" jsonschema:"Sets both before and after, like grep -C"`
	Lineno       *bool  `json:"lineno,omitempty" jsonschema:"Include line numbers (default true)"`
	Encoding     string `json:"encoding,omitempty" jsonschema:"Text encoding (default utf-8; pass auto to detect)"`
}

// GrepFileHandler holds the dependencies for the read_file_grep tool.
type GrepFileHandler struct {
	FS     *sandbox.FS
	Logger *zap.Logger
}

// Handle processes a read_file_grep request.
func (h *GrepFileHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args GrepFileArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Path == "" {
		h.Logger.Warn("read_file_grep called with empty path")
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
	if args.SearchString == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: Search string cannot be empty"}},
			IsError: true,
		}, nil, nil
	}

	before, after := args.Before, args.After
	if args.Context != nil {
		before, after = *args.Context, *args.Context
	}
	lineno := true
	if args.Lineno != nil {
		lineno = *args.Lineno
	}

	// An unreadable file yields no matches rather than an error, the same
	// answer a binary file gives grep.
	var result []string
	text, err := h.FS.ReadText(args.Path, args.Encoding)
	if err != nil {
		h.Logger.Debug("error reading file", zap.String("path", args.Path), zap.Error(err))
	} else {
		result = grepLines(splitLines(text), args.SearchString, grepOptions{
			Before: before,
			After:  after,
			Lineno: lineno,
		})
	}

	elapsed := time.Since(start)
	h.Logger.Info("read_file_grep",
		zap.String("path", args.Path),
		zap.String("search", args.SearchString),
		zap.Int("lines", len(result)),
		zap.Duration("elapsed", elapsed),
	)

	if len(result) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("No matches found for '%s' in %s", args.SearchString, args.Path)}},
		}, nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: strings.Join(result, "\n")}},
	}, nil, nil
}
