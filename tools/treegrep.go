package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/solatis/mcp-file-lens/sandbox"
)

// TreeGrepArgs defines the input parameters for the read_files_grep tool.
type TreeGrepArgs struct {
	Path         string `json:"path,omitempty" jsonschema:"Directory to search recursively, relative to the allowed root (default .)"`
	SearchString string `json:"search_string" jsonschema:"Text to find (case-sensitive)"`
	Before       int    `json:"before,omitempty" jsonschema:"Lines to include before each match, like grep -B"`
	After        int    `json:"after,omitempty" jsonschema:"Lines to include after each match, like grep -A"`
	Context      *int   `json:"context,omitempty" jsonschema:"Sets both before and after, like grep -C"`
	Lineno       *bool  `json:"lineno,omitempty" jsonschema:"Include line numbers (default true)"`
	Filename     *bool  `json:"filename,omitempty" jsonschema:"Prefix each line with the file path (default true)"`
}

// TreeGrepHandler holds the dependencies for the read_files_grep tool.
type TreeGrepHandler struct {
	FS     *sandbox.FS
	Logger *zap.Logger
}

// Handle processes a read_files_grep request.
func (h *TreeGrepHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TreeGrepArgs) (*mcp.CallToolResult, any, error) {
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
	filename := true
	if args.Filename != nil {
		filename = *args.Filename
	}

	// Candidate set: every searchable file under path, in stable order.
	// Binary and over-size files are excluded up front.
	var candidates []sandbox.Entry
	entries, err := h.FS.Walk(path, "", sandbox.WalkOptions{ContentOnly: true})
	if err != nil {
		h.Logger.Debug("error walking directory", zap.String("path", path), zap.Error(err))
	}
	for _, entry := range entries {
		if !entry.IsDir {
			candidates = append(candidates, entry)
		}
	}

	outputs := h.grepCandidates(candidates, args.SearchString, grepOptions{
		Before: before,
		After:  after,
		Lineno: lineno,
	}, filename)

	// Reassemble in candidate order with a separator between files.
	var allResults []string
	for _, lines := range outputs {
		if len(lines) == 0 {
			continue
		}
		allResults = append(allResults, lines...)
		if allResults[len(allResults)-1] != "--" {
			allResults = append(allResults, "--")
		}
	}
	if len(allResults) > 0 && allResults[len(allResults)-1] == "--" {
		allResults = allResults[:len(allResults)-1]
	}

	elapsed := time.Since(start)
	h.Logger.Info("read_files_grep",
		zap.String("path", path),
		zap.String("search", args.SearchString),
		zap.Int("files", len(candidates)),
		zap.Int("lines", len(allResults)),
		zap.Duration("elapsed", elapsed),
	)

	if len(allResults) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("No matches found for '%s' in %d files under %s", args.SearchString, len(candidates), path)}},
		}, nil, nil
	}

	matchedLines := 0
	for _, line := range allResults {
		if line != "--" {
			matchedLines++
		}
	}
	summary := fmt.Sprintf("Found matches in %d lines across %s\n--\n", matchedLines, path)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: summary + strings.Join(allResults, "\n")}},
	}, nil, nil
}

// grepCandidates searches every candidate file on a bounded worker pool and
// returns per-file output slices in candidate order. Unreadable files
// contribute nothing.
func (h *TreeGrepHandler) grepCandidates(candidates []sandbox.Entry, needle string, opts grepOptions, filename bool) [][]string {
	outputs := make([][]string, len(candidates))

	const workerCount = 8
	jobs := make(chan int, 100)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				entry := candidates[idx]
				text, err := h.FS.ReadText(entry.Path, "")
				if err != nil {
					h.Logger.Debug("skipped file", zap.String("path", entry.Rel), zap.Error(err))
					continue
				}
				fileOpts := opts
				if filename {
					fileOpts.Filename = h.FS.RelToRoot(entry.Path)
				}
				outputs[idx] = grepLines(splitLines(text), needle, fileOpts)
			}
		}()
	}

	for idx := range candidates {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return outputs
}
