package tools

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/solatis/mcp-file-lens/content"
	"github.com/solatis/mcp-file-lens/ignore"
	"github.com/solatis/mcp-file-lens/sandbox"
)

// StatusArgs defines the input parameters for the lens_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	FS        *sandbox.FS
	Ignores   *ignore.Matcher
	StartTime time.Time
	Logger    *zap.Logger
}

// Handle processes a lens_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	uptime := time.Since(h.StartTime)

	// The counts are computed live; nothing is cached between requests.
	var fileCount, dirCount int
	var totalSize int64
	langCounts := make(map[string]int)

	entries, err := h.FS.Walk(".", "", sandbox.WalkOptions{})
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		}, nil, nil
	}
	for _, entry := range entries {
		if entry.IsDir {
			dirCount++
			continue
		}
		fileCount++
		totalSize += entry.Size
		langCounts[content.DetectLanguage(entry.Rel)]++
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("lens_status",
		zap.Int("files", fileCount),
		zap.Int64("totalSize", totalSize),
		zap.Uint64("memory", memStats.Alloc),
		zap.Duration("uptime", uptime),
	)

	filtering := "disabled"
	if h.Ignores != nil && h.Ignores.Enabled() {
		filtering = fmt.Sprintf("enabled (%d rules)", h.Ignores.RuleCount())
	}

	builder.WriteString("=== mcp-file-lens Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", h.FS.RootDir()))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Ignore filtering: %s\n", filtering))
	builder.WriteString(fmt.Sprintf("Max file size: %s\n", formatFileSize(h.FS.MaxFileSize())))
	builder.WriteString(fmt.Sprintf("Visible files: %d\n", fileCount))
	builder.WriteString(fmt.Sprintf("Visible directories: %d\n", dirCount))
	builder.WriteString(fmt.Sprintf("Total visible size: %s\n", formatFileSize(totalSize)))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	// Language breakdown
	if len(langCounts) > 0 {
		builder.WriteString("\nLanguages:\n")

		// Sort by count descending, then by name for a stable listing
		type langEntry struct {
			lang  string
			count int
		}
		langEntries := make([]langEntry, 0, len(langCounts))
		for lang, count := range langCounts {
			langEntries = append(langEntries, langEntry{lang, count})
		}
		sort.Slice(langEntries, func(i, j int) bool {
			if langEntries[i].count != langEntries[j].count {
				return langEntries[i].count > langEntries[j].count
			}
			return langEntries[i].lang < langEntries[j].lang
		})

		for _, entry := range langEntries {
			builder.WriteString(fmt.Sprintf("  %-20s %d files\n", entry.lang, entry.count))
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
