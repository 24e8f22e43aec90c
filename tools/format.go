package tools

import (
	"fmt"
	"strings"

	"github.com/solatis/mcp-file-lens/content"
	"github.com/solatis/mcp-file-lens/sandbox"
)

// splitLines splits decoded text into lines the way line-oriented tools
// expect: \r\n and bare \r count as line breaks, and a terminating newline
// does not produce a trailing empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// formatFindResults formats file search results as human-readable text.
func formatFindResults(entries []sandbox.Entry, nameOnly bool) string {
	if len(entries) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(entries)))

	for _, entry := range entries {
		if nameOnly {
			builder.WriteString(entry.Rel)
			builder.WriteString("\n")
		} else {
			builder.WriteString(fmt.Sprintf("  %s  (%s, %s)\n",
				entry.Rel,
				content.DetectLanguage(entry.Rel),
				formatFileSize(entry.Size),
			))
		}
	}

	return builder.String()
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
