package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/solatis/mcp-file-lens/tools"
)

// Handlers bundles every tool handler the server exposes.
type Handlers struct {
	ListDir   *tools.ListDirHandler
	ReadFile  *tools.ReadFileHandler
	GrepFile  *tools.GrepFileHandler
	TreeGrep  *tools.TreeGrepHandler
	ReadRange *tools.ReadRangeHandler
	FindFiles *tools.FindFilesHandler
	StatPath  *tools.StatPathHandler
	Status    *tools.StatusHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mcp-file-lens",
			Version: "0.3.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server gives read-only access to one project directory. Every path
is confined to that directory; ignore rules from .gitignore and .lensignore
hide build output and other noise, and binary files are never returned.

Pick the narrowest tool for the job to keep responses small:
- Use list_dir to explore structure before reading anything
- Use read_file_grep or read_files_grep to find patterns instead of reading whole files
- Use read_file_range when you already know the line numbers (e.g. from a stack trace)
- Use read_file only for small files where full context matters
- Use find_files to locate files by name pattern
- Use stat_path to inspect a file's size, language, and encoding without reading it`,
		},
	)

	// Register list_dir tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "list_dir",
		Description: `List directory contents in ls -la format. Directories are marked with a
trailing slash; file entries show a right-aligned size. With recursive=true,
lists every file under the directory with paths relative to it.`,
	}, handlers.ListDir.Handle)

	// Register read_file tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "read_file",
		Description: `Read an entire file. Returns numbered lines in cat -n format (disable
with lineno=false). Prefer read_file_range or read_file_grep for large files.`,
	}, handlers.ReadFile.Handle)

	// Register read_file_grep tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "read_file_grep",
		Description: `Search one file for a string and return matching lines with optional
context, like grep -n. Use before/after (like -B/-A) or context (like -C);
non-adjacent groups are separated by a -- line.`,
	}, handlers.GrepFile.Handle)

	// Register read_files_grep tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "read_files_grep",
		Description: `Search every text file under a directory for a string, like grep -rn.
Matching lines are prefixed with the file path; a summary header reports the
total matched lines.`,
	}, handlers.TreeGrep.Handle)

	// Register read_file_range tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "read_file_range",
		Description: `Read a 1-indexed inclusive line range from a file, ideal for examining
an error location or a single function without the rest of the file.`,
	}, handlers.ReadRange.Handle)

	// Register find_files tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "find_files",
		Description: `Find files by glob pattern at any depth under a directory.

Pattern examples:
  - "*.go" - Go files at any depth
  - "src/**/*.ts" - TypeScript files under src/
  - "test_*.py" - Python test files`,
	}, handlers.FindFiles.Handle)

	// Register stat_path tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "stat_path",
		Description: "Show metadata for a path: type, size, modification time, language, MIME type, and text encoding.",
	}, handlers.StatPath.Handle)

	// Register lens_status tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "lens_status",
		Description: "Show server status: root directory, visible file counts, languages, ignore configuration, memory usage, and uptime.",
	}, handlers.Status.Handle)

	return mcpServer
}
