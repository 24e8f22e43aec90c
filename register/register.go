package register

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

type serverEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Run executes the register subcommand. serverName is the MCP server name
// (e.g. "file-lens"); args is everything after "register".
//
// Project scope confines the server to the project directory: unless the
// forwarded args already carry a -root flag, one is appended pointing at
// the registered directory.
func Run(serverName string, args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("missing scope")
	}

	scope := args[0]
	if scope != "project" && scope != "user" {
		printUsage()
		return fmt.Errorf("unknown scope %q (must be \"project\" or \"user\")", scope)
	}

	directory, serverArgs := splitArgs(scope, args[1:])

	binaryPath, err := detectBinaryPath()
	if err != nil {
		return fmt.Errorf("detecting binary path: %w", err)
	}

	configPath, err := resolveConfigPath(scope, directory)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	if scope == "project" && !hasRootArg(serverArgs) {
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		serverArgs = append(serverArgs, "-root", absDir)
	}

	entry := buildEntry(binaryPath, serverArgs)

	if err := writeConfig(configPath, serverName, entry); err != nil {
		return err
	}

	fmt.Printf("Registered %q in %s\n", serverName, configPath)
	return nil
}

func printUsage() {
	binaryName := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s register project [directory]   # → <directory>/.mcp.json, confined to <directory>\n", binaryName)
	fmt.Fprintf(os.Stderr, "  %s register user                  # → ~/.claude.json (pass -root or set FILELENS_ROOT)\n", binaryName)
	fmt.Fprintf(os.Stderr, "  %s register project . -- -debug   # forward args to server\n", binaryName)
	fmt.Fprintf(os.Stderr, "  %s register user -- -root /srv/p  # forward args to server\n", binaryName)
}

// DeriveServerName extracts a server name from a binary path by stripping
// the .exe suffix and mcp- / -mcp affixes.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	name = strings.TrimPrefix(name, "mcp-")
	return name
}

// splitArgs separates the optional project directory from args forwarded to
// the server after a "--" separator.
func splitArgs(scope string, args []string) (directory string, serverArgs []string) {
	directory = "."
	for i, arg := range args {
		if arg == "--" {
			return directory, args[i+1:]
		}
		if scope == "project" && i == 0 {
			directory = arg
		}
	}
	return directory, nil
}

// hasRootArg reports whether forwarded args already set the allowed root.
func hasRootArg(args []string) bool {
	for _, arg := range args {
		if arg == "-root" || arg == "--root" ||
			strings.HasPrefix(arg, "-root=") || strings.HasPrefix(arg, "--root=") {
			return true
		}
	}
	return false
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(scope string, directory string) (string, error) {
	if scope == "project" {
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	}
	// user scope
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude.json"), nil
}

func buildEntry(binaryPath string, serverArgs []string) serverEntry {
	if runtime.GOOS == "windows" {
		args := []string{"/C", binaryPath}
		args = append(args, serverArgs...)
		return serverEntry{
			Command: "cmd",
			Args:    args,
		}
	}
	return serverEntry{
		Command: binaryPath,
		Args:    serverArgs,
	}
}

// writeConfig merges the server entry into the config file, preserving any
// other registered servers. The write is atomic: temp file then rename.
func writeConfig(configPath string, serverName string, entry serverEntry) error {
	config := map[string]interface{}{
		"mcpServers": map[string]interface{}{},
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	}

	servers, ok := config["mcpServers"]
	if !ok {
		servers = map[string]interface{}{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]interface{})
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	configDir := filepath.Dir(configPath)
	tmpFile, err := os.CreateTemp(configDir, ".file-lens-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", configDir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(output); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, configPath, err)
	}

	return nil
}
