package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/solatis/mcp-file-lens/config"
	"github.com/solatis/mcp-file-lens/ignore"
	"github.com/solatis/mcp-file-lens/register"
	"github.com/solatis/mcp-file-lens/sandbox"
	"github.com/solatis/mcp-file-lens/server"
	"github.com/solatis/mcp-file-lens/tools"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// excludePatterns is a repeatable CLI flag for custom ignore patterns.
type excludePatterns []string

func (e *excludePatterns) String() string { return strings.Join(*e, ", ") }
func (e *excludePatterns) Set(value string) error {
	*e = append(*e, value)
	return nil
}

func main() {
	// The register subcommand edits client config files and never starts
	// the server.
	if len(os.Args) > 1 && os.Args[1] == "register" {
		if err := register.Run(register.DeriveServerName(os.Args[0]), os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Environment variables (FILELENS_*) provide defaults, CLI flags override
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	excludes := excludePatterns(cfg.Exclude)
	flag.StringVar(&cfg.Root, "root", cfg.Root, "Allowed root directory (required)")
	flag.BoolVar(&cfg.Gitignore, "gitignore", cfg.Gitignore, "Respect .gitignore and .lensignore files")
	flag.Var(&excludes, "exclude", "Extra ignore pattern (repeatable)")
	flag.Int64Var(&cfg.MaxFileSize, "max-file-size", cfg.MaxFileSize, "Maximum readable file size in bytes (default: 10MB)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path (default: stderr)")
	flag.Parse()
	cfg.Exclude = excludes

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Setup logger (always to file or stderr, never to stdout - stdout is for MCP stdio)
	logger := setupLogger(cfg.LogLevel, cfg.Debug, cfg.LogFile)
	defer logger.Sync()

	startTime := time.Now()

	// Canonicalize the root so symlink checks compare against a stable path
	root, err := sandbox.NewRoot(cfg.Root)
	if err != nil {
		logger.Error("invalid root directory", zap.Error(err))
		os.Exit(1)
	}

	ignoreMatcher := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:        root.Dir(),
		Enabled:        cfg.Gitignore,
		CustomPatterns: cfg.Exclude,
	})

	lensFS := sandbox.NewFS(root, ignoreMatcher, sandbox.Options{MaxFileSize: cfg.MaxFileSize}, logger)

	logger.Info("starting mcp-file-lens",
		zap.String("root", root.Dir()),
		zap.Int64("maxFileSize", cfg.MaxFileSize),
		zap.Bool("ignoreFiltering", ignoreMatcher.Enabled()),
		zap.Int("ignoreRules", ignoreMatcher.RuleCount()),
	)

	// Create tool handlers
	listHandler := &tools.ListDirHandler{FS: lensFS, Logger: logger}
	readHandler := &tools.ReadFileHandler{FS: lensFS, Logger: logger}
	grepHandler := &tools.GrepFileHandler{FS: lensFS, Logger: logger}
	treeGrepHandler := &tools.TreeGrepHandler{FS: lensFS, Logger: logger}
	rangeHandler := &tools.ReadRangeHandler{FS: lensFS, Logger: logger}
	findHandler := &tools.FindFilesHandler{FS: lensFS, Logger: logger}
	statHandler := &tools.StatPathHandler{FS: lensFS, Logger: logger}
	statusHandler := &tools.StatusHandler{
		FS:        lensFS,
		Ignores:   ignoreMatcher,
		StartTime: startTime,
		Logger:    logger,
	}

	// Setup and run MCP server on stdio
	mcpServer := server.Setup(server.Handlers{
		ListDir:   listHandler,
		ReadFile:  readHandler,
		GrepFile:  grepHandler,
		TreeGrep:  treeGrepHandler,
		ReadRange: rangeHandler,
		FindFiles: findHandler,
		StatPath:  statHandler,
		Status:    statusHandler,
	})

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server error", zap.Error(err))
		os.Exit(1)
	}
}

// setupLogger creates a zap.Logger writing to stderr or a file.
func setupLogger(level string, debug bool, logFile string) *zap.Logger {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	if debug {
		lvl = zapcore.DebugLevel
	}

	output := "stderr"
	if logFile != "" {
		output = logFile
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Encoding:          "json",
		EncoderConfig:     encCfg,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log output %s: %v, falling back to stderr\n", output, err)
		zapCfg.OutputPaths = []string{"stderr"}
		logger, err = zapCfg.Build()
		if err != nil {
			return zap.NewNop()
		}
	}
	return logger
}
