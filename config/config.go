package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all server configuration. Values come from FILELENS_*
// environment variables; command-line flags override them in main.
type Config struct {
	Root        string   `envconfig:"ROOT"`
	Gitignore   bool     `envconfig:"GITIGNORE" default:"true"`
	Exclude     []string `envconfig:"EXCLUDE"`
	MaxFileSize int64    `envconfig:"MAX_FILE_SIZE" default:"10485760"`
	Debug       bool     `envconfig:"DEBUG" default:"false"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFile     string   `envconfig:"LOG_FILE"`
}

// Load reads configuration from FILELENS_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("filelens", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Validate enforces the startup contract: the allowed root is required and
// must name an existing directory. The server refuses to start otherwise.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("allowed root directory is required (set -root or FILELENS_ROOT)")
	}
	info, err := os.Stat(c.Root)
	if os.IsNotExist(err) {
		return fmt.Errorf("root directory does not exist: %s", c.Root)
	}
	if err != nil {
		return fmt.Errorf("cannot access root directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path is not a directory: %s", c.Root)
	}
	return nil
}
