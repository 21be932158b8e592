package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the analyzer configuration, read from hlasm-ls.toml.
type Config struct {
	// LibraryPaths are the directories searched for COPY members and
	// external macros.
	LibraryPaths []string `toml:"library_paths"`
	// BranchCounterLimit overrides the default ACTR limit per scope.
	BranchCounterLimit int32 `toml:"branch_counter_limit"`
	// LogLevel is one of the logrus level names.
	LogLevel string `toml:"log_level"`
}

func Default() *Config {
	return &Config{
		BranchCounterLimit: 4096,
		LogLevel:           "warning",
	}
}

// Load reads path and overlays it on the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("could not load config %s: %w", path, err)
	}
	return cfg, nil
}
