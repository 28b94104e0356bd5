package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/chaimleib/antares/types"
)

// Config holds the command defaults. Command-line flags override it.
type Config struct {
	// Ticks is how long `run` simulates when --ticks is not given.
	Ticks int64 `yaml:"ticks"`
	// Speed is the starting clock speed of `play`, as a multiple of real time.
	Speed      int    `yaml:"speed"`
	DBPath     string `yaml:"db"`
	ResultsDir string `yaml:"results_dir"`
	LogLevel   string `yaml:"log_level"`
	Seed       int64  `yaml:"seed"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Ticks:      5 * 60 * types.TicksPerSecond,
		Speed:      1,
		DBPath:     "~/.antares/results.db",
		ResultsDir: "~/.antares/results",
		LogLevel:   "warn",
	}
}

// LoadConfig reads the config.
// Search order: customPath -> ~/.antares/config.yaml -> defaults.
// Keys missing from the file keep their defaults.
func LoadConfig(customPath string) (Config, error) {
	cfg := DefaultConfig()

	path := customPath
	if path == "" {
		path = userConfigPath("config.yaml")
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if customPath == "" && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	if c.Speed < 1 || c.Speed > 16 {
		return fmt.Errorf("speed must be 1 to 16, got %d", c.Speed)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".antares", filename)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// newLogger returns the stderr logger at the configured level.
func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "antares",
		Level:           lvl,
	}), nil
}
