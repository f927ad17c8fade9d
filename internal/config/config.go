// Package config loads the application configuration from a YAML file,
// falling back to defaults when the file is absent.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything tunable about the engine. All fields have
// sensible defaults; an empty or missing config file is valid.
type Config struct {
	// StateFile is where the session state document lives.
	StateFile string `yaml:"stateFile"`
	// AccessFile is where the folder-token registry lives.
	AccessFile string `yaml:"accessFile"`
	// SaveDelayMS is the debounce window for state writes, in milliseconds.
	SaveDelayMS int `yaml:"saveDelayMs"`
	// ReducedVolume is the initial quiet volume preset in percent, 1..100.
	ReducedVolume int `yaml:"reducedVolume"`

	Log LogConfig `yaml:"log"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// Default returns the built-in configuration, rooted in the user's config
// directory.
func Default() Config {
	dir := configDir()
	return Config{
		StateFile:     filepath.Join(dir, "appstate.json"),
		AccessFile:    filepath.Join(dir, "folders.json"),
		SaveDelayMS:   500,
		ReducedVolume: 30,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration from path, layered over the defaults. An
// empty path loads the default location; a missing file at either returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(configDir(), "config.yaml")
	}
	path = expandHome(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}

	cfg.StateFile = expandHome(cfg.StateFile)
	cfg.AccessFile = expandHome(cfg.AccessFile)
	if cfg.SaveDelayMS <= 0 {
		cfg.SaveDelayMS = 500
	}
	if cfg.ReducedVolume < 1 || cfg.ReducedVolume > 100 {
		cfg.ReducedVolume = 30
	}
	return cfg, nil
}

func configDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "discosaur")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".discosaur"
	}
	return filepath.Join(home, ".discosaur")
}

// expandHome resolves a leading ~/ against the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
