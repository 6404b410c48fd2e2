// Package config loads optional user defaults from a TOML file. Command-line
// flags override anything set here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the user-tunable defaults.
type Config struct {
	Provider string `toml:"provider"`
	PageSize int    `toml:"pagesize"`
	Site     string `toml:"site"`
	Picker   string `toml:"picker"`
}

// Default returns the built-in defaults used when no config file exists.
func Default() Config {
	return Config{
		Provider: "google",
		PageSize: 30,
		Site:     "stackoverflow",
		Picker:   "fzf",
	}
}

// DefaultPath returns the conventional config location,
// $XDG_CONFIG_HOME/fzquery/config.toml (or the platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "fzquery", "config.toml"), nil
}

// Load reads the file at path, falling back to DefaultPath when path is
// empty. A missing file is not an error; it just yields the defaults.
// Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.PageSize <= 0 {
		return cfg, fmt.Errorf("parse %s: pagesize must be positive", path)
	}
	return cfg, nil
}
