// Package config loads difftview's settings from a TOML file and the environment.
//
// Precedence, lowest first: built-in defaults, the config file, DIFFTVIEW_* environment variables. Command-line flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables read by Load and LoadFromFile.
const (
	EnvConfig  = "DIFFTVIEW_CONFIG" // path of the config file, overriding the default location
	EnvVCS     = "DIFFTVIEW_VCS"
	EnvDifft   = "DIFFTVIEW_DIFFT"
	EnvWorkers = "DIFFTVIEW_WORKERS"
)

// Config holds application configuration.
type Config struct {
	VCS     string `toml:"vcs"`     // "git" or "jj"
	Difft   string `toml:"difft"`   // difftastic program
	Workers int    `toml:"workers"` // files processed in parallel; 0 means GOMAXPROCS
	Format  string `toml:"format"`  // "json", "term", or "" to pick by whether stdout is a terminal

	Context        int    `toml:"context"`          // unchanged rows shown around each hunk in the terminal view; < 0 shows all
	TabWidth       int    `toml:"tab_width"`        // terminal view tab stops
	EastAsianWidth bool   `toml:"east_asian_width"` // treat ambiguous-width characters as wide
	EmojiWide      bool   `toml:"emoji_wide"`       // with east_asian_width, also treat emoji as wide
	Colors         Colors `toml:"colors"`
}

// Colors are terminal view background colors as hex strings. Empty values use the built-in theme.
type Colors struct {
	Added       string `toml:"added"`
	Removed     string `toml:"removed"`
	AddedEmph   string `toml:"added_emph"`
	RemovedEmph string `toml:"removed_emph"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		VCS:      "git",
		Difft:    "difft",
		Context:  3,
		TabWidth: 4,
	}
}

// Path returns the config file location: $DIFFTVIEW_CONFIG if set, else ~/.config/difftview/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "difftview", "config.toml"), nil
}

// Load loads the config file from the standard location, then applies environment overrides. If there is no home directory or no file, defaults are used.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return LoadFromFile(path)
}

// LoadFromFile loads config from path, then applies environment overrides. A missing file yields defaults. Unknown keys are errors.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, fmt.Errorf("failed to parse config file %s: %s", path, strict.String())
			}
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvVCS); v != "" {
		c.VCS = v
	}
	if v := os.Getenv(EnvDifft); v != "" {
		c.Difft = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", EnvWorkers, v)
		}
		c.Workers = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.VCS {
	case "git", "jj":
	default:
		return fmt.Errorf("vcs must be git or jj, got %q", c.VCS)
	}
	switch c.Format {
	case "", "json", "term":
	default:
		return fmt.Errorf("format must be json or term, got %q", c.Format)
	}
	if c.Difft == "" {
		return errors.New("difft must not be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.TabWidth <= 0 {
		return fmt.Errorf("tab_width must be > 0, got %d", c.TabWidth)
	}
	return nil
}
