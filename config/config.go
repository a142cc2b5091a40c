// Package config loads the CLI's optional user-level defaults file, parsed
// with the same TOML library the teacher vendors for its own configuration
// (github.com/BurntSushi/toml) — distinct from metadata.LoadConventionsFile,
// which parses a per-product conventions.toml describing record hierarchies
// rather than CLI defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"microtab/core"
)

// Defaults holds the values the CLIs fall back to: tab uses DataRoot and
// OutputFormat when -d/--data-root or -f/--format is omitted, and request
// uses them when the request JSON leaves data_root or output_format empty.
// Product is parsed but neither CLI reads it.
type Defaults struct {
	DataRoot     string `toml:"data_root"`
	Product      string `toml:"product"`
	OutputFormat string `toml:"output_format"`
}

// DefaultPath returns the conventional config file location: $MICROTAB_CONFIG
// if set, else "$HOME/.config/microtab/config.toml".
func DefaultPath() string {
	if p := os.Getenv("MICROTAB_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "microtab", "config.toml")
}

// Load parses a Defaults file at path. A missing file is not an error: it
// returns the zero Defaults, since every field has a usable empty-string
// fallback at the call site.
func Load(path string) (*Defaults, error) {
	if path == "" {
		return &Defaults{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Defaults{}, nil
	}

	var d Defaults
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return nil, core.WrapError(core.ParseError, path, err, "parse config file")
	}
	return &d, nil
}
