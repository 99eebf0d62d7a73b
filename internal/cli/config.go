package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tmewes/graphsmith/pkg/reconcile"
)

// configFile is the name of the TOML config file inside configDir.
const configFile = "config.toml"

// Config holds user preferences read from ~/.config/graphsmith/config.toml.
// Every field has a working default; the file is optional.
type Config struct {
	// YedPath overrides PATH lookup for the yEd executable.
	YedPath string `toml:"yed_path"`

	// DefaultMode is the bulk-edit mode used when --mode is not given:
	// "obj_and_hierarchy" or "relations".
	DefaultMode string `toml:"default_mode"`

	// PrettyXML indents persisted documents. yEd reads both forms.
	PrettyXML bool `toml:"pretty_xml"`

	// KeepWorkbook leaves session workbooks on disk for inspection.
	KeepWorkbook bool `toml:"keep_workbook"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DefaultMode: string(reconcile.ModeHierarchy),
		PrettyXML:   true,
	}
}

// LoadConfig reads the config file, returning defaults when it is
// absent. A present but malformed file is an error; silently ignoring
// it would mask typos in user preferences.
func LoadConfig() (*Config, error) {
	dir, err := configDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DefaultMode != "" {
		if _, err := parseMode(cfg.DefaultMode); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// parseMode validates a mode string from a flag or the config file.
func parseMode(s string) (reconcile.Mode, error) {
	switch reconcile.Mode(s) {
	case reconcile.ModeHierarchy, reconcile.ModeRelations, reconcile.ModeObjectData:
		return reconcile.Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected %s or %s)",
			s, reconcile.ModeHierarchy, reconcile.ModeRelations)
	}
}
