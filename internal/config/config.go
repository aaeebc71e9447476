// Package config loads the app configuration from a TOML file, filling in
// defaults for anything the file leaves unset.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/devicetree-tools/dtviz/pkg/errors"
)

// Config holds the user-tunable settings.
type Config struct {
	// DefaultFile is auto-loaded at startup when it exists. Its absence
	// is not an error.
	DefaultFile string `toml:"default_file"`

	// BindingsDir points at a directory of binding YAML schemas used to
	// find phandle reference edges. Optional.
	BindingsDir string `toml:"bindings_dir"`

	// Zoom clamp bounds for the graph camera.
	ZoomMin float64 `toml:"zoom_min"`
	ZoomMax float64 `toml:"zoom_max"`

	// Theme is "light" or "dark".
	Theme string `toml:"theme"`

	// Graph view toggles.
	ShowLabels   bool `toml:"show_labels"`
	ShowRefEdges bool `toml:"show_ref_edges"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ZoomMin:      0.1,
		ZoomMax:      8.0,
		Theme:        "light",
		ShowLabels:   true,
		ShowRefEdges: true,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfig, err, "resolving user config directory")
	}
	return filepath.Join(dir, "dtviz", "config.toml"), nil
}

// Load reads an explicitly named config file. The file must exist.
func Load(path string) (Config, error) {
	return load(path, true)
}

// LoadDefault reads the config from the default location. A missing file
// yields the defaults silently.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), err
	}
	return load(path, false)
}

func load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeConfig, err, "reading config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrap(errors.ErrCodeConfig, err, "parsing config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ZoomMin <= 0 {
		return errors.New(errors.ErrCodeConfig, "zoom_min must be positive, got %v", c.ZoomMin)
	}
	if c.ZoomMax < c.ZoomMin {
		return errors.New(errors.ErrCodeConfig, "zoom_max %v below zoom_min %v", c.ZoomMax, c.ZoomMin)
	}
	return nil
}
