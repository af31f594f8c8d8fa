package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FilePath returns the config file that Load would read, or "" if neither
// config.yaml nor config.toml exists in Dir.
func (c *Config) FilePath() string {
	for _, name := range []string{YAMLFile, TOMLFile} {
		p := filepath.Join(c.Dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// readFile overlays the config file onto c. A missing file is not an error.
func (c *Config) readFile() error {
	path := c.FilePath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	switch filepath.Ext(path) {
	case ".yaml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filepath.Base(path), err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filepath.Base(path), err)
		}
	}
	return nil
}
