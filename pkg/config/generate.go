package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dolink/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// Generate renders cfg as a TOML config file.
func Generate(cfg *Config) ([]byte, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	header := []byte("# dolink configuration\n# See `dolink help config` for every key.\n\n")
	return append(header, out...), nil
}

// WriteUserConfig writes cfg to path, refusing to overwrite unless force.
func WriteUserConfig(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Newf(errors.ErrInvalidInput, "%s already exists (use --force to overwrite)", path).
			WithDetail("path", path)
	}
	data, err := Generate(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
